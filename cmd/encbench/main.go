package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/amplora/encoders/benchmark"
	"github.com/amplora/encoders/jsonenc"
	"github.com/google/uuid"
)

func main() {
	err := mainReal()
	if err != nil {
		os.Stderr.Write([]byte(err.Error() + "\n"))
		os.Exit(-1)
	}
}

func mainReal() error {
	outFile := flag.String("out", "perf.json", "path the perf report is written to")
	timeout := flag.Duration("timeout", time.Hour, "overall budget for the whole run")
	benchPat := flag.String("bench", "", "only run cases whose name contains this substring")
	flag.Parse()

	fmt.Println("run", uuid.New().String())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results := benchmark.RunMatching(ctx, *benchPat)

	perf := []interface{}{}
	failures := 0
	for _, res := range results {
		if res.HasErrors() {
			failures++
		}
		docs, err := res.PerfFormat()
		if err != nil {
			return fmt.Errorf("cannot render results for %s: %s", res.Name, err)
		}
		perf = append(perf, docs...)
	}

	// The report is written with this module's own encoder.
	enc := jsonenc.NewBuilder().
		RegisterObjectEncoder(reflect.TypeOf(benchmark.Metric{}), jsonenc.NewStructEncoder()).
		Build()

	f, err := os.Create(*outFile)
	if err != nil {
		return fmt.Errorf("cannot create report file (%s) because: %s", *outFile, err)
	}
	if err := enc.Encode(perf, f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write report: %s", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println("wrote perf report to", *outFile)

	if failures > 0 {
		return fmt.Errorf("%d of %d cases failed", failures, len(results))
	}

	return nil
}
