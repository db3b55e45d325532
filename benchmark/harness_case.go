package benchmark

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"
)

type CaseDefinition struct {
	Bench   BenchCase
	Count   int
	Size    int
	Runtime time.Duration

	startAt    time.Time
	trialStart time.Time
	elapsed    time.Duration
	isRunning  bool
}

// ResetTimer implements TimerManager for standalone runs: a case calls it
// after its setup so the setup cost is excluded from the trial.
func (c *CaseDefinition) ResetTimer() {
	c.trialStart = time.Now()
	c.elapsed = 0
	c.isRunning = true
}

// StartTimer restarts the trial clock after a StopTimer.
func (c *CaseDefinition) StartTimer() {
	c.trialStart = time.Now()
	c.isRunning = true
}

// StopTimer pauses the trial clock. Per-iteration work bracketed by
// StopTimer and StartTimer does not count against the case.
func (c *CaseDefinition) StopTimer() {
	if !c.isRunning {
		return
	}
	c.elapsed += time.Since(c.trialStart)
	c.isRunning = false
}

func (c *CaseDefinition) Run(ctx context.Context) *BenchResult {
	out := &BenchResult{
		Trials:     1,
		DataSize:   c.Size,
		Name:       c.Name(),
		Operations: c.Count,
	}
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, ExecutionTimeout)
	defer cancel()

	fmt.Println("=== RUN", out.Name)
	c.startAt = time.Now()
	for {
		if time.Since(c.startAt) > c.Runtime {
			if out.Trials >= MinIterations {
				break
			} else if ctx.Err() != nil {
				break
			}
		}

		res := Result{
			Iterations: c.Count,
		}
		c.ResetTimer()
		res.Error = c.Bench(ctx, c, c.Count)
		c.StopTimer()
		res.Duration = c.elapsed

		if res.Error == context.Canceled {
			break
		}

		out.Trials++
		out.Raw = append(out.Raw, res)
	}
	out.Duration = time.Since(c.startAt)
	if out.HasErrors() {
		fmt.Printf("--- FAIL: %s (%s)\n", out.Name, out.Duration.Round(time.Millisecond))
		for _, msg := range out.errReport() {
			fmt.Println("    error:", msg)
		}
	} else {
		fmt.Printf("--- PASS: %s (%s)\n", out.Name, out.Duration.Round(time.Millisecond))
	}

	return out

}

func (c *CaseDefinition) String() string {
	return fmt.Sprintf("name=%s, count=%d, runtime=%s timeout=%s",
		c.Name(), c.Count, c.Runtime, ExecutionTimeout)
}

func (c *CaseDefinition) Name() string { return getName(c.Bench) }

func getName(i interface{}) string {
	n := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	parts := strings.Split(n, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}

	return n

}
