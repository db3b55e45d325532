package benchmark

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/amplora/encoders/jsonenc"
)

// flatRecord is the struct rendition of the flat document corpus. The
// untagged variant measures field-name pass-through; flatRecordTags
// measures tag parsing, renames, and omitempty checks.
type flatRecord struct {
	ID        string
	Region    string
	Enabled   bool
	Retries   int
	Limit     int64
	Ratio     float64
	CreatedAt time.Time
	Hosts     []string
	Weights   []float64
	Counters  []int64
	Notes     string
	Checksum  []byte
}

type flatRecordTags struct {
	ID        string    `json:"id"`
	Region    string    `json:"region"`
	Enabled   bool      `json:"enabled"`
	Retries   int       `json:"retries,omitempty"`
	Limit     int64     `json:"limit,omitempty"`
	Ratio     float64   `json:"ratio"`
	CreatedAt time.Time `json:"created_at"`
	Hosts     []string  `json:"hosts,omitempty"`
	Weights   []float64 `json:"weights,omitempty"`
	Counters  []int64   `json:"counters,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Checksum  []byte    `json:"checksum,omitempty"`
}

func makeFlatRecord() flatRecord {
	r := corpusRand()

	hosts := make([]string, 16)
	weights := make([]float64, 16)
	counters := make([]int64, 16)
	for i := 0; i < 16; i++ {
		hosts[i] = randomString(r, 12)
		weights[i] = r.Float64()
		counters[i] = r.Int63n(1 << 30)
	}
	checksum := make([]byte, 32)
	r.Read(checksum)

	return flatRecord{
		ID:        randomUUID(r),
		Region:    randomString(r, 10),
		Enabled:   true,
		Retries:   r.Intn(10),
		Limit:     r.Int63n(1 << 40),
		Ratio:     r.Float64(),
		CreatedAt: time.Unix(r.Int63n(1<<31), 0).UTC(),
		Hosts:     hosts,
		Weights:   weights,
		Counters:  counters,
		Notes:     randomString(r, 120),
		Checksum:  checksum,
	}
}

func jsonStructEncoding(tm TimerManager, iters int, doc interface{}) error {
	enc := jsonenc.NewBuilder().
		RegisterObjectEncoder(reflect.TypeOf(doc), jsonenc.NewStructEncoder()).
		Build()

	tm.ResetTimer()
	for i := 0; i < iters; i++ {
		out, err := enc.EncodeToString(doc)
		if err != nil {
			return err
		}
		if len(out) == 0 {
			return errors.New("encoding failed")
		}
	}

	return nil
}

func JSONFlatStructEncoding(_ context.Context, tm TimerManager, iters int) error {
	return jsonStructEncoding(tm, iters, makeFlatRecord())
}

func JSONFlatStructTagsEncoding(_ context.Context, tm TimerManager, iters int) error {
	r := makeFlatRecord()
	return jsonStructEncoding(tm, iters, flatRecordTags(r))
}
