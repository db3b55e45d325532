package benchmark

import (
	"context"
	"errors"
	"reflect"

	"github.com/amplora/encoders"
	"github.com/amplora/encoders/jsonenc"
)

type measurement struct {
	unit  string
	value float64
	tags  []string
}

var measurementEncoder = encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
	m, ok := v.(measurement)
	if !ok {
		return encoders.NewEncodingErrorf("expected a measurement, got %T", v)
	}
	ctx.AddString("unit", m.unit).
		AddFloat64("value", m.value).
		Add("tags", m.tags)
	return nil
})

type interval struct {
	lo, hi float64
}

func (iv interval) EncodeArray(ctx encoders.ValueEncoderContext) error {
	ctx.AddFloat64Value(iv.lo).AddFloat64Value(iv.hi)
	return nil
}

// JSONCustomEncoderEncoding measures the registry path: a document whose
// elements alternate between a registered ObjectEncoder and an
// ArrayMarshaler implementation.
func JSONCustomEncoderEncoding(_ context.Context, tm TimerManager, iters int) error {
	enc := jsonenc.NewBuilder().
		RegisterObjectEncoder(reflect.TypeOf(measurement{}), measurementEncoder).
		Build()

	r := corpusRand()
	docs := make([]interface{}, 64)
	for i := range docs {
		if i%2 == 0 {
			docs[i] = measurement{
				unit:  randomString(r, 4),
				value: r.Float64() * 100,
				tags:  []string{randomString(r, 6), randomString(r, 6)},
			}
		} else {
			docs[i] = interval{lo: r.Float64(), hi: 1 + r.Float64()}
		}
	}

	tm.ResetTimer()
	for i := 0; i < iters; i++ {
		out, err := enc.EncodeToString(docs)
		if err != nil {
			return err
		}
		if len(out) == 0 {
			return errors.New("encoding failed")
		}
	}

	return nil
}
