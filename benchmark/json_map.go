package benchmark

import (
	"bytes"
	"context"
	"errors"

	"github.com/amplora/encoders/jsonenc"
)

func jsonMapEncoding(tm TimerManager, iters int, doc map[string]interface{}) error {
	enc := jsonenc.NewBuilder().Build()

	var buf bytes.Buffer
	tm.ResetTimer()
	for i := 0; i < iters; i++ {
		buf.Reset()
		if err := enc.Encode(doc, &buf); err != nil {
			return err
		}
		if buf.Len() == 0 {
			return errors.New("encoding failed")
		}
	}

	return nil
}

func JSONFlatMapEncoding(_ context.Context, tm TimerManager, iters int) error {
	return jsonMapEncoding(tm, iters, makeFlatDocument())
}

func JSONDeepMapEncoding(_ context.Context, tm TimerManager, iters int) error {
	return jsonMapEncoding(tm, iters, makeDeepDocument())
}

func JSONLargeArrayEncoding(_ context.Context, tm TimerManager, iters int) error {
	return jsonMapEncoding(tm, iters, makeLargeArrayDocument())
}

func JSONBytesEncoding(_ context.Context, tm TimerManager, iters int) error {
	return jsonMapEncoding(tm, iters, makeBytesDocument())
}
