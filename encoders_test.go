package encoders

import (
	"errors"
	"fmt"
	"testing"
)

func TestEncoderFuncs(t *testing.T) {
	t.Run("ObjectEncoderFunc calls the underlying function", func(t *testing.T) {
		var called bool
		var gotV interface{}
		fn := ObjectEncoderFunc(func(v interface{}, ctx ObjectEncoderContext) error {
			called = true
			gotV = v
			return nil
		})
		err := fn.Encode("value", nil)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if !called {
			t.Errorf("Expected the adapted function to be called")
		}
		if gotV != "value" {
			t.Errorf("Adapted function received wrong value. got %v; want %v", gotV, "value")
		}
	})
	t.Run("ValueEncoderFunc propagates errors", func(t *testing.T) {
		want := errors.New("encode failed")
		fn := ValueEncoderFunc(func(v interface{}, ctx ValueEncoderContext) error {
			return want
		})
		got := fn.Encode(nil, nil)
		if got != want {
			t.Errorf("Errors do not match. got %v; want %v", got, want)
		}
	})
}

func TestEncodingError(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := NewEncodingError("couldn't find encoder for type foo.Bar")
		if got, want := err.Error(), "couldn't find encoder for type foo.Bar"; got != want {
			t.Errorf("Error string does not match. got %v; want %v", got, want)
		}
		if err.Inner() != nil {
			t.Errorf("Expected no inner error. got %v", err.Inner())
		}
	})
	t.Run("formatted message", func(t *testing.T) {
		err := NewEncodingErrorf("couldn't find encoder for type %s", "foo.Baz")
		if got, want := err.Error(), "couldn't find encoder for type foo.Baz"; got != want {
			t.Errorf("Error string does not match. got %v; want %v", got, want)
		}
	})
	t.Run("wrapped cause", func(t *testing.T) {
		inner := errors.New("int is not a string")
		err := WrapEncodingError(inner, "only string keys are supported in maps, got %v of type %T instead", 42, 42)
		wantMsg := "only string keys are supported in maps, got 42 of type int instead"
		if got := err.Message(); got != wantMsg {
			t.Errorf("Message does not match. got %v; want %v", got, wantMsg)
		}
		if got := err.Inner(); got != inner {
			t.Errorf("Inner error does not match. got %v; want %v", got, inner)
		}
		wantFull := wantMsg + ": " + inner.Error()
		if got := err.Error(); got != wantFull {
			t.Errorf("Error string does not match. got %v; want %v", got, wantFull)
		}
	})
	t.Run("unwraps to the cause", func(t *testing.T) {
		inner := errors.New("the cause")
		err := WrapEncodingError(inner, "outer")
		if !errors.Is(err, inner) {
			t.Errorf("errors.Is should reach the inner error through Unwrap")
		}
		var ee *EncodingError
		if !errors.As(err, &ee) {
			t.Errorf("errors.As should match *EncodingError")
		}
	})
}

func TestIsEncodingError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"direct", NewEncodingError("no encoder"), true},
		{"wrapped by fmt", fmt.Errorf("while encoding field a: %w", NewEncodingError("no encoder")), true},
		{"unrelated", errors.New("disk full"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEncodingError(tc.err); got != tc.want {
				t.Errorf("IsEncodingError returned the wrong result. got %v; want %v", got, tc.want)
			}
		})
	}
}
