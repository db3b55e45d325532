package jsonenc

import (
	"container/list"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amplora/encoders"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func noerr(t *testing.T, err error) {
	if err != nil {
		t.Helper()
		t.Errorf("Unexpected error: %v", err)
		t.FailNow()
	}
}

type errWriter struct {
	err error
}

func (ew errWriter) Write([]byte) (int, error) { return 0, ew.err }

type point struct {
	X, Y int
}

var pointEncoder = encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
	p, ok := v.(point)
	if !ok {
		return encoders.NewEncodingErrorf("expected a point, got %T", v)
	}
	ctx.AddInt("x", p.X).AddInt("y", p.Y)
	return nil
})

type celsius float64

var celsiusEncoder = encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
	c, ok := v.(celsius)
	if !ok {
		return encoders.NewEncodingErrorf("expected a celsius, got %T", v)
	}
	ctx.AddFloat64Value(float64(c))
	return nil
})

type leaseState int

const (
	leasePending leaseState = iota
	leaseActive
)

func (ls leaseState) String() string {
	if ls == leaseActive {
		return "ACTIVE"
	}
	return "PENDING"
}

type priority int

type label string

type flag bool

type blob []byte

// pair encodes itself as a two-element array.
type pair struct {
	First, Second int
}

func (p pair) EncodeArray(ctx encoders.ValueEncoderContext) error {
	ctx.AddIntValue(p.First).AddIntValue(p.Second)
	return nil
}

// window encodes itself as an array through a pointer receiver.
type window struct {
	lo, hi int
}

func (w *window) EncodeArray(ctx encoders.ValueEncoderContext) error {
	ctx.AddIntValue(w.lo)
	ctx.AddIntValue(w.hi)
	return nil
}

func TestEncodeValues(t *testing.T) {
	intp := func(i int) *int { return &i }

	nested := list.New()
	nested.PushBack(1)
	nested.PushBack("two")
	nested.PushBack(true)

	enc := NewBuilder().
		RegisterObjectEncoder(reflect.TypeOf(point{}), pointEncoder).
		RegisterValueEncoder(reflect.TypeOf(celsius(0)), celsiusEncoder).
		Build()

	testCases := []struct {
		name string
		val  interface{}
		want string
	}{
		{"nil", nil, `null`},
		{"bool true", true, `true`},
		{"bool false", false, `false`},
		{"string", "hello", `"hello"`},
		{"string escaped", "a\"b\\c\nd", `"a\"b\\c\nd"`},
		{"int", 42, `42`},
		{"int negative", -13, `-13`},
		{"int large", int(1) << 40, `1099511627776`},
		{"int8", int8(-7), `-7`},
		{"int16", int16(300), `300`},
		{"int32", int32(70000), `70000`},
		{"int64", int64(math.MaxInt64), `9223372036854775807`},
		{"uint", uint(9), `9`},
		{"uint8", uint8(255), `255`},
		{"uint16", uint16(65535), `65535`},
		{"uint32", uint32(math.MaxUint32), `4294967295`},
		{"uint64", uint64(math.MaxInt64), `9223372036854775807`},
		{"float64", 3.5, `3.5`},
		{"float64 whole", float64(100), `100`},
		{"float64 big exponent", 1e21, `1e+21`},
		{"float64 small exponent", 1e-7, `1e-7`},
		{"float32", float32(2.5), `2.5`},
		{"json.Number int", json.Number("42"), `42`},
		{"json.Number float", json.Number("3.14"), `3.14`},
		{"bytes", []byte("hello"), `"aGVsbG8="`},
		{"bytes empty", []byte{}, `""`},
		{"bytes nil", []byte(nil), `null`},
		{"named byte slice", blob{1, 2}, `"AQI="`},
		{"byte array", [4]byte{1, 2, 3, 4}, `[1,2,3,4]`},
		{"int slice", []int{1, 2, 3}, `[1,2,3]`},
		{"int64 slice", []int64{4, 5}, `[4,5]`},
		{"float64 slice", []float64{1.5, 2.5}, `[1.5,2.5]`},
		{"bool slice", []bool{true, false}, `[true,false]`},
		{"json.Number slice", []json.Number{json.Number("1"), json.Number("2.5")}, `[1,2.5]`},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"interface slice", []interface{}{1, "a", true, nil}, `[1,"a",true,null]`},
		{"nested slices", [][]int{{1}, {2, 3}}, `[[1],[2,3]]`},
		{"empty slice", []int{}, `[]`},
		{"nil slice", []int(nil), `null`},
		{"string array", [2]string{"x", "y"}, `["x","y"]`},
		{"map sorted", map[string]interface{}{"b": 2, "a": 1, "c": 3}, `{"a":1,"b":2,"c":3}`},
		{"map empty", map[string]int{}, `{}`},
		{"map nil", map[string]int(nil), `null`},
		{"map named string keys", map[label]int{"beta": 2, "alpha": 1}, `{"alpha":1,"beta":2}`},
		{"map interface keys", map[interface{}]interface{}{"k": 1}, `{"k":1}`},
		{"map nested", map[string]interface{}{"outer": map[string]interface{}{"inner": true}}, `{"outer":{"inner":true}}`},
		{"list", nested, `[1,"two",true]`},
		{"list empty", list.New(), `[]`},
		{"list nil", (*list.List)(nil), `null`},
		{"pointer", intp(5), `5`},
		{"pointer nil", (*int)(nil), `null`},
		{"pointer to registered type", &point{1, 2}, `{"x":1,"y":2}`},
		{"time", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), `"2020-01-02T03:04:05Z"`},
		{"time with nanos", time.Date(2020, 1, 2, 3, 4, 5, 600000000, time.UTC), `"2020-01-02T03:04:05.6Z"`},
		{"url", url.URL{Scheme: "https", Host: "example.com", Path: "/a", RawQuery: "b=1"}, `"https://example.com/a?b=1"`},
		{"uuid string", uuid.MustParse("0f0c1f3e-5a7b-4f3e-8e3d-2b1a0c9d8e7f").String(), `"0f0c1f3e-5a7b-4f3e-8e3d-2b1a0c9d8e7f"`},
		{"object encoder", point{1, 2}, `{"x":1,"y":2}`},
		{"value encoder", celsius(36.6), `36.6`},
		{"enum with Stringer", leaseActive, `"ACTIVE"`},
		{"enum zero value", leasePending, `"PENDING"`},
		{"named int without Stringer", priority(7), `7`},
		{"named string", label("tag"), `"tag"`},
		{"named bool", flag(true), `true`},
		{"array marshaler", pair{1, 2}, `[1,2]`},
		{"array marshaler pointer receiver", &window{3, 9}, `[3,9]`},
		{"registered types in containers", []interface{}{point{1, 2}, celsius(4)}, `[{"x":1,"y":2},4]`},
		{"registered types as map values", map[string]interface{}{"p": point{3, 4}}, `{"p":{"x":3,"y":4}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := enc.EncodeToString(tc.val)
			noerr(t, err)
			if got != tc.want {
				t.Errorf("Encoded JSON does not match. got %s; want %s", got, tc.want)
				spew.Dump(tc.val)
			}
		})
	}
}

func TestEncodeValueErrors(t *testing.T) {
	enc := NewBuilder().Build()

	t.Run("unregistered struct", func(t *testing.T) {
		_, err := enc.EncodeToString(point{1, 2})
		require.EqualError(t, err, "couldn't find encoder for type jsonenc.point")
	})
	t.Run("unsupported kind", func(t *testing.T) {
		_, err := enc.EncodeToString(make(chan int))
		require.EqualError(t, err, "couldn't find encoder for type chan int")
	})
	t.Run("non-string map key", func(t *testing.T) {
		_, err := enc.EncodeToString(map[int]string{1: "a"})
		require.EqualError(t, err, "only string keys are supported in maps, got 1 of type int instead: int is not a string")

		var ee *encoders.EncodingError
		require.True(t, errors.As(err, &ee))
		require.NotNil(t, ee.Inner())
	})
	t.Run("uint64 overflow", func(t *testing.T) {
		_, err := enc.EncodeToString(uint64(math.MaxUint64))
		require.EqualError(t, err, "18446744073709551615 overflows int64")
	})
	t.Run("invalid json.Number", func(t *testing.T) {
		_, err := enc.EncodeToString(json.Number("forty-two"))
		require.Error(t, err)
		require.Contains(t, err.Error(), `"forty-two" is not a valid JSON number`)
	})
	t.Run("NaN", func(t *testing.T) {
		_, err := enc.EncodeToString(math.NaN())
		require.EqualError(t, err, "double value (NaN) has no JSON representation")
	})
	t.Run("positive infinity", func(t *testing.T) {
		_, err := enc.EncodeToString(math.Inf(1))
		require.EqualError(t, err, "double value (+Inf) has no JSON representation")
	})
	t.Run("NaN inside a document", func(t *testing.T) {
		_, err := enc.EncodeToString(map[string]interface{}{"x": math.NaN()})
		require.EqualError(t, err, "double value (NaN) has no JSON representation")
	})
	t.Run("cyclic graph", func(t *testing.T) {
		m := map[string]interface{}{}
		m["self"] = m
		_, err := enc.EncodeToString(m)
		require.EqualError(t, err, "exceeded max allowed object depth")
	})
}

func TestEncodeIOErrors(t *testing.T) {
	enc := NewBuilder().Build()
	wantErr := errors.New("write failed")

	t.Run("document flush", func(t *testing.T) {
		err := enc.Encode(map[string]int{"a": 1}, errWriter{err: wantErr})
		if err != wantErr {
			t.Errorf("Errors do not match. got %v; want %v", err, wantErr)
		}
	})
	t.Run("scalar flush", func(t *testing.T) {
		err := enc.Encode(42, errWriter{err: wantErr})
		if err != wantErr {
			t.Errorf("Errors do not match. got %v; want %v", err, wantErr)
		}
	})
}

func TestRegistryDispatch(t *testing.T) {
	t.Run("ObjectEncoder beats ValueEncoder", func(t *testing.T) {
		bare := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddStringValue("bare")
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(point{}), bare).
			RegisterObjectEncoder(reflect.TypeOf(point{}), pointEncoder).
			Build()

		got, err := enc.EncodeToString(point{1, 2})
		noerr(t, err)
		if want := `{"x":1,"y":2}`; got != want {
			t.Errorf("Encoded JSON does not match. got %s; want %s", got, want)
		}
	})
	t.Run("registration beats Stringer", func(t *testing.T) {
		numeric := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddIntValue(int(v.(leaseState)))
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(leaseState(0)), numeric).
			Build()

		got, err := enc.EncodeToString(leaseActive)
		noerr(t, err)
		if want := `1`; got != want {
			t.Errorf("Encoded JSON does not match. got %s; want %s", got, want)
		}
	})
	t.Run("string override reaches slice elements", func(t *testing.T) {
		upper := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddStringValue(strings.ToUpper(v.(string)))
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(""), upper).
			Build()

		got, err := enc.EncodeToString([]string{"ab", "cd"})
		noerr(t, err)
		if want := `["AB","CD"]`; got != want {
			t.Errorf("Encoded JSON does not match. got %s; want %s", got, want)
		}
	})
	t.Run("bool override reaches map values", func(t *testing.T) {
		verbose := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			if v.(bool) {
				ctx.AddStringValue("yes")
			} else {
				ctx.AddStringValue("no")
			}
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(false), verbose).
			Build()

		got, err := enc.EncodeToString(map[string]interface{}{"ok": true})
		noerr(t, err)
		if want := `{"ok":"yes"}`; got != want {
			t.Errorf("Encoded JSON does not match. got %s; want %s", got, want)
		}
	})
	t.Run("container shapes are not overridable", func(t *testing.T) {
		unused := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddStringValue("should not run")
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf([]int(nil)), unused).
			RegisterValueEncoder(reflect.TypeOf(map[string]int(nil)), unused).
			Build()

		got, err := enc.EncodeToString([]int{1, 2})
		noerr(t, err)
		require.Equal(t, `[1,2]`, got)

		got, err = enc.EncodeToString(map[string]int{"a": 1})
		noerr(t, err)
		require.Equal(t, `{"a":1}`, got)
	})
}

func TestEncoderContexts(t *testing.T) {
	t.Run("field order follows call order", func(t *testing.T) {
		ordered := encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
			ctx.AddString("z", "first").
				AddInt("a", 2).
				AddBool("m", true).
				AddFloat64("f", 1.5).
				AddInt64("n", 9).
				AddBytes("b", []byte{1}).
				Add("v", nil)
			return nil
		})
		enc := NewBuilder().
			RegisterObjectEncoder(reflect.TypeOf(point{}), ordered).
			Build()

		got, err := enc.EncodeToString(point{})
		noerr(t, err)
		want := `{"z":"first","a":2,"m":true,"f":1.5,"n":9,"b":"AQ==","v":null}`
		if got != want {
			t.Errorf("Encoded JSON does not match. got %s; want %s", got, want)
		}
	})
	t.Run("empty object", func(t *testing.T) {
		empty := encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
			return nil
		})
		enc := NewBuilder().
			RegisterObjectEncoder(reflect.TypeOf(point{}), empty).
			Build()

		got, err := enc.EncodeToString(point{})
		noerr(t, err)
		require.Equal(t, `{}`, got)
	})
	t.Run("nested registered types", func(t *testing.T) {
		type segment struct {
			from, to point
		}
		segmentEncoder := encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
			s := v.(segment)
			ctx.Add("from", s.from).Add("to", s.to)
			return nil
		})
		enc := NewBuilder().
			RegisterObjectEncoder(reflect.TypeOf(point{}), pointEncoder).
			RegisterObjectEncoder(reflect.TypeOf(segment{}), segmentEncoder).
			Build()

		got, err := enc.EncodeToString(segment{from: point{1, 2}, to: point{3, 4}})
		noerr(t, err)
		want := `{"from":{"x":1,"y":2},"to":{"x":3,"y":4}}`
		if got != want {
			t.Errorf("Encoded JSON does not match. got %s; want %s", got, want)
		}
	})
	t.Run("encoder errors propagate unchanged", func(t *testing.T) {
		wantErr := errors.New("boom")
		failing := encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
			return wantErr
		})
		enc := NewBuilder().
			RegisterObjectEncoder(reflect.TypeOf(point{}), failing).
			Build()

		_, err := enc.EncodeToString(point{})
		if err != wantErr {
			t.Errorf("Errors do not match. got %v; want %v", err, wantErr)
		}
	})
	t.Run("first fluent failure sticks", func(t *testing.T) {
		var after bool
		sticky := encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
			ctx.Add("bad", make(chan int)).AddString("later", "x")
			after = true
			return nil
		})
		enc := NewBuilder().
			RegisterObjectEncoder(reflect.TypeOf(point{}), sticky).
			Build()

		_, err := enc.EncodeToString(point{})
		require.EqualError(t, err, "couldn't find encoder for type chan int")
		require.True(t, after, "fluent calls after a failure must not panic")
	})
	t.Run("fluent failure wins over returned error", func(t *testing.T) {
		late := errors.New("reported afterwards")
		sticky := encoders.ObjectEncoderFunc(func(v interface{}, ctx encoders.ObjectEncoderContext) error {
			ctx.Add("bad", make(chan int))
			return late
		})
		enc := NewBuilder().
			RegisterObjectEncoder(reflect.TypeOf(point{}), sticky).
			Build()

		_, err := enc.EncodeToString(point{})
		require.EqualError(t, err, "couldn't find encoder for type chan int")
	})
	t.Run("value encoder writes exactly one value", func(t *testing.T) {
		greedy := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddIntValue(1).AddIntValue(2)
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(celsius(0)), greedy).
			Build()

		_, err := enc.EncodeToString(celsius(1))
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid state transition")
	})
	t.Run("value encoder null and bytes helpers", func(t *testing.T) {
		null := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddNullValue()
			return nil
		})
		enc := NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(celsius(0)), null).
			Build()

		got, err := enc.EncodeToString(celsius(1))
		noerr(t, err)
		require.Equal(t, `null`, got)

		bytes := encoders.ValueEncoderFunc(func(v interface{}, ctx encoders.ValueEncoderContext) error {
			ctx.AddBytesValue(nil)
			return nil
		})
		enc = NewBuilder().
			RegisterValueEncoder(reflect.TypeOf(celsius(0)), bytes).
			Build()

		got, err = enc.EncodeToString(celsius(1))
		noerr(t, err)
		require.Equal(t, `null`, got)
	})
	t.Run("array marshaler failure aborts", func(t *testing.T) {
		wantErr := errors.New("ring torn")
		enc := NewBuilder().Build()

		_, err := enc.EncodeToString(failingMarshaler{err: wantErr})
		if err != wantErr {
			t.Errorf("Errors do not match. got %v; want %v", err, wantErr)
		}
	})
}

type failingMarshaler struct {
	err error
}

func (fm failingMarshaler) EncodeArray(ctx encoders.ValueEncoderContext) error {
	return fm.err
}
