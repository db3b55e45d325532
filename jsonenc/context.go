package jsonenc

import (
	"container/list"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/amplora/encoders"
	"github.com/amplora/encoders/jsonrw"
	"github.com/pkg/errors"
)

// maxEncodeDepth bounds the recursion of the dispatch so that cyclic object
// graphs fail with an error instead of exhausting the stack.
const maxEncodeDepth = 1000

// ArrayMarshaler is implemented by types that encode themselves as the
// elements of a JSON array. The dispatch opens and closes the array; the
// EncodeArray method appends elements through the bare-value Add methods
// on ctx.
//
// ArrayMarshaler is consulted ahead of the registries, like the other
// collection shapes, and only for values whose kind is not already a
// slice, an array, or a map.
type ArrayMarshaler interface {
	EncodeArray(ctx encoders.ValueEncoderContext) error
}

var _ encoders.ObjectEncoderContext = (*encoderContext)(nil)
var _ encoders.ValueEncoderContext = (*encoderContext)(nil)

// encoderContext is the dispatch state for a single Encode call. It
// implements both fluent context interfaces; which family of methods is
// usable at any moment depends on which writer field is set. A context is
// single use and not goroutine safe.
//
// The context records the first failure and makes every later fluent call a
// no-op; the Encode call that created the context reports the recorded
// failure.
type encoderContext struct {
	objectEncoders map[reflect.Type]encoders.ObjectEncoder
	valueEncoders  map[reflect.Type]encoders.ValueEncoder

	dw jsonrw.DocumentWriter // open object, the named Add family writes here
	aw jsonrw.ArrayWriter    // open array, bare Adds append elements here
	vw jsonrw.ValueWriter    // pending single value slot

	depth int
	err   error
}

// encodeValue writes v to vw, dispatching on v's runtime type. The checks
// run in a fixed order: nil, numbers, byte slices, other slices and arrays,
// lists and array marshalers, string-keyed maps, the ObjectEncoder
// registry, the ValueEncoder registry, the Stringer fallback for named
// constant kinds, and last the plain kind fallbacks. Collection shapes are
// consumed before the registries, so a registration for one of them is
// never consulted.
func (ctx *encoderContext) encodeValue(vw jsonrw.ValueWriter, v interface{}) error {
	if ctx.depth >= maxEncodeDepth {
		return encoders.NewEncodingError("exceeded max allowed object depth")
	}

	ctx.depth++
	err := ctx.encode(vw, v)
	ctx.depth--
	return err
}

func (ctx *encoderContext) encode(vw jsonrw.ValueWriter, v interface{}) error {
	if v == nil {
		return vw.WriteNull()
	}

	switch t := v.(type) {
	case json.Number:
		// Attempt int first, then float64
		if i64, err := t.Int64(); err == nil {
			return vw.WriteInt64(i64)
		}
		f64, err := t.Float64()
		if err != nil {
			return encoders.WrapEncodingError(err, "%q is not a valid JSON number", string(t))
		}
		return vw.WriteDouble(f64)
	case int:
		if fitsIn32Bits(int64(t)) {
			return vw.WriteInt32(int32(t))
		}
		return vw.WriteInt64(int64(t))
	case int8:
		return vw.WriteInt32(int32(t))
	case int16:
		return vw.WriteInt32(int32(t))
	case int32:
		return vw.WriteInt32(t)
	case int64:
		return vw.WriteInt64(t)
	case uint:
		return encodeUint64(vw, uint64(t))
	case uint8:
		return vw.WriteInt32(int32(t))
	case uint16:
		return vw.WriteInt32(int32(t))
	case uint32:
		return encodeUint64(vw, uint64(t))
	case uint64:
		return encodeUint64(vw, t)
	case float32:
		return vw.WriteDouble(float64(t))
	case float64:
		return vw.WriteDouble(t)
	case *list.List:
		if t == nil {
			return vw.WriteNull()
		}
		return ctx.encodeList(vw, t)
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Ptr:
		if val.IsNil() {
			return vw.WriteNull()
		}
		if am, ok := v.(ArrayMarshaler); ok {
			return ctx.encodeArrayMarshaler(vw, am)
		}
		return ctx.encodeValue(vw, val.Elem().Interface())
	case reflect.Slice:
		if val.IsNil() {
			return vw.WriteNull()
		}
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return vw.WriteString(base64.StdEncoding.EncodeToString(val.Bytes()))
		}
		return ctx.encodeArray(vw, v, val)
	case reflect.Array:
		return ctx.encodeArray(vw, v, val)
	case reflect.Map:
		return ctx.encodeMap(vw, val)
	}

	if am, ok := v.(ArrayMarshaler); ok {
		return ctx.encodeArrayMarshaler(vw, am)
	}

	t := val.Type()
	if enc, found := ctx.objectEncoders[t]; found {
		return ctx.encodeObject(vw, v, enc)
	}
	if enc, found := ctx.valueEncoders[t]; found {
		return ctx.encodeWith(vw, v, enc)
	}

	// A named constant kind with a Stringer encodes as its symbolic name.
	// This runs only after both registries miss, so a registration for the
	// type wins.
	if s, ok := v.(fmt.Stringer); ok {
		switch val.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.String:
			return vw.WriteString(s.String())
		}
	}

	switch val.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return vw.WriteInt32(int32(val.Int()))
	case reflect.Int, reflect.Int64:
		return vw.WriteInt64(val.Int())
	case reflect.Uint8, reflect.Uint16:
		return vw.WriteInt32(int32(val.Uint()))
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return encodeUint64(vw, val.Uint())
	case reflect.Float32, reflect.Float64:
		return vw.WriteDouble(val.Float())
	case reflect.Bool:
		return vw.WriteBoolean(val.Bool())
	case reflect.String:
		return vw.WriteString(val.String())
	}

	return encoders.NewEncodingErrorf("couldn't find encoder for type %s", t)
}

func fitsIn32Bits(i int64) bool {
	return math.MinInt32 <= i && i <= math.MaxInt32
}

func encodeUint64(vw jsonrw.ValueWriter, u64 uint64) error {
	if u64 > math.MaxInt64 {
		return encoders.NewEncodingErrorf("%d overflows int64", u64)
	}
	return vw.WriteInt64(int64(u64))
}

// encodeObject opens an object, runs the registered ObjectEncoder inside
// it, and closes the object. The context's writer fields are saved and
// restored around the encoder so nested objects share the one context.
func (ctx *encoderContext) encodeObject(vw jsonrw.ValueWriter, v interface{}, enc encoders.ObjectEncoder) error {
	dw, err := vw.WriteDocument()
	if err != nil {
		return err
	}

	outerDW, outerAW, outerVW := ctx.dw, ctx.aw, ctx.vw
	ctx.dw, ctx.aw, ctx.vw = dw, nil, nil
	err = enc.Encode(v, ctx)
	if ctx.err != nil {
		// A failure recorded by a fluent call is the first failure; it
		// wins over whatever the encoder returned after ignoring it.
		err = ctx.err
	}
	ctx.dw, ctx.aw, ctx.vw = outerDW, outerAW, outerVW
	if err != nil {
		return err
	}

	return dw.WriteDocumentEnd()
}

// encodeWith runs a registered ValueEncoder against the pending value
// slot. No object or array is opened around the encoder's output.
func (ctx *encoderContext) encodeWith(vw jsonrw.ValueWriter, v interface{}, enc encoders.ValueEncoder) error {
	outerDW, outerAW, outerVW := ctx.dw, ctx.aw, ctx.vw
	ctx.dw, ctx.aw, ctx.vw = nil, nil, vw
	err := enc.Encode(v, ctx)
	if ctx.err != nil {
		err = ctx.err
	}
	ctx.dw, ctx.aw, ctx.vw = outerDW, outerAW, outerVW
	return err
}

func (ctx *encoderContext) encodeArrayMarshaler(vw jsonrw.ValueWriter, am ArrayMarshaler) error {
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	outerDW, outerAW, outerVW := ctx.dw, ctx.aw, ctx.vw
	ctx.dw, ctx.aw, ctx.vw = nil, aw, nil
	err = am.EncodeArray(ctx)
	if ctx.err != nil {
		err = ctx.err
	}
	ctx.dw, ctx.aw, ctx.vw = outerDW, outerAW, outerVW
	if err != nil {
		return err
	}

	return aw.WriteArrayEnd()
}

func (ctx *encoderContext) encodeList(vw jsonrw.ValueWriter, l *list.List) error {
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	for e := l.Front(); e != nil; e = e.Next() {
		arrayValWriter, err := aw.WriteArrayElement()
		if err != nil {
			return err
		}

		if err := ctx.encodeValue(arrayValWriter, e.Value); err != nil {
			return err
		}
	}

	return aw.WriteArrayEnd()
}

// encodeArray writes a slice or array value as a JSON array. Common
// element types avoid the reflected element loop; string and bool
// elements stay on the dispatch path so a caller's registration for them
// applies.
func (ctx *encoderContext) encodeArray(vw jsonrw.ValueWriter, v interface{}, val reflect.Value) error {
	switch t := v.(type) {
	case []int:
		return ctx.encodeSliceInt(vw, t)
	case []int64:
		return ctx.encodeSliceInt64(vw, t)
	case []float64:
		return ctx.encodeSliceFloat64(vw, t)
	case []interface{}:
		return ctx.encodeSliceA(vw, t)
	}

	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	for i := 0; i < val.Len(); i++ {
		arrayValWriter, err := aw.WriteArrayElement()
		if err != nil {
			return err
		}

		if err := ctx.encodeValue(arrayValWriter, val.Index(i).Interface()); err != nil {
			return err
		}
	}

	return aw.WriteArrayEnd()
}

func (ctx *encoderContext) encodeSliceInt(vw jsonrw.ValueWriter, arr []int) error {
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	for _, val := range arr {
		arrayValWriter, err := aw.WriteArrayElement()
		if err != nil {
			return err
		}

		if fitsIn32Bits(int64(val)) {
			err = arrayValWriter.WriteInt32(int32(val))
		} else {
			err = arrayValWriter.WriteInt64(int64(val))
		}
		if err != nil {
			return err
		}
	}

	return aw.WriteArrayEnd()
}

func (ctx *encoderContext) encodeSliceInt64(vw jsonrw.ValueWriter, arr []int64) error {
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	for _, val := range arr {
		arrayValWriter, err := aw.WriteArrayElement()
		if err != nil {
			return err
		}

		if err := arrayValWriter.WriteInt64(val); err != nil {
			return err
		}
	}

	return aw.WriteArrayEnd()
}

func (ctx *encoderContext) encodeSliceFloat64(vw jsonrw.ValueWriter, arr []float64) error {
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	for _, val := range arr {
		arrayValWriter, err := aw.WriteArrayElement()
		if err != nil {
			return err
		}

		if err := arrayValWriter.WriteDouble(val); err != nil {
			return err
		}
	}

	return aw.WriteArrayEnd()
}

func (ctx *encoderContext) encodeSliceA(vw jsonrw.ValueWriter, arr []interface{}) error {
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}

	for _, val := range arr {
		arrayValWriter, err := aw.WriteArrayElement()
		if err != nil {
			return err
		}

		if err := ctx.encodeValue(arrayValWriter, val); err != nil {
			return err
		}
	}

	return aw.WriteArrayEnd()
}

// encodeMap writes a string-keyed map as a JSON object with its members in
// lexicographic key order, so equal maps produce byte-equal output. Any
// named string kind is accepted as a key.
func (ctx *encoderContext) encodeMap(vw jsonrw.ValueWriter, val reflect.Value) error {
	if val.IsNil() {
		return vw.WriteNull()
	}

	dw, err := vw.WriteDocument()
	if err != nil {
		return err
	}

	mkeys := val.MapKeys()
	pairs := make([]mapPair, 0, len(mkeys))
	for _, k := range mkeys {
		sk := k
		if sk.Kind() == reflect.Interface {
			sk = sk.Elem()
		}
		if sk.Kind() != reflect.String {
			kv := sk.Interface()
			cause := errors.Errorf("%T is not a string", kv)
			return encoders.WrapEncodingError(cause, "only string keys are supported in maps, got %v of type %T instead", kv, kv)
		}
		pairs = append(pairs, mapPair{key: sk.String(), val: val.MapIndex(k)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	for _, p := range pairs {
		docValWriter, err := dw.WriteDocumentElement(p.key)
		if err != nil {
			return err
		}

		if err := ctx.encodeValue(docValWriter, p.val.Interface()); err != nil {
			return err
		}
	}

	return dw.WriteDocumentEnd()
}

type mapPair struct {
	key string
	val reflect.Value
}

// elementWriter opens the named member slot of the open object.
func (ctx *encoderContext) elementWriter(name string) (jsonrw.ValueWriter, error) {
	if ctx.dw == nil {
		return nil, encoders.NewEncodingErrorf("cannot add %q: no object is open", name)
	}
	return ctx.dw.WriteDocumentElement(name)
}

// valueWriter yields the position the next bare value goes to: the next
// element of the open array, or the single pending value slot.
func (ctx *encoderContext) valueWriter() (jsonrw.ValueWriter, error) {
	if ctx.aw != nil {
		return ctx.aw.WriteArrayElement()
	}
	if ctx.vw == nil {
		return nil, encoders.NewEncodingError("cannot add a value: no value slot is open")
	}
	return ctx.vw, nil
}

// Add encodes v as the named member of the open object, dispatching on v's
// runtime type.
func (ctx *encoderContext) Add(name string, v interface{}) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := ctx.encodeValue(vw, v); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddString writes a string member of the open object.
func (ctx *encoderContext) AddString(name string, s string) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteString(s); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddBool writes a boolean member of the open object.
func (ctx *encoderContext) AddBool(name string, b bool) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteBoolean(b); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddInt writes an integer member of the open object.
func (ctx *encoderContext) AddInt(name string, i int) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if fitsIn32Bits(int64(i)) {
		err = vw.WriteInt32(int32(i))
	} else {
		err = vw.WriteInt64(int64(i))
	}
	if err != nil {
		ctx.err = err
	}
	return ctx
}

// AddInt64 writes an integer member of the open object.
func (ctx *encoderContext) AddInt64(name string, i int64) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteInt64(i); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddFloat64 writes a number member of the open object.
func (ctx *encoderContext) AddFloat64(name string, f float64) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteDouble(f); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddBytes writes a byte-slice member of the open object as a Base64
// string. A nil slice writes null.
func (ctx *encoderContext) AddBytes(name string, b []byte) encoders.ObjectEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.elementWriter(name)
	if err != nil {
		ctx.err = err
		return ctx
	}
	if b == nil {
		err = vw.WriteNull()
	} else {
		err = vw.WriteString(base64.StdEncoding.EncodeToString(b))
	}
	if err != nil {
		ctx.err = err
	}
	return ctx
}

// AddValue encodes v as a bare value, dispatching on its runtime type.
func (ctx *encoderContext) AddValue(v interface{}) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := ctx.encodeValue(vw, v); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddStringValue writes a bare string value.
func (ctx *encoderContext) AddStringValue(s string) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteString(s); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddBoolValue writes a bare boolean value.
func (ctx *encoderContext) AddBoolValue(b bool) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteBoolean(b); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddIntValue writes a bare integer value.
func (ctx *encoderContext) AddIntValue(i int) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if fitsIn32Bits(int64(i)) {
		err = vw.WriteInt32(int32(i))
	} else {
		err = vw.WriteInt64(int64(i))
	}
	if err != nil {
		ctx.err = err
	}
	return ctx
}

// AddInt64Value writes a bare integer value.
func (ctx *encoderContext) AddInt64Value(i int64) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteInt64(i); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddFloat64Value writes a bare number value.
func (ctx *encoderContext) AddFloat64Value(f float64) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteDouble(f); err != nil {
		ctx.err = err
	}
	return ctx
}

// AddBytesValue writes a bare byte-slice value as a Base64 string. A nil
// slice writes null.
func (ctx *encoderContext) AddBytesValue(b []byte) encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if b == nil {
		err = vw.WriteNull()
	} else {
		err = vw.WriteString(base64.StdEncoding.EncodeToString(b))
	}
	if err != nil {
		ctx.err = err
	}
	return ctx
}

// AddNullValue writes a bare null.
func (ctx *encoderContext) AddNullValue() encoders.ValueEncoderContext {
	if ctx.err != nil {
		return ctx
	}

	vw, err := ctx.valueWriter()
	if err != nil {
		ctx.err = err
		return ctx
	}
	if err := vw.WriteNull(); err != nil {
		ctx.err = err
	}
	return ctx
}
