package jsonenc

import (
	"net/url"
	"reflect"
	"time"

	"github.com/amplora/encoders"
)

// defaultValueEncoders is a namespace type for the default ValueEncoder
// implementations a new Builder is prefilled with.
type defaultValueEncoders struct{}

// StringEncodeValue is the ValueEncoder for string.
func (dve defaultValueEncoders) StringEncodeValue(v interface{}, ctx encoders.ValueEncoderContext) error {
	if s, ok := v.(string); ok {
		ctx.AddStringValue(s)
		return nil
	}

	val := reflect.ValueOf(v)
	if !val.IsValid() || val.Kind() != reflect.String {
		return encoders.NewEncodingErrorf("StringEncodeValue can only encode valid string, but got %T", v)
	}

	ctx.AddStringValue(val.String())
	return nil
}

// BooleanEncodeValue is the ValueEncoder for bool.
func (dve defaultValueEncoders) BooleanEncodeValue(v interface{}, ctx encoders.ValueEncoderContext) error {
	if b, ok := v.(bool); ok {
		ctx.AddBoolValue(b)
		return nil
	}

	val := reflect.ValueOf(v)
	if !val.IsValid() || val.Kind() != reflect.Bool {
		return encoders.NewEncodingErrorf("BooleanEncodeValue can only encode valid bool, but got %T", v)
	}

	ctx.AddBoolValue(val.Bool())
	return nil
}

// TimeEncodeValue is the ValueEncoder for time.Time. Times encode as RFC
// 3339 strings with nanoseconds.
func (dve defaultValueEncoders) TimeEncodeValue(v interface{}, ctx encoders.ValueEncoderContext) error {
	var tt time.Time
	switch t := v.(type) {
	case time.Time:
		tt = t
	case *time.Time:
		if t == nil {
			ctx.AddNullValue()
			return nil
		}
		tt = *t
	default:
		return encoders.NewEncodingErrorf("TimeEncodeValue can only encode valid time.Time, but got %T", v)
	}

	ctx.AddStringValue(tt.Format(time.RFC3339Nano))
	return nil
}

// URLEncodeValue is the ValueEncoder for url.URL.
func (dve defaultValueEncoders) URLEncodeValue(v interface{}, ctx encoders.ValueEncoderContext) error {
	var u *url.URL
	switch t := v.(type) {
	case url.URL:
		u = &t
	case *url.URL:
		if t == nil {
			ctx.AddNullValue()
			return nil
		}
		u = t
	default:
		return encoders.NewEncodingErrorf("URLEncodeValue can only encode valid url.URL, but got %T", v)
	}

	ctx.AddStringValue(u.String())
	return nil
}
