// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package encoders

import "io"

// ObjectEncoder is the interface implemented by types that can encode a
// value of some concrete type into a sequence of named fields. The encoder
// writes the fields by calling the Add methods on ctx; the surrounding
// object is opened and closed by the caller.
type ObjectEncoder interface {
	Encode(v interface{}, ctx ObjectEncoderContext) error
}

// ObjectEncoderFunc is an adapter to allow the use of ordinary functions as
// ObjectEncoders. If fn is a function with the appropriate signature,
// ObjectEncoderFunc(fn) is an ObjectEncoder that calls fn.
type ObjectEncoderFunc func(v interface{}, ctx ObjectEncoderContext) error

// Encode implements ObjectEncoder.
func (fn ObjectEncoderFunc) Encode(v interface{}, ctx ObjectEncoderContext) error {
	return fn(v, ctx)
}

// ValueEncoder is the interface implemented by types that can encode a value
// of some concrete type into a single scalar value. Unlike an ObjectEncoder,
// no object is opened around the encoder's output.
type ValueEncoder interface {
	Encode(v interface{}, ctx ValueEncoderContext) error
}

// ValueEncoderFunc is an adapter to allow the use of ordinary functions as
// ValueEncoders. If fn is a function with the appropriate signature,
// ValueEncoderFunc(fn) is a ValueEncoder that calls fn.
type ValueEncoderFunc func(v interface{}, ctx ValueEncoderContext) error

// Encode implements ValueEncoder.
func (fn ValueEncoderFunc) Encode(v interface{}, ctx ValueEncoderContext) error {
	return fn(v, ctx)
}

// ObjectEncoderContext is the interface an ObjectEncoder writes through.
// Each Add method writes one named field of the currently open object and
// returns the context so that calls can be chained:
//
//	ctx.Add("a", x).Add("b", y)
//
// The context records the first failure it encounters; subsequent calls on a
// failed context do nothing. The recorded failure is reported by the encode
// operation that created the context.
type ObjectEncoderContext interface {
	Add(name string, v interface{}) ObjectEncoderContext
	AddString(name string, s string) ObjectEncoderContext
	AddBool(name string, b bool) ObjectEncoderContext
	AddInt(name string, i int) ObjectEncoderContext
	AddInt64(name string, i int64) ObjectEncoderContext
	AddFloat64(name string, f float64) ObjectEncoderContext
	AddBytes(name string, b []byte) ObjectEncoderContext
}

// ValueEncoderContext is the interface a ValueEncoder writes through. Each
// method writes one bare value, with no preceding field name, and returns
// the context for chaining. The context records the first failure it
// encounters; subsequent calls on a failed context do nothing.
type ValueEncoderContext interface {
	AddValue(v interface{}) ValueEncoderContext
	AddStringValue(s string) ValueEncoderContext
	AddBoolValue(b bool) ValueEncoderContext
	AddIntValue(i int) ValueEncoderContext
	AddInt64Value(i int64) ValueEncoderContext
	AddFloat64Value(f float64) ValueEncoderContext
	AddBytesValue(b []byte) ValueEncoderContext
	AddNullValue() ValueEncoderContext
}

// DataEncoder serializes object graphs through the encoders it was built
// with. Implementations are immutable: the registrations they were built
// from cannot change, so a DataEncoder is safe for concurrent use.
type DataEncoder interface {
	// Encode serializes v and writes the result to w. Errors from w are
	// returned unchanged.
	Encode(v interface{}, w io.Writer) error
	// EncodeToString serializes v and returns the result.
	EncodeToString(v interface{}) (string, error)
}
