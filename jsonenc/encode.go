// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonenc

import (
	"bytes"
	"io"
	"reflect"
	"sync"

	"github.com/amplora/encoders"
	"github.com/amplora/encoders/jsonrw"
)

// This pool is used to keep the allocations of value writers down. Writers
// retrieved from this pool must have Reset called on them before use.
var vwPool = sync.Pool{
	New: func() interface{} {
		return new(jsonrw.JSONValueWriter)
	},
}

var defaultEncoder = NewBuilder().Build()

// Marshal returns the JSON encoding of v using an encoder built with only
// the default registrations.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := defaultEncoder.Encode(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalToString returns the JSON encoding of v as a string using an
// encoder built with only the default registrations.
func MarshalToString(v interface{}) (string, error) {
	return defaultEncoder.EncodeToString(v)
}

// jsonDataEncoder is the DataEncoder built by Builder.Build. Its registries
// are private copies, so a jsonDataEncoder is immutable and safe for
// concurrent use; every Encode call runs on its own context and writer.
type jsonDataEncoder struct {
	objectEncoders map[reflect.Type]encoders.ObjectEncoder
	valueEncoders  map[reflect.Type]encoders.ValueEncoder
}

var _ encoders.DataEncoder = (*jsonDataEncoder)(nil)

// Encode serializes v and writes the JSON text to w. The writer is flushed
// whether or not the encode succeeded; an encode failure is reported ahead
// of a flush failure, and errors returned by w come back unchanged.
func (e *jsonDataEncoder) Encode(v interface{}, w io.Writer) error {
	if w == nil {
		return encoders.NewEncodingError("cannot encode to a nil io.Writer")
	}

	vw := vwPool.Get().(*jsonrw.JSONValueWriter)
	defer vwPool.Put(vw)

	vw.Reset(w)

	ctx := &encoderContext{
		objectEncoders: e.objectEncoders,
		valueEncoders:  e.valueEncoders,
	}

	err := ctx.encodeValue(vw, v)
	ferr := vw.Flush()
	if err != nil {
		return err
	}
	return ferr
}

// EncodeToString serializes v and returns the JSON text.
func (e *jsonDataEncoder) EncodeToString(v interface{}) (string, error) {
	var buf bytes.Buffer
	if err := e.Encode(v, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
