// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonenc

import (
	"reflect"

	"github.com/amplora/encoders"
)

// A Configurator registers a batch of encoders on a Builder. Libraries can
// expose their registrations as a Configurator so applications apply them
// with a single ConfigureWith call.
type Configurator interface {
	Configure(b *Builder)
}

// ConfiguratorFunc is an adapter to allow the use of ordinary functions as
// Configurators.
type ConfiguratorFunc func(b *Builder)

// Configure implements Configurator.
func (fn ConfiguratorFunc) Configure(b *Builder) {
	fn(b)
}

// A Builder is used to build a DataEncoder. This type is not goroutine
// safe.
//
// A new Builder carries the default value encoders for string, bool,
// time.Time, and url.URL; registering an encoder for one of those types
// replaces the default. Values the dispatch handles itself (numbers, byte
// slices, other slices and arrays, lists, and string-keyed maps) are
// consumed before the registries are consulted, so registrations for those
// shapes are never reached.
type Builder struct {
	objectEncoders map[reflect.Type]encoders.ObjectEncoder
	valueEncoders  map[reflect.Type]encoders.ValueEncoder
}

// NewBuilder creates a new Builder prefilled with the default value
// encoders.
func NewBuilder() *Builder {
	var dve defaultValueEncoders
	valueEncoders := map[reflect.Type]encoders.ValueEncoder{
		tString: encoders.ValueEncoderFunc(dve.StringEncodeValue),
		tBool:   encoders.ValueEncoderFunc(dve.BooleanEncodeValue),
		tTime:   encoders.ValueEncoderFunc(dve.TimeEncodeValue),
		tURL:    encoders.ValueEncoderFunc(dve.URLEncodeValue),
	}

	return &Builder{
		objectEncoders: make(map[reflect.Type]encoders.ObjectEncoder),
		valueEncoders:  valueEncoders,
	}
}

// RegisterObjectEncoder will register the provided ObjectEncoder to the
// provided type. Later registrations for the same type replace earlier
// ones. A nil type or a nil encoder is a programming error and panics.
func (b *Builder) RegisterObjectEncoder(t reflect.Type, enc encoders.ObjectEncoder) *Builder {
	if t == nil {
		panic("jsonenc: cannot register an ObjectEncoder for a nil type")
	}
	if enc == nil {
		panic("jsonenc: cannot register a nil ObjectEncoder")
	}

	b.objectEncoders[t] = enc
	return b
}

// RegisterValueEncoder will register the provided ValueEncoder to the
// provided type. Later registrations for the same type replace earlier
// ones. A nil type or a nil encoder is a programming error and panics.
func (b *Builder) RegisterValueEncoder(t reflect.Type, enc encoders.ValueEncoder) *Builder {
	if t == nil {
		panic("jsonenc: cannot register a ValueEncoder for a nil type")
	}
	if enc == nil {
		panic("jsonenc: cannot register a nil ValueEncoder")
	}

	b.valueEncoders[t] = enc
	return b
}

// ConfigureWith applies the registrations of cfg to this Builder.
func (b *Builder) ConfigureWith(cfg Configurator) *Builder {
	cfg.Configure(b)
	return b
}

// Build creates a DataEncoder from the current state of this Builder. The
// registries are copied: mutating the Builder afterwards does not affect
// encoders built before, and successive Builds are independent.
func (b *Builder) Build() encoders.DataEncoder {
	enc := new(jsonDataEncoder)

	enc.objectEncoders = make(map[reflect.Type]encoders.ObjectEncoder)
	for t, oe := range b.objectEncoders {
		enc.objectEncoders[t] = oe
	}

	enc.valueEncoders = make(map[reflect.Type]encoders.ValueEncoder)
	for t, ve := range b.valueEncoders {
		enc.valueEncoders[t] = ve
	}

	return enc
}
