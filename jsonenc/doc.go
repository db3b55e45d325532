// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package jsonenc serializes object graphs to JSON through per-type encoder
// registries. The package has two entry points.
//
// The Builder is used to construct a DataEncoder with custom registrations.
// Types the built-in dispatch does not recognize are served by the
// ObjectEncoders and ValueEncoders registered for them.
//
// Example:
// 		enc := jsonenc.NewBuilder().
// 			RegisterObjectEncoder(reflect.TypeOf(Point{}), pointEncoder).
// 			Build()
// 		err := enc.Encode(Point{1, 2}, os.Stdout)
//
// Marshal and MarshalToString are conveniences over a shared encoder built
// with only the default registrations.
//
// Example:
// 		s, err := jsonenc.MarshalToString(map[string]interface{}{"a": 1})
//
// A DataEncoder is immutable and safe for concurrent use. Numbers, byte
// slices, slices, arrays, lists, and string-keyed maps are handled by the
// dispatch itself, ahead of the registries; registrations for those shapes
// are never consulted. The full ordering is documented on the Builder.
package jsonenc
