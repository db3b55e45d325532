// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package encoders defines the contracts for type driven serialization.
//
// Callers describe how their types are serialized by providing encoders: an
// ObjectEncoder maps a value of some concrete type to a sequence of named
// fields, while a ValueEncoder maps a value to a single scalar. Encoders are
// registered per concrete type with a serialization format's builder, such
// as the one provided by the jsonenc package, which produces an immutable
// DataEncoder that serializes whole object graphs through the registered
// encoders.
//
// Encoders never write output themselves. They are handed a context, and the
// context's fluent Add methods perform all writing, so the same encoder
// registrations can drive any format that implements the contexts.
package encoders
