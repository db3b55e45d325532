// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package encoders

import "fmt"

// EncodingError indicates that an encoder could not produce output for a
// value: no encoder is registered for the value's concrete type, or a
// structural constraint, such as maps requiring string keys, was violated.
//
// An EncodingError is terminal for the encode operation that raised it. The
// partially written output must be discarded.
type EncodingError struct {
	message string
	inner   error
}

// NewEncodingError returns an EncodingError with the given message.
func NewEncodingError(message string) *EncodingError {
	return &EncodingError{message: message}
}

// NewEncodingErrorf returns an EncodingError whose message is formatted from
// format and args.
func NewEncodingErrorf(format string, args ...interface{}) *EncodingError {
	return &EncodingError{message: fmt.Sprintf(format, args...)}
}

// WrapEncodingError returns an EncodingError that records inner as the
// underlying reason for the failure.
func WrapEncodingError(inner error, format string, args ...interface{}) *EncodingError {
	return &EncodingError{message: fmt.Sprintf(format, args...), inner: inner}
}

// Message gets the basic message of the error.
func (e *EncodingError) Message() string {
	return e.message
}

// Inner gets the inner error if one exists.
func (e *EncodingError) Inner() error {
	return e.inner
}

// Unwrap returns the inner error.
func (e *EncodingError) Unwrap() error {
	return e.inner
}

func (e *EncodingError) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("%s: %s", e.message, e.inner.Error())
	}
	return e.message
}

// IsEncodingError reports whether err or any error it wraps is an
// EncodingError.
func IsEncodingError(err error) bool {
	for err != nil {
		if _, ok := err.(*EncodingError); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
