// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonrw

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/amplora/encoders/internal/lljson"
)

var _ ValueWriter = (*JSONValueWriter)(nil)
var _ Flusher = (*JSONValueWriter)(nil)

var errNilWriter = errors.New("cannot create a ValueWriter from a nil io.Writer")

type errUnrepresentableDouble struct {
	value float64
}

func (eud errUnrepresentableDouble) Error() string {
	return fmt.Sprintf("double value (%v) has no JSON representation", eud.value)
}

type vwState struct {
	mode mode
	key  string
	n    int
}

// JSONValueWriter is a ValueWriter that writes JSON text to an io.Writer.
// The document is buffered as it is built; the buffer is handed to the
// io.Writer when the top-level value is completed or the writer is flushed.
//
// A JSONValueWriter writes a single JSON text: after the top-level value is
// complete, further writes fail with a TransitionError.
type JSONValueWriter struct {
	w   io.Writer
	buf []byte

	stack []vwState
	frame int64
}

// NewJSONValueWriter creates a JSONValueWriter that writes JSON to w.
func NewJSONValueWriter(w io.Writer) (*JSONValueWriter, error) {
	if w == nil {
		return nil, errNilWriter
	}
	return newJSONValueWriter(w), nil
}

func newJSONValueWriter(w io.Writer) *JSONValueWriter {
	vw := new(JSONValueWriter)
	stack := make([]vwState, 1, 5)
	stack[0] = vwState{mode: mTopLevel}
	vw.w = w
	vw.stack = stack

	return vw
}

// Reset readies the writer to write a new document to w. The internal buffer
// is retained and truncated.
func (vw *JSONValueWriter) Reset(w io.Writer) {
	if vw.stack == nil {
		vw.stack = make([]vwState, 1, 5)
	}
	vw.stack = vw.stack[:1]
	vw.stack[0] = vwState{mode: mTopLevel}
	vw.buf = vw.buf[:0]
	vw.frame = 0
	vw.w = w
}

func (vw *JSONValueWriter) advanceFrame() {
	if vw.frame+1 >= int64(len(vw.stack)) { // We need to grow the stack
		length := len(vw.stack)
		if length+1 >= cap(vw.stack) {
			// double it
			buf := make([]vwState, 2*cap(vw.stack)+1)
			copy(buf, vw.stack)
			vw.stack = buf
		}
		vw.stack = vw.stack[:length+1]
	}
	vw.frame++
}

func (vw *JSONValueWriter) push(m mode) {
	vw.advanceFrame()

	// Clean the stack
	vw.stack[vw.frame] = vwState{mode: m}
}

func (vw *JSONValueWriter) pop() {
	switch vw.stack[vw.frame].mode {
	case mElement, mValue:
		vw.frame--
	case mDocument, mArray:
		vw.frame--
		// We pop a second time to jump over the frame of the element or
		// array slot the composite was written into. A composite opened
		// directly at the top level has no such frame.
		switch vw.stack[vw.frame].mode {
		case mElement, mValue:
			vw.frame--
		}
	}
}

func (vw *JSONValueWriter) invalidTransitionError(destination mode) error {
	te := TransitionError{
		current:     vw.stack[vw.frame].mode,
		destination: destination,
	}
	if vw.frame != 0 {
		te.parent = vw.stack[vw.frame-1].mode
	}
	return te
}

// writeElementHeader appends the tokens that precede a value: the comma
// separating it from its elder sibling and, for object members, the quoted
// member name. It fails unless the writer is positioned where a value may
// start. JSON allows exactly one top-level value per text.
func (vw *JSONValueWriter) writeElementHeader(destination mode) error {
	switch vw.stack[vw.frame].mode {
	case mElement:
		below := &vw.stack[vw.frame-1]
		if below.n > 0 {
			vw.buf = append(vw.buf, ',')
		}
		below.n++
		vw.buf = lljson.AppendKey(vw.buf, vw.stack[vw.frame].key)
	case mValue:
		below := &vw.stack[vw.frame-1]
		if below.n > 0 {
			vw.buf = append(vw.buf, ',')
		}
		below.n++
	case mTopLevel:
		if vw.stack[vw.frame].n > 0 {
			return vw.invalidTransitionError(destination)
		}
		vw.stack[vw.frame].n++
	default:
		return vw.invalidTransitionError(destination)
	}

	return nil
}

func (vw *JSONValueWriter) WriteArray() (ArrayWriter, error) {
	if err := vw.writeElementHeader(mArray); err != nil {
		return nil, err
	}

	vw.buf = append(vw.buf, '[')
	vw.push(mArray)

	return vw, nil
}

func (vw *JSONValueWriter) WriteBoolean(b bool) error {
	if err := vw.writeElementHeader(mode(0)); err != nil {
		return err
	}

	vw.buf = lljson.AppendBoolean(vw.buf, b)
	vw.pop()
	return nil
}

func (vw *JSONValueWriter) WriteDouble(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errUnrepresentableDouble{value: f}
	}
	if err := vw.writeElementHeader(mode(0)); err != nil {
		return err
	}

	vw.buf = lljson.AppendDouble(vw.buf, f)
	vw.pop()
	return nil
}

func (vw *JSONValueWriter) WriteInt32(i32 int32) error {
	if err := vw.writeElementHeader(mode(0)); err != nil {
		return err
	}

	vw.buf = lljson.AppendInt32(vw.buf, i32)
	vw.pop()
	return nil
}

func (vw *JSONValueWriter) WriteInt64(i64 int64) error {
	if err := vw.writeElementHeader(mode(0)); err != nil {
		return err
	}

	vw.buf = lljson.AppendInt64(vw.buf, i64)
	vw.pop()
	return nil
}

func (vw *JSONValueWriter) WriteNull() error {
	if err := vw.writeElementHeader(mode(0)); err != nil {
		return err
	}

	vw.buf = lljson.AppendNull(vw.buf)
	vw.pop()
	return nil
}

func (vw *JSONValueWriter) WriteString(s string) error {
	if err := vw.writeElementHeader(mode(0)); err != nil {
		return err
	}

	vw.buf = lljson.AppendString(vw.buf, s)
	vw.pop()
	return nil
}

func (vw *JSONValueWriter) WriteDocument() (DocumentWriter, error) {
	if err := vw.writeElementHeader(mDocument); err != nil {
		return nil, err
	}

	vw.buf = append(vw.buf, '{')
	vw.push(mDocument)
	return vw, nil
}

func (vw *JSONValueWriter) WriteDocumentElement(key string) (ValueWriter, error) {
	switch vw.stack[vw.frame].mode {
	case mDocument:
	default:
		return nil, vw.invalidTransitionError(mElement)
	}

	vw.push(mElement)
	vw.stack[vw.frame].key = key

	return vw, nil
}

func (vw *JSONValueWriter) WriteDocumentEnd() error {
	switch vw.stack[vw.frame].mode {
	case mDocument:
	default:
		return fmt.Errorf("incorrect mode to end document: %s", vw.stack[vw.frame].mode)
	}

	vw.buf = append(vw.buf, '}')
	vw.pop()

	if vw.stack[vw.frame].mode == mTopLevel {
		if err := vw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (vw *JSONValueWriter) WriteArrayElement() (ValueWriter, error) {
	if vw.stack[vw.frame].mode != mArray {
		return nil, vw.invalidTransitionError(mValue)
	}

	vw.push(mValue)

	return vw, nil
}

func (vw *JSONValueWriter) WriteArrayEnd() error {
	if vw.stack[vw.frame].mode != mArray {
		return fmt.Errorf("incorrect mode to end array: %s", vw.stack[vw.frame].mode)
	}

	vw.buf = append(vw.buf, ']')
	vw.pop()

	if vw.stack[vw.frame].mode == mTopLevel {
		if err := vw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered JSON text to the underlying io.Writer.
func (vw *JSONValueWriter) Flush() error {
	if vw.w == nil {
		return nil
	}

	if _, err := vw.w.Write(vw.buf); err != nil {
		return err
	}
	// reset buffer
	vw.buf = vw.buf[:0]
	return nil
}
