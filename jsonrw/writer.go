// Package jsonrw contains abstractions for writing JSON documents as a
// stream of tokens. The interfaces in this package mirror the structure of
// the values being written: a ValueWriter writes a single value, a
// DocumentWriter writes the members of an object, and an ArrayWriter writes
// the elements of an array.
package jsonrw

// ArrayWriter is the interface used to create a JSON array. Callers must
// ensure they call WriteArrayEnd when they have finished creating the array.
type ArrayWriter interface {
	WriteArrayElement() (ValueWriter, error)
	WriteArrayEnd() error
}

// DocumentWriter is the interface used to create a JSON object. Callers must
// ensure they call WriteDocumentEnd when they have finished creating the
// object.
type DocumentWriter interface {
	WriteDocumentElement(string) (ValueWriter, error)
	WriteDocumentEnd() error
}

// ValueWriter is the interface used to write JSON values. Implementations of
// this interface handle creating the textual representation of the values.
type ValueWriter interface {
	WriteArray() (ArrayWriter, error)
	WriteBoolean(bool) error
	WriteDouble(float64) error
	WriteInt32(int32) error
	WriteInt64(int64) error
	WriteNull() error
	WriteString(string) error
	WriteDocument() (DocumentWriter, error)
}

// Flusher is the interface used to flush a writer's buffered output to its
// underlying destination. Writers that buffer implement this interface.
type Flusher interface {
	Flush() error
}
