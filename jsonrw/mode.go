// Copyright (C) Amplora, Inc. 2019-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonrw

import "fmt"

type mode int

const (
	_ mode = iota
	mTopLevel
	mDocument
	mArray
	mValue
	mElement
)

func (m mode) String() string {
	var str string

	switch m {
	case mTopLevel:
		str = "TopLevel"
	case mDocument:
		str = "DocumentMode"
	case mArray:
		str = "ArrayMode"
	case mValue:
		str = "ValueMode"
	case mElement:
		str = "ElementMode"
	default:
		str = "UnknownMode"
	}

	return str
}

// TransitionError is an error returned when an invalid progression of a
// ValueWriter state machine is attempted.
type TransitionError struct {
	parent      mode
	current     mode
	destination mode
}

func (te TransitionError) Error() string {
	if te.destination == mode(0) {
		return fmt.Sprintf("invalid state transition: cannot write value while in %s", te.current)
	}
	if te.parent == mode(0) {
		return fmt.Sprintf("invalid state transition: %s -> %s", te.current, te.destination)
	}
	return fmt.Sprintf("invalid state transition: %s -> %s; parent %s", te.current, te.destination, te.parent)
}
