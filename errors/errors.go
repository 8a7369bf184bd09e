/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 * Copyright (c) 2025 Europlacer Ltd
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Error is the concrete type raised across the session engine. It is never
// exported as a bare struct literal outside this package; use New or Wrap.
type Error struct {
	kind    Kind
	message string
	parent  error
	file    string
	line    int
}

// New builds an Error of the given kind with no parent.
func New(kind Kind, message string) *Error {
	return newAt(kind, message, nil, 2)
}

// Wrap builds an Error of the given kind, chaining parent as its cause.
// parent may be nil, in which case Wrap behaves like New.
func Wrap(kind Kind, message string, parent error) *Error {
	return newAt(kind, message, parent, 2)
}

func newAt(kind Kind, message string, parent error, skip int) *Error {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file, line = "unknown", 0
	}
	return &Error{kind: kind, message: message, parent: parent, file: file, line: line}
}

// Kind returns the classification of this error.
func (e *Error) Kind() Kind {
	if e == nil {
		return Unknown
	}
	return e.kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.message, e.parent.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Unwrap gives compatibility with errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.parent
}

// Is reports whether target is an *Error of the same Kind, matching
// the nabbar-golib/errors HasCode convention but scoped to one kind field.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.kind == e.kind
	}
	return false
}

// Site returns the file:line that raised this error, for trace logging.
func (e *Error) Site() (file string, line int) {
	if e == nil {
		return "", 0
	}
	return e.file, e.line
}

// Message returns the error's own message, excluding any parent chain.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// KindOf extracts the Kind carried by err, or Unknown if err is not one of
// ours. Used at session/supervisor boundaries to decide reconnection policy
// without type-asserting everywhere.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return Unknown
}
