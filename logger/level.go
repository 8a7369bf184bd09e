/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package logger is the trace sink named by spec.md §7: every session emits
// ETraceType events (SENT, RECEIVED, INFO, WARNING, ERROR, DEBUG) advisory
// to the error channel. It is a single-hook wrapper around logrus, narrowed
// from github.com/nabbar/golib/logger's multi-hook (file/syslog/gorm/hclog)
// design: Hermes traces go to exactly one structured sink, so the
// file/syslog/gorm fan-out the teacher supports has no SPEC_FULL.md
// component to drive it (see DESIGN.md).
package logger

import "github.com/sirupsen/logrus"

// TraceType mirrors spec.md §7's ETraceType enumeration.
type TraceType uint8

const (
	Sent TraceType = iota
	Received
	Info
	Warning
	ErrorTrace
	Debug
)

func (t TraceType) String() string {
	switch t {
	case Sent:
		return "SENT"
	case Received:
		return "RECEIVED"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case ErrorTrace:
		return "ERROR"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

func (t TraceType) logrusLevel() logrus.Level {
	switch t {
	case ErrorTrace:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Debug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
