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

// Package errors provides the kind-coded error taxonomy used across the
// Hermes session engine (spec.md §7): NETWORK_ERROR, TIMEOUT, PROTOCOL_ERROR,
// PEER_ERROR, CONFIGURATION_ERROR, CLIENT_ERROR and IMPLEMENTATION_ERROR.
//
// Every Error carries its Kind, an optional parent error and the call site
// that raised it, mirroring the stack-capture behaviour of
// github.com/nabbar/golib/errors without its HTTP-style numeric code space:
// Hermes has exactly seven kinds and they are named, not numbered.
package errors

// Kind classifies an Error the way spec.md §7 classifies failures.
type Kind uint8

const (
	// Unknown is the zero value; never raised deliberately.
	Unknown Kind = iota
	// NetworkError is socket-level: connect refused, reset, write failure, DNS failure.
	NetworkError
	// Timeout is an awaited event that did not occur within its deadline.
	Timeout
	// ProtocolError is a message illegal in the current state, or an unknown top-level element.
	ProtocolError
	// PeerError is bytes that do not parse as XML.
	PeerError
	// ConfigurationError is operator-visible: peer hostname mismatch, Set rejected by the embedder.
	ConfigurationError
	// ClientError is an embedder-returned error from OnSetConfiguration.
	ClientError
	// ImplementationError is an internal invariant violation.
	ImplementationError
)

func (k Kind) String() string {
	switch k {
	case NetworkError:
		return "NETWORK_ERROR"
	case Timeout:
		return "TIMEOUT"
	case ProtocolError:
		return "PROTOCOL_ERROR"
	case PeerError:
		return "PEER_ERROR"
	case ConfigurationError:
		return "CONFIGURATION_ERROR"
	case ClientError:
		return "CLIENT_ERROR"
	case ImplementationError:
		return "IMPLEMENTATION_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Alarm reports whether this kind must be traced at Alarm severity and
// carried into OnDisconnected as a populated Error, per spec.md §7
// propagation policy. NetworkError from a clean EOF/reset is NOT of this
// kind at the transport layer — the transport package reports those
// with a nil cause, never constructing a NetworkError value.
func (k Kind) Alarm() bool {
	switch k {
	case NetworkError, ProtocolError, PeerError, ImplementationError:
		return true
	default:
		return false
	}
}
