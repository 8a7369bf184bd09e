// Package statemachine holds the per-role transition tables of spec.md
// §4.3, realised as data rather than code per Design Notes §9's "state
// machine as data": a Table is a plain map literal, not a tree of
// handler methods, so the full transition grid for a role is visible
// in one place and is itself the thing under test.
package statemachine

import "github.com/EuroplacerUk/hermes-sdk/message"

// Action is what the state machine does with one incoming message.
type Action uint8

const (
	// Accept transitions to Transition.Next and forwards the message
	// to the application callback.
	Accept Action = iota
	// Stay forwards the message to the application callback without
	// changing state.
	Stay
	// Ignore drops the message silently: no state change, no callback.
	Ignore
	// ProtocolErr means the message is illegal in the current state;
	// the caller builds a PROTOCOL_ERROR notification and ends the
	// session once it drains.
	ProtocolErr
)

// Transition is the table cell for one (State, Kind) pair. S is
// message.State for the lane tables and message.VerticalState for the
// vertical table.
type Transition[S any] struct {
	Next   S
	Action Action
}

// Table is the full per-role transition grid plus the set of message
// kinds this role is allowed to originate. Incoming holds one entry per
// (state, kind) pair the role explicitly handles; a (state, kind) pair
// absent from Incoming is a protocol error by default — see Lookup.
type Table[S comparable] struct {
	Incoming map[S]map[message.Kind]Transition[S]
	// Outgoing holds the (state, kind) pairs where originating kind
	// itself advances this role's own state — e.g. the side that
	// sends BoardAvailable moves from NOT_AVAILABLE_NOT_READY to
	// BOARD_AVAILABLE locally, since no incoming message reports that
	// fact back to the sender. A (state, kind) pair absent here simply
	// leaves state unchanged on send.
	Outgoing map[S]map[message.Kind]Transition[S]
	// Originates lists the Kinds the application may legally Signal
	// from this role; the state machine refuses anything else and
	// logs it as a programming error, per spec.md §4.3.1/4.3.2's
	// "emitting X from this role is a programming error".
	Originates map[message.Kind]bool
}

// LookupOutgoing resolves the state change (if any) caused by
// originating kind from state. When no entry exists it returns the zero
// Transition and false, meaning "no change".
func (t *Table[S]) LookupOutgoing(state S, kind message.Kind) (Transition[S], bool) {
	if byKind, ok := t.Outgoing[state]; ok {
		if tr, ok := byKind[kind]; ok {
			return tr, true
		}
	}
	return Transition[S]{}, false
}

// Lookup resolves the Transition for (state, kind), defaulting to a
// ProtocolErr transition that stays in state when the pair is not in
// the table — every (state, kind) combination spec.md doesn't name
// explicitly is illegal, not merely unspecified.
func (t *Table[S]) Lookup(state S, kind message.Kind) Transition[S] {
	if byKind, ok := t.Incoming[state]; ok {
		if tr, ok := byKind[kind]; ok {
			return tr
		}
	}
	return Transition[S]{Next: state, Action: ProtocolErr}
}

// MayOriginate reports whether the application may Signal this Kind
// from this role, independent of the current state.
func (t *Table[S]) MayOriginate(kind message.Kind) bool {
	return t.Originates[kind]
}
