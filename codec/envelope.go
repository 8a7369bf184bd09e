// Package codec implements the Hermes message serialization layer
// (spec.md §4.2, "L2"): wrapping a single typed message in a
// `<Hermes Timestamp="...">` envelope on the way out, and incrementally
// tokenizing a byte stream of concatenated envelopes on the way in.
// Documents arrive with no length prefix, so Reader retains whatever
// trailing bytes do not yet form a complete document between calls.
package codec

import "github.com/EuroplacerUk/hermes-sdk/message"

// TimestampLayout is the ISO-8601, timezone-qualified layout Hermes uses
// for the envelope's Timestamp attribute, e.g. "2017-07-19T15:33:00.0000+02:00".
const TimestampLayout = "2006-01-02T15:04:05.0000Z07:00"

// Envelope is one decoded `<Hermes>` document: the envelope's own
// Timestamp attribute plus the single typed payload message it carried.
type Envelope struct {
	Timestamp string
	Message   message.Message
	// Unhandled is true when Message is a NotificationData that Reader
	// itself synthesized because the document's root element was not a
	// recognized Hermes message name — it was never sent by the peer as
	// a Notification. Callers should treat this as a protocol violation
	// to react to, not a message to forward to the application.
	Unhandled bool
}
