package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/message"
)

// errIncomplete marks a document that hasn't fully arrived yet; Reader
// swallows it and waits for the next Feed.
var errIncomplete = errors.New("codec: incomplete document")

// Reader accumulates bytes from the transport layer and yields one
// Envelope per complete `<Hermes>...</Hermes>` document. It tolerates
// chunk boundaries falling anywhere, including mid-tag or mid-attribute.
type Reader struct {
	buf bytes.Buffer
}

// NewReader returns an empty Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Feed appends chunk to the retained remainder and returns every
// envelope that is now complete. A malformed document (bad XML, unknown
// root element) aborts with a PEER_ERROR and the caller should close the
// session; envelopes already returned in out remain valid.
func (r *Reader) Feed(chunk []byte) (out []Envelope, err error) {
	if len(chunk) > 0 {
		r.buf.Write(chunk)
	}
	for {
		data := r.buf.Bytes()
		if len(data) == 0 {
			return out, nil
		}
		env, consumed, decErr := decodeOne(data)
		if decErr == errIncomplete {
			return out, nil
		}
		if decErr != nil {
			return out, decErr
		}
		out = append(out, env)
		r.buf.Next(consumed)
	}
}

// decodeOne parses the single leading `<Hermes>` document in data,
// returning the number of bytes it consumed. It reports errIncomplete if
// data does not yet hold a full document.
func decodeOne(data []byte) (Envelope, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var timestamp string
	for {
		tok, err := dec.Token()
		if err != nil {
			return Envelope{}, 0, wrapIncomplete(err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "Hermes" {
			return Envelope{}, 0, hermeserrors.New(hermeserrors.PeerError, "unexpected root element "+se.Name.Local)
		}
		for _, a := range se.Attr {
			if a.Name.Local == "Timestamp" {
				timestamp = a.Value
			}
		}
		break
	}

	var payloadStart xml.StartElement
	for payloadStart.Name.Local == "" {
		tok, err := dec.Token()
		if err != nil {
			return Envelope{}, 0, wrapIncomplete(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			payloadStart = t
		case xml.EndElement:
			return Envelope{}, 0, hermeserrors.New(hermeserrors.PeerError, "Hermes envelope carried no message")
		}
	}

	kind, ok := message.KindByName(payloadStart.Name.Local)
	if !ok {
		if err := dec.Skip(); err != nil {
			return Envelope{}, 0, wrapIncomplete(err)
		}
		if err := consumeHermesEnd(dec); err != nil {
			return Envelope{}, 0, wrapIncomplete(err)
		}
		return Envelope{
			Timestamp: timestamp,
			Message: message.NotificationData{
				Code:        message.CodeProtocolError,
				Severity:    message.SeverityError,
				Description: "unknown message " + payloadStart.Name.Local,
			},
			Unhandled: true,
		}, int(dec.InputOffset()), nil
	}

	target := message.NewByKind(kind)
	if err := dec.DecodeElement(target, &payloadStart); err != nil {
		return Envelope{}, 0, wrapIncomplete(err)
	}
	if err := consumeHermesEnd(dec); err != nil {
		return Envelope{}, 0, wrapIncomplete(err)
	}
	return Envelope{Timestamp: timestamp, Message: message.Unwrap(target)}, int(dec.InputOffset()), nil
}

func consumeHermesEnd(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if ee, ok := tok.(xml.EndElement); ok && ee.Name.Local == "Hermes" {
			return nil
		}
	}
}

// wrapIncomplete classifies an xml.Decoder error: an EOF mid-document
// (io.EOF, io.ErrUnexpectedEOF, or the *xml.SyntaxError "unexpected EOF"
// the decoder reports for a cut-off tag or open element) means "not
// enough bytes yet", anything else is a genuine malformed document and
// becomes a PEER_ERROR.
func wrapIncomplete(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errIncomplete
	}
	var se *xml.SyntaxError
	if errors.As(err, &se) && se.Msg == "unexpected EOF" {
		return errIncomplete
	}
	return hermeserrors.Wrap(hermeserrors.PeerError, "malformed Hermes document", err)
}
