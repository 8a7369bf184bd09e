package codec

import (
	"bytes"
	"encoding/xml"
	"time"

	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/message"
)

// Writer renders a typed message into a `<Hermes Timestamp="...">` envelope.
type Writer struct{}

// NewWriter returns a Writer. It holds no state; envelopes are
// self-contained, so one Writer can serve every session.
func NewWriter() *Writer {
	return &Writer{}
}

// Encode marshals msg and wraps it in a Hermes envelope stamped with ts.
func (w *Writer) Encode(ts time.Time, msg message.Message) ([]byte, error) {
	body, err := xml.Marshal(msg)
	if err != nil {
		return nil, hermeserrors.Wrap(hermeserrors.ImplementationError, "marshal "+msg.Kind().String(), err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<Hermes Timestamp="`)
	xml.EscapeText(&buf, []byte(ts.Format(TimestampLayout)))
	buf.WriteString(`">`)
	buf.Write(body)
	buf.WriteString(`</Hermes>`)
	return buf.Bytes(), nil
}
