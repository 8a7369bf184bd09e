package codec_test

import (
	"testing"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/codec"
	"github.com/EuroplacerUk/hermes-sdk/message"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCodec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "codec Suite")
}

var _ = Describe("Reader", func() {
	var r *codec.Reader

	BeforeEach(func() {
		r = codec.NewReader()
	})

	It("decodes a single whole envelope fed in one call", func() {
		envs, err := r.Feed([]byte(`<Hermes Timestamp="2026-07-31T10:00:00.0000+00:00"><MachineReady BoardId="B1"/></Hermes>`))
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(HaveLen(1))
		Expect(envs[0].Timestamp).To(Equal("2026-07-31T10:00:00.0000+00:00"))
		ready, ok := envs[0].Message.(message.MachineReadyData)
		Expect(ok).To(BeTrue())
		Expect(ready.BoardId).To(Equal("B1"))
	})

	It("decodes two envelopes concatenated with no separator", func() {
		doc := `<Hermes Timestamp="t1"><MachineReady BoardId="B1"/></Hermes>` +
			`<Hermes Timestamp="t2"><RevokeMachineReady/></Hermes>`
		envs, err := r.Feed([]byte(doc))
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(HaveLen(2))
		Expect(envs[0].Message.Kind()).To(Equal(message.KindMachineReady))
		Expect(envs[1].Message.Kind()).To(Equal(message.KindRevokeMachineReady))
	})

	It("tolerates a chunk boundary in the middle of a tag", func() {
		doc := `<Hermes Timestamp="t1"><MachineReady BoardId="B1"/></Hermes>`
		first, second := doc[:30], doc[30:]

		envs, err := r.Feed([]byte(first))
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(BeEmpty())

		envs, err = r.Feed([]byte(second))
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(HaveLen(1))
		ready, ok := envs[0].Message.(message.MachineReadyData)
		Expect(ok).To(BeTrue())
		Expect(ready.BoardId).To(Equal("B1"))
	})

	It("produces a PROTOCOL_ERROR notification for an unknown top-level element, and keeps reading", func() {
		doc := `<Hermes Timestamp="t1"><SomethingUnknown Foo="bar"/></Hermes>` +
			`<Hermes Timestamp="t2"><RevokeMachineReady/></Hermes>`
		envs, err := r.Feed([]byte(doc))
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(HaveLen(2))

		Expect(envs[0].Unhandled).To(BeTrue())
		notif, ok := envs[0].Message.(message.NotificationData)
		Expect(ok).To(BeTrue())
		Expect(notif.Code).To(Equal(message.CodeProtocolError))

		Expect(envs[1].Message.Kind()).To(Equal(message.KindRevokeMachineReady))
	})

	It("reports malformed XML as an error and stops", func() {
		_, err := r.Feed([]byte(`<Hermes Timestamp="t1"><MachineReady BoardId="B1"</Hermes>`))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a non-Hermes root element", func() {
		_, err := r.Feed([]byte(`<NotHermes/>`))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Writer", func() {
	It("round-trips through Reader", func() {
		w := codec.NewWriter()
		ts := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)

		raw, err := w.Encode(ts, message.MachineReadyData{BoardId: "B2"})
		Expect(err).ToNot(HaveOccurred())

		r := codec.NewReader()
		envs, err := r.Feed(raw)
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(HaveLen(1))
		ready, ok := envs[0].Message.(message.MachineReadyData)
		Expect(ok).To(BeTrue())
		Expect(ready.BoardId).To(Equal("B2"))
	})
})

var _ = Describe("Dispatcher", func() {
	It("routes to the registered handler for the message Kind", func() {
		d := codec.NewDispatcher()
		var got message.Kind
		d.On(message.KindMachineReady, func(env codec.Envelope) error {
			got = env.Message.Kind()
			return nil
		})

		err := d.Dispatch(codec.Envelope{Message: message.MachineReadyData{BoardId: "B1"}})
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(message.KindMachineReady))
	})

	It("falls through to OnUnhandled when no handler is registered", func() {
		d := codec.NewDispatcher()
		var got message.Kind
		d.OnUnhandled(func(env codec.Envelope) error {
			got = env.Message.Kind()
			return nil
		})

		err := d.Dispatch(codec.Envelope{Message: message.RevokeMachineReadyData{}})
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(message.KindRevokeMachineReady))
	})
})
