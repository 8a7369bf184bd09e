package message_test

import (
	"encoding/xml"
	"testing"

	hmsg "github.com/EuroplacerUk/hermes-sdk/message"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMessage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "message Suite")
}

var _ = Describe("Kind lookup", func() {
	It("resolves every known element name", func() {
		k, ok := hmsg.KindByName("BoardAvailable")
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(hmsg.KindBoardAvailable))
	})

	It("reports unknown names as not-ok, per the PROTOCOL_ERROR path", func() {
		_, ok := hmsg.KindByName("SomethingElse")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Round-trip laws", func() {
	It("serializes and parses BoardAvailableData", func() {
		in := hmsg.BoardAvailableData{BoardId: "B1", BoardIdCreatedBy: "Downstream"}

		raw, err := xml.Marshal(in)
		Expect(err).ToNot(HaveOccurred())

		var out hmsg.BoardAvailableData
		Expect(xml.Unmarshal(raw, &out)).To(Succeed())
		Expect(out.BoardId).To(Equal("B1"))
		Expect(out.BoardIdCreatedBy).To(Equal("Downstream"))
	})

	It("serializes and parses a CheckAlive with a Type pointer", func() {
		ping := hmsg.CheckAlivePing
		in := hmsg.CheckAliveData{Type: &ping, Id: "42"}

		raw, err := xml.Marshal(in)
		Expect(err).ToNot(HaveOccurred())

		var out hmsg.CheckAliveData
		Expect(xml.Unmarshal(raw, &out)).To(Succeed())
		Expect(out.Type).ToNot(BeNil())
		Expect(*out.Type).To(Equal(hmsg.CheckAlivePing))
		Expect(out.Id).To(Equal("42"))
	})

	It("round-trips SetConfigurationData's opaque settings bag", func() {
		in := hmsg.SetConfigurationData{Settings: map[string]string{
			"port":                "50100",
			"checkAlivePeriodSec": "2",
		}}

		raw, err := xml.Marshal(in)
		Expect(err).ToNot(HaveOccurred())

		var out hmsg.SetConfigurationData
		Expect(xml.Unmarshal(raw, &out)).To(Succeed())
		Expect(out.Settings).To(Equal(in.Settings))
	})
})
