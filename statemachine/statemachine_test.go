package statemachine_test

import (
	"testing"

	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/statemachine"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStatemachine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "statemachine Suite")
}

var _ = Describe("DownstreamTable", func() {
	table := statemachine.DownstreamTable()

	It("walks the happy path to AVAILABLE_AND_READY", func() {
		tr := table.Lookup(message.ServiceDescriptionDownstream, message.KindServiceDescription)
		Expect(tr.Action).To(Equal(statemachine.Accept))
		Expect(tr.Next).To(Equal(message.NotAvailableNotReady))

		tr = table.Lookup(message.NotAvailableNotReady, message.KindMachineReady)
		Expect(tr.Action).To(Equal(statemachine.Accept))
		Expect(tr.Next).To(Equal(message.MachineReadyState))
	})

	It("rejects StartTransport before AVAILABLE_AND_READY", func() {
		tr := table.Lookup(message.NotAvailableNotReady, message.KindStartTransport)
		Expect(tr.Action).To(Equal(statemachine.ProtocolErr))
	})

	It("accepts StartTransport from AVAILABLE_AND_READY", func() {
		tr := table.Lookup(message.AvailableAndReady, message.KindStartTransport)
		Expect(tr.Action).To(Equal(statemachine.Accept))
		Expect(tr.Next).To(Equal(message.Transporting))
	})

	It("defaults an unlisted (state, kind) pair to a protocol error", func() {
		tr := table.Lookup(message.Transporting, message.KindBoardAvailable)
		Expect(tr.Action).To(Equal(statemachine.ProtocolErr))
	})

	It("gates outgoing Signal calls to the role's Originates set", func() {
		Expect(table.MayOriginate(message.KindBoardAvailable)).To(BeTrue())
		Expect(table.MayOriginate(message.KindMachineReady)).To(BeFalse())
	})
})

var _ = Describe("UpstreamTable", func() {
	table := statemachine.UpstreamTable()

	It("mirrors the downstream role's message ownership", func() {
		Expect(table.MayOriginate(message.KindMachineReady)).To(BeTrue())
		Expect(table.MayOriginate(message.KindBoardAvailable)).To(BeFalse())

		tr := table.Lookup(message.NotAvailableNotReady, message.KindBoardAvailable)
		Expect(tr.Action).To(Equal(statemachine.Accept))
		Expect(tr.Next).To(Equal(message.BoardAvailableState))
	})
})

var _ = Describe("VerticalTable", func() {
	table := statemachine.VerticalTable()

	It("requires SupervisoryServiceDescription as the first message", func() {
		tr := table.Lookup(message.VerticalServiceDescription, message.KindSupervisoryServiceDescription)
		Expect(tr.Action).To(Equal(statemachine.Accept))
		Expect(tr.Next).To(Equal(message.VerticalConnected))
	})

	It("permits every supervisory kind once CONNECTED", func() {
		tr := table.Lookup(message.VerticalConnected, message.KindBoardArrived)
		Expect(tr.Action).To(Equal(statemachine.Stay))
	})

	It("rejects a second ServiceDescription once CONNECTED", func() {
		tr := table.Lookup(message.VerticalConnected, message.KindSupervisoryServiceDescription)
		Expect(tr.Action).To(Equal(statemachine.ProtocolErr))
	})
})
