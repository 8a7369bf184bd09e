package errors_test

import (
	stderr "errors"

	liberr "github.com/EuroplacerUk/hermes-sdk/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error", func() {
	It("reports its kind", func() {
		err := liberr.New(liberr.ProtocolError, "unexpected message")
		Expect(err.Kind()).To(Equal(liberr.ProtocolError))
		Expect(err.Error()).To(ContainSubstring("PROTOCOL_ERROR"))
	})

	It("chains a parent error", func() {
		root := stderr.New("connection reset by peer")
		err := liberr.Wrap(liberr.NetworkError, "write failed", root)
		Expect(stderr.Unwrap(err)).To(Equal(root))
		Expect(err.Error()).To(ContainSubstring("connection reset by peer"))
	})

	It("classifies alarm-worthy kinds", func() {
		Expect(liberr.NetworkError.Alarm()).To(BeTrue())
		Expect(liberr.Timeout.Alarm()).To(BeFalse())
	})

	It("extracts Kind via KindOf", func() {
		err := liberr.New(liberr.ConfigurationError, "hostname mismatch")
		Expect(liberr.KindOf(err)).To(Equal(liberr.ConfigurationError))
		Expect(liberr.KindOf(stderr.New("plain"))).To(Equal(liberr.Unknown))
	})

	It("matches same-kind errors via Is", func() {
		a := liberr.New(liberr.Timeout, "deadline a")
		b := liberr.New(liberr.Timeout, "deadline b")
		Expect(stderr.Is(a, b)).To(BeTrue())
	})
})
