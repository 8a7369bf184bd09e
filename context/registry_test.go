package context_test

import (
	"testing"

	libctx "github.com/EuroplacerUk/hermes-sdk/context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestContext(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "context Suite")
}

var _ = Describe("Registry", func() {
	It("stores and loads by key", func() {
		r := libctx.NewRegistry[uint32, string]()
		r.Store(1, "session-1")

		v, ok := r.Load(1)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("session-1"))
	})

	It("reports missing keys", func() {
		r := libctx.NewRegistry[uint32, string]()
		_, ok := r.Load(42)
		Expect(ok).To(BeFalse())
	})

	It("deletes entries and updates Len", func() {
		r := libctx.NewRegistry[uint32, string]()
		r.Store(1, "a")
		r.Store(2, "b")
		Expect(r.Len()).To(Equal(2))

		Expect(r.Delete(1)).To(BeTrue())
		Expect(r.Len()).To(Equal(1))
		Expect(r.Delete(1)).To(BeFalse())
	})

	It("walks a snapshot and can stop early", func() {
		r := libctx.NewRegistry[uint32, string]()
		r.Store(1, "a")
		r.Store(2, "b")
		r.Store(3, "c")

		seen := 0
		r.Walk(func(key uint32, val string) bool {
			seen++
			return seen < 2
		})
		Expect(seen).To(Equal(2))
	})
})
