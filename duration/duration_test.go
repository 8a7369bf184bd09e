package duration_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/duration"

	"gopkg.in/yaml.v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDuration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "duration Suite")
}

type configExample struct {
	RetryDelay duration.Duration `json:"retryDelay" yaml:"retryDelay"`
}

var _ = Describe("Duration", func() {
	It("parses a plain time.ParseDuration string", func() {
		d, err := duration.Parse("90s")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Time()).To(Equal(90 * time.Second))
	})

	It("parses a days-extended string and formats it back", func() {
		d, err := duration.Parse("1d2h3m4s")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.String()).To(Equal("1d2h3m4s"))
	})

	It("round-trips through JSON", func() {
		in := configExample{RetryDelay: duration.Seconds(30)}
		b, err := json.Marshal(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal(`{"retryDelay":"30s"}`))

		var out configExample
		Expect(json.Unmarshal(b, &out)).To(Succeed())
		Expect(out.RetryDelay).To(Equal(in.RetryDelay))
	})

	It("round-trips through YAML", func() {
		in := configExample{RetryDelay: duration.Minutes(5)}
		b, err := yaml.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		var out configExample
		Expect(yaml.Unmarshal(b, &out)).To(Succeed())
		Expect(out.RetryDelay).To(Equal(in.RetryDelay))
	})

	It("OrDefault falls back only when unset", func() {
		Expect(duration.Duration(0).OrDefault(duration.Seconds(5))).To(Equal(duration.Seconds(5)))
		Expect(duration.Seconds(1).OrDefault(duration.Seconds(5))).To(Equal(duration.Seconds(1)))
	})
})
