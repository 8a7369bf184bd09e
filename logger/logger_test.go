package logger_test

import (
	"bytes"
	"testing"

	liblog "github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "logger Suite")
}

var _ = Describe("Logger", func() {
	It("stamps session id and trace type on every entry", func() {
		buf := &bytes.Buffer{}
		base := logrus.New()
		base.SetOutput(buf)
		base.SetFormatter(&logrus.JSONFormatter{})

		l := liblog.New(base)
		l.Trace(7, liblog.Received, "BoardAvailable", liblog.NewFields().Add("board_id", "B1"))

		Expect(buf.String()).To(ContainSubstring(`"session_id":7`))
		Expect(buf.String()).To(ContainSubstring(`"trace_type":"RECEIVED"`))
		Expect(buf.String()).To(ContainSubstring(`"board_id":"B1"`))
	})

	It("WithFields merges without mutating the parent", func() {
		buf := &bytes.Buffer{}
		base := logrus.New()
		base.SetOutput(buf)
		base.SetFormatter(&logrus.JSONFormatter{})

		parent := liblog.New(base)
		child := parent.WithFields(liblog.NewFields().Add("lane_id", 0))

		child.Trace(1, liblog.Info, "hello", nil)
		Expect(buf.String()).To(ContainSubstring(`"lane_id":0`))
	})

	It("Noop never panics without a configured sink", func() {
		Expect(func() {
			liblog.Noop().Trace(0, liblog.Debug, "quiet", nil)
		}).ToNot(Panic())
	})
})
