package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger is the trace sink handed to every session/supervisor instance.
// SessionId is included by convention as a field named "session_id"; pass
// 0 when no session is associated with the entry yet (spec.md §3:
// "Zero is reserved to mean 'no session' in traces and signals").
type Logger interface {
	// Trace emits one advisory trace entry, per spec.md §7's
	// "Traces are advisory, not part of the error channel."
	Trace(sessionID uint32, kind TraceType, message string, fields Fields)
	// WithFields returns a Logger that always merges extra into its Fields.
	WithFields(extra Fields) Logger
	// SetLevel changes the minimal logrus level actually emitted.
	SetLevel(lvl logrus.Level)
}

type entry struct {
	base   *logrus.Logger
	fields Fields
}

// New wraps an existing *logrus.Logger, matching nabbar-golib's pattern of
// layering a typed Logger over a stdlib-compatible base logger instead of
// owning process-wide logging configuration itself.
func New(base *logrus.Logger) Logger {
	if base == nil {
		base = logrus.New()
	}
	return &entry{base: base, fields: NewFields()}
}

func (e *entry) Trace(sessionID uint32, kind TraceType, message string, fields Fields) {
	f := e.fields.Add("session_id", sessionID).Add("trace_type", kind.String()).Add("trace_id", uuid.NewString())
	for k, v := range fields {
		f = f.Add(k, v)
	}
	e.base.WithFields(f.toLogrus()).Log(kind.logrusLevel(), message)
}

func (e *entry) WithFields(extra Fields) Logger {
	f := make(Fields, len(e.fields)+len(extra))
	for k, v := range e.fields {
		f[k] = v
	}
	for k, v := range extra {
		f[k] = v
	}
	return &entry{base: e.base, fields: f}
}

func (e *entry) SetLevel(lvl logrus.Level) {
	e.base.SetLevel(lvl)
}

// Noop returns a Logger that discards every entry, used as the default when
// an embedder supplies none (the session/supervisor packages never accept
// a nil Logger).
func Noop() Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return New(l)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
