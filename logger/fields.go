package logger

// Fields carries structured context for one trace entry (session id, lane
// id, message kind, ...), the way github.com/nabbar/golib/logger/fields
// does, narrowed to the immutable-copy-on-Add discipline that lets it be
// shared safely between the executor goroutine and the writer goroutine.
type Fields map[string]interface{}

// NewFields returns an empty Fields map.
func NewFields() Fields {
	return make(Fields)
}

// Add returns a copy of f with key set to val, leaving f untouched.
func (f Fields) Add(key string, val interface{}) Fields {
	res := make(Fields, len(f)+1)
	for k, v := range f {
		res[k] = v
	}
	res[key] = val
	return res
}

func (f Fields) toLogrus() map[string]interface{} {
	return map[string]interface{}(f)
}
