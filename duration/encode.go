/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 * Copyright (c) 2025 Europlacer Ltd
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package duration

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders d as its quoted String() form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a quoted duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	return d.unmarshal(b)
}

// MarshalYAML renders d as its String() form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML parses a YAML scalar duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.unmarshal([]byte(value.Value))
}

// MarshalTOML renders d as its quoted String() form.
func (d Duration) MarshalTOML() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalTOML parses a TOML string or []byte duration value.
func (d *Duration) UnmarshalTOML(v interface{}) error {
	switch t := v.(type) {
	case []byte:
		return d.unmarshal(t)
	case string:
		return d.parseString(t)
	default:
		return fmt.Errorf("duration: value not in valid format: %T", v)
	}
}

// MarshalText renders d as its String() form, used by anything going
// through encoding.TextMarshaler (env var decoding, flag values, ...).
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a plain duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	return d.unmarshal(b)
}
