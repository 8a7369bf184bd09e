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
	"strconv"
	"strings"
	"time"
)

// parseString accepts either a plain time.ParseDuration string or one
// carrying a leading "Nd" day component, e.g. "2d3h".
func parseString(s string) (Duration, error) {
	s = strings.Trim(s, `"'`)
	if s == "" {
		return 0, nil
	}

	if idx := strings.IndexByte(s, 'd'); idx > 0 {
		days, err := strconv.ParseInt(s[:idx], 10, 64)
		if err != nil {
			return 0, err
		}
		rest := s[idx+1:]
		d := Days(days)
		if rest == "" {
			return d, nil
		}
		r, err := time.ParseDuration(rest)
		if err != nil {
			return 0, err
		}
		return d + Duration(r), nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return Duration(v), nil
}

func (d *Duration) parseString(s string) error {
	v, err := parseString(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d *Duration) unmarshal(val []byte) error {
	v, err := ParseByte(val)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
