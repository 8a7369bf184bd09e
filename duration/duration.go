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

// Package duration wraps time.Duration with a days-aware parse/format pair
// and config-format marshalling, so hermesd's YAML/env configuration can
// write "2h30m" or "1d" instead of forcing every knob into raw seconds.
package duration

import (
	"math"
	"time"
)

// Duration is a time.Duration that knows how to read and write itself as
// "5d23h15m13s"-style text across JSON, YAML, TOML and viper/mapstructure.
type Duration time.Duration

// Seconds returns a Duration representing i seconds.
func Seconds(i int64) Duration {
	return Duration(time.Duration(i) * time.Second)
}

// Minutes returns a Duration representing i minutes.
func Minutes(i int64) Duration {
	return Duration(time.Duration(i) * time.Minute)
}

// Hours returns a Duration representing i hours.
func Hours(i int64) Duration {
	return Duration(time.Duration(i) * time.Hour)
}

// Days returns a Duration representing i days.
func Days(i int64) Duration {
	return Duration(time.Duration(i) * 24 * time.Hour)
}

// Of wraps a time.Duration as a Duration without altering its value.
func Of(d time.Duration) Duration {
	return Duration(d)
}

// Parse parses a days-extended duration string ("1d2h3m4s") or any plain
// time.ParseDuration string.
func Parse(s string) (Duration, error) {
	return parseString(s)
}

// ParseByte is Parse for a []byte, used by the Unmarshal* methods.
func ParseByte(p []byte) (Duration, error) {
	return parseString(string(p))
}

// ParseFloat64 returns a Duration representing f nanoseconds, rounded to
// the nearest integer and clamped to the int64 range.
func ParseFloat64(f float64) Duration {
	const (
		mx float64 = math.MaxInt64
		mi         = -mx
	)
	switch {
	case f > mx:
		return Duration(math.MaxInt64)
	case f < mi:
		return Duration(-math.MaxInt64)
	default:
		return Duration(math.Round(f))
	}
}

// Time returns the underlying time.Duration.
func (d Duration) Time() time.Duration {
	return time.Duration(d)
}

// OrDefault returns d, or fallback if d is zero or negative — the pattern
// used throughout supervisor/config.go for an unset config knob.
func (d Duration) OrDefault(fallback Duration) Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
