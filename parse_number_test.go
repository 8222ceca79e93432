/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simdjson

import (
	"math"
	"testing"
)

// runParseNumber parses a single number the way stage 2 presents it:
// starting at its first byte, with readable padding behind it.
func runParseNumber(input string) (Tag, uint64, ErrorCode) {
	buf := make([]byte, len(input)+Padding)
	copy(buf, input)
	for i := len(input); i < len(buf); i++ {
		buf[i] = ' '
	}
	var pj ParsedJson
	errCode := parseNumber(buf, &pj)
	if errCode != Success {
		return TagEnd, 0, errCode
	}
	return Tag(pj.Tape[0] >> JSONTAGOFFSET), pj.Tape[1], Success
}

func TestParseInteger(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"1", 1},
		{"-1", -1},
		{"42", 42},
		{"-127", -127},
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775808", math.MinInt64},
		{"100000000000000000", 100000000000000000},
	}
	for i, tc := range testCases {
		tag, val, errCode := runParseNumber(tc.input)
		if errCode != Success {
			t.Errorf("TestParseInteger(%d): %q: unexpected error %v", i, tc.input, errCode)
			continue
		}
		if tag != TagInteger {
			t.Errorf("TestParseInteger(%d): %q: got tag %s want l", i, tc.input, tag)
			continue
		}
		if int64(val) != tc.expected {
			t.Errorf("TestParseInteger(%d): %q: got %d want %d", i, tc.input, int64(val), tc.expected)
		}
	}
}

func TestParseDouble(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
	}{
		{"0.5", 0.5},
		{"-0.5", -0.5},
		{"1.5", 1.5},
		{"1e1", 10},
		{"1E1", 10},
		{"1e-1", 0.1},
		{"1e+1", 10},
		{"0.1", 0.1},
		{"3.141592653589793", 3.141592653589793},
		{"1e22", 1e22},
		{"1e-22", 1e-22},
		// outside the fast-path exponent range
		{"1e23", 1e23},
		{"1e-23", 1e-23},
		{"2.2250738585072014e-308", 2.2250738585072014e-308},
		{"1.7976931348623157e308", 1.7976931348623157e308},
		// correct rounding with a long mantissa
		{"7.2057594037927933e16", 7.2057594037927933e16},
		{"0.000000000000000000000000000000000000000000000000000001", 1e-54},
		// integer too large for int64 falls back to double
		{"9223372036854775808", 9223372036854775808.0},
		{"18446744073709551616", 18446744073709551616.0},
	}
	for i, tc := range testCases {
		tag, val, errCode := runParseNumber(tc.input)
		if errCode != Success {
			t.Errorf("TestParseDouble(%d): %q: unexpected error %v", i, tc.input, errCode)
			continue
		}
		if tag != TagFloat {
			t.Errorf("TestParseDouble(%d): %q: got tag %s want d", i, tc.input, tag)
			continue
		}
		if got := math.Float64frombits(val); got != tc.expected {
			t.Errorf("TestParseDouble(%d): %q: got %v want %v", i, tc.input, got, tc.expected)
		}
	}
}

func TestParseNumberErrors(t *testing.T) {
	testCases := []string{
		"-",
		"01",
		"-01",
		"00",
		"1.",
		".5",
		"1.e5",
		"1e",
		"1e+",
		"1e-",
		"1ee5",
		"12a",
		"1.5x",
		"+1",
		"--1",
		"1.2.3",
		// out of double range is rejected, not parsed to infinity
		"1e9999",
		"-1e9999",
		"1e309",
	}
	for i, tc := range testCases {
		_, _, errCode := runParseNumber(tc)
		if errCode != NumberError {
			t.Errorf("TestParseNumberErrors(%d): %q: got %v want NumberError", i, tc, errCode)
		}
	}
}

func TestParseNumberInDocument(t *testing.T) {
	pj, err := Parse([]byte(`[1, -2.5, 1e10, 123456789012345678901234567890]`), nil)
	if err != nil {
		t.Fatal(err)
	}
	i := pj.Iter()
	i.AdvanceInto() // root
	if tag := i.AdvanceInto(); tag != TagArrayStart {
		t.Fatalf("expected array start, got %s", tag)
	}
	if tag := i.AdvanceInto(); tag != TagInteger {
		t.Fatalf("expected integer, got %s", tag)
	}
	if v, _ := i.Int(); v != 1 {
		t.Errorf("got %d want 1", v)
	}
	if tag := i.AdvanceInto(); tag != TagFloat {
		t.Fatalf("expected float, got %s", tag)
	}
	if v, _ := i.Float(); v != -2.5 {
		t.Errorf("got %v want -2.5", v)
	}
	if tag := i.AdvanceInto(); tag != TagFloat {
		t.Fatalf("expected float, got %s", tag)
	}
	if v, _ := i.Float(); v != 1e10 {
		t.Errorf("got %v want 1e10", v)
	}
	if tag := i.AdvanceInto(); tag != TagFloat {
		t.Fatalf("expected float for huge integer, got %s", tag)
	}
	if v, _ := i.Float(); v != 123456789012345678901234567890.0 {
		t.Errorf("got %v", v)
	}
}
