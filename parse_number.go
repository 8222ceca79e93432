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
	"strconv"
)

// Exact powers of ten representable in a float64.
var pow10Tab = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11,
	1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// Mantissas up to this value convert to float64 without rounding.
const exactMantissa = 1 << 53

// parseNumber decodes the number starting at buf[0] and writes it to
// the tape: tag 'l' with the value in the following slot when it has no
// fraction or exponent and fits a signed 64-bit integer, tag 'd' with
// the IEEE-754 bits otherwise.
//
// Numbers whose magnitude exceeds the double range (such as 1e9999)
// are rejected with NumberError rather than parsed to infinity, so a
// parsed document can always be serialized back to JSON.
func parseNumber(buf []byte, pj *ParsedJson) ErrorCode {
	pos := 0
	neg := false
	if buf[pos] == '-' {
		neg = true
		pos++
		if pos >= len(buf) || !isDigit(buf[pos]) {
			return NumberError
		}
	}

	// integer part; a leading zero must stand alone
	var mantissa uint64
	overflowed := false
	if buf[pos] == '0' {
		pos++
		if pos < len(buf) && isDigit(buf[pos]) {
			return NumberError
		}
	} else {
		digitsStart := pos
		for pos < len(buf) && isDigit(buf[pos]) {
			d := uint64(buf[pos] - '0')
			if mantissa > (math.MaxUint64-d)/10 {
				overflowed = true
			}
			mantissa = mantissa*10 + d
			pos++
		}
		if pos == digitsStart {
			return NumberError
		}
	}

	isDouble := false
	fracDigits := 0
	if pos < len(buf) && buf[pos] == '.' {
		isDouble = true
		pos++
		if pos >= len(buf) || !isDigit(buf[pos]) {
			return NumberError
		}
		for pos < len(buf) && isDigit(buf[pos]) {
			d := uint64(buf[pos] - '0')
			if mantissa > (math.MaxUint64-d)/10 {
				overflowed = true
			}
			mantissa = mantissa*10 + d
			fracDigits++
			pos++
		}
	}

	exp := 0
	expNeg := false
	if pos < len(buf) && (buf[pos] == 'e' || buf[pos] == 'E') {
		isDouble = true
		pos++
		if pos < len(buf) && (buf[pos] == '+' || buf[pos] == '-') {
			expNeg = buf[pos] == '-'
			pos++
		}
		if pos >= len(buf) || !isDigit(buf[pos]) {
			return NumberError
		}
		for pos < len(buf) && isDigit(buf[pos]) {
			if exp < 10000 {
				exp = exp*10 + int(buf[pos]-'0')
			}
			pos++
		}
	}

	// the number must be followed by a structural character or whitespace
	if pos < len(buf) && isNotStructuralOrWhitespace(buf[pos]) != 0 {
		return NumberError
	}

	if !isDouble {
		if !overflowed {
			if !neg && mantissa <= math.MaxInt64 {
				pj.writeTapeS64(int64(mantissa))
				return Success
			}
			if neg && mantissa <= math.MaxInt64+1 {
				pj.writeTapeS64(-int64(mantissa))
				return Success
			}
		}
		// does not fit an int64, fall back to double
	}

	exp10 := exp
	if expNeg {
		exp10 = -exp10
	}
	exp10 -= fracDigits

	// Clinger fast path: both factors exact, one rounding at the multiply.
	if !overflowed && mantissa < exactMantissa && exp10 >= -22 && exp10 <= 22 {
		d := float64(mantissa)
		if exp10 >= 0 {
			d *= pow10Tab[exp10]
		} else {
			d /= pow10Tab[-exp10]
		}
		if neg {
			d = -d
		}
		pj.writeTapeDouble(d)
		return Success
	}

	d, err := strconv.ParseFloat(string(buf[:pos]), 64)
	if err != nil || math.IsInf(d, 0) {
		return NumberError
	}
	pj.writeTapeDouble(d)
	return Success
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
