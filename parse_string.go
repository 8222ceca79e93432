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
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// parseString decodes the string literal whose opening quote is at idx,
// appends it to the string arena as a 4-byte little-endian length
// prefix, the decoded bytes and a terminating zero, and writes the
// string tape entry pointing at the prefix.
func parseString(pj *ParsedJson, buf []byte, idx uint64, msgLen int) ErrorCode {
	start := len(pj.Strings)
	// reserve the length prefix, patched when the length is known
	pj.Strings = append(pj.Strings, 0, 0, 0, 0)
	dst := pj.Strings

	src := idx + 1
	end := uint64(msgLen)
	for src < end {
		c := buf[src]
		switch {
		case c == '"':
			length := len(dst) - start - 4
			if uint64(length) > math.MaxUint32 {
				pj.Strings = dst
				return StringError
			}
			binary.LittleEndian.PutUint32(dst[start:], uint32(length))
			pj.Strings = append(dst, 0)
			pj.writeTape(uint64(start), '"')
			return Success

		case c == '\\':
			src++
			if src >= end {
				pj.Strings = dst
				return UnclosedString
			}
			esc := buf[src]
			switch esc {
			case '"', '\\', '/':
				dst = append(dst, esc)
				src++
			case 'b':
				dst = append(dst, '\b')
				src++
			case 'f':
				dst = append(dst, '\f')
				src++
			case 'n':
				dst = append(dst, '\n')
				src++
			case 'r':
				dst = append(dst, '\r')
				src++
			case 't':
				dst = append(dst, '\t')
				src++
			case 'u':
				cp, consumed := decodeUnicodeEscape(buf, src-1, end)
				if consumed == 0 {
					pj.Strings = dst
					return StringError
				}
				var tmp [4]byte
				n := utf8.EncodeRune(tmp[:], cp)
				dst = append(dst, tmp[:n]...)
				src += consumed - 1
			default:
				pj.Strings = dst
				return StringError
			}

		case c < 0x20:
			// stage 1 flags these first; kept for direct invocations
			pj.Strings = dst
			return UnescapedChars

		default:
			dst = append(dst, c)
			src++
		}
	}
	pj.Strings = dst
	return UnclosedString
}

// decodeUnicodeEscape decodes a \uXXXX sequence starting at the
// backslash, pairing surrogates. It returns the code point and the
// number of input bytes consumed, or 0 on a malformed escape or a lone
// surrogate.
func decodeUnicodeEscape(buf []byte, pos, end uint64) (rune, uint64) {
	if pos+6 > end {
		return 0, 0
	}
	cp, ok := hex4(buf[pos+2:])
	if !ok {
		return 0, 0
	}
	if cp >= 0xd800 && cp <= 0xdbff {
		// high surrogate; a low surrogate must follow
		if pos+12 > end || buf[pos+6] != '\\' || buf[pos+7] != 'u' {
			return 0, 0
		}
		lo, ok := hex4(buf[pos+8:])
		if !ok || lo < 0xdc00 || lo > 0xdfff {
			return 0, 0
		}
		return 0x10000 + (rune(cp-0xd800) << 10) + rune(lo-0xdc00), 12
	}
	if cp >= 0xdc00 && cp <= 0xdfff {
		// lone low surrogate
		return 0, 0
	}
	return rune(cp), 6
}

func hex4(b []byte) (uint32, bool) {
	var v uint32
	for i := 0; i < 4; i++ {
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, false
		}
	}
	return v, true
}
