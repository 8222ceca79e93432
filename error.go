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

// ErrorCode is the result of a parse.
// The integer values are stable and can be stored or compared across versions.
type ErrorCode int

const (
	// Success means no error occurred.
	Success ErrorCode = iota
	// Capacity means the input exceeds the preallocated capacity of the document.
	Capacity
	// MemAlloc means a buffer could not be grown.
	MemAlloc
	// TapeError is a structural error, such as mismatched braces or trailing content.
	TapeError
	// DepthError means the document nests deeper than the configured ceiling.
	DepthError
	// StringError means a string contains an invalid escape sequence.
	StringError
	// TAtomError means a literal starting with 't' was not "true".
	TAtomError
	// FAtomError means a literal starting with 'f' was not "false".
	FAtomError
	// NAtomError means a literal starting with 'n' was not "null".
	NAtomError
	// NumberError means a number was malformed or out of range.
	NumberError
	// UTF8Error means the input contains invalid UTF-8.
	UTF8Error
	// Uninitialized means the document has not had a successful parse.
	Uninitialized
	// Empty means the input contained no JSON values.
	Empty
	// UnescapedChars means a string contains a raw control character below 0x20.
	UnescapedChars
	// UnclosedString means the input ended inside a string literal.
	UnclosedString
	// UnexpectedError is an internal error that should not occur.
	UnexpectedError
)

var errorMsgs = [...]string{
	Success:         "no error",
	Capacity:        "this ParsedJson can't support a document that big",
	MemAlloc:        "error allocating memory, we're most likely out of memory",
	TapeError:       "something went wrong while writing to the tape",
	DepthError:      "the JSON document was too deep (too many nested objects and arrays)",
	StringError:     "problem while parsing a string",
	TAtomError:      "problem while parsing an atom starting with the letter 't'",
	FAtomError:      "problem while parsing an atom starting with the letter 'f'",
	NAtomError:      "problem while parsing an atom starting with the letter 'n'",
	NumberError:     "problem while parsing a number",
	UTF8Error:       "the input is not valid UTF-8",
	Uninitialized:   "uninitialized",
	Empty:           "no JSON found",
	UnescapedChars:  "within strings, some characters must be escaped, we found unescaped characters",
	UnclosedString:  "a string is opened, but never closed",
	UnexpectedError: "indicative of a bug in the parser",
}

// Error implements the error interface.
// Success never appears as a returned error; it is included so codes
// can be printed uniformly.
func (c ErrorCode) Error() string {
	return c.String()
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(errorMsgs) {
		return "unknown error code"
	}
	return errorMsgs[c]
}
