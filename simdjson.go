// Package simdjson provides a high-throughput JSON parser.
//
// Parsing happens in two stages modelled on the simdjson C++ library:
// stage 1 classifies every input byte with branch-light, word-parallel
// kernels and emits the offsets of all structural characters; stage 2
// walks the offsets with a pushdown automaton and writes a compact
// tape encoding the document tree. Strings are decoded into a separate
// arena. The tape can be traversed with Iter, with the scope-stack
// based TapeIterator, or addressed directly with JSON Pointers.
package simdjson

import (
	"bytes"
)

// Padding is the number of bytes the classifier may read past the
// logical end of the input. Buffers passed to ParsePadded must keep at
// least this much readable capacity beyond their length.
const Padding = 64

// Parse a block of data and return the parsed JSON.
// An optional block of previously parsed json can be supplied to reduce allocations.
func Parse(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	return runParse(b, reuse, false, false, opts...)
}

// ParsePadded parses a buffer whose backing array already extends at
// least Padding bytes past its length, with the padding zeroed or
// whitespace. The defensive input copy of Parse is skipped.
func ParsePadded(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	if cap(b)-len(b) < Padding {
		// not actually padded; fall back to the copying path
		return runParse(b, reuse, false, false, opts...)
	}
	return runParse(b, reuse, false, true, opts...)
}

// ParseND will parse newline delimited JSON.
// An optional block of previously parsed json can be supplied to reduce allocations.
func ParseND(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	return runParse(bytes.TrimSpace(b), reuse, true, false, opts...)
}

// Build allocates a document sized to the input and parses into it.
// This is a convenience wrapper around Parse for one-shot use.
func Build(b []byte) (*ParsedJson, error) {
	return Parse(b, nil)
}

func runParse(b []byte, reuse *ParsedJson, ndjson, prePadded bool, opts ...ParserOption) (*ParsedJson, error) {
	var pj *internalParsedJson
	if reuse != nil && reuse.internal != nil {
		pj = reuse.internal
		pj.ParsedJson = *reuse
		pj.ParsedJson.internal = nil
	}
	if pj == nil {
		pj = &internalParsedJson{}
	}
	for _, opt := range opts {
		if err := opt(pj); err != nil {
			return nil, err
		}
	}
	if err := pj.parse(b, ndjson, prePadded); err != nil {
		// keep the failure recorded on the document
		pj.ParsedJson.internal = pj
		return nil, err
	}
	parsed := &pj.ParsedJson
	parsed.internal = pj
	return parsed, nil
}
