package simdjson

import "unicode/utf8"

// findStructuralIndices runs stage 1: it classifies every input byte,
// resolves escaped and in-string characters and writes the offsets of
// all structural and pseudo-structural characters to pj.indexes, in
// order, followed by sentinel offsets equal to the input length.
func (pj *internalParsedJson) findStructuralIndices() ErrorCode {
	msg := pj.Message
	if len(msg) == 0 {
		return Empty
	}
	if !utf8.Valid(msg) {
		return UTF8Error
	}

	classify := classifier()

	// the message buffer extends past the logical length, rounded up to
	// a whole number of blocks
	blocks := msg[: (len(msg)+63)&^63 : cap(msg)]

	// persistent state across the loop

	// does the last iteration end with an odd-length sequence of backslashes?
	// either 0 or 1, but a 64-bit value
	prevIterEndsOddBackslash := uint64(0)

	// does the previous iteration end inside a double-quote pair?
	prevIterInsideQuote := uint64(0) // either all zeros or all ones

	// does the previous iteration end on something that is a predecessor of
	// a pseudo-structural character, i.e. whitespace or a structural
	// character? The very first char is considered to follow "whitespace"
	// for the purposes of pseudo-structural character detection, so we
	// initialize to 1.
	prevIterEndsPseudoPred := uint64(1)

	errorMask := uint64(0) // for unescaped characters within strings (ASCII code points < 0x20)

	var m blockMasks
	for offset := 0; offset < len(blocks); offset += 64 {
		classify(blocks[offset:offset+64], &m)

		oddEnds := findOddBackslashSequences(m.backslash, &prevIterEndsOddBackslash)

		var quoteBits uint64
		quoteMask := findQuoteMaskAndBits(m.quotes, m.ctrl, oddEnds, &prevIterInsideQuote, &quoteBits, &errorMask)

		structurals := finalizeStructurals(m.structurals, m.whitespace, quoteMask, quoteBits, &prevIterEndsPseudoPred)

		if pj.ndjson {
			// newlines separate top-level values; quoted ones don't count
			structurals |= m.newlines &^ quoteMask
		}

		pj.indexes = flattenBits(pj.indexes, uint64(offset), structurals)
	}

	// Did we end inside a string?
	if prevIterInsideQuote != 0 {
		return UnclosedString
	}
	if errorMask != 0 {
		return UnescapedChars
	}

	// Padding bytes can only produce marks at or past the logical end;
	// drop them.
	for len(pj.indexes) > 0 && pj.indexes[len(pj.indexes)-1] >= uint32(len(msg)) {
		pj.indexes = pj.indexes[:len(pj.indexes)-1]
	}

	// a valid JSON document has at least one structural index
	if len(pj.indexes) == 0 {
		return Empty
	}
	pj.nIndexes = len(pj.indexes)

	// Sentinels let stage 2 look ahead one token without bounds checks.
	for i := 0; i < indexSentinels; i++ {
		pj.indexes = append(pj.indexes, uint32(len(msg)))
	}
	return Success
}
