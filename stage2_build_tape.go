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
	"bytes"
	"encoding/binary"
)

// Constants for "return address" modes
const retAddressShift = 2
const retAddressStartConst = 1
const retAddressObjectConst = 2
const retAddressArrayConst = 3

// isNotStructuralOrWhitespace returns 0 when the byte is structural,
// whitespace or NUL (padding), 1 otherwise.
func isNotStructuralOrWhitespace(c byte) uint64 {
	return structuralOrWhitespaceNegated[c]
}

var structuralOrWhitespaceNegated = [256]uint64{}

func init() {
	for i := range structuralOrWhitespaceNegated {
		structuralOrWhitespaceNegated[i] = 1
	}
	for _, c := range []byte{0, '\t', '\n', '\r', ' ', ',', ':', '[', ']', '{', '}'} {
		structuralOrWhitespaceNegated[c] = 0
	}
}

func isValidTrueAtom(buf []byte) bool {
	if len(buf) >= 8 { // fast path when there is enough space left in the buffer
		tv := uint64(0x0000000065757274) // "true    "
		mask4 := uint64(0x00000000ffffffff)
		locval := binary.LittleEndian.Uint64(buf)
		err := (locval & mask4) ^ tv
		err |= isNotStructuralOrWhitespace(buf[4])
		return err == 0
	} else if len(buf) >= 5 {
		return bytes.Equal(buf[:4], []byte("true")) && isNotStructuralOrWhitespace(buf[4]) == 0
	}
	return false
}

func isValidFalseAtom(buf []byte) bool {
	if len(buf) >= 8 { // fast path when there is enough space left in the buffer
		fv := uint64(0x00000065736c6166) // "false   "
		mask5 := uint64(0x000000ffffffffff)
		locval := binary.LittleEndian.Uint64(buf)
		err := (locval & mask5) ^ fv
		err |= isNotStructuralOrWhitespace(buf[5])
		return err == 0
	} else if len(buf) >= 6 {
		return bytes.Equal(buf[:5], []byte("false")) && isNotStructuralOrWhitespace(buf[5]) == 0
	}
	return false
}

func isValidNullAtom(buf []byte) bool {
	if len(buf) >= 8 { // fast path when there is enough space left in the buffer
		nv := uint64(0x000000006c6c756e) // "null    "
		mask4 := uint64(0x00000000ffffffff)
		locval := binary.LittleEndian.Uint64(buf)
		err := (locval & mask4) ^ nv
		err |= isNotStructuralOrWhitespace(buf[4])
		return err == 0
	} else if len(buf) >= 5 {
		return bytes.Equal(buf[:4], []byte("null")) && isNotStructuralOrWhitespace(buf[4]) == 0
	}
	return false
}

// unifiedMachine is stage 2: a pushdown automaton over the structural
// index stream that validates the grammar and writes the tape.
//
// Container entries cross-reference: an open at index i carries the
// index of its matching close, the close carries i. Root entries carry
// the tape index one past the closing root, so the final root's payload
// equals the total tape length.
func (pj *internalParsedJson) unifiedMachine() ErrorCode {
	// The message buffer extends beyond the logical length; the scalar
	// parsers and atom checks may read into the padding.
	buf := pj.Message[:cap(pj.Message)]
	msgLen := len(pj.Message)

	done := false
	idx := uint64(0)     // location of the structural character in the input (buf)
	pos := 0             // position in the structural index stream
	offset := uint64(0)  // used to contain last element of containingScopeOffset
	errCode := TapeError // error reported by the fail state
	c := byte(0)

	updateChar := func() bool {
		if pos >= pj.nIndexes {
			return true
		}
		idx = uint64(pj.indexes[pos])
		pos++
		c = buf[idx]
		return false
	}

	////////////////////////////// START STATE /////////////////////////////
	pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressStartConst)

	pj.writeTape(0, 'r') // r for root, 0 is going to get overwritten
	// the root is used, if nothing else, to capture the size of the tape

	if done = updateChar(); done {
		goto succeed
	}
	if pj.ndjson {
		for c == '\n' {
			if done = updateChar(); done {
				goto succeed
			}
		}
	}

continueRoot:
	switch c {
	case '{':
		pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressStartConst)
		pj.writeTape(0, c)
		goto objectBegin
	case '[':
		pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressStartConst)
		pj.writeTape(0, c)
		goto arrayBegin
	case '"':
		if errCode = parseString(&pj.ParsedJson, buf, idx, msgLen); errCode != Success {
			goto fail
		}
	case 't':
		if !isValidTrueAtom(buf[idx:]) {
			errCode = TAtomError
			goto fail
		}
		pj.writeTape(0, c)
	case 'f':
		if !isValidFalseAtom(buf[idx:]) {
			errCode = FAtomError
			goto fail
		}
		pj.writeTape(0, c)
	case 'n':
		if !isValidNullAtom(buf[idx:]) {
			errCode = NAtomError
			goto fail
		}
		pj.writeTape(0, c)
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-':
		if errCode = parseNumber(buf[idx:], &pj.ParsedJson); errCode != Success {
			goto fail
		}
	default:
		errCode = TapeError
		goto fail
	}

startContinue:
	// We are back at the top, read the next char and we should be done
	if done = updateChar(); done {
		goto succeed
	}
	// For an ndjson stream, wrap up the current root and start a new one
	if !pj.ndjson || c != '\n' {
		errCode = TapeError
		goto fail
	}
	for c == '\n' {
		if done = updateChar(); done {
			goto succeed
		}
	}

	// Close the current root
	offset = pj.containingScopeOffset[len(pj.containingScopeOffset)-1]
	pj.containingScopeOffset = pj.containingScopeOffset[:len(pj.containingScopeOffset)-1]

	pj.annotatePreviousLoc(offset>>retAddressShift, pj.getCurrentLoc()+1)
	pj.writeTape(pj.getCurrentLoc()+1, 'r')

	// And open a new root
	pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressStartConst)
	pj.writeTape(0, 'r') // r for root, 0 is going to get overwritten

	goto continueRoot

	//////////////////////////////// OBJECT STATES /////////////////////////////

objectBegin:
	if done = updateChar(); done {
		errCode = TapeError
		goto fail
	}
	switch c {
	case '"':
		if errCode = parseString(&pj.ParsedJson, buf, idx, msgLen); errCode != Success {
			goto fail
		}
		goto objectKeyState
	case '}':
		goto scopeEnd // could also go to objectContinue
	default:
		errCode = TapeError
		goto fail
	}

objectKeyState:
	if done = updateChar(); done {
		errCode = TapeError
		goto fail
	}
	if c != ':' {
		errCode = TapeError
		goto fail
	}
	if done = updateChar(); done {
		errCode = TapeError
		goto fail
	}
	switch c {
	case '"':
		if errCode = parseString(&pj.ParsedJson, buf, idx, msgLen); errCode != Success {
			goto fail
		}

	case 't':
		if !isValidTrueAtom(buf[idx:]) {
			errCode = TAtomError
			goto fail
		}
		pj.writeTape(0, c)

	case 'f':
		if !isValidFalseAtom(buf[idx:]) {
			errCode = FAtomError
			goto fail
		}
		pj.writeTape(0, c)

	case 'n':
		if !isValidNullAtom(buf[idx:]) {
			errCode = NAtomError
			goto fail
		}
		pj.writeTape(0, c)

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-':
		if errCode = parseNumber(buf[idx:], &pj.ParsedJson); errCode != Success {
			goto fail
		}

	case '{':
		if len(pj.containingScopeOffset) > pj.maxDepth {
			errCode = DepthError
			goto fail
		}
		pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressObjectConst)
		pj.writeTape(0, c)
		// we have not yet encountered } so we need to come back for it
		goto objectBegin

	case '[':
		if len(pj.containingScopeOffset) > pj.maxDepth {
			errCode = DepthError
			goto fail
		}
		pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressObjectConst)
		pj.writeTape(0, c)
		// we have not yet encountered ] so we need to come back for it
		goto arrayBegin

	default:
		errCode = TapeError
		goto fail
	}

objectContinue:
	if done = updateChar(); done {
		errCode = TapeError
		goto fail
	}
	switch c {
	case ',':
		if done = updateChar(); done {
			errCode = TapeError
			goto fail
		}
		if c != '"' {
			errCode = TapeError
			goto fail
		}
		if errCode = parseString(&pj.ParsedJson, buf, idx, msgLen); errCode != Success {
			goto fail
		}
		goto objectKeyState

	case '}':
		goto scopeEnd

	default:
		errCode = TapeError
		goto fail
	}

	////////////////////////////// COMMON STATE /////////////////////////////
scopeEnd:
	// write our tape location to the header scope
	offset = pj.containingScopeOffset[len(pj.containingScopeOffset)-1]
	pj.containingScopeOffset = pj.containingScopeOffset[:len(pj.containingScopeOffset)-1]

	// the open and close slots point at each other
	pj.annotatePreviousLoc(offset>>retAddressShift, pj.getCurrentLoc())
	pj.writeTape(offset>>retAddressShift, c)

	/* goto saved_state */
	switch offset & ((1 << retAddressShift) - 1) {
	case retAddressArrayConst:
		goto arrayContinue
	case retAddressObjectConst:
		goto objectContinue
	default:
		goto startContinue
	}

	////////////////////////////// ARRAY STATES /////////////////////////////
arrayBegin:
	if done = updateChar(); done {
		errCode = TapeError
		goto fail
	}
	if c == ']' {
		goto scopeEnd // could also go to arrayContinue
	}

mainArraySwitch:
	// we call update char on all paths in, so we can peek at c on the
	// on paths that can accept a close square brace (post-, and at start)
	switch c {
	case '"':
		if errCode = parseString(&pj.ParsedJson, buf, idx, msgLen); errCode != Success {
			goto fail
		}
	case 't':
		if !isValidTrueAtom(buf[idx:]) {
			errCode = TAtomError
			goto fail
		}
		pj.writeTape(0, c)

	case 'f':
		if !isValidFalseAtom(buf[idx:]) {
			errCode = FAtomError
			goto fail
		}
		pj.writeTape(0, c)

	case 'n':
		if !isValidNullAtom(buf[idx:]) {
			errCode = NAtomError
			goto fail
		}
		pj.writeTape(0, c)

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-':
		if errCode = parseNumber(buf[idx:], &pj.ParsedJson); errCode != Success {
			goto fail
		}

	case '{':
		if len(pj.containingScopeOffset) > pj.maxDepth {
			errCode = DepthError
			goto fail
		}
		// we have not yet encountered } so we need to come back for it
		pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressArrayConst)
		pj.writeTape(0, c)
		goto objectBegin

	case '[':
		if len(pj.containingScopeOffset) > pj.maxDepth {
			errCode = DepthError
			goto fail
		}
		// we have not yet encountered ] so we need to come back for it
		pj.containingScopeOffset = append(pj.containingScopeOffset, pj.getCurrentLoc()<<retAddressShift|retAddressArrayConst)
		pj.writeTape(0, c)
		goto arrayBegin

	default:
		errCode = TapeError
		goto fail
	}

arrayContinue:
	if done = updateChar(); done {
		errCode = TapeError
		goto fail
	}
	switch c {
	case ',':
		if done = updateChar(); done {
			errCode = TapeError
			goto fail
		}
		goto mainArraySwitch

	case ']':
		goto scopeEnd

	default:
		errCode = TapeError
		goto fail
	}

	////////////////////////////// FINAL STATES /////////////////////////////
succeed:
	offset = pj.containingScopeOffset[len(pj.containingScopeOffset)-1]
	pj.containingScopeOffset = pj.containingScopeOffset[:len(pj.containingScopeOffset)-1]

	if len(pj.containingScopeOffset) != 0 {
		// the machine returned to the top with unclosed scopes
		return TapeError
	}
	if offset&((1<<retAddressShift)-1) != retAddressStartConst {
		return TapeError
	}

	pj.annotatePreviousLoc(offset>>retAddressShift, pj.getCurrentLoc()+1)
	pj.writeTape(pj.getCurrentLoc()+1, 'r')

	return Success

fail:
	return errCode
}
