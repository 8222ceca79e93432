package simdjson

import (
	"bytes"
	"encoding/binary"
	"math"
)

// scopeIndex records an enclosing container while descending the tape.
type scopeIndex struct {
	startOfScope uint64
	scopeType    Tag
}

// TapeIterator is a cursor over the tape of a parsed document.
// It supports descending into containers, ascending, moving between
// siblings, key lookup within objects and JSON-Pointer addressing.
//
// A TapeIterator borrows the document; it performs no mutation and
// multiple iterators over the same document are independent.
type TapeIterator struct {
	pj         *ParsedJson
	depth      int
	location   uint64
	tapeLength uint64
	currentVal uint64
	currentTag Tag
	depthIndex []scopeIndex
}

// NewTapeIterator returns an iterator positioned at the first value of
// the document. Construction fails with the recorded error code if the
// document is not the result of a successful parse.
func (pj *ParsedJson) NewTapeIterator() (*TapeIterator, error) {
	if pj.internal == nil || !pj.internal.isvalid {
		code := Uninitialized
		if pj.internal != nil && pj.internal.err != Success && pj.internal.err != Uninitialized {
			code = pj.internal.err
		}
		return nil, code
	}
	if len(pj.Tape) == 0 {
		return nil, Empty
	}

	it := &TapeIterator{
		pj:         pj,
		depthIndex: make([]scopeIndex, pj.internal.maxDepth+2),
	}
	it.depthIndex[0].startOfScope = 0
	it.currentVal = pj.Tape[0]
	it.currentTag = Tag(it.currentVal >> JSONTAGOFFSET)
	it.depthIndex[0].scopeType = it.currentTag
	if it.currentTag != TagRoot {
		return nil, UnexpectedError
	}
	it.tapeLength = it.currentVal & JSONVALUEMASK
	it.location = 1
	if it.location < it.tapeLength {
		it.currentVal = pj.Tape[it.location]
		it.currentTag = Tag(it.currentVal >> JSONTAGOFFSET)
		it.depth++
		it.depthIndex[it.depth].startOfScope = it.location
		it.depthIndex[it.depth].scopeType = it.currentTag
	}
	return it, nil
}

// Depth returns the current nesting depth; the root value is at depth 1.
func (it *TapeIterator) Depth() int {
	return it.depth
}

// Location returns the current tape index.
func (it *TapeIterator) Location() uint64 {
	return it.location
}

// Tag returns the tape tag of the current value.
func (it *TapeIterator) Tag() Tag {
	return it.currentTag
}

// Type returns the type of the current value.
func (it *TapeIterator) Type() Type {
	return TagToType[it.currentTag]
}

func (it *TapeIterator) IsObject() bool { return it.currentTag == TagObjectStart }
func (it *TapeIterator) IsArray() bool  { return it.currentTag == TagArrayStart }
func (it *TapeIterator) IsString() bool { return it.currentTag == TagString }
func (it *TapeIterator) IsInteger() bool {
	return it.currentTag == TagInteger
}
func (it *TapeIterator) IsDouble() bool { return it.currentTag == TagFloat }

// Integer returns the current value as int64.
// Only valid when positioned on an integer.
func (it *TapeIterator) Integer() int64 {
	if it.currentTag != TagInteger || it.location+1 >= it.tapeLength {
		return 0
	}
	return int64(it.pj.Tape[it.location+1])
}

// Double returns the current value as float64.
// Only valid when positioned on a double.
func (it *TapeIterator) Double() float64 {
	if it.currentTag != TagFloat || it.location+1 >= it.tapeLength {
		return 0
	}
	return math.Float64frombits(it.pj.Tape[it.location+1])
}

// StringBytes returns the decoded bytes of the current string value.
// Only valid when positioned on a string.
func (it *TapeIterator) StringBytes() []byte {
	if it.currentTag != TagString {
		return nil
	}
	b, err := it.pj.stringSpanAt(it.currentVal & JSONVALUEMASK)
	if err != nil {
		return nil
	}
	return b
}

// String returns the current string value.
func (it *TapeIterator) String() string {
	return string(it.StringBytes())
}

// StringLength returns the length of the current string value without
// decoding it.
func (it *TapeIterator) StringLength() uint32 {
	offset := it.currentVal & JSONVALUEMASK
	if it.currentTag != TagString || offset+4 > uint64(len(it.pj.Strings)) {
		return 0
	}
	return binary.LittleEndian.Uint32(it.pj.Strings[offset:])
}

// Bool returns the current value as bool.
func (it *TapeIterator) Bool() bool {
	return it.currentTag == TagBoolTrue
}

// IsNull returns whether the current value is null.
func (it *TapeIterator) IsNull() bool {
	return it.currentTag == TagNull
}

func (it *TapeIterator) loadLocation(loc uint64) {
	it.location = loc
	it.currentVal = it.pj.Tape[loc]
	it.currentTag = Tag(it.currentVal >> JSONTAGOFFSET)
}

// Down descends into the current container and positions at its first
// child. It returns false when the current value is not a container or
// the container is empty.
func (it *TapeIterator) Down() bool {
	if it.location+1 >= it.tapeLength {
		return false
	}
	if it.currentTag != TagObjectStart && it.currentTag != TagArrayStart {
		return false
	}
	closeLoc := it.currentVal & JSONVALUEMASK
	if closeLoc == it.location+1 {
		// empty scope
		return false
	}
	if it.depth+1 >= len(it.depthIndex) {
		return false
	}
	it.depth++
	it.depthIndex[it.depth].startOfScope = it.location
	it.depthIndex[it.depth].scopeType = it.currentTag
	it.loadLocation(it.location + 1)
	return true
}

// Up ascends to the containing scope, positioning at the container
// itself. It returns false at the root.
func (it *TapeIterator) Up() bool {
	if it.depth <= 1 {
		return false
	}
	start := it.depthIndex[it.depth].startOfScope
	it.depth--
	it.loadLocation(start)
	return true
}

// Next moves to the next sibling within the current scope.
// It returns false at the last element; the position is unchanged then.
func (it *TapeIterator) Next() bool {
	var npos uint64
	switch it.currentTag {
	case TagObjectStart, TagArrayStart:
		// skip the whole scope: payload is the matching close
		npos = (it.currentVal & JSONVALUEMASK) + 1
	case TagInteger, TagFloat:
		npos = it.location + 2
	default:
		npos = it.location + 1
	}
	if npos >= it.tapeLength {
		return false
	}
	switch Tag(it.pj.Tape[npos] >> JSONTAGOFFSET) {
	case TagObjectEnd, TagArrayEnd, TagRoot:
		// end of the scope
		return false
	}
	it.loadLocation(npos)
	return true
}

// ToStartScope moves back to the first element of the current scope.
func (it *TapeIterator) ToStartScope() {
	start := it.depthIndex[it.depth].startOfScope
	if it.depth > 1 {
		// nested scopes record their container; the first child follows it
		start++
	}
	it.loadLocation(start)
}

// Rewind returns the iterator to its position at construction.
func (it *TapeIterator) Rewind() {
	it.depth = 0
	it.loadLocation(0)
	it.tapeLength = it.currentVal & JSONVALUEMASK
	it.location = 1
	if it.location < it.tapeLength {
		it.loadLocation(1)
		it.depth = 1
		it.depthIndex[1].startOfScope = 1
		it.depthIndex[1].scopeType = it.currentTag
	}
}

// MoveToKey positions the iterator at the value of the given key.
// Only valid when positioned on an object. When the key is not found
// false is returned and the position is unspecified; callers that need
// restoration must snapshot first.
func (it *TapeIterator) MoveToKey(key []byte) bool {
	if !it.Down() {
		return false
	}
	for {
		if !it.IsString() {
			return false
		}
		rightKey := bytes.Equal(it.StringBytes(), key)
		it.Next() // move to the value
		if rightKey {
			return true
		}
		if !it.Next() {
			break
		}
	}
	it.Up()
	return false
}

// MoveToIndex positions the iterator at the given element of the
// current array. It returns false when the index is out of range.
func (it *TapeIterator) MoveToIndex(index int) bool {
	if !it.IsArray() || !it.Down() {
		return false
	}
	for i := 0; i < index; i++ {
		if !it.Next() {
			it.Up()
			return false
		}
	}
	return true
}

// iterState is a resumable snapshot of an iterator.
type iterState struct {
	depth      int
	location   uint64
	tapeLength uint64
	currentVal uint64
	currentTag Tag
	depthIndex []scopeIndex
}

func (it *TapeIterator) snapshot() iterState {
	s := iterState{
		depth:      it.depth,
		location:   it.location,
		tapeLength: it.tapeLength,
		currentVal: it.currentVal,
		currentTag: it.currentTag,
	}
	s.depthIndex = append(s.depthIndex, it.depthIndex[:it.depth+1]...)
	return s
}

func (it *TapeIterator) restore(s iterState) {
	it.depth = s.depth
	it.location = s.location
	it.tapeLength = s.tapeLength
	it.currentVal = s.currentVal
	it.currentTag = s.currentTag
	copy(it.depthIndex, s.depthIndex)
}
