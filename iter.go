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
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Iter is a cursor over a region of the tape.
//
// A fresh Iter points before its first element; Advance or AdvanceInto
// loads one. The cursor tracks the start of the loaded element (pos)
// and where the walk resumes (next), which is what distinguishes
// skipping a container from descending into it.
type Iter struct {
	tape    []uint64
	strings []byte

	pos     int    // tape index of the loaded element
	next    int    // tape index the walk continues at
	tag     Tag    // tag of the loaded element, TagEnd before the first load
	payload uint64 // payload bits of the loaded element
}

// load makes the element whose tag word sits at the given index current.
func (i *Iter) load(at int) {
	v := i.tape[at]
	i.pos = at
	i.tag = Tag(v >> JSONTAGOFFSET)
	i.payload = v & JSONVALUEMASK
}

// width returns the number of tape words the loaded element spans,
// counting container opens together with their whole scope.
// A non-positive width indicates a corrupt cross-reference.
func (i *Iter) width() int {
	switch i.tag {
	case TagInteger, TagFloat:
		return 2
	case TagObjectStart, TagArrayStart:
		// payload is the matching close
		return int(i.payload) + 1 - i.pos
	case TagRoot:
		// payload is one past the closing root
		return int(i.payload) - i.pos
	default:
		return 1
	}
}

// Advance loads the next element on the current level, stepping over
// the contents of containers. It returns TypeNone at the end of the
// region.
func (i *Iter) Advance() Type {
	if i.next >= len(i.tape) {
		i.tag = TagEnd
		return TypeNone
	}
	i.load(i.next)
	w := i.width()
	if w <= 0 {
		// corrupt element; stop the walk
		i.next = len(i.tape)
		i.tag = TagEnd
		return TypeNone
	}
	i.next = i.pos + w
	return TagToType[i.tag]
}

// AdvanceInto loads the next tape entry regardless of nesting: it
// descends into containers and roots and also surfaces their close
// tags. Intended for manual, tag-by-tag walks.
func (i *Iter) AdvanceInto() Tag {
	if i.next >= len(i.tape) {
		i.tag = TagEnd
		return TagEnd
	}
	i.load(i.next)
	if i.tag == TagInteger || i.tag == TagFloat {
		i.next = i.pos + 2
	} else {
		i.next = i.pos + 1
	}
	return i.tag
}

// AdvanceIter loads the next element like Advance, but also hands it
// out as a bounded iterator in dst. TypeNone is returned at the end of
// the region.
func (i *Iter) AdvanceIter(dst *Iter) (Type, error) {
	typ := i.Advance()
	if typ == TypeNone {
		return TypeNone, nil
	}
	if i.next > len(i.tape) {
		return TypeNone, errors.New("element extends beyond its region")
	}
	if dst != i {
		*dst = *i
	}
	dst.tape = i.tape[:i.next]
	return typ, nil
}

// Type returns the type of the loaded element.
func (i *Iter) Type() Type {
	return TagToType[i.tag]
}

// PeekNextTag returns the tag the next Advance/AdvanceInto would load,
// or TagEnd at the end of the region. The cursor does not move.
func (i *Iter) PeekNextTag() Tag {
	if i.next >= len(i.tape) {
		return TagEnd
	}
	return Tag(i.tape[i.next] >> JSONTAGOFFSET)
}

// PeekNext returns the type the next Advance would load.
func (i *Iter) PeekNext() Type {
	return TagToType[i.PeekNextTag()]
}

// Int returns the loaded element as int64.
// Floats within the int64 range are converted.
func (i *Iter) Int() (int64, error) {
	switch i.tag {
	case TagInteger:
		if i.pos+1 >= len(i.tape) {
			return 0, errors.New("corrupt input: integer value missing from tape")
		}
		return int64(i.tape[i.pos+1]), nil
	case TagFloat:
		f, err := i.Float()
		if err != nil {
			return 0, err
		}
		if f > math.MaxInt64 {
			return 0, errors.New("float value overflows int64")
		}
		if f < math.MinInt64 {
			return 0, errors.New("float value underflows int64")
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("unable to convert type %v to int", i.tag)
}

// Uint returns the loaded element as uint64.
// Negative values are rejected.
func (i *Iter) Uint() (uint64, error) {
	switch i.tag {
	case TagInteger:
		v, err := i.Int()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, errors.New("integer value is negative. cannot convert to uint")
		}
		return uint64(v), nil
	case TagFloat:
		f, err := i.Float()
		if err != nil {
			return 0, err
		}
		if f < 0 {
			return 0, errors.New("float value is negative. cannot convert to uint")
		}
		if f > math.MaxUint64 {
			return 0, errors.New("float value overflows uint64")
		}
		return uint64(f), nil
	}
	return 0, fmt.Errorf("unable to convert type %v to uint", i.tag)
}

// Float returns the loaded element as float64.
// Integers are converted.
func (i *Iter) Float() (float64, error) {
	switch i.tag {
	case TagFloat:
		if i.pos+1 >= len(i.tape) {
			return 0, errors.New("corrupt input: float value missing from tape")
		}
		return math.Float64frombits(i.tape[i.pos+1]), nil
	case TagInteger:
		v, err := i.Int()
		return float64(v), err
	}
	return 0, fmt.Errorf("unable to convert type %v to float", i.tag)
}

// Bool returns the loaded element as bool.
func (i *Iter) Bool() (bool, error) {
	switch i.tag {
	case TagBoolTrue:
		return true, nil
	case TagBoolFalse:
		return false, nil
	}
	return false, fmt.Errorf("value is not bool, but %v", i.tag)
}

// StringBytes returns the decoded bytes of the loaded string element.
func (i *Iter) StringBytes() ([]byte, error) {
	if i.tag != TagString {
		return nil, errors.New("value is not string")
	}
	return arenaSpan(i.strings, i.payload)
}

// String returns the loaded string element.
func (i *Iter) String() (string, error) {
	b, err := i.StringBytes()
	return string(b), err
}

// StringCvt returns a string representation of any scalar element.
func (i *Iter) StringCvt() (string, error) {
	switch i.tag {
	case TagString:
		return i.String()
	case TagInteger:
		v, err := i.Int()
		return strconv.FormatInt(v, 10), err
	case TagFloat:
		v, err := i.Float()
		if err != nil {
			return "", err
		}
		return floatToString(v)
	case TagBoolTrue:
		return "true", nil
	case TagBoolFalse:
		return "false", nil
	case TagNull:
		return "null", nil
	}
	return "", fmt.Errorf("cannot convert type %s to string", TagToType[i.tag])
}

// Root unpacks the loaded root element: dst is positioned on the
// document inside it and the document's type is returned. An empty
// root yields TypeNone.
func (i *Iter) Root(dst *Iter) (Type, *Iter, error) {
	if i.tag != TagRoot {
		return TypeNone, dst, errors.New("value is not root")
	}
	end := int(i.payload) - 1 // the closing root entry
	if end < i.pos+1 || end > len(i.tape) {
		return TypeNone, dst, errors.New("root element has corrupt length")
	}
	if dst == nil {
		dst = &Iter{}
	}
	dst.tape = i.tape[:end]
	dst.strings = i.strings
	dst.pos = i.pos
	dst.next = i.pos + 1
	dst.tag = TagEnd
	dst.payload = 0
	return dst.Advance(), dst, nil
}

// Object hands out the loaded object element for member iteration.
// An optional destination can be given.
func (i *Iter) Object(dst *Object) (*Object, error) {
	if i.tag != TagObjectStart {
		return nil, errors.New("next item is not object")
	}
	closeAt := int(i.payload)
	if closeAt <= i.pos || closeAt > len(i.tape) {
		return nil, errors.New("corrupt input: object has corrupt length")
	}
	if dst == nil {
		dst = &Object{}
	}
	dst.iter = Iter{
		tape:    i.tape[:closeAt],
		strings: i.strings,
		next:    i.pos + 1,
	}
	return dst, nil
}

// Array hands out the loaded array element for member iteration.
// An optional destination can be given.
func (i *Iter) Array(dst *Array) (*Array, error) {
	if i.tag != TagArrayStart {
		return nil, errors.New("next item is not array")
	}
	closeAt := int(i.payload)
	if closeAt <= i.pos || closeAt > len(i.tape) {
		return nil, errors.New("corrupt input: array has corrupt length")
	}
	if dst == nil {
		dst = &Array{}
	}
	dst.iter = Iter{
		tape:    i.tape[:closeAt],
		strings: i.strings,
		next:    i.pos + 1,
	}
	return dst, nil
}

// Interface decodes the loaded element into generic Go values:
// objects become map[string]interface{}, arrays []interface{}, strings
// string, integers int64, floats float64, booleans bool and null nil.
// A root cursor decodes every document and returns []interface{}.
func (i *Iter) Interface() (interface{}, error) {
	switch i.tag {
	case TagEnd:
		if i.Advance() == TypeNone {
			return nil, errors.New("no content in iterator")
		}
		return i.Interface()
	case TagRoot:
		work := *i
		var docs []interface{}
		for {
			typ, content, err := work.Root(nil)
			if err != nil {
				return nil, err
			}
			if typ != TypeNone {
				doc, err := content.Interface()
				if err != nil {
					return nil, err
				}
				docs = append(docs, doc)
			}
			if work.Advance() != TypeRoot {
				return docs, nil
			}
		}
	case TagNull:
		return nil, nil
	case TagString:
		return i.String()
	case TagInteger:
		return i.Int()
	case TagFloat:
		return i.Float()
	case TagBoolTrue, TagBoolFalse:
		return i.tag == TagBoolTrue, nil
	case TagObjectStart:
		obj, err := i.Object(nil)
		if err != nil {
			return nil, err
		}
		return obj.Map(nil)
	case TagArrayStart:
		arr, err := i.Array(nil)
		if err != nil {
			return nil, err
		}
		return arr.Interface()
	}
	return nil, fmt.Errorf("unknown tape tag %q", byte(i.tag))
}

// MarshalJSON re-serializes the region of the iterator.
func (i *Iter) MarshalJSON() ([]byte, error) {
	return i.MarshalJSONBuffer(nil)
}

// MarshalJSONBuffer re-serializes the region of the iterator, starting
// with the loaded element, or with the first one if none is loaded
// yet. Root documents are separated by newlines. Output is appended to
// dst. The cursor of the receiver is left untouched.
func (i *Iter) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	work := *i
	if work.tag == TagEnd {
		if work.Advance() == TypeNone {
			return nil, errors.New("no content queued in iterator")
		}
	}
	for doc := 0; ; doc++ {
		if doc > 0 {
			dst = append(dst, '\n')
		}
		var err error
		if work.tag == TagRoot {
			typ, content, rerr := work.Root(nil)
			if rerr != nil {
				return nil, rerr
			}
			if typ != TypeNone {
				dst, err = content.appendValue(dst)
			}
		} else {
			dst, err = work.appendValue(dst)
		}
		if err != nil {
			return nil, err
		}
		if work.Advance() == TypeNone {
			return dst, nil
		}
	}
}

// appendValue appends the JSON encoding of the loaded element,
// descending recursively into containers.
func (i *Iter) appendValue(dst []byte) ([]byte, error) {
	switch i.tag {
	case TagString:
		sb, err := i.StringBytes()
		if err != nil {
			return nil, err
		}
		dst = append(dst, '"')
		dst = escapeBytes(dst, sb)
		return append(dst, '"'), nil

	case TagInteger:
		v, err := i.Int()
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(dst, v, 10), nil

	case TagFloat:
		v, err := i.Float()
		if err != nil {
			return nil, err
		}
		return appendFloat(dst, v)

	case TagBoolTrue:
		return append(dst, "true"...), nil

	case TagBoolFalse:
		return append(dst, "false"...), nil

	case TagNull:
		return append(dst, "null"...), nil

	case TagObjectStart:
		obj, err := i.Object(nil)
		if err != nil {
			return nil, err
		}
		dst = append(dst, '{')
		var val Iter
		for n := 0; ; n++ {
			name, typ, err := obj.NextElementBytes(&val)
			if err != nil {
				return nil, err
			}
			if typ == TypeNone {
				break
			}
			if n > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, '"')
			dst = escapeBytes(dst, name)
			dst = append(dst, '"', ':')
			dst, err = val.appendValue(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil

	case TagArrayStart:
		arr, err := i.Array(nil)
		if err != nil {
			return nil, err
		}
		dst = append(dst, '[')
		it := arr.iter
		for n := 0; ; n++ {
			if it.Advance() == TypeNone {
				break
			}
			if n > 0 {
				dst = append(dst, ',')
			}
			dst, err = it.appendValue(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil

	case TagRoot:
		return nil, errors.New("unexpected root tag inside a document")
	}
	return nil, fmt.Errorf("unknown tape tag %q", byte(i.tag))
}
