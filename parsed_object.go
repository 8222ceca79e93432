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
)

// Object walks the members of one JSON object.
// The embedded cursor is bounded by the object's closing brace and
// sits between members: each NextElement call consumes one key/value
// pair.
type Object struct {
	iter Iter
}

// NextElementBytes consumes the next key/value pair, returning the raw
// key bytes and placing the value in dst. At the closing brace it
// returns TypeNone with a nil error.
func (o *Object) NextElementBytes(dst *Iter) (name []byte, t Type, err error) {
	switch o.iter.Advance() {
	case TypeNone:
		// the closing brace
		return nil, TypeNone, nil
	case TypeString:
	default:
		return nil, TypeNone, fmt.Errorf("object: member key has type %s, expected string", o.iter.Type())
	}
	name, err = o.iter.StringBytes()
	if err != nil {
		return nil, TypeNone, fmt.Errorf("object: reading member key: %w", err)
	}
	t, err = o.iter.AdvanceIter(dst)
	if err != nil {
		return nil, TypeNone, fmt.Errorf("object: reading value of %q: %w", name, err)
	}
	if t == TypeNone {
		return nil, TypeNone, errors.New("object: key without a value")
	}
	return name, t, nil
}

// NextElement is NextElementBytes with the key converted to a string.
func (o *Object) NextElement(dst *Iter) (name string, t Type, err error) {
	b, t, err := o.NextElementBytes(dst)
	return string(b), t, err
}

// Map decodes the remaining members into a map.
// An optional destination map can be provided.
// See Iter.Interface for the value types used.
func (o *Object) Map(dst map[string]interface{}) (map[string]interface{}, error) {
	if dst == nil {
		dst = make(map[string]interface{})
	}
	var val Iter
	for {
		name, t, err := o.NextElement(&val)
		if err != nil {
			return nil, err
		}
		if t == TypeNone {
			return dst, nil
		}
		if dst[name], err = val.Interface(); err != nil {
			return nil, fmt.Errorf("parsing element %q: %w", name, err)
		}
	}
}

// Parse consumes the remaining members into an Elements collection,
// which keeps input order and carries a key index.
// An optional destination can be given.
func (o *Object) Parse(dst *Elements) (*Elements, error) {
	if dst == nil {
		dst = &Elements{
			Elements: make([]Element, 0, 5),
			Index:    make(map[string]int, 5),
		}
	} else {
		dst.Elements = dst.Elements[:0]
		for k := range dst.Index {
			delete(dst.Index, k)
		}
	}
	var val Iter
	for {
		name, t, err := o.NextElement(&val)
		if err != nil {
			return dst, err
		}
		if t == TypeNone {
			return dst, nil
		}
		dst.Index[name] = len(dst.Elements)
		dst.Elements = append(dst.Elements, Element{Name: name, Type: t, Iter: val})
	}
}

// FindKey scans for a member with the given key and returns it, or nil
// when the object has none. Keys are matched byte for byte. The object
// itself is not advanced, so FindKey can be called repeatedly.
func (o *Object) FindKey(key string, dst *Element) *Element {
	scan := *o
	var val Iter
	for {
		name, t, err := scan.NextElementBytes(&val)
		if err != nil || t == TypeNone {
			return nil
		}
		if string(name) != key {
			continue
		}
		if dst == nil {
			dst = &Element{}
		}
		dst.Name = key
		dst.Type = t
		dst.Iter = val
		return dst
	}
}

// Element is one object member.
type Element struct {
	// Name of the element
	Name string
	// Type of the element
	Type Type
	// Iter containing the element
	Iter Iter
}

// Elements contains all elements in an object
// kept in original order.
// And index contains lookup for object keys.
type Elements struct {
	Elements []Element
	Index    map[string]int
}

// Lookup a key in elements and return the element.
// Returns nil if key doesn't exist.
// Keys are case sensitive.
func (e Elements) Lookup(key string) *Element {
	idx, ok := e.Index[key]
	if !ok {
		return nil
	}
	return &e.Elements[idx]
}

// MarshalJSON re-serializes the collected members as an object.
func (e Elements) MarshalJSON() ([]byte, error) {
	return e.MarshalJSONBuffer(nil)
}

// MarshalJSONBuffer re-serializes the collected members as an object,
// appending to an optional destination buffer.
func (e Elements) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	for idx := range e.Elements {
		if idx > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '"')
		dst = escapeBytes(dst, []byte(e.Elements[idx].Name))
		dst = append(dst, '"', ':')
		val := e.Elements[idx].Iter
		var err error
		if dst, err = val.appendValue(dst); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}
