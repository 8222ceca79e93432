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

import "fmt"

// Array walks the elements of one JSON array.
// Typed helpers extract homogeneous arrays in one call; mixed content
// is read through Iter.
type Array struct {
	iter Iter
}

// Iter returns a cursor over the array's elements.
// The first element is ready after a call to Advance.
func (a *Array) Iter() Iter {
	return a.iter
}

// FirstType returns the type of the first element, or TypeNone for an
// empty array.
func (a *Array) FirstType() Type {
	return a.iter.PeekNext()
}

// sizeHint estimates the element count from the remaining tape region.
func (a *Array) sizeHint() int {
	n := (len(a.iter.tape) - a.iter.next) / 2
	if n < 0 {
		return 0
	}
	return n
}

// Interface decodes the elements into a slice of generic values.
// See Iter.Interface for the value types used.
func (a *Array) Interface() ([]interface{}, error) {
	dst := make([]interface{}, 0, a.sizeHint())
	it := a.iter
	for it.Advance() != TypeNone {
		v, err := it.Interface()
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// AsFloat extracts the elements as float64 values.
// Integers are converted; any other element type is an error.
func (a *Array) AsFloat() ([]float64, error) {
	dst := make([]float64, 0, a.sizeHint())
	it := a.iter
	for {
		switch it.Advance() {
		case TypeNone:
			return dst, nil
		case TypeInt, TypeFloat:
			v, err := it.Float()
			if err != nil {
				return nil, err
			}
			dst = append(dst, v)
		default:
			return nil, fmt.Errorf("unable to convert type %v to float", it.tag)
		}
	}
}

// AsInteger extracts the elements as int64 values.
// Floats are converted when they fit; any other element type is an error.
func (a *Array) AsInteger() ([]int64, error) {
	dst := make([]int64, 0, a.sizeHint())
	it := a.iter
	for {
		switch it.Advance() {
		case TypeNone:
			return dst, nil
		case TypeInt, TypeFloat:
			v, err := it.Int()
			if err != nil {
				return nil, err
			}
			dst = append(dst, v)
		default:
			return nil, fmt.Errorf("unable to convert type %v to integer", it.tag)
		}
	}
}

// AsUint64 extracts the elements as uint64 values.
// Negative or out-of-range elements are an error.
func (a *Array) AsUint64() ([]uint64, error) {
	dst := make([]uint64, 0, a.sizeHint())
	it := a.iter
	for {
		switch it.Advance() {
		case TypeNone:
			return dst, nil
		case TypeInt, TypeFloat:
			v, err := it.Uint()
			if err != nil {
				return nil, err
			}
			dst = append(dst, v)
		default:
			return nil, fmt.Errorf("unable to convert type %v to uint", it.tag)
		}
	}
}

// AsString extracts the elements as strings.
// No conversion is done; a non-string element is an error.
func (a *Array) AsString() ([]string, error) {
	dst := make([]string, 0, a.sizeHint())
	it := a.iter
	for {
		switch it.Advance() {
		case TypeNone:
			return dst, nil
		case TypeString:
			s, err := it.String()
			if err != nil {
				return nil, err
			}
			dst = append(dst, s)
		default:
			return nil, fmt.Errorf("element in array is not string, but %v", it.Type())
		}
	}
}

// AsStringCvt extracts the elements as strings, converting scalars.
// Objects and arrays are an error.
func (a *Array) AsStringCvt() ([]string, error) {
	dst := make([]string, 0, a.sizeHint())
	it := a.iter
	for it.Advance() != TypeNone {
		s, err := it.StringCvt()
		if err != nil {
			return nil, err
		}
		dst = append(dst, s)
	}
	return dst, nil
}

// MarshalJSON re-serializes the array.
func (a *Array) MarshalJSON() ([]byte, error) {
	return a.MarshalJSONBuffer(nil)
}

// MarshalJSONBuffer re-serializes the array, appending to an optional
// destination buffer.
func (a *Array) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	dst = append(dst, '[')
	it := a.iter
	for n := 0; ; n++ {
		if it.Advance() == TypeNone {
			break
		}
		if n > 0 {
			dst = append(dst, ',')
		}
		var err error
		if dst, err = it.appendValue(dst); err != nil {
			return nil, err
		}
	}
	return append(dst, ']'), nil
}
