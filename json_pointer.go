package simdjson

import "strconv"

// MoveTo positions the iterator at the node addressed by a JSON
// Pointer (RFC 6901). Pointers resolve from the document root, so the
// empty pointer positions the iterator at the root. A pointer starting with '#' is treated
// as the URI fragment form: %HH sequences are percent-decoded first.
//
// On any decode error, or when the referent does not exist, the
// iterator is restored to its prior position and false is returned.
func (it *TapeIterator) MoveTo(pointer []byte) bool {
	if len(pointer) > 0 && pointer[0] == '#' {
		decoded, ok := decodeFragment(pointer[1:])
		if !ok {
			return false
		}
		pointer = decoded
	}

	saved := it.snapshot()
	it.Rewind() // the json pointer is used from the root of the document

	found := it.relativeMoveTo(pointer)
	if !found {
		// since the pointer has found nothing, we get back to the original position
		it.restore(saved)
	}
	return found
}

// decodeFragment converts the URI fragment representation to the
// string representation. Decoded bytes that would be escaped when keys
// are matched (backslash, quote and control characters) get a
// backslash prepended, mirroring the escape decoding in
// relativeMoveTo.
func decodeFragment(pointer []byte) ([]byte, bool) {
	decoded := make([]byte, 0, len(pointer))
	for i := 0; i < len(pointer); i++ {
		if pointer[i] == '%' {
			if i+2 >= len(pointer) {
				return nil, false
			}
			hi, ok1 := hexDigit(pointer[i+1])
			lo, ok2 := hexDigit(pointer[i+2])
			if !ok1 || !ok2 {
				return nil, false
			}
			fragment := hi<<4 | lo
			if fragment == '\\' || fragment == '"' || fragment <= 0x1f {
				decoded = append(decoded, '\\')
			}
			decoded = append(decoded, fragment)
			i += 2
			continue
		}
		decoded = append(decoded, pointer[i])
	}
	return decoded, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// relativeMoveTo resolves a pointer relative to the current position.
func (it *TapeIterator) relativeMoveTo(pointer []byte) bool {
	if len(pointer) == 0 {
		return true
	}
	if pointer[0] != '/' {
		// '/' must be the first character
		return false
	}

	// finding the key in an object or the index in an array
	isArray := it.IsArray()
	var keyOrIndex []byte
	offset := 1

	if isArray && len(pointer) > 1 && pointer[1] == '-' {
		if len(pointer) != 2 {
			// there can't be anything more after '-' as an index
			return false
		}
		keyOrIndex = append(keyOrIndex, '-')
		offset = len(pointer) // will skip the loop
	}

	for ; offset < len(pointer); offset++ {
		c := pointer[offset]
		if c == '/' {
			// beginning of the next key or index
			break
		}
		if isArray && (c < '0' || c > '9') {
			// the index of an array must be an integer
			return false
		}
		if c == '~' && offset+1 < len(pointer) {
			// "~1" represents "/"
			if pointer[offset+1] == '1' {
				keyOrIndex = append(keyOrIndex, '/')
				offset++
				continue
			}
			// "~0" represents "~"
			if pointer[offset+1] == '0' {
				keyOrIndex = append(keyOrIndex, '~')
				offset++
				continue
			}
		}
		if c == '\\' {
			if offset+1 < len(pointer) && (pointer[offset+1] == '\\' || pointer[offset+1] == '"' || pointer[offset+1] <= 0x1f) {
				keyOrIndex = append(keyOrIndex, pointer[offset+1])
				offset++
				continue
			}
			// invalid escaped character
			return false
		}
		keyOrIndex = append(keyOrIndex, c)
	}

	if it.IsObject() {
		if it.MoveToKey(keyOrIndex) {
			return it.relativeMoveTo(pointer[offset:])
		}
		return false
	}
	if isArray {
		if !it.Down() {
			return false
		}
		if len(keyOrIndex) == 1 && keyOrIndex[0] == '-' {
			// moving to the end of the array
			for it.Next() {
			}
			return true
		}
		// the index was checked to contain only digits
		index, err := strconv.Atoi(string(keyOrIndex))
		if err != nil {
			return false
		}
		i := 0
		for ; i < index; i++ {
			if !it.Next() {
				break
			}
		}
		if i == index {
			return it.relativeMoveTo(pointer[offset:])
		}
	}
	return false
}
