package simdjson

import "fmt"

// ParserOption is a parser option.
type ParserOption func(pj *internalParsedJson) error

// WithMaxDepth sets the maximum nesting depth of objects and arrays.
// Documents nesting deeper fail with DepthError.
// Default: DefaultMaxDepth (1024).
func WithMaxDepth(n int) ParserOption {
	return func(pj *internalParsedJson) error {
		if n <= 0 {
			return fmt.Errorf("max depth must be positive, got %d", n)
		}
		pj.maxDepth = n
		return nil
	}
}

// WithCapacity limits the input size the document accepts.
// Inputs larger than n bytes fail with Capacity instead of growing the
// internal buffers, so a pre-sized document keeps its footprint.
// A capacity of 0 sets no limit.
// Default: no limit.
func WithCapacity(n int) ParserOption {
	return func(pj *internalParsedJson) error {
		if n < 0 {
			return fmt.Errorf("capacity must not be negative, got %d", n)
		}
		pj.byteCap = n
		return nil
	}
}
