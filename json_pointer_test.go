package simdjson

import "testing"

func TestMoveToPointer(t *testing.T) {
	pj := parseValid(t, `{"foo":[{"bar":42}],"":7,"a/b":1,"m~n":2,"arr":[10,20,30]}`)

	testCases := []struct {
		pointer string
		check   func(it *TapeIterator) bool
	}{
		{`/foo/0/bar`, func(it *TapeIterator) bool { return it.Integer() == 42 }},
		{`/foo/0`, func(it *TapeIterator) bool { return it.IsObject() }},
		{`/foo`, func(it *TapeIterator) bool { return it.IsArray() }},
		// empty pointer addresses the root
		{``, func(it *TapeIterator) bool { return it.IsObject() }},
		// empty key
		{`/`, func(it *TapeIterator) bool { return it.Integer() == 7 }},
		// ~1 decodes to '/', ~0 decodes to '~'
		{`/a~1b`, func(it *TapeIterator) bool { return it.Integer() == 1 }},
		{`/m~0n`, func(it *TapeIterator) bool { return it.Integer() == 2 }},
		{`/arr/0`, func(it *TapeIterator) bool { return it.Integer() == 10 }},
		{`/arr/2`, func(it *TapeIterator) bool { return it.Integer() == 30 }},
		// '-' is the past-the-end index: position at the last element
		{`/arr/-`, func(it *TapeIterator) bool { return it.Integer() == 30 }},
		// fragment form
		{`#/foo/0/bar`, func(it *TapeIterator) bool { return it.Integer() == 42 }},
		{`#/arr/1`, func(it *TapeIterator) bool { return it.Integer() == 20 }},
		// percent-encoded bytes decode before matching
		{`#/%66oo`, func(it *TapeIterator) bool { return it.IsArray() }},
	}
	for i, tc := range testCases {
		it, err := pj.NewTapeIterator()
		if err != nil {
			t.Fatal(err)
		}
		if !it.MoveTo([]byte(tc.pointer)) {
			t.Errorf("TestMoveToPointer(%d): pointer %q not found", i, tc.pointer)
			continue
		}
		if !tc.check(it) {
			t.Errorf("TestMoveToPointer(%d): pointer %q: wrong destination %s", i, tc.pointer, it.Tag())
		}
	}
}

func TestMoveToPointerFailures(t *testing.T) {
	pj := parseValid(t, `{"foo":[{"bar":42}],"arr":[10,20,30]}`)

	failures := []string{
		`foo`,        // must start with '/'
		`/nosuchkey`, //
		`/foo/3`,     // out of range
		`/foo/x`,     // array index must be digits
		`/foo/-/bar`, // '-' must be the last token
		`/foo/0/bar/deeper`,
		`/arr/01x`,
		`#/%zz`, // invalid percent encoding
		`#%2`,   // truncated percent encoding
	}
	for i, pointer := range failures {
		it, err := pj.NewTapeIterator()
		if err != nil {
			t.Fatal(err)
		}
		before := it.Location()
		if it.MoveTo([]byte(pointer)) {
			t.Errorf("TestMoveToPointerFailures(%d): pointer %q unexpectedly found", i, pointer)
			continue
		}
		// the iterator must be restored on failure
		if it.Location() != before {
			t.Errorf("TestMoveToPointerFailures(%d): pointer %q moved the iterator", i, pointer)
		}
	}
}

func TestMoveToAfterNavigation(t *testing.T) {
	// MoveTo starts from the document root regardless of position
	pj := parseValid(t, `{"a":{"deep":1},"b":2}`)
	it, err := pj.NewTapeIterator()
	if err != nil {
		t.Fatal(err)
	}
	if !it.MoveTo([]byte(`/a/deep`)) {
		t.Fatal("first pointer not found")
	}
	if !it.MoveTo([]byte(`/b`)) {
		t.Fatal("second pointer not found")
	}
	if it.Integer() != 2 {
		t.Fatalf("got %d want 2", it.Integer())
	}
}
