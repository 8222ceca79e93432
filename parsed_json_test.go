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
	"encoding/json"
	"reflect"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

const demoJSON = `{
	"Image": {
		"Width": 800,
		"Height": 600,
		"Title": "View from 15th Floor",
		"Thumbnail": {
			"Url": "http://www.example.com/image/481989943",
			"Height": 125,
			"Width": 100
		},
		"Animated": false,
		"IDs": [116, 943, 234, 38793],
		"Ratio": 0.75,
		"Description": null
	}
}`

var roundTripDocs = []string{
	demoJSON,
	`{}`,
	`[]`,
	`[[]]`,
	`{"a":{}}`,
	`0`,
	`-12`,
	`"hello"`,
	`true`,
	`null`,
	`[1,2,3]`,
	`[0.25, 12e3, -5.5]`,
	`{"a":1,"a":2}`,
	`{"nested":{"deep":[{"x":null},{"y":[true,false]}]}}`,
	`["escape\ttest","quote\"inside","back\\slash"]`,
	`{"unicode":"héllo wörld 😀"}`,
	`[9223372036854775807,-9223372036854775808]`,
}

// stdParse decodes JSON with encoding/json into generic values,
// keeping numbers as float64 so representations can be compared.
func stdParse(t *testing.T, b []byte) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("encoding/json rejects %q: %v", b, err)
	}
	return v
}

func TestRoundTrip(t *testing.T) {
	for _, doc := range roundTripDocs {
		pj, err := Parse([]byte(doc), nil)
		if err != nil {
			t.Errorf("parsing %q: %v", doc, err)
			continue
		}
		i := pj.Iter()
		out, err := i.MarshalJSON()
		if err != nil {
			t.Errorf("marshaling %q: %v", doc, err)
			continue
		}
		want := stdParse(t, []byte(doc))
		got := stdParse(t, out)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip of %q produced %q:\ngot:  %#v\nwant: %#v", doc, out, got, want)
		}
	}
}

func TestCrossValidateJsoniter(t *testing.T) {
	for _, doc := range roundTripDocs {
		pj, err := Parse([]byte(doc), nil)
		if err != nil {
			t.Errorf("parsing %q: %v", doc, err)
			continue
		}
		it := pj.Iter()
		out, err := it.MarshalJSON()
		if err != nil {
			t.Errorf("marshaling %q: %v", doc, err)
			continue
		}
		var got, want interface{}
		if err := jsoniter.Unmarshal(out, &got); err != nil {
			t.Errorf("jsoniter rejects our output %q: %v", out, err)
			continue
		}
		if err := jsoniter.Unmarshal([]byte(doc), &want); err != nil {
			t.Errorf("jsoniter rejects input %q: %v", doc, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("jsoniter disagreement on %q: got %#v want %#v", doc, got, want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	input := []byte(demoJSON)
	first, err := Parse(input, nil)
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n < 3; n++ {
		pj, err := Parse(input, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Tape, pj.Tape) {
			t.Fatal("tape differs between identical parses")
		}
		if !reflect.DeepEqual(first.Strings, pj.Strings) {
			t.Fatal("string arena differs between identical parses")
		}
	}
}

func TestIterInterface(t *testing.T) {
	pj, err := Parse([]byte(demoJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	i := pj.Iter()
	got, err := i.Interface()
	if err != nil {
		t.Fatal(err)
	}
	// root iterators wrap documents in a slice
	root, ok := got.([]interface{})
	if !ok || len(root) != 1 {
		t.Fatalf("expected 1-document root, got %#v", got)
	}
	obj, ok := root[0].(map[string]interface{})
	if !ok {
		t.Fatalf("expected object, got %#v", root[0])
	}
	img, ok := obj["Image"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected Image object, got %#v", obj)
	}
	if img["Width"] != int64(800) {
		t.Errorf("Width: got %#v", img["Width"])
	}
	if img["Ratio"] != 0.75 {
		t.Errorf("Ratio: got %#v", img["Ratio"])
	}
	if img["Animated"] != false {
		t.Errorf("Animated: got %#v", img["Animated"])
	}
	if v, present := img["Description"]; !present || v != nil {
		t.Errorf("Description: got %#v", v)
	}
}

func TestObjectFindKey(t *testing.T) {
	pj, err := Parse([]byte(demoJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	i := pj.Iter()
	if i.Advance() != TypeRoot {
		t.Fatal("expected root")
	}
	_, root, err := i.Root(nil)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := root.Object(nil)
	if err != nil {
		t.Fatal(err)
	}
	elem := obj.FindKey("Image", nil)
	if elem == nil || elem.Type != TypeObject {
		t.Fatalf("FindKey(Image): %#v", elem)
	}
	img, err := elem.Iter.Object(nil)
	if err != nil {
		t.Fatal(err)
	}
	title := img.FindKey("Title", nil)
	if title == nil || title.Type != TypeString {
		t.Fatalf("FindKey(Title): %#v", title)
	}
	s, err := title.Iter.String()
	if err != nil || s != "View from 15th Floor" {
		t.Fatalf("Title: %q, %v", s, err)
	}
	if missing := img.FindKey("Bogus", nil); missing != nil {
		t.Fatalf("FindKey(Bogus) should be nil, got %#v", missing)
	}
}

func TestParsePadded(t *testing.T) {
	input := []byte(`{"a":[1,2,3]}`)
	padded := make([]byte, len(input), len(input)+Padding)
	copy(padded, input)
	pj, err := ParsePadded(padded, nil)
	if err != nil {
		t.Fatal(err)
	}
	it := pj.Iter()
	out, err := it.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":[1,2,3]}` {
		t.Errorf("got %q", out)
	}

	// an unpadded buffer silently takes the copying path
	if _, err := ParsePadded(input, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	pj, err := Build([]byte(`[true]`))
	if err != nil {
		t.Fatal(err)
	}
	if !pj.Valid() || pj.Error() != Success {
		t.Fatalf("valid=%v error=%v", pj.Valid(), pj.Error())
	}
}
