//go:build go1.18
// +build go1.18

/*
 * MinIO Cloud Storage, (C) 2022 MinIO, Inc.
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
	"testing"
)

func FuzzParse(f *testing.F) {
	for _, doc := range roundTripDocs {
		f.Add([]byte(doc))
	}
	f.Add([]byte(`{"a":`))
	f.Add([]byte(`[1,2`))
	f.Add([]byte(`"unclosed`))
	f.Add([]byte("[\"\\"))
	f.Add([]byte(`1e9999`))
	f.Add([]byte("{}\n{}"))
	f.Add([]byte("\xff\xfe"))

	f.Fuzz(func(t *testing.T, data []byte) {
		pj, err := Parse(data, nil)
		if err != nil {
			return
		}
		// A successful parse must produce a tape that can be walked and
		// re-serialized, and the output must parse again.
		it := pj.Iter()
		out, err := it.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal of successfully parsed %q failed: %v", data, err)
		}
		if _, err := Parse(out, nil); err != nil {
			t.Fatalf("reparse of %q (from %q) failed: %v", out, data, err)
		}
	})
}

func FuzzSerialize(f *testing.F) {
	s := NewSerializer()
	for _, doc := range roundTripDocs {
		pj, err := Parse([]byte(doc), nil)
		if err != nil {
			continue
		}
		f.Add(s.Serialize(nil, *pj))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		s := NewSerializer()
		// must not panic on corrupt input
		_, _ = s.Deserialize(data, nil)
	})
}
