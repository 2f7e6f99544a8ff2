package lookup

import (
	"reflect"
	"testing"
)

func TestGet(t *testing.T) {
	doc := map[string]any{
		"screen": map[string]any{
			"height": "large",
			"flags":  nil,
		},
		"count": 0,
	}

	cases := []struct {
		name      string
		segments  []string
		want      any
		wantFound bool
	}{
		{name: "root", segments: nil, want: doc, wantFound: true},
		{name: "nested scalar", segments: []string{"screen", "height"}, want: "large", wantFound: true},
		{name: "explicit nil is present", segments: []string{"screen", "flags"}, want: nil, wantFound: true},
		{name: "zero value is present", segments: []string{"count"}, want: 0, wantFound: true},
		{name: "missing key", segments: []string{"screen", "depth"}, wantFound: false},
		{name: "through scalar", segments: []string{"count", "deeper"}, wantFound: false},
		{name: "missing top level", segments: []string{"audio"}, wantFound: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := Get(doc, tc.segments)
			if found != tc.wantFound {
				t.Fatalf("found: want %v got %v", tc.wantFound, found)
			}
			if found && !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("value: want %#v got %#v", tc.want, got)
			}
		})
	}
}

func TestGetNilDocument(t *testing.T) {
	if _, found := Get(nil, nil); found {
		t.Fatalf("nil document should never report presence")
	}
	if _, found := Get(nil, []string{"a"}); found {
		t.Fatalf("nil document should never report presence")
	}
}
