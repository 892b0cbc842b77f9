package tree

import (
	"reflect"
	"testing"

	"github.com/matzehuels/jsontree/pkg/errors"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    []Segment
		wantErr bool
	}{
		{name: "Root", path: "$", want: nil},
		{name: "Key", path: "$.a", want: []Segment{KeySegment("a")}},
		{name: "Index", path: "$[12]", want: []Segment{IndexSegment(12)}},
		{
			name: "Mixed",
			path: "$[2].a.b[0]",
			want: []Segment{IndexSegment(2), KeySegment("a"), KeySegment("b"), IndexSegment(0)},
		},
		{name: "EmptyKey", path: "$.", want: []Segment{KeySegment("")}},
		{name: "KeyWithSpaces", path: "$.first name", want: []Segment{KeySegment("first name")}},
		{name: "MissingRoot", path: "a.b", wantErr: true},
		{name: "Unterminated", path: "$[1", wantErr: true},
		{name: "NegativeIndex", path: "$[-1]", wantErr: true},
		{name: "LeadingZero", path: "$[01]", wantErr: true},
		{name: "EmptyIndex", path: "$[]", wantErr: true},
		{name: "Garbage", path: "$x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPath) {
					t.Fatalf("err = %v, want INVALID_PATH", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("segments = %#v, want %#v", got, tt.want)
			}
			if back := JoinPath(got...); back != tt.path {
				t.Errorf("JoinPath = %q, want %q", back, tt.path)
			}
		})
	}
}

func TestParsePathMessage(t *testing.T) {
	_, err := ParsePath("$.a[x]")
	want := `bad index "x" at offset 3 in "$.a[x]"`
	if msg := errors.UserMessage(err); msg != want {
		t.Errorf("UserMessage = %q, want %q", msg, want)
	}
}

func TestPathsRoundTrip(t *testing.T) {
	tr := mustBuild(t, testDocument)
	for _, n := range tr.Nodes {
		segs, err := ParsePath(n.Path)
		if err != nil {
			t.Errorf("ParsePath(%s): %v", n.Path, err)
			continue
		}
		if got := JoinPath(segs...); got != n.Path {
			t.Errorf("JoinPath = %s, want %s", got, n.Path)
		}
	}
}

func TestPathsSorted(t *testing.T) {
	tr := mustBuild(t, `{"b": 1, "a": [true]}`)
	want := []string{"$", "$.a", "$.a[0]", "$.b"}
	if got := tr.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	src := []byte(testDocument)
	tr := mustBuild(t, testDocument)

	for _, n := range tr.Nodes {
		res, err := Resolve(src, n.Path)
		if err != nil {
			t.Errorf("Resolve(%s): %v", n.Path, err)
			continue
		}
		switch n.Type {
		case TypeString:
			if res.String() != n.Value {
				t.Errorf("%s = %q, want %v", n.Path, res.String(), n.Value)
			}
		case TypeNumber:
			if res.Float() != n.Value {
				t.Errorf("%s = %v, want %v", n.Path, res.Float(), n.Value)
			}
		case TypeBoolean:
			if res.Bool() != n.Value {
				t.Errorf("%s = %v, want %v", n.Path, res.Bool(), n.Value)
			}
		case TypeArray:
			if !res.IsArray() || len(res.Array()) != len(tr.Children(n.ID)) {
				t.Errorf("%s = %s, want array of %d", n.Path, res.Raw, len(tr.Children(n.ID)))
			}
		case TypeObject:
			if !res.IsObject() {
				t.Errorf("%s = %s, want object", n.Path, res.Raw)
			}
		}
	}
}

func TestResolveErrors(t *testing.T) {
	src := []byte(`{"a": [1, 2], "b": {"c": 3}}`)
	tests := []struct {
		name string
		src  []byte
		path string
		code errors.Code
	}{
		{"BadPath", src, "a", errors.ErrCodeInvalidPath},
		{"BadJSON", []byte(`{"a":`), "$.a", errors.ErrCodeInvalidJSON},
		{"MissingKey", src, "$.z", errors.ErrCodeNotFound},
		{"IndexOutOfRange", src, "$.a[2]", errors.ErrCodeNotFound},
		{"IndexIntoObject", src, "$.b[0]", errors.ErrCodeNotFound},
		{"KeyIntoArray", src, "$.a.c", errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.src, tt.path)
			if errors.GetCode(err) != tt.code {
				t.Errorf("code = %q, want %q (err %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestResolveDuplicateKeyLastWins(t *testing.T) {
	res, err := Resolve([]byte(`{"a": 1, "a": {"b": 2}}`), "$.a.b")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Int() != 2 {
		t.Errorf("value = %s, want 2", res.Raw)
	}
}
