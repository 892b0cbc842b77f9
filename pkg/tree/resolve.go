package tree

import (
	"github.com/tidwall/gjson"

	"github.com/matzehuels/jsontree/pkg/errors"
)

// Resolve locates the raw JSON fragment that path points to inside source.
//
// It walks the document with gjson one segment at a time instead of
// translating the whole path into gjson syntax, so keys are matched exactly
// and need no escaping. When an object repeats a key the last occurrence is
// returned, matching the value Build keeps.
func Resolve(source []byte, path string) (gjson.Result, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(source) {
		return gjson.Result{}, errors.New(errors.ErrCodeInvalidJSON, "source is not valid JSON")
	}

	cur := gjson.ParseBytes(source)
	for i, seg := range segs {
		next, ok := step(cur, seg)
		if !ok {
			return gjson.Result{}, errors.New(errors.ErrCodeNotFound, "no value at %s", JoinPath(segs[:i+1]...))
		}
		cur = next
	}
	return cur, nil
}

func step(cur gjson.Result, seg Segment) (gjson.Result, bool) {
	if seg.IsIndex {
		if !cur.IsArray() {
			return gjson.Result{}, false
		}
		items := cur.Array()
		if seg.Index >= len(items) {
			return gjson.Result{}, false
		}
		return items[seg.Index], true
	}

	if !cur.IsObject() {
		return gjson.Result{}, false
	}
	var found gjson.Result
	var ok bool
	cur.ForEach(func(key, value gjson.Result) bool {
		if key.String() == seg.Key {
			found, ok = value, true
		}
		return true
	})
	return found, ok
}
