package tree

import (
	"strconv"
	"strings"

	"github.com/matzehuels/jsontree/pkg/errors"
)

// Segment is one step of a node path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns the segment selecting an object member.
func KeySegment(key string) Segment { return Segment{Key: key} }

// IndexSegment returns the segment selecting an array element.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// String renders the segment as it appears in a path: ".key" or "[i]".
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return "." + s.Key
}

// JoinPath builds the path reached from the root by following segs.
func JoinPath(segs ...Segment) string {
	var b strings.Builder
	b.WriteString(RootPath)
	for _, s := range segs {
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePath splits a node path into its segments. The root path "$" yields
// no segments.
//
// Keys are not escaped when paths are built, so a key that itself contains
// "." or "[" cannot be told apart from a deeper path; ParsePath always reads
// such text as separate segments.
func ParsePath(path string) ([]Segment, error) {
	if !strings.HasPrefix(path, RootPath) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path %q must start with %q", path, RootPath)
	}

	var segs []Segment
	rest := path[len(RootPath):]
	for pos := len(RootPath); rest != ""; {
		switch rest[0] {
		case '.':
			end := strings.IndexAny(rest[1:], ".[")
			if end < 0 {
				end = len(rest) - 1
			}
			segs = append(segs, KeySegment(rest[1:1+end]))
			pos += 1 + end
			rest = rest[1+end:]

		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, errors.New(errors.ErrCodeInvalidPath, "unterminated index at offset %d in %q", pos, path)
			}
			i, err := parseIndex(rest[1:end])
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidPath, "bad index %q at offset %d in %q", rest[1:end], pos, path)
			}
			segs = append(segs, IndexSegment(i))
			pos += end + 1
			rest = rest[end+1:]

		default:
			return nil, errors.New(errors.ErrCodeInvalidPath, "unexpected %q at offset %d in %q", rest[0], pos, path)
		}
	}
	return segs, nil
}

// parseIndex accepts a canonical non-negative decimal: no sign, no leading
// zeros.
func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
