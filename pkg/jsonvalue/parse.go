package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Limits on the documents Parse accepts. The tree built from a value stores
// every node's full path, so path bytes grow with depth times node count.
const (
	MaxDepth     = 1000
	MaxValues    = 1 << 20
	MaxPathBytes = 64 << 20
)

// SyntaxError reports malformed JSON input. Msg is the parser's message and
// is what users see; Offset is the byte offset where parsing stopped.
type SyntaxError struct {
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string { return e.Msg }

// frame is an open container on the parse stack.
type frame struct {
	val     Value
	key     string
	haveKey bool
	index   map[string]int // object key -> member position
	pathLen int            // length of the container's node path
}

// childPathLen is the length of the path of the next value added to f.
func (f *frame) childPathLen() int {
	if f == nil {
		return 1 // "$"
	}
	if f.val.kind == KindArray {
		return f.pathLen + len(strconv.Itoa(len(f.val.items))) + 2
	}
	return f.pathLen + len(f.key) + 1
}

// budget tracks what the document would cost as a tree.
type budget struct {
	values    int
	pathBytes int
}

// charge accounts for one more value below top and returns its path length.
func (b *budget) charge(top *frame, offset int64) (int, error) {
	n := top.childPathLen()
	b.values++
	b.pathBytes += n
	switch {
	case b.values > MaxValues:
		return 0, &SyntaxError{Msg: fmt.Sprintf("document has more than %d values", MaxValues), Offset: offset}
	case b.pathBytes > MaxPathBytes:
		return 0, &SyntaxError{Msg: fmt.Sprintf("document paths exceed %d bytes", MaxPathBytes), Offset: offset}
	}
	return n, nil
}

// Parse decodes data into a Value.
//
// Object member order follows the source. A key repeated within one object
// keeps the position of its first occurrence and the value of its last, the
// same result JSON.parse produces. Trailing data after the top-level value is
// rejected, and so is a document beyond [MaxDepth], [MaxValues] or
// [MaxPathBytes].
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		stack []*frame
		b     budget
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, syntaxError(err, dec.InputOffset())
		}

		top := peek(stack)
		if key, ok := tok.(string); ok && top.wantsKey() {
			top.key, top.haveKey = key, true
			continue
		}

		var v Value
		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			// the decoder guarantees pairing
			v = top.val
			stack = stack[:len(stack)-1]
		} else {
			pathLen, err := b.charge(top, dec.InputOffset())
			if err != nil {
				return Value{}, err
			}
			switch t := tok.(type) {
			case json.Delim:
				if len(stack) >= MaxDepth {
					return Value{}, &SyntaxError{
						Msg:    fmt.Sprintf("maximum nesting depth of %d exceeded", MaxDepth),
						Offset: dec.InputOffset(),
					}
				}
				f := &frame{val: Array(), pathLen: pathLen}
				if t == '{' {
					f.val, f.index = Object(), map[string]int{}
				}
				stack = append(stack, f)
				continue
			case string:
				v = String(t)
			case json.Number:
				f, err := t.Float64()
				if err != nil {
					return Value{}, &SyntaxError{Msg: "number out of range: " + t.String(), Offset: dec.InputOffset()}
				}
				v = Number(f)
			case bool:
				v = Bool(t)
			case nil:
				v = Null()
			}
		}

		top = peek(stack)
		if top == nil {
			if err := expectEOF(dec); err != nil {
				return Value{}, err
			}
			return v, nil
		}
		top.add(v)
	}
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// wantsKey reports whether the next string token is an object key.
func (f *frame) wantsKey() bool {
	return f != nil && f.val.kind == KindObject && !f.haveKey
}

// add appends v to the container, honouring the pending key for objects.
func (f *frame) add(v Value) {
	if f.val.kind == KindArray {
		f.val.items = append(f.val.items, v)
		return
	}
	if i, ok := f.index[f.key]; ok {
		f.val.members[i].Value = v
	} else {
		f.index[f.key] = len(f.val.members)
		f.val.members = append(f.val.members, Member{Key: f.key, Value: v})
	}
	f.key, f.haveKey = "", false
}

func peek(stack []*frame) *frame {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func expectEOF(dec *json.Decoder) error {
	_, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return syntaxError(err, dec.InputOffset())
	}
	return &SyntaxError{Msg: "invalid character after top-level value", Offset: dec.InputOffset()}
}

func syntaxError(err error, offset int64) error {
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Msg: "unexpected end of JSON input", Offset: offset}
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Msg: se.Error(), Offset: se.Offset}
	}
	return &SyntaxError{Msg: strings.TrimPrefix(err.Error(), "json: "), Offset: offset}
}
