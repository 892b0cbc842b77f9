// Package jsonvalue models a parsed JSON document as a closed tagged union.
//
// A [Value] is exactly one of the six JSON kinds. Objects keep their members
// in source order, which the standard library's map decoding cannot do; the
// tree builder relies on that order to assign deterministic node ids.
//
// Values are produced by [Parse], which never recurses: nesting depth is
// bounded only by memory, not by the goroutine stack.
//
//	v, err := jsonvalue.Parse([]byte(`{"a": [1, true, null]}`))
//	if err != nil {
//	    // err is a *jsonvalue.SyntaxError; err.Error() is the parser message
//	}
//	for _, m := range v.Members() {
//	    fmt.Println(m.Key, m.Value.Kind())
//	}
package jsonvalue

// Kind identifies which JSON value a [Value] holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	num     float64
	str     string
	items   []Value
	members []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an array holding items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object returns an object holding members in order.
// Duplicate keys are not collapsed; use [Parse] for JSON.parse semantics.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

// Kind reports which JSON kind v holds.
func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an array or object.
func (v Value) IsContainer() bool { return v.kind == KindArray || v.kind == KindObject }

// Boolean returns the boolean payload. It is false for non-boolean values.
func (v Value) Boolean() bool { return v.b }

// Float returns the numeric payload. It is 0 for non-number values.
func (v Value) Float() float64 { return v.num }

// Str returns the string payload. It is empty for non-string values.
func (v Value) Str() string { return v.str }

// Len returns the number of immediate children of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns the elements of an array. The slice must not be modified.
func (v Value) Items() []Value { return v.items }

// Members returns the members of an object in source order.
// The slice must not be modified.
func (v Value) Members() []Member { return v.members }
