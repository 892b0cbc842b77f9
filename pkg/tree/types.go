package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Layout grid constants.
const (
	// RowHeight is the vertical distance between depth levels.
	RowHeight = 100.0

	// ColumnWidth is the horizontal distance between neighbours at one depth.
	ColumnWidth = 150.0

	// MaxLabelLength is the number of characters of a string value shown in
	// its label before it is truncated with an ellipsis.
	MaxLabelLength = 20

	// RootPath is the path of the document root.
	RootPath = "$"
)

// Type is the JSON value kind a node represents.
type Type string

// Node types, one per JSON value kind.
const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
)

// IsContainer reports whether nodes of this type can have children.
func (t Type) IsContainer() bool { return t == TypeObject || t == TypeArray }

// Position is a layout hint in canvas units.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node represents one JSON value.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Type     Type     `json:"type" bson:"type"`
	Label    string   `json:"label" bson:"label"`
	Value    any      `json:"value,omitempty" bson:"value,omitempty"` // string, float64 or bool; nil for containers and null
	Path     string   `json:"path" bson:"path"`
	Position Position `json:"position" bson:"position"`
}

// HasValue reports whether the node carries a scalar value.
func (n *Node) HasValue() bool { return n.Value != nil }

// ValueString returns the value in its search/display string form.
// Nodes without a value yield the empty string.
func (n *Node) ValueString() string {
	switch v := n.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// DisplayValue is the secondary line shown under a node's label:
// "{}" for objects, "[]" for arrays, "null", a quoted string, or the number
// or boolean as written.
func (n *Node) DisplayValue() string {
	switch n.Type {
	case TypeObject:
		return "{}"
	case TypeArray:
		return "[]"
	case TypeNull:
		return "null"
	case TypeString:
		return `"` + n.ValueString() + `"`
	default:
		return n.ValueString()
	}
}

// Edge is a containment relationship from a container to an immediate child.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// NodeID returns the identifier assigned to the n-th node in pre-order.
func NodeID(n int) string { return "node-" + strconv.Itoa(n) }

// EdgeID returns the identifier of the edge between source and target.
func EdgeID(source, target string) string {
	var b strings.Builder
	b.Grow(len(source) + len(target) + 6)
	b.WriteString("edge-")
	b.WriteString(source)
	b.WriteByte('-')
	b.WriteString(target)
	return b.String()
}
