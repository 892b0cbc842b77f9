// Package tree turns a parsed JSON document into a node/edge graph.
//
// Every value in the document becomes a [Node]; every containment
// relationship becomes an [Edge] from the container to the immediate child.
// The result is what renderers draw and what the view state controller in
// pkg/view filters.
//
// # Building
//
//	v, _ := jsonvalue.ParseString(`{"user": {"hobbies": ["reading"]}}`)
//	t := tree.Build(v)
//	t.NodeCount()             // 4
//	t.Nodes[3].Path           // "$.user.hobbies[0]"
//
// Build never fails: any parsed value is accepted. Identifiers are assigned
// in pre-order ("node-0" is always the root) from a counter local to the
// call, so building the same document twice yields identical trees.
//
// # Paths
//
// Paths use a JSONPath-like syntax: "$" for the root, ".key" for object
// members and "[i]" for array elements. Keys are not escaped, so a key that
// contains "." or "[" produces a path that [ParsePath] cannot split back
// unambiguously. [Resolve] locates the raw JSON a path points to.
//
// # Layout
//
// Each node carries a [Position] hint: Y grows by [RowHeight] per depth and
// X by [ColumnWidth] per node already placed at that depth. The grid avoids
// overlapping boxes; it does not centre parents over children.
//
// # Serialization
//
// [Marshal], [WriteFile] and [ReadFile] use the node/edge JSON format:
//
//	{
//	  "nodes": [{"id": "node-0", "type": "object", "label": "Object", "path": "$", "position": {"x": 0, "y": 0}}],
//	  "edges": []
//	}
package tree
