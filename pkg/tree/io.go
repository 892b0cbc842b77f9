package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// Marshal converts a tree to indented JSON of the form
// {"nodes": [...], "edges": [...]}.
func Marshal(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes tree JSON and validates its structure.
func Unmarshal(data []byte) (*Tree, error) {
	return readFrom(bytes.NewReader(data))
}

// WriteFile writes a tree to a JSON file.
func WriteFile(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(t, f)
}

// Write writes a tree as JSON to w.
func Write(t *Tree, w io.Writer) error {
	return writeTo(t, w)
}

// ReadFile reads and validates a tree JSON file.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Read decodes and validates tree JSON from r.
func Read(r io.Reader) (*Tree, error) {
	return readFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

// wire is the on-disk shape. Slices are never nil so empty lists encode as [].
type wire struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func writeTo(t *Tree, w io.Writer) error {
	out := wire{Nodes: []Node{}, Edges: []Edge{}}
	if t != nil {
		out.Nodes = append(out.Nodes, t.Nodes...)
		out.Edges = append(out.Edges, t.Edges...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*Tree, error) {
	var data wire
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	t := &Tree{Nodes: data.Nodes, Edges: data.Edges}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return t, nil
}
