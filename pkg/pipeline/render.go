package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/render/canvas"
	"github.com/matzehuels/jsontree/pkg/render/nodelink"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// BuildTree parses source and builds its tree without caching. Parse
// failures are INVALID_JSON errors carrying the parser message as cause.
func BuildTree(ctx context.Context, source []byte) (*tree.Tree, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(source))
	start := time.Now()

	v, err := jsonvalue.Parse(source)
	if err != nil {
		hooks.OnParseComplete(ctx, 0, time.Since(start), err)
		return nil, errors.Wrap(errors.ErrCodeInvalidJSON, err, "parse document")
	}
	t := tree.Build(v)
	hooks.OnParseComplete(ctx, t.NodeCount(), time.Since(start), nil)
	return t, nil
}

// Render produces every format in opts.Formats without caching. Options
// are expected to be validated.
func Render(ctx context.Context, t *tree.Tree, opts Options) (map[string][]byte, error) {
	if t.IsEmpty() {
		return nil, errors.New(errors.ErrCodeEmptyTree, "no tree to export")
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, t, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat produces a single export.
func RenderFormat(ctx context.Context, t *tree.Tree, format string, opts Options) ([]byte, error) {
	if t.IsEmpty() {
		return nil, errors.New(errors.ErrCodeEmptyTree, "no tree to export")
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format, t.NodeCount())
	start := time.Now()

	data, err := renderFormat(ctx, t, format, opts)
	if err != nil && errors.GetCode(err) == "" {
		err = fmt.Errorf("render %s: %w", format, err)
	}
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func renderFormat(ctx context.Context, t *tree.Tree, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		if opts.Engine == EngineGraphviz {
			return nodelink.RenderPNG(ctx, nodelink.ToDOT(t, nodelinkOptions(opts)))
		}
		return canvas.RenderPNG(ctx, t,
			canvas.WithTheme(opts.Theme),
			canvas.WithHighlighted(opts.highlightSet()))
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(t, nodelinkOptions(opts)))
	case FormatDOT:
		return []byte(nodelink.ToDOT(t, nodelinkOptions(opts))), nil
	case FormatJSON:
		if len(opts.Source) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyTree, "no source document to export")
		}
		return append([]byte(nil), opts.Source...), nil
	case FormatTree:
		return tree.Marshal(t)
	}
	return nil, ValidateFormat(format)
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Theme:       opts.Theme,
		Highlighted: opts.highlightSet(),
		Collapsed:   opts.collapsedSet(),
		Values:      opts.Values,
	}
}
