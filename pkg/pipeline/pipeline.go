// Package pipeline runs the parse → build → render sequence shared by the
// CLI, the TUI and the HTTP API.
//
// # Stages
//
//  1. Build: parse the source text and build the node/edge tree
//  2. Render: produce export artifacts (PNG, SVG, DOT, source JSON, tree JSON)
//
// Both stages are cached through a [cache.Cache]. Keys are derived from the
// SHA-256 of the source text, so identical documents loaded in different
// sessions share entries.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  src,
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/cache"
	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/render/canvas"
	"github.com/matzehuels/jsontree/pkg/render/nodelink"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/view"
)

// Export formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json" // source text, byte for byte
	FormatTree = "tree" // node/edge JSON
)

// PNG engines.
const (
	EngineCanvas   = "canvas"   // fixed grid boxes at node positions
	EngineGraphviz = "graphviz" // node-link diagram laid out by dot
)

// FilenameJSON and FilenameTree are the download names of the data exports.
const (
	FilenameJSON = "tree-data.json"
	FilenameTree = "tree-nodes.json"
)

// ValidFormats lists every export format in display order.
var ValidFormats = []string{FormatPNG, FormatSVG, FormatDOT, FormatJSON, FormatTree}

// Options configures a pipeline run.
type Options struct {
	// Source is the validated JSON text.
	Source []byte `json:"-"`

	// Formats to render. Defaults to PNG.
	Formats []string `json:"formats"`

	// Theme of image exports. Defaults to render.DefaultTheme.
	Theme render.Theme `json:"theme,omitempty"`

	// Highlighted node ids, typically the current search matches.
	Highlighted []string `json:"highlighted,omitempty"`

	// Collapsed node ids. Only the node-link formats hide their descendants.
	Collapsed []string `json:"collapsed,omitempty"`

	// Values adds scalar values to node-link labels.
	Values bool `json:"values,omitempty"`

	// Engine selects the PNG renderer. Defaults to EngineCanvas.
	Engine string `json:"engine,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Theme == "" {
		o.Theme = render.DefaultTheme
	} else if _, err := render.ParseTheme(string(o.Theme)); err != nil {
		return err
	}
	switch o.Engine {
	case "":
		o.Engine = EngineCanvas
	case EngineCanvas, EngineGraphviz:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown png engine %q (want %s or %s)", o.Engine, EngineCanvas, EngineGraphviz)
	}
	return nil
}

// ArtifactKeyOpts returns the cache key options for one format. Settings that
// do not change the format's bytes are left out so they share entries.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	switch format {
	case FormatJSON, FormatTree:
		return cache.ArtifactKeyOpts{Format: format}
	}

	k := cache.ArtifactKeyOpts{
		Format:      format,
		Theme:       string(o.Theme),
		Highlighted: sorted(o.Highlighted),
	}
	if format == FormatPNG && o.Engine != EngineGraphviz {
		return k
	}
	if format == FormatPNG {
		k.Format = FormatPNG + "+" + EngineGraphviz
	}
	k.Collapsed = sorted(o.Collapsed)
	k.Values = o.Values
	return k
}

func (o Options) highlightSet() map[string]bool { return toSet(o.Highlighted) }
func (o Options) collapsedSet() map[string]bool { return toSet(o.Collapsed) }

// FromView returns options capturing the highlight and collapse state of v.
func FromView(v *view.State, source []byte, theme render.Theme, formats ...string) Options {
	opts := Options{Source: source, Formats: formats, Theme: theme}
	if v == nil {
		return opts
	}
	opts.Highlighted = v.HighlightedIDs()
	t := v.Tree()
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if len(t.Children(n.ID)) > 0 && !v.IsExpanded(n.ID) {
			opts.Collapsed = append(opts.Collapsed, n.ID)
		}
	}
	return opts
}

// Result holds the output of Execute.
type Result struct {
	Tree       *tree.Tree
	SourceHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats holds counts and timings of a run.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	BuildHit  bool
	RenderHit bool
}

// ValidateFormat returns an INVALID_FORMAT error for unknown formats.
// Format names are case-sensitive.
func ValidateFormat(format string) error {
	if slices.Contains(ValidFormats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (valid: png, svg, dot, json, tree)", format)
}

// ValidateFormats validates each format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Filename returns the download filename of a format.
func Filename(format string) string {
	switch format {
	case FormatPNG:
		return canvas.Filename
	case FormatSVG:
		return nodelink.FilenameSVG
	case FormatDOT:
		return nodelink.FilenameDOT
	case FormatJSON:
		return FilenameJSON
	case FormatTree:
		return FilenameTree
	}
	return "tree-export"
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON, FormatTree:
		return "application/json"
	}
	return "application/octet-stream"
}

func sorted(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
