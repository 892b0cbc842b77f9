package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/view"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	input     inputFlags
	output    string   // file (single format) or directory
	formats   string   // comma-separated
	theme     string   // dark | light
	highlight string   // search query whose matches are highlighted
	mode      string   // search mode of highlight
	collapse  []string // node paths whose subtrees are folded
	values    bool     // scalar values in node-link labels
	engine    string   // png engine
	noCache   bool
	refresh   bool
}

// renderCommand exports a document as image or data files.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Export a JSON document as PNG, SVG, DOT or JSON",
		Long: `Export a JSON document as image or data files.

Formats:
  png   grid of typed boxes (or a Graphviz layout with --engine graphviz)
  svg   Graphviz node-link diagram with path tooltips
  dot   Graphviz source of the node-link diagram
  json  the source document, byte for byte
  tree  the node/edge JSON

With one format, --output names the file. With several, --output is a
directory and files get their default names (tree-visualization.png, ...).`,
		Example: `  jsontree render data.json
  jsontree render -f png,svg -o exports/ --theme light data.json
  jsontree render --sample --highlight bangalore -f svg -o sample.svg
  jsontree render --collapse '$.user.hobbies' -f dot data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, optionalArg(args, 0), &opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), svg, dot, json, tree (comma-separated)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "colour theme: dark, light (default from config)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "highlight nodes matching this search query")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "search mode of --highlight: literal, pattern")
	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, "node paths to fold in node-link exports (repeatable)")
	cmd.Flags().BoolVar(&opts.values, "values", false, "show scalar values in node-link labels")
	cmd.Flags().StringVar(&opts.engine, "engine", pipeline.EngineCanvas, "png engine: canvas, graphviz")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the export cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, file string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	theme := c.Config.Theme()
	if opts.theme != "" {
		t, err := render.ParseTheme(opts.theme)
		if err != nil {
			return err
		}
		theme = t
	}

	src, name, err := c.readDocument(file, opts.input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	buildOpts := pipeline.Options{Source: src, Refresh: opts.refresh}
	t, buildHit, err := runner.BuildWithCacheInfo(ctx, buildOpts)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %d nodes", name, t.NodeCount())

	v, err := c.prepareView(t, opts)
	if err != nil {
		return err
	}

	pipeOpts := pipeline.FromView(v, src, theme, formats...)
	pipeOpts.Values = opts.values
	pipeOpts.Engine = opts.engine
	pipeOpts.Refresh = opts.refresh

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(formats, ", "))
	spinner.Start()
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, t, pipeOpts)
	if err != nil {
		spinner.StopWithError(c.out, "Render failed")
		return err
	}
	spinner.Stop()

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path, err := outputPath(opts.output, format, len(formats) > 1)
		if err != nil {
			return err
		}
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess(c.out, "Exported %d file(s)", len(paths))
	printStats(c.out, t.NodeCount(), t.EdgeCount(), buildHit && renderHit)
	for i, p := range paths {
		printFile(c.out, p, len(artifacts[formats[i]]))
	}
	if res := v.Result(); res.Outcome != view.OutcomeNone {
		printDetail(c.out, "%s (highlighted)", res.Message())
	}
	return nil
}

// prepareView applies --highlight and --collapse to a fresh view of t.
func (c *CLI) prepareView(t *tree.Tree, opts *renderOpts) (*view.State, error) {
	v := view.New(t)

	if opts.highlight != "" {
		mode := opts.mode
		if mode == "" {
			mode = c.Config.View.SearchMode
		}
		m, err := view.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		if err := errors.ValidateQuery(opts.highlight); err != nil {
			return nil, err
		}
		if res := v.Search(opts.highlight, m); res.Outcome == view.OutcomeInvalidPattern {
			return nil, errors.New(errors.ErrCodeInvalidPattern, "%s", res.Message())
		}
	}

	for _, p := range opts.collapse {
		if _, err := tree.ParsePath(p); err != nil {
			return nil, err
		}
		id, ok := nodeByPath(t, p)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no node at path %s", p)
		}
		v.Collapse(id)
	}
	return v, nil
}

func nodeByPath(t *tree.Tree, path string) (string, bool) {
	for i := range t.Nodes {
		if t.Nodes[i].Path == path {
			return t.Nodes[i].ID, true
		}
	}
	return "", false
}

// outputPath returns where a format is written. Without --output files get
// their default names in the working directory. With several formats, or
// when --output is an existing directory, --output is a directory.
func outputPath(output, format string, multi bool) (string, error) {
	path := pipeline.Filename(format)
	switch {
	case output == "":
	case multi || isDir(output):
		path = filepath.Join(output, path)
	default:
		path = output
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", err
	}
	return path, nil
}

func isDir(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
