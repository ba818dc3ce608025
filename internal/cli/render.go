package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/dataset"
	"github.com/labelpress/labelpress/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "pdf", "png", "json"
	rows     string   // 1-based row selection like "1,3-5"
	template string   // template file path ("" = builtin)
	scale    float64  // PNG pixels per point
	page     int      // PNG page selection
	fonts    []string // TTF registrations as "key=path"
	pick     bool     // interactive record picker
	noCache  bool     // bypass the plan/artifact cache
	refresh  bool     // recompute and overwrite cached entries
}

// renderCommand creates the render command for turning datasets into sheets.
//
// Default settings:
//   - format: pdf
//   - template: builtin label sheet
//   - scale: 2.0 pixels per point (PNG only)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		scale: pipeline.DefaultScale,
		page:  pipeline.DefaultPage,
	}

	cmd := &cobra.Command{
		Use:   "render <data.{csv,xlsx}>",
		Short: "Render a dataset as a label sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.rows, "rows", "r", "", "render only these rows, 1-based (e.g. \"1,3-5\")")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "TOML template file (default: builtin label sheet)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixels per point")
	cmd.Flags().IntVar(&opts.page, "page", opts.page, "PNG page to render, 1-based")
	cmd.Flags().StringArrayVar(&opts.fonts, "font", nil, "register a TTF font as key=path (repeatable)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "pick records interactively before rendering")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the plan and artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached entries")

	return cmd
}

// runRender executes the full pipeline for a dataset and writes the
// requested artifacts next to the input (or to --output).
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	table, err := parseFonts(opts.fonts)
	if err != nil {
		return err
	}

	rows := opts.rows
	if opts.pick {
		rows, err = pickRows(input, rows)
		if err != nil {
			return err
		}
		if rows == "" {
			printInfo("Nothing selected")
			return nil
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	collector := &fitCollector{}
	defer collector.install()()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Dataset:  input,
		Rows:     rows,
		Template: opts.template,
		Formats:  opts.formats,
		Scale:    opts.scale,
		Page:     opts.page,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
		Fonts:    table,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d pages", result.Stats.Pages))

	paths, err := writeArtifacts(result.Artifacts, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Records, result.Stats.Pages, result.Stats.Degraded, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	collector.summarize()
	return nil
}

// pickRows opens the interactive record picker and returns the selection
// as a 1-based rows string. Preselected rows stay checked.
func pickRows(input, preselected string) (string, error) {
	ds, err := dataset.Read(input)
	if err != nil {
		return "", err
	}
	picked, err := runRecordPicker(ds, preselected)
	if err != nil {
		return "", err
	}
	return picked, nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.pdf, .png, .json), it strips that extension.
// This is used when generating multiple files (e.g., racks.pdf, racks.png).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each rendered artifact to disk and returns the
// written paths. A single format honors --output verbatim; multiple
// formats share a base path and get per-format extensions.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	if len(artifacts) == 1 && output != "" {
		for format, data := range artifacts {
			if filepath.Ext(output) == "" {
				output += "." + format
			}
			if err := writeFile(output, data); err != nil {
				return nil, err
			}
			return []string{output}, nil
		}
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(artifacts))
	for _, format := range []string{pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatJSON} {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := writeFile(path, data); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
