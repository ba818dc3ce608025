package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/library"
	"github.com/labelpress/labelpress/pkg/pipeline"
)

// sheetOpts holds the command-line flags for the sheet command.
type sheetOpts struct {
	output   string
	formats  []string
	template string
	image    string  // image file tiled instead of text
	pages    int     // identical pages to emit
	repeat   int     // text repeats per cell
	scale    float64 // PNG pixels per point
	page     int     // PNG page selection
	fonts    []string
	pick     bool // pick the symbol from the library
	noCache  bool
}

// sheetCommand creates the sheet command for tiling one symbol into every
// cell of a sheet. The symbol is either the text argument, an --image
// file, or a library item chosen with --pick.
func (c *CLI) sheetCommand() *cobra.Command {
	var formatsStr string
	opts := sheetOpts{
		scale: pipeline.DefaultScale,
		page:  pipeline.DefaultPage,
	}

	cmd := &cobra.Command{
		Use:   "sheet [text]",
		Short: "Tile a symbol into every cell of a sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}

			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return c.runSheet(cmd, text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "TOML template file (default: builtin symbol sheet)")
	cmd.Flags().StringVar(&opts.image, "image", "", "tile an image file instead of text")
	cmd.Flags().IntVar(&opts.pages, "pages", 0, "identical pages to emit (default 1)")
	cmd.Flags().IntVar(&opts.repeat, "repeat", 0, "text repeats per cell (default 4)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixels per point")
	cmd.Flags().IntVar(&opts.page, "page", opts.page, "PNG page to render, 1-based")
	cmd.Flags().StringArrayVar(&opts.fonts, "font", nil, "register a TTF font as key=path (repeatable)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "pick the symbol from the library")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runSheet(cmd *cobra.Command, text string, opts *sheetOpts) error {
	table, err := parseFonts(opts.fonts)
	if err != nil {
		return err
	}

	if opts.pick {
		text, err = c.pickSymbol(cmd)
		if err != nil {
			return err
		}
		if text == "" {
			printInfo("Nothing selected")
			return nil
		}
	}
	if text == "" && opts.image == "" {
		return fmt.Errorf("provide a text argument, --image, or --pick")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(cmd.Context(), "Tiling symbols")
	spin.Start()
	result, err := runner.ExecuteSymbols(cmd.Context(), pipeline.Options{
		Text:      text,
		ImagePath: opts.image,
		Pages:     opts.pages,
		Repeat:    opts.repeat,
		Template:  opts.template,
		Formats:   opts.formats,
		Scale:     opts.scale,
		Page:      opts.page,
		Logger:    c.Logger,
		Fonts:     table,
	})
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
			return err
		}
		spin.StopWithError("Render failed")
		return err
	}
	spin.StopWithSuccess("Rendered symbol sheet")

	paths, err := writeArtifacts(result.Artifacts, opts.output, sheetBaseName(text, opts.image))
	if err != nil {
		return err
	}
	printStats(0, result.Stats.Pages, result.Stats.Degraded, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// pickSymbol opens the library picker and returns the chosen item.
func (c *CLI) pickSymbol(cmd *cobra.Command) (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	store, err := library.Open(cmd.Context(), dir)
	if err != nil {
		return "", err
	}
	defer store.Close(cmd.Context())

	items, err := store.List(cmd.Context())
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("library is empty; add items with 'labelpress library add'")
	}
	return runSymbolPicker(items)
}

// sheetBaseName derives a default output base from the symbol content:
// the image file name when tiling an image, otherwise a slug of the text.
func sheetBaseName(text, image string) string {
	if image != "" {
		return strings.TrimSuffix(filepath.Base(image), filepath.Ext(image)) + "_sheet"
	}
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, text)
	if len(slug) > 24 {
		slug = slug[:24]
	}
	if slug == "" || strings.Trim(slug, "_") == "" {
		slug = "symbol"
	}
	return slug + "_sheet"
}
