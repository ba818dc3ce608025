package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	rows     string
	template string
	fonts    []string
	asJSON   bool
}

// inspectCommand creates the inspect command, which plans a sheet and
// reports fit statistics without rendering any artifact. Useful for
// checking whether a dataset fits a template before printing.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <data.{csv,xlsx}>",
		Short: "Plan a sheet and report fit statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rows, "rows", "r", "", "inspect only these rows, 1-based (e.g. \"1,3-5\")")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "TOML template file (default: builtin label sheet)")
	cmd.Flags().StringArrayVar(&opts.fonts, "font", nil, "register a TTF font as key=path (repeatable)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit statistics as JSON")

	return cmd
}

// inspection is the JSON shape of --json output.
type inspection struct {
	Source   string     `json:"source"`
	Template string     `json:"template"`
	Records  int        `json:"records"`
	Pages    int        `json:"pages"`
	Degraded int        `json:"degraded"`
	MinSize  int        `json:"min_font_size,omitempty"`
	MaxSize  int        `json:"max_font_size,omitempty"`
	Overflow []overflow `json:"overflow,omitempty"`
}

// overflow names one cell that still overflows at the minimum font size.
type overflow struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, opts *inspectOpts) error {
	table, err := parseFonts(opts.fonts)
	if err != nil {
		return err
	}

	pipeOpts := pipeline.Options{
		Dataset:  input,
		Rows:     opts.rows,
		Template: opts.template,
		Logger:   c.Logger,
		Fonts:    table,
	}
	if err := pipeOpts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	ds, err := pipeline.Ingest(cmd.Context(), pipeOpts)
	if err != nil {
		return err
	}
	sheet, err := pipeline.Plan(ds, pipeOpts)
	if err != nil {
		return err
	}

	report := buildInspection(sheet, pipeOpts.TemplateName(), len(ds.Records))

	if opts.asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = os.Stdout.Write(data)
		return err
	}

	printSuccess("Planned %s", input)
	printKeyValue("Template", report.Template)
	printKeyValue("Records", fmt.Sprintf("%d", report.Records))
	printKeyValue("Pages", fmt.Sprintf("%d", report.Pages))
	if report.MinSize > 0 {
		printKeyValue("Font sizes", fmt.Sprintf("%d–%d pt", report.MinSize, report.MaxSize))
	}
	if report.Degraded == 0 {
		printDetail("All cells fit")
		return nil
	}

	printWarning("%d cells overflow even at the minimum font size", report.Degraded)
	for _, o := range report.Overflow {
		printDetail("page %d: %q", o.Page, o.Text)
	}
	return nil
}

// buildInspection summarizes a planned sheet: page and degraded counts plus
// the range of chosen font sizes.
func buildInspection(sheet *render.Sheet, template string, records int) inspection {
	report := inspection{
		Source:   "dataset",
		Template: template,
		Records:  records,
		Pages:    sheet.PageCount(),
		Degraded: sheet.DegradedCells(),
	}

	for pageNo, page := range sheet.Pages {
		for _, cell := range page.Cells {
			if cell.Size > 0 && (report.MinSize == 0 || cell.Size < report.MinSize) {
				report.MinSize = cell.Size
			}
			if cell.Size > report.MaxSize {
				report.MaxSize = cell.Size
			}
			if cell.Degraded {
				report.Overflow = append(report.Overflow, overflow{
					Page: pageNo + 1,
					Text: cell.Text,
				})
			}
		}
	}
	return report
}
