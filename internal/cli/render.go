package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procdeck/pkg/pipeline"
	"github.com/matzehuels/procdeck/pkg/render"
	"github.com/matzehuels/procdeck/pkg/render/deck"
	"github.com/matzehuels/procdeck/pkg/table"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output base path, default <dir>/<table name>
	formats  string  // comma-separated output formats
	policies string  // comma-separated policy IDs
	sheet    string  // workbook sheet, default first
	width    float64 // canvas width in canvas units
	height   float64 // canvas height in canvas units
	noCache  bool    // tag without the cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <table>",
		Short: "Draw the policy pages of a process table",
		Long: `Render loads a process table (.csv, .xlsx or .xlsm), builds one page per
policy and writes the combined outputs next to the table, or under -o.

A policy that cannot be drawn is reported and skipped; the command still
succeeds as long as the table could be loaded.`,
		Example: `  procdeck render process.xlsx
  procdeck render process.csv -f svg,png -o out/process
  procdeck render process.xlsx --sheet Finance --policies A,C`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.renderOptions(cmd, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: next to the table)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: pdf, svg, png, json (default from config, pdf,json)")
	cmd.Flags().StringVar(&opts.policies, "policies", "", "comma-separated policies to draw (default: all)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "workbook sheet to read (default: first)")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "canvas height")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the tagger cache")

	return cmd
}

// renderOptions merges the config file with the flags set on cmd.
func (c *CLI) renderOptions(cmd *cobra.Command, opts renderOpts) (pipeline.Options, error) {
	popts := c.Config.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("width") {
		popts.Width = opts.width
	}
	if flags.Changed("height") {
		popts.Height = opts.height
	}
	if flags.Changed("format") {
		formats, err := pipeline.ParseFormats(opts.formats)
		if err != nil {
			return pipeline.Options{}, err
		}
		popts.Formats = formats
	}
	if flags.Changed("policies") {
		popts.Policies = splitList(opts.policies)
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return popts, nil
}

func (c *CLI) runRender(ctx context.Context, path string, popts pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	tbl, err := table.Load(path, opts.sheet)
	if err != nil {
		return err
	}
	logger.Debug("loaded table", "path", path, "rows", tbl.Len(), "cols", tbl.Width())

	runner, release, err := c.newRunner(ctx, popts, opts.noCache)
	if err != nil {
		return err
	}
	defer release()

	d := deck.New()
	report, err := runner.Run(ctx, tbl, d)
	if err != nil {
		return err
	}
	printReport(report)

	if d.Len() == 0 {
		printWarning("No policy produced a page, nothing written")
		return nil
	}

	dir, base := outputBase(path, opts.output, c.Config.Output.Dir)
	paths, err := d.Write(dir, base, writableFormats(popts.Formats))
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Rendered %d of %d pages", len(report.Pages), len(report.Pages)+len(report.Failures)))
	return nil
}

// outputBase returns the directory and file base of the outputs. An explicit
// output path wins, then the configured directory, then the table's own
// directory. The base defaults to the table name without its extension.
func outputBase(tablePath, output, configDir string) (dir, base string) {
	if output != "" {
		return filepath.Dir(output), filepath.Base(output)
	}
	name := filepath.Base(tablePath)
	base = strings.TrimSuffix(name, filepath.Ext(name))
	if configDir != "" {
		return configDir, base
	}
	return filepath.Dir(tablePath), base
}

// writableFormats drops pdf when rsvg-convert is missing, keeping a json
// fallback so that a run always leaves a combined document behind.
func writableFormats(formats []string) []string {
	i := slices.Index(formats, pipeline.FormatPDF)
	if i < 0 || render.Available() {
		return formats
	}
	printWarning("rsvg-convert not found, skipping pdf output")
	out := slices.Delete(slices.Clone(formats), i, i+1)
	if !slices.Contains(out, pipeline.FormatJSON) {
		out = append(out, pipeline.FormatJSON)
	}
	return out
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
