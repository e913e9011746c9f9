package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"netdiagram/internal/codec"
	"netdiagram/internal/render"
)

// convertCommand creates the convert command for rewriting import documents.
func (c *CLI) convertCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "convert [document.json|yaml]",
		Short: "Rewrite an import document in the export schema",
		Long: `Rewrite an import document in the export schema.

The document is validated by building it into a diagram, then written the way
the editor exports: hosts and routers list the ids of their links, and the
top-level links and flows arrays are empty. Use dot for a Graphviz view of the
initial placement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.OutOrStdout(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml, dot (default: from output extension, else json)")

	return cmd
}

func (c *CLI) runConvert(stdout io.Writer, input, output, format string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	g, err := codec.Build(doc, codec.Placement{
		Spacing:  cfg.Import.Spacing,
		Viewport: cfg.LayoutViewport(),
	})
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}

	format = outputFormat(format, output, "json")
	if format == "dot" {
		data, err := render.ToDOT(g)
		if err != nil {
			return err
		}
		return writeOutput(stdout, output, data)
	}

	_, exporter, ok := codec.ByFormat(format)
	if !ok {
		return fmt.Errorf("unsupported output format %q (want json, yaml or dot)", format)
	}
	var buf bytes.Buffer
	if err := exporter.Export(codec.Export(g), &buf); err != nil {
		return err
	}
	c.Logger.Info("Converted", "input", input, "devices", g.DeviceCount(), "links", g.LinkCount(), "format", exporter.Format())
	return writeOutput(stdout, output, buf.Bytes())
}
