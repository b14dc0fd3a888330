package main

import (
	"fmt"

	"github.com/inkchain/storecatalog/internal/verify"
	"github.com/spf13/cobra"
)

type pipelineFlags struct {
	sheetURL       string
	offline        bool
	reuseGenerated bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheetURL, "sheet-url", "", "published sheet CSV URL, overrides every other setting")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "skip the sheet fetch")
	cmd.Flags().BoolVar(&f.reuseGenerated, "reuse-generated", false, "keep the last generated sheet rows when the sheet is unreachable")
}

func (f *pipelineFlags) apply(c *cli) {
	p := c.app.Pipeline()
	if f.sheetURL != "" {
		p.SheetURL = f.sheetURL
	}
	p.Offline = f.offline
	p.ReuseGenerated = f.reuseGenerated
}

func (c *cli) buildCmd() *cobra.Command {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the catalog and write the generated document",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(c)
			b, id, err := c.app.BuildAndPublish(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSources(out, b.Statuses)
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%s wrote %d products to %s\n", mark(verify.SeverityInfo), len(b.Catalog.Products),
				c.cfg.CatalogPath(c.cfg.Catalog.GeneratedFile))
			if id != "" {
				fmt.Fprintf(out, "%s snapshot %s\n", mark(verify.SeverityInfo), id)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
