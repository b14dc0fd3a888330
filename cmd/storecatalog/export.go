package main

import (
	"io"
	"os"

	"github.com/inkchain/storecatalog/internal/export"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		format  string
		out     string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != export.FormatCSV && format != export.FormatXLSX {
				return errors.Errorf("unsupported export format %q", format)
			}
			c.app.Pipeline().Offline = offline
			svc := c.app.Catalog()
			cat := svc.GetCatalog(cmd.Context())
			rows := export.Rows(cat.Products, svc.GetRates())

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "create export file")
				}
				defer f.Close()
				w = f
			}
			return export.Write(w, format, rows)
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the sheet fetch")
	return cmd
}
