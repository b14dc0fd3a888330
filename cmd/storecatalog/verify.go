package main

import (
	"github.com/inkchain/storecatalog/internal/verify"
	"github.com/spf13/cobra"
)

func (c *cli) verifyCmd() *cobra.Command {
	flags := &pipelineFlags{}
	var (
		strict  bool
		noWrite bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Build the catalog and report problems; fails on errors, or warnings with --strict",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				strict = c.cfg.Verify.Strict
			}
			flags.apply(c)
			svc := c.app.Catalog()
			b, err := svc.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			v := verify.New(verify.Options{
				PublicRoot:     c.cfg.PublicPath(),
				QRFile:         c.cfg.Assets.QRFile,
				AssetsRequired: c.cfg.Assets.Required,
				Workers:        c.cfg.Assets.Workers,
			})
			report := v.Verify(cmd.Context(), verify.Input{
				Products: b.Catalog.Products,
				Statuses: b.Statuses,
				Issues:   b.Issues,
				Images:   b.Images,
			})
			printReport(cmd.OutOrStdout(), "verify", report)

			verdict := report.Verdict(strict)
			if !noWrite && report.Count(verify.SeverityError) == 0 {
				if _, err := c.app.Publish(b); err != nil {
					return err
				}
			}
			return verdict
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "do not write the generated document")
	return cmd
}
