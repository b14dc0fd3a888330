package main

import (
	"github.com/inkchain/storecatalog/internal/smoke"
	"github.com/spf13/cobra"
)

func (c *cli) smokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Check the catalog documents and scan source for banned identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			report, err := smoke.Run(cmd.Context(), smoke.Options{
				OverridePath:  cfg.CatalogPath(cfg.Catalog.OverrideFile),
				GeneratedPath: cfg.CatalogPath(cfg.Catalog.GeneratedFile),
				RatesPath:     cfg.CatalogPath(cfg.Catalog.RatesFile),
				Base:          cfg.Catalog.BaseCurrency,
				Secondary:     cfg.Catalog.SecondaryCurrency,
				Root:          cfg.System.Workdir,
				ScanRoots:     cfg.Smoke.ScanRoots,
				Extensions:    cfg.Smoke.Extensions,
				IgnoreDirs:    cfg.Smoke.IgnoreDirs,
				Banned:        cfg.Smoke.BannedIdentifiers,
			})
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), "smoke", report)
			return report.Verdict(false)
		},
	}
}
