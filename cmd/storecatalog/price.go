package main

import (
	"fmt"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (c *cli) priceCmd() *cobra.Command {
	var (
		base      float64
		secondary float64
		currency  string
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Show the display prices for an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			hasBase, hasSec := cmd.Flags().Changed("base"), cmd.Flags().Changed("secondary")
			if hasBase == hasSec {
				return errors.New("exactly one of --base or --secondary is required")
			}
			p := domain.ProductRecord{ID: "PROBE"}
			if hasBase {
				if base < 0 {
					return errors.Wrapf(domain.ErrInvalidPricingInput, "base price %v", base)
				}
				p.PriceBase = base
			} else {
				if secondary <= 0 {
					return errors.Wrapf(domain.ErrInvalidPricingInput, "secondary price %v", secondary)
				}
				p.PriceSecondaryManual = &secondary
			}

			svc := c.app.Catalog()
			q := svc.Quote(p, currency)
			out := cmd.OutOrStdout()
			if q.Main != nil {
				fmt.Fprintln(out, q.Main.Formatted)
			}
			if q.Secondary != nil {
				prefix := ""
				if q.Secondary.Approx {
					prefix = "≈ "
				}
				line := prefix + q.Secondary.Formatted
				if q.Secondary.RateDate != nil {
					line += fmt.Sprintf(" (rate %s)", q.Secondary.RateDate.Format("2006-01-02"))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&base, "base", 0, "amount in the base currency")
	cmd.Flags().Float64Var(&secondary, "secondary", 0, "amount in the secondary currency")
	cmd.Flags().StringVar(&currency, "currency", "", "main display currency (default base)")
	return cmd
}
