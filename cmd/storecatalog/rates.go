package main

import (
	"fmt"
	"strings"

	"github.com/inkchain/storecatalog/internal/verify"
	"github.com/spf13/cobra"
)

func (c *cli) ratesCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "update-rates",
		Short: "Fetch the latest exchange rate into the rate sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := c.app.RatesUpdater()
			if from != "" {
				u.Base = strings.ToUpper(from)
			}
			if to != "" {
				u.Secondary = strings.ToUpper(to)
			}
			sheet, err := c.app.UpdateRates(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s rate update failed: %v\n", mark(verify.SeverityError), err)
				return err
			}
			updated := ""
			if sheet.UpdatedAt != nil {
				updated = sheet.UpdatedAt.Format("2006-01-02")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s_%s=%v (%s, %s)\n", mark(verify.SeverityInfo),
				sheet.BaseCurrency, sheet.SecondaryCurrency, sheet.BaseToSecondaryRate, sheet.SourceTag, updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "base currency (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "secondary currency (default from config)")
	return cmd
}
