package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/verify"
	"github.com/labstack/gommon/color"
)

const rule = "────────────────────────────────────────"

func mark(sev verify.Severity) string {
	switch sev {
	case verify.SeverityError:
		return color.Red("✖")
	case verify.SeverityWarning:
		return color.Yellow("⚠")
	default:
		return color.Green("✔")
	}
}

func printSources(w io.Writer, statuses []domain.SourceStatus) {
	for _, st := range statuses {
		var sev verify.Severity
		switch st.Outcome {
		case domain.OutcomeError:
			sev = verify.SeverityError
		case domain.OutcomeFallback:
			sev = verify.SeverityWarning
		default:
			sev = verify.SeverityInfo
		}
		line := fmt.Sprintf("%s %-9s %s", mark(sev), st.Source, st.Outcome)
		if st.Detail != "" {
			line += " (" + st.Detail + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func printReport(w io.Writer, title string, r *verify.Report) {
	for _, f := range r.Findings {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", mark(f.Severity), f.Check, f.Subject, f.Message)
	}
	if r.Prices.Priced > 0 {
		p := r.Prices
		fmt.Fprintf(w, "prices: %d priced, min %.2f, median %.2f, mean %.2f, max %.2f\n",
			p.Priced, p.Min, p.Median, p.Mean, p.Max)
	}
	fmt.Fprintln(w, rule)
	errs, warns := r.Count(verify.SeverityError), r.Count(verify.SeverityWarning)
	summary := fmt.Sprintf("%s: %d products, %d errors, %d warnings", strings.ToUpper(title), r.Products, errs, warns)
	switch {
	case errs > 0:
		fmt.Fprintln(w, mark(verify.SeverityError), summary)
	case warns > 0:
		fmt.Fprintln(w, mark(verify.SeverityWarning), summary)
	default:
		fmt.Fprintln(w, mark(verify.SeverityInfo), summary)
	}
}
