// Package verify runs the catalog diagnostics and decides the verdict.
package verify

import (
	"fmt"
	"sort"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Severity of a finding
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var severityRank = map[Severity]int{SeverityError: 0, SeverityWarning: 1, SeverityInfo: 2}

// Finding is one diagnostic line
type Finding struct {
	Severity Severity `json:"severity"`
	Check    string   `json:"check"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
}

// PriceSummary describes the base prices of the priced products
type PriceSummary struct {
	Priced int     `json:"priced"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
}

// Report collects findings of one verification run
type Report struct {
	Products int                   `json:"products"`
	Sources  []domain.SourceStatus `json:"sources"`
	Prices   PriceSummary          `json:"prices"`
	Findings []Finding             `json:"findings"`
}

// Add appends a finding
func (r *Report) Add(sev Severity, check, subject, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Severity: sev,
		Check:    check,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Count returns the number of findings with the given severity
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Sort orders findings by severity, then check, then subject
func (r *Report) Sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Severity != b.Severity {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		if a.Check != b.Check {
			return a.Check < b.Check
		}
		return a.Subject < b.Subject
	})
}

// Verdict returns nil when the run passes. Any error fails; in strict mode
// any warning fails too.
func (r *Report) Verdict(strict bool) error {
	errs, warns := r.Count(SeverityError), r.Count(SeverityWarning)
	if errs > 0 {
		return errors.Wrapf(domain.ErrStructuralFailure, "%d errors, %d warnings", errs, warns)
	}
	if strict && warns > 0 {
		return errors.Wrapf(domain.ErrStructuralFailure, "0 errors, %d warnings (strict mode)", warns)
	}
	return nil
}

// SummarizePrices computes min/median/mean/max over positive base prices
func SummarizePrices(products []domain.ProductRecord) PriceSummary {
	data := stats.Float64Data{}
	for _, p := range products {
		if p.PriceBase > 0 {
			data = append(data, p.PriceBase)
		}
	}
	sum := PriceSummary{Priced: len(data)}
	if len(data) == 0 {
		return sum
	}
	sum.Min, _ = stats.Min(data)
	sum.Max, _ = stats.Max(data)
	sum.Mean, _ = stats.Mean(data)
	sum.Median, _ = stats.Median(data)
	sum.Mean, _ = stats.Round(sum.Mean, 2)
	return sum
}
