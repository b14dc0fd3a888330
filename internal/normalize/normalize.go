// Package normalize turns loosely typed source records into typed product
// patches. Only the fields a source actually supplied are set on a patch.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/spf13/cast"
)

// Issue is a record-level problem found while normalizing. Issues never stop
// a run; they surface as diagnostics warnings.
type Issue struct {
	Source  domain.Source `json:"source"`
	Ref     string        `json:"ref"`
	Message string        `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Source, i.Ref, i.Message)
}

// Result holds the patches of one source plus what was dropped on the way
type Result struct {
	Patches  []domain.ProductPatch
	Issues   []Issue
	Skipped  int
	Excluded int
}

func (r *Result) issue(src domain.Source, ref, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Source: src, Ref: ref, Message: fmt.Sprintf(format, args...)})
}

// Category maps free-text type names onto the enumerated categories.
// An empty value means Prompt; anything unrecognised means Other.
func Category(s string) domain.Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prompt":
		return domain.CategoryPrompt
	case "ebook", "e-book", "book":
		return domain.CategoryEbook
	case "image", "photo", "picture":
		return domain.CategoryImage
	case "video", "clip":
		return domain.CategoryVideo
	case "nft":
		return domain.CategoryNFT
	default:
		return domain.CategoryOther
	}
}

var numberNoise = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

// Number coerces a loosely typed value. Thousands separators and spaces are
// stripped from strings. ok is false for missing or non-numeric input.
func Number(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, isString := v.(string); isString {
		s = numberNoise.Replace(strings.TrimSpace(s))
		if s == "" {
			return 0, false
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var (
	overrideIncludeSep = regexp.MustCompile(`[|\n,]`)
	sheetIncludeSep    = regexp.MustCompile(`[;|\n]`)
)

// Includes parses an includes value. Arrays pass through without empty
// entries; strings are split on sep.
func Includes(v interface{}, sep *regexp.Regexp) []string {
	out := []string{}
	switch val := v.(type) {
	case nil:
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, item := range val {
			if s := strings.TrimSpace(cast.ToString(item)); s != "" {
				out = append(out, s)
			}
		}
	default:
		for _, s := range sep.Split(cast.ToString(val), -1) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// price coerces a price field. Negative and non-finite values become 0 and
// are reported; non-numeric values become 0 as well.
func (r *Result) price(src domain.Source, ref, field string, v interface{}) *float64 {
	f, ok := Number(v)
	if !ok {
		if s := strings.TrimSpace(cast.ToString(v)); s != "" {
			r.issue(src, ref, "%s %q is not a number, using 0", field, s)
		}
		return float64Ptr(0)
	}
	if f < 0 {
		r.issue(src, ref, "%s %v is negative, using 0", field, f)
		return float64Ptr(0)
	}
	return float64Ptr(f)
}

func stringPtr(s string) *string { return &s }

func float64Ptr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func categoryPtr(c domain.Category) *domain.Category { return &c }
