// Package export writes flat catalog listings for operators
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/pricing"
	"github.com/pkg/errors"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Sheet1"
)

// Row is one exported product line
type Row struct {
	ID               string  `csv:"id"`
	SKU              string  `csv:"sku"`
	Type             string  `csv:"type"`
	Title            string  `csv:"title"`
	Category         string  `csv:"category"`
	Level            string  `csv:"level"`
	PriceBase        float64 `csv:"price_base"`
	PriceSecondary   float64 `csv:"price_secondary"`
	SecondaryDerived bool    `csv:"secondary_derived"`
	Rating           float64 `csv:"rating"`
	Sales            int     `csv:"sales"`
	Sort             float64 `csv:"sort"`
	Asset            string  `csv:"asset"`
	External         bool    `csv:"external"`
	Image            string  `csv:"image"`
	Includes         string  `csv:"includes"`
	Source           string  `csv:"source"`
}

var headers = []string{
	"id", "sku", "type", "title", "category", "level",
	"price_base", "price_secondary", "secondary_derived",
	"rating", "sales", "sort", "asset", "external", "image", "includes", "source",
}

func (r *Row) values() []interface{} {
	return []interface{}{
		r.ID, r.SKU, r.Type, r.Title, r.Category, r.Level,
		r.PriceBase, r.PriceSecondary, r.SecondaryDerived,
		r.Rating, r.Sales, r.Sort, r.Asset, r.External, r.Image, r.Includes, r.Source,
	}
}

// Rows flattens products; the secondary price is the one a shopper would see
func Rows(products []domain.ProductRecord, sheet domain.RateSheet) []*Row {
	rows := make([]*Row, 0, len(products))
	for _, p := range products {
		row := &Row{
			ID:        p.ID,
			SKU:       p.SKU,
			Type:      string(p.Category),
			Title:     p.Title,
			Category:  p.GroupCategory,
			Level:     p.Tier,
			PriceBase: p.PriceBase,
			Rating:    p.Rating,
			Sales:     p.SalesCount,
			Sort:      p.SortWeight,
			Asset:     p.Asset.Href,
			External:  p.Asset.External,
			Image:     p.Image,
			Includes:  strings.Join(p.Includes, "|"),
			Source:    string(p.Source),
		}
		if q := pricing.Quote(p, sheet.BaseCurrency, sheet); q.Secondary != nil {
			row.PriceSecondary = q.Secondary.Value
			row.SecondaryDerived = q.Secondary.Approx
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes rows as CSV with a header line
func WriteCSV(w io.Writer, rows []*Row) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, strings.Join(headers, ",")+"\n")
		return errors.Wrap(err, "write csv header")
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "write csv")
}

// WriteXLSX writes rows to a single-sheet workbook
func WriteXLSX(w io.Writer, rows []*Row) error {
	f := excelize.NewFile()
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(i, 1), h)
	}
	for n, r := range rows {
		for i, v := range r.values() {
			f.SetCellValue(sheetName, cell(i, n+2), v)
		}
	}
	return errors.Wrap(f.Write(w), "write xlsx")
}

// Write dispatches on format
func Write(w io.Writer, format string, rows []*Row) error {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return errors.Errorf("unsupported export format %q", format)
	}
}

// cell names a cell from a zero-based column and one-based row
func cell(col, row int) string {
	name := ""
	for col++; col > 0; col = (col - 1) / 26 {
		name = string(rune('A'+(col-1)%26)) + name
	}
	return fmt.Sprintf("%s%d", name, row)
}
