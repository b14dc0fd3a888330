package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() ([]domain.ProductRecord, domain.RateSheet) {
	manual := 9.5
	products := []domain.ProductRecord{
		{
			ID: "P1", SKU: "P1", Category: domain.CategoryPrompt, Title: "Portrait pack",
			Tier: "All", PriceBase: 1000, Rating: 5, SalesCount: 3, SortWeight: 2,
			Includes: []string{"a", "b"}, Asset: domain.AssetRef{Href: "/products/prompts/P1.zip"},
			Source: domain.SourceOverride,
		},
		{
			ID: "E1", SKU: "E1", Category: domain.CategoryEbook, Title: "Guide",
			PriceSecondaryManual: &manual, Rating: 4, Source: domain.SourceTabular,
		},
	}
	sheet := domain.RateSheet{
		BaseCurrency:        "THB",
		SecondaryCurrency:   "USD",
		BaseToSecondaryRate: 0.028,
		Policy:              domain.PricingPolicy{Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}},
	}
	return products, sheet
}

func TestRows(t *testing.T) {
	rows := Rows(sample())
	require.Len(t, rows, 2)
	assert.Equal(t, 28.99, rows[0].PriceSecondary)
	assert.True(t, rows[0].SecondaryDerived)
	assert.Equal(t, "a|b", rows[0].Includes)
	assert.Equal(t, 9.5, rows[1].PriceSecondary)
	assert.False(t, rows[1].SecondaryDerived)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Rows(sample())))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(headers, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "P1,P1,Prompt,Portrait pack,"))
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(headers, ",")+"\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, Rows(sample())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "id", f.GetCellValue(sheetName, "A1"))
	assert.Equal(t, "source", f.GetCellValue(sheetName, "Q1"))
	assert.Equal(t, "P1", f.GetCellValue(sheetName, "A2"))
	assert.Equal(t, "Guide", f.GetCellValue(sheetName, "D3"))
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "pdf", nil))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "A1", cell(0, 1))
	assert.Equal(t, "Z9", cell(25, 9))
	assert.Equal(t, "AA2", cell(26, 2))
	assert.Equal(t, "AB10", cell(27, 10))
}
