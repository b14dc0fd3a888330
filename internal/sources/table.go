package sources

import (
	"encoding/csv"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
)

// ParseTable parses comma-separated text into rows keyed by the header line.
// Quoted fields may span lines and carry doubled quotes. Rows whose fields
// are all blank are dropped; short rows are padded with empty strings.
func ParseTable(text string) ([]map[string]string, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(domain.ErrMalformedDocument, err.Error())
	}

	var header []string
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		if blankRecord(rec) {
			continue
		}
		if header == nil {
			header = make([]string, len(rec))
			for i, h := range rec {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
