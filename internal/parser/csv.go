package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// CSVRowsPerSheet is how many schedule rows go into one sheet.
const CSVRowsPerSheet = 20

// CSVParser handles member schedules exported from spreadsheets. The header
// row is repeated at the top of every sheet so each batch stands alone.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*drawing.Drawing, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	d := &drawing.Drawing{Title: titleFromFilename(filename)}
	var rows [][]string
	for _, rec := range records {
		if !blankRecord(rec) {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return d, nil
	}

	header := strings.Join(rows[0], " | ")
	data := rows[1:]
	for start := 0; start < len(data); start += CSVRowsPerSheet {
		end := min(start+CSVRowsPerSheet, len(data))
		var sb strings.Builder
		sb.WriteString(header)
		sb.WriteString("\n")
		for _, rec := range data[start:end] {
			sb.WriteString(strings.Join(rec, " | "))
			sb.WriteString("\n")
		}
		d.Sheets = append(d.Sheets, &drawing.Sheet{
			// Spreadsheet row numbers: 1-based, after the header.
			Title: fmt.Sprintf("Rows %d-%d", start+2, end+1),
			Text:  strings.TrimSuffix(sb.String(), "\n"),
		})
	}
	return d, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
