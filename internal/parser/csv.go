package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files. Rows render as bulleted "Header: value"
// lines grouped into batches under a heading, so each batch forms an
// atomic list block for the engine.
type CSVParser struct{}

// csvBatchSize rows per rendered section.
const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]
	dataRows := records[1:]

	var out strings.Builder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		var block strings.Builder
		// 1-indexed source rows, skipping the header row.
		block.WriteString(fmt.Sprintf("## Rows %d-%d\n\n", i+2, end+1))
		for _, row := range dataRows[i:end] {
			block.WriteString("- ")
			for j, cell := range row {
				if j > 0 {
					block.WriteString(", ")
				}
				if j < len(headers) {
					block.WriteString(headers[j] + ": " + cell)
				} else {
					block.WriteString(cell)
				}
			}
			block.WriteString("\n")
		}
		writeBlock(&out, block.String())
	}

	return out.String(), nil
}
