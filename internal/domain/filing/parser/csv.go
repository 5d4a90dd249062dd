package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV loads a CSV sales report into a raw cell grid. All cells arrive as
// Text; coercion happens per canonical field during row parsing. The reader
// tolerates ragged rows and lazy quoting the way marketplace exports tend to
// need.
func ReadCSV(r io.Reader) ([][]Cell, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var grid [][]Cell
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if first && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\uFEFF")
			first = false
		}
		row := make([]Cell, len(record))
		for j, v := range record {
			row[j] = textCell(strings.TrimSpace(v))
		}
		grid = append(grid, row)
	}
	return grid, nil
}
