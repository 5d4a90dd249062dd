package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first sheet of an XLSX workbook into a raw cell grid.
// Cells are read unformatted: numeric cells (including date-styled cells,
// which Excel stores as serial numbers) become Number cells, everything
// else Text. A file that cannot be opened or read fails as a whole; no
// partial grid is returned.
func ReadXLSX(r io.Reader) ([][]Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	grid := make([][]Cell, len(rows))
	for i, row := range rows {
		grid[i] = make([]Cell, len(row))
		for j, raw := range row {
			grid[i][j] = classifyRaw(raw)
		}
	}
	return grid, nil
}

// classifyRaw tags a raw cell string. Raw numeric values keep full precision
// as Number cells so date-serial and amount coercion can act on them.
func classifyRaw(raw string) Cell {
	if raw == "" {
		return Empty
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return numberCell(f)
	}
	return textCell(raw)
}
