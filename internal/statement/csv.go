package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads a CSV statement into a Table, treating the first record as
// the header row. Ragged records are tolerated: short rows leave cells empty,
// long rows drop the overflow.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV reads CSV content from r into a Table.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	return tableFromRecords(records), nil
}

// tableFromRecords builds a Table from raw string records, first record as
// the header row.
func tableFromRecords(records [][]string) *Table {
	columns := records[0]
	table := &Table{Columns: columns}

	for _, record := range records[1:] {
		row := make(RawRow, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
