package statement

import "github.com/spendlens/spendlens/internal/domain"

// RawRow is an untyped row from a table source: column name → cell value.
// RawRows are ephemeral; they are discarded once mapped into transactions.
type RawRow map[string]string

// Table is a structured table as handed back by one of the format loaders
// (CSV, spreadsheet, or the best-effort PDF row grouping). Columns preserves
// the source order, which the column identifier depends on.
type Table struct {
	Columns []string
	Rows    []RawRow
}

// ExtractTable converts a table's rows into transactions using an already
// identified column mapping. An incomplete mapping yields zero transactions,
// signalling the caller to fall back to text extraction. A row that fails
// normalization is skipped; no single row aborts the table. The second return
// is the number of rows dropped that way.
func ExtractTable(table *Table, mapping ColumnMapping) ([]domain.Transaction, int) {
	if !mapping.Complete() {
		return nil, 0
	}

	txs := make([]domain.Transaction, 0, len(table.Rows))
	dropped := 0
	for _, row := range table.Rows {
		tx, err := NormalizeRow(row[mapping.Date], row[mapping.Description], row[mapping.Amount])
		if err != nil {
			dropped++
			continue
		}
		txs = append(txs, tx)
	}
	return txs, dropped
}
