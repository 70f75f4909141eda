package statement

import (
	"errors"
	"fmt"
)

// Sentinel errors for per-file failures. Each file's failure is reported
// independently; none of these ever aborts a sibling file in a batch.
var (
	// ErrUnsupportedFormat means the file extension is not one of the
	// accepted statement formats.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoTransactions means neither table-shaped extraction nor the text
	// fallback recovered a single transaction candidate.
	ErrNoTransactions = errors.New("no transactions found in the statement")

	// ErrNoValidRows means rows were extracted but none survived
	// normalization.
	ErrNoValidRows = errors.New("no valid transactions after cleaning")
)

// MissingColumnError reports which canonical column could not be located in a
// spreadsheet, so the caller can tell the user what to fix.
type MissingColumnError struct {
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("could not find a %s column; please ensure the file has a column for transaction %ss", e.Field, e.Field)
}
