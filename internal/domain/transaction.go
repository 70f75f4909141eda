package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is one canonical financial movement extracted from a statement.
// Date is always a valid calendar date, Description is trimmed and non-empty,
// and Amount is a finite signed decimal (negative for money out). Rows that
// cannot satisfy those invariants are dropped during normalization and never
// appear as a Transaction.
type Transaction struct {
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`

	// Category is assigned after extraction by the classification
	// collaborator; CategoryOther when classification is unavailable.
	Category string `json:"category,omitempty"`
}

// TransactionSet is the ordered sequence of transactions extracted from a
// single source file. It is created once by the file processor and is
// read-only afterwards, apart from category assignment.
type TransactionSet struct {
	Filename     string
	Transactions []Transaction
}
