package statement

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

// Date layouts accepted by ParseDate, tried in order. Numeric forms are
// month-first; day-first variants are retried only when every month-first
// layout is impossible for the input (e.g. "25/12/2024").
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"1-2-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 January 2006",
}

var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"02-01-06",
}

// NormalizeRow coerces one raw row into a Transaction, applying the rules in
// order: amount, date, description. A row failing any rule is rejected with an
// error describing the offending value; it is never defaulted.
func NormalizeRow(rawDate, rawDescription, rawAmount string) (domain.Transaction, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return domain.Transaction{}, err
	}

	date, err := ParseDate(rawDate)
	if err != nil {
		return domain.Transaction{}, err
	}

	description := strings.TrimSpace(rawDescription)
	if description == "" {
		return domain.Transaction{}, fmt.Errorf("empty description")
	}

	return domain.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, nil
}

// ParseAmount strips the currency symbol and thousands separators and parses
// the remainder as a signed decimal. Unparseable amounts are rejected, never
// coerced to zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", raw)
	}
	return amount, nil
}

// ParseDate parses a calendar date from any of the common statement formats.
func ParseDate(raw string) (civil.Date, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return civil.DateOf(t), nil
		}
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unparseable date %q", raw)
}
