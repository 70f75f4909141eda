package statement

import "strings"

// Canonical field names used in error reporting.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
)

// Trigger substrings per canonical field. The lists and the first-match-wins
// order are load-bearing: headers like "debit/credit" intentionally resolve to
// the first matching column so that repeated runs over the same statement map
// identically. Do not reorder.
var (
	dateTriggers        = []string{"date"}
	descriptionTriggers = []string{"desc", "memo", "details", "narrative"}
	amountTriggers      = []string{"amount", "debit", "credit", "value"}
)

// ColumnMapping maps a table's columns to the canonical transaction fields.
// An empty string means the field could not be located.
type ColumnMapping struct {
	Date        string
	Description string
	Amount      string
}

// Complete reports whether every canonical field was mapped. Tables with an
// incomplete mapping cannot yield transactions through the tabular path.
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Description != "" && m.Amount != ""
}

// MissingFields lists the canonical fields that could not be mapped.
func (m ColumnMapping) MissingFields() []string {
	var missing []string
	if m.Date == "" {
		missing = append(missing, FieldDate)
	}
	if m.Description == "" {
		missing = append(missing, FieldDescription)
	}
	if m.Amount == "" {
		missing = append(missing, FieldAmount)
	}
	return missing
}

// IdentifyColumns heuristically maps column headers to canonical fields. For
// each field the first column (in the given order) whose trimmed, lowercased
// name contains one of the field's trigger substrings wins; absent matches
// leave the field empty. Deterministic, no failure path.
func IdentifyColumns(names []string) ColumnMapping {
	var mapping ColumnMapping
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if mapping.Date == "" && containsAny(normalized, dateTriggers) {
			mapping.Date = name
		}
		if mapping.Description == "" && containsAny(normalized, descriptionTriggers) {
			mapping.Description = name
		}
		if mapping.Amount == "" && containsAny(normalized, amountTriggers) {
			mapping.Amount = name
		}
	}
	return mapping
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
