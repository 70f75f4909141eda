package statement

import (
	"testing"

	"cloud.google.com/go/civil"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{name: "date and amount present", line: "03/14/2024 Coffee Shop Purchase $4.50", want: 1},
		{name: "no amount token", line: "03/14/2024 Coffee Shop Purchase 4.50", want: 0},
		{name: "no date token", line: "Coffee Shop Purchase $4.50", want: 0},
		{name: "amount before date ignored", line: "$4.50 charged on 03/14/2024", want: 0},
		{name: "thousands separator", line: "01/02/2024 Rent Payment $1,250.00", want: 1},
		{name: "unparseable date skipped", line: "99/99/9999 Mystery $4.50", want: 0},
		{name: "empty description skipped", line: "03/14/2024 $4.50", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractText(tt.line)
			if len(got) != tt.want {
				t.Errorf("ExtractText(%q) yielded %d candidates, want %d", tt.line, len(got), tt.want)
			}
		})
	}
}

func TestExtractTextFields(t *testing.T) {
	txs := ExtractText("03/14/2024 Coffee Shop Purchase $4.50")
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if (tx.Date != civil.Date{Year: 2024, Month: 3, Day: 14}) {
		t.Errorf("Date = %v, want 2024-03-14", tx.Date)
	}
	if tx.Description != "Coffee Shop Purchase" {
		t.Errorf("Description = %q, want %q", tx.Description, "Coffee Shop Purchase")
	}
	if tx.Amount.String() != "4.5" {
		t.Errorf("Amount = %s, want 4.5", tx.Amount)
	}
}

func TestExtractTextMultiline(t *testing.T) {
	text := "ACME BANK Statement\n" +
		"03/14/2024 Coffee Shop Purchase $4.50\n" +
		"Page 1 of 3\n" +
		"03-15-2024 Grocery Store $82.19\n"

	txs := ExtractText(text)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[1].Description != "Grocery Store" {
		t.Errorf("second description = %q", txs[1].Description)
	}
}
