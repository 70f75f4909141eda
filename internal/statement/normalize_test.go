package statement

import (
	"testing"

	"cloud.google.com/go/civil"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "4.50", want: "4.5"},
		{input: "-50", want: "-50"},
		{input: "$4.50", want: "4.5"},
		{input: "$1,234.56", want: "1234.56"},
		{input: " $2,000 ", want: "2000"},
		{input: "-$19.99", want: "-19.99"},
		{input: "N/A", wantErr: true},
		{input: "", wantErr: true},
		{input: "12.34.56", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    civil.Date
		wantErr bool
	}{
		{input: "2024-03-14", want: civil.Date{Year: 2024, Month: 3, Day: 14}},
		{input: "03/14/2024", want: civil.Date{Year: 2024, Month: 3, Day: 14}},
		{input: "3/1/2024", want: civil.Date{Year: 2024, Month: 3, Day: 1}},
		{input: "03-14-2024", want: civil.Date{Year: 2024, Month: 3, Day: 14}},
		{input: "3/14/24", want: civil.Date{Year: 2024, Month: 3, Day: 14}},
		// Month-first is impossible here, so day-first applies.
		{input: "25/12/2024", want: civil.Date{Year: 2024, Month: 12, Day: 25}},
		{input: "14 Mar 2024", want: civil.Date{Year: 2024, Month: 3, Day: 14}},
		{input: "Mar 14, 2024", want: civil.Date{Year: 2024, Month: 3, Day: 14}},
		{input: "not a date", wantErr: true},
		{input: "", wantErr: true},
		{input: "13/32/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRow(t *testing.T) {
	tx, err := NormalizeRow("03/14/2024", "  Coffee Shop Purchase  ", "$4.50")
	if err != nil {
		t.Fatalf("NormalizeRow failed: %v", err)
	}
	if tx.Description != "Coffee Shop Purchase" {
		t.Errorf("Description = %q, want trimmed text", tx.Description)
	}
	if tx.Amount.String() != "4.5" {
		t.Errorf("Amount = %s, want 4.5", tx.Amount)
	}
	if (tx.Date != civil.Date{Year: 2024, Month: 3, Day: 14}) {
		t.Errorf("Date = %v", tx.Date)
	}
}

func TestNormalizeRowRejections(t *testing.T) {
	tests := []struct {
		name               string
		date, desc, amount string
	}{
		{name: "unparseable amount", date: "03/14/2024", desc: "Coffee", amount: "N/A"},
		{name: "unparseable date", date: "not a date", desc: "Coffee", amount: "4.50"},
		{name: "empty description", date: "03/14/2024", desc: "   ", amount: "4.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeRow(tt.date, tt.desc, tt.amount); err == nil {
				t.Error("expected rejection, got nil error")
			}
		})
	}
}
