package statement

import (
	"reflect"
	"testing"
)

func TestIdentifyColumns(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  ColumnMapping
	}{
		{
			name:  "canonical bank export headers",
			input: []string{"Transaction Date", "Memo", "Debit Amount"},
			want:  ColumnMapping{Date: "Transaction Date", Description: "Memo", Amount: "Debit Amount"},
		},
		{
			name:  "first match wins per field",
			input: []string{"Posting Date", "Value Date", "Narrative", "Debit", "Credit"},
			want:  ColumnMapping{Date: "Posting Date", Description: "Narrative", Amount: "Value Date"},
		},
		{
			name:  "case and whitespace insensitive",
			input: []string{"  DATE  ", "DESCRIPTION", "AMOUNT"},
			want:  ColumnMapping{Date: "  DATE  ", Description: "DESCRIPTION", Amount: "AMOUNT"},
		},
		{
			name:  "no triggers present",
			input: []string{"id", "notes"},
			want:  ColumnMapping{},
		},
		{
			name:  "partial mapping",
			input: []string{"Date", "Reference"},
			want:  ColumnMapping{Date: "Date"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  ColumnMapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentifyColumns(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IdentifyColumns(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentifyColumnsIdempotent(t *testing.T) {
	input := []string{"Transaction Date", "Memo", "Debit Amount"}
	first := IdentifyColumns(input)
	second := IdentifyColumns(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("IdentifyColumns is not idempotent: %+v vs %+v", first, second)
	}
}

func TestColumnMappingComplete(t *testing.T) {
	complete := ColumnMapping{Date: "a", Description: "b", Amount: "c"}
	if !complete.Complete() {
		t.Error("expected fully populated mapping to be complete")
	}

	partial := ColumnMapping{Date: "a"}
	if partial.Complete() {
		t.Error("expected partial mapping to be incomplete")
	}
	missing := partial.MissingFields()
	want := []string{FieldDescription, FieldAmount}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingFields() = %v, want %v", missing, want)
	}
}
