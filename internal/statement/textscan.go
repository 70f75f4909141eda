package statement

import (
	"regexp"
	"strings"

	"github.com/spendlens/spendlens/internal/domain"
)

// Token patterns for the text fallback. Bank PDFs frequently defeat table
// detection; scanning raw lines for a date and a dollar amount recovers a
// usable subset at lower recall.
var (
	dateTokenRe   = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	amountTokenRe = regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`)
)

// ExtractText scans unstructured statement text line by line. A line yields a
// candidate only when it carries a date token followed by a dollar-amount
// token; the description is the trimmed substring strictly between the two.
// Lines that fail either match or fail normalization are skipped.
func ExtractText(text string) []domain.Transaction {
	var txs []domain.Transaction

	for _, line := range strings.Split(text, "\n") {
		dateLoc := dateTokenRe.FindStringIndex(line)
		if dateLoc == nil {
			continue
		}

		remainder := line[dateLoc[1]:]
		amountLoc := amountTokenRe.FindStringIndex(remainder)
		if amountLoc == nil {
			continue
		}

		rawDate := line[dateLoc[0]:dateLoc[1]]
		rawAmount := remainder[amountLoc[0]:amountLoc[1]]
		description := remainder[:amountLoc[0]]

		tx, err := NormalizeRow(rawDate, description, rawAmount)
		if err != nil {
			continue
		}
		txs = append(txs, tx)
	}

	return txs
}
