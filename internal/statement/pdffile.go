package statement

import (
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// Horizontal gap (in PDF points) between positioned text chunks that starts a
// new cell when grouping a row into columns.
const cellGap = 10.0

// PDFDocument is the row- and text-shaped view of a PDF statement. Tables is
// a best-effort table detection (one table per page, first row as header);
// PageTexts carries the reconstructed plain text of every page for the
// regex fallback.
type PDFDocument struct {
	Tables    []*Table
	PageTexts []string
}

// LoadPDF extracts both views from a PDF file. Pages that cannot be read are
// skipped rather than failing the document; a statement is only unusable when
// no page yields anything.
func LoadPDF(path string) (*PDFDocument, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc := &PDFDocument{}
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil || len(rows) == 0 {
			// Positioned extraction failed; keep whatever plain text
			// the page has for the fallback scanner.
			if text, terr := page.GetPlainText(nil); terr == nil && text != "" {
				doc.PageTexts = append(doc.PageTexts, text)
			}
			continue
		}

		cellRows := make([][]string, 0, len(rows))
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			cells := groupRowCells(row.Content)
			if len(cells) == 0 {
				continue
			}
			cellRows = append(cellRows, cells)
			lines = append(lines, strings.Join(cells, " "))
		}

		if len(lines) > 0 {
			doc.PageTexts = append(doc.PageTexts, strings.Join(lines, "\n"))
		}
		if len(cellRows) > 1 {
			doc.Tables = append(doc.Tables, tableFromRecords(cellRows))
		}
	}

	return doc, nil
}

// groupRowCells joins horizontally adjacent text chunks and splits cells on
// larger gaps. This is only a heuristic stand-in for real table detection;
// statements it cannot segment fall through to the text scanner.
func groupRowCells(content pdf.TextHorizontal) []string {
	var cells []string
	var cell strings.Builder
	var prevEnd float64

	for i, t := range content {
		s := t.S
		if s == "" {
			continue
		}
		if i > 0 && t.X-prevEnd > cellGap {
			if trimmed := strings.TrimSpace(cell.String()); trimmed != "" {
				cells = append(cells, trimmed)
			}
			cell.Reset()
		}
		cell.WriteString(s)
		prevEnd = t.X + t.W
	}
	if trimmed := strings.TrimSpace(cell.String()); trimmed != "" {
		cells = append(cells, trimmed)
	}
	return cells
}
