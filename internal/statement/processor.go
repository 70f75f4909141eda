package statement

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/domain"
)

// Classifier is the external classification capability: free text plus a
// signed amount in, one label from the fixed category set out. Implementations
// may fail; the processor absorbs every failure at transaction granularity.
type Classifier interface {
	Classify(ctx context.Context, description string, amount decimal.Decimal) (string, error)
}

// Exact canonical header names accepted without heuristics.
const (
	columnDate        = "Date"
	columnDescription = "Description"
	columnAmount      = "Amount"
)

// Processor turns one statement file into a clean, categorized transaction
// set. Configuration is passed in at construction; the processor keeps no
// state between files.
type Processor struct {
	cfg        *config.Config
	classifier Classifier
	log        zerolog.Logger
}

// NewProcessor creates a file processor. classifier may be nil, in which case
// every transaction is categorized as Other.
func NewProcessor(cfg *config.Config, classifier Classifier, log zerolog.Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		classifier: classifier,
		log:        log,
	}
}

// ProcessFile runs the per-file state machine: detect the format, extract raw
// transactions, normalize them, and categorize the survivors. filename is the
// user-facing name used in logs and failure reports; path is where the bytes
// were saved. Any returned error describes this file only.
func (p *Processor) ProcessFile(ctx context.Context, path, filename string) (*domain.TransactionSet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	log := p.log.With().Str("file", filename).Logger()

	var (
		txs     []domain.Transaction
		dropped int
		err     error
	)

	switch ext {
	case ".pdf":
		txs, dropped, err = p.extractPDF(path, log)
	case ".csv", ".xlsx", ".xls":
		txs, dropped, err = p.extractSpreadsheet(path, ext)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if dropped > 0 {
		log.Warn().Int("rows_dropped", dropped).Msg("Rows rejected during cleaning")
	}
	log.Info().Int("transactions", len(txs)).Msg("Extraction complete")

	p.categorize(ctx, txs)

	return &domain.TransactionSet{Filename: filename, Transactions: txs}, nil
}

// extractPDF tries table-shaped extraction over every detected table first,
// then falls back to the text scanner over every page.
func (p *Processor) extractPDF(path string, log zerolog.Logger) ([]domain.Transaction, int, error) {
	doc, err := LoadPDF(path)
	if err != nil {
		return nil, 0, err
	}
	log.Debug().Int("tables", len(doc.Tables)).Int("pages", len(doc.PageTexts)).Msg("PDF loaded")

	var txs []domain.Transaction
	dropped := 0
	for _, table := range doc.Tables {
		mapping := IdentifyColumns(table.Columns)
		extracted, d := ExtractTable(table, mapping)
		txs = append(txs, extracted...)
		dropped += d
	}

	if len(txs) == 0 {
		log.Info().Msg("No transactions found in tables, attempting text extraction")
		for _, text := range doc.PageTexts {
			txs = append(txs, ExtractText(text)...)
		}
	}

	if len(txs) == 0 {
		return nil, dropped, fmt.Errorf("%w: ensure the statement contains transaction data", ErrNoTransactions)
	}
	return txs, dropped, nil
}

// extractSpreadsheet loads CSV/Excel rows as a table, resolves the canonical
// columns, and normalizes every row.
func (p *Processor) extractSpreadsheet(path, ext string) ([]domain.Transaction, int, error) {
	var (
		table *Table
		err   error
	)
	switch ext {
	case ".csv":
		table, err = LoadCSV(path)
	case ".xlsx":
		table, err = LoadXLSX(path)
	case ".xls":
		table, err = LoadXLS(path)
	}
	if err != nil {
		return nil, 0, err
	}

	mapping, err := resolveSpreadsheetMapping(table)
	if err != nil {
		return nil, 0, err
	}

	txs, dropped := ExtractTable(table, mapping)
	if len(txs) == 0 {
		return nil, dropped, ErrNoValidRows
	}
	return txs, dropped, nil
}

// resolveSpreadsheetMapping prefers exactly named canonical columns and falls
// back to the same substring heuristics the column identifier uses. A field
// that resolves neither way fails the file with an error naming that field.
func resolveSpreadsheetMapping(table *Table) (ColumnMapping, error) {
	heuristic := IdentifyColumns(table.Columns)

	mapping := ColumnMapping{
		Date:        heuristic.Date,
		Description: heuristic.Description,
		Amount:      heuristic.Amount,
	}
	for _, col := range table.Columns {
		switch col {
		case columnDate:
			mapping.Date = col
		case columnDescription:
			mapping.Description = col
		case columnAmount:
			mapping.Amount = col
		}
	}

	if mapping.Description == "" {
		return ColumnMapping{}, &MissingColumnError{Field: FieldDescription}
	}
	if mapping.Amount == "" {
		return ColumnMapping{}, &MissingColumnError{Field: FieldAmount}
	}
	if mapping.Date == "" {
		return ColumnMapping{}, &MissingColumnError{Field: FieldDate}
	}
	return mapping, nil
}

// categorize assigns a category to every transaction via the classification
// collaborator. A failed or unrecognized classification substitutes Other and
// never aborts the batch; each call gets its own timeout.
func (p *Processor) categorize(ctx context.Context, txs []domain.Transaction) {
	for i := range txs {
		txs[i].Category = p.classifyOne(ctx, txs[i])
	}
}

func (p *Processor) classifyOne(ctx context.Context, tx domain.Transaction) string {
	if p.classifier == nil {
		return domain.CategoryOther
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.ClassifyTimeout)
	defer cancel()

	label, err := p.classifier.Classify(callCtx, tx.Description, tx.Amount)
	if err != nil {
		p.log.Warn().Err(err).Str("description", tx.Description).Msg("Classification failed, using default category")
		return domain.CategoryOther
	}

	category, ok := domain.CanonicalCategory(label)
	if !ok {
		p.log.Warn().Str("label", label).Msg("Classifier returned unknown category, using default")
		return domain.CategoryOther
	}
	return category
}
