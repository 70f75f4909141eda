package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/option"

	"github.com/spendlens/spendlens/internal/domain"
)

const (
	statementsTable   = "statements"
	transactionsTable = "transactions"
)

// StatementRow represents an archived statement record in BigQuery.
type StatementRow struct {
	StatementID string `bigquery:"statement_id"`
	BatchID     string `bigquery:"batch_id"`

	OriginalFilename string `bigquery:"original_filename"`
	FileMimeType     string `bigquery:"file_mime_type"`
	GCSURI           string `bigquery:"gcs_uri"`

	TransactionCount int64     `bigquery:"transaction_count"`
	UploadTS         time.Time `bigquery:"upload_ts"`
}

// TransactionRow represents an archived transaction record in BigQuery.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"`
	StatementID   string `bigquery:"statement_id"`

	TransactionDate civil.Date `bigquery:"transaction_date"`
	Description     string     `bigquery:"description"`
	Amount          float64    `bigquery:"amount"`
	Category        string     `bigquery:"category"`

	CreatedTS time.Time `bigquery:"created_ts"`
}

// Warehouse writes archived statements and their transactions to BigQuery.
// The client is created once and shared across inserts.
type Warehouse struct {
	client  *bigquery.Client
	dataset string
}

// NewWarehouse creates a Warehouse for the given project and dataset. When
// credentialsFile is empty, Application Default Credentials are used.
func NewWarehouse(ctx context.Context, projectID, dataset, credentialsFile string) (*Warehouse, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}

	return &Warehouse{client: client, dataset: dataset}, nil
}

// InsertStatement inserts a single statement row.
func (w *Warehouse) InsertStatement(ctx context.Context, row *StatementRow) error {
	inserter := w.client.Dataset(w.dataset).Table(statementsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertStatement: inserting row: %w", err)
	}
	return nil
}

// InsertTransactions inserts a batch of transaction rows.
func (w *Warehouse) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := w.client.Dataset(w.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// Close releases the underlying BigQuery client.
func (w *Warehouse) Close() error {
	return w.client.Close()
}

// transactionRows converts extracted transactions into archive rows for the
// given statement.
func transactionRows(statementID string, txs []domain.Transaction, now time.Time, newID func() string) []*TransactionRow {
	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		amount, _ := tx.Amount.Float64()
		rows = append(rows, &TransactionRow{
			TransactionID:   newID(),
			StatementID:     statementID,
			TransactionDate: tx.Date,
			Description:     tx.Description,
			Amount:          amount,
			Category:        tx.Category,
			CreatedTS:       now,
		})
	}
	return rows
}
