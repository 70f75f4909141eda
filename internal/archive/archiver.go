// Package archive persists processed statements for later analysis: the raw
// uploaded file goes to Cloud Storage, the extracted transactions to a
// BigQuery dataset. Archival is optional and runs off the request path via
// the jobs queue.
package archive

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spendlens/spendlens/internal/jobs"
)

// Archiver handles archive jobs published by the upload handler.
type Archiver struct {
	objects   *ObjectStore
	warehouse *Warehouse
	log       zerolog.Logger
}

// NewArchiver wires the object store and warehouse into a job handler.
func NewArchiver(objects *ObjectStore, warehouse *Warehouse, log zerolog.Logger) *Archiver {
	return &Archiver{objects: objects, warehouse: warehouse, log: log}
}

// HandleJob implements jobs.JobHandler. It uploads the statement bytes and
// inserts the statement and transaction rows. A failed upload aborts the
// insert; the job is recorded as failed with the underlying error.
func (a *Archiver) HandleJob(ctx context.Context, job *jobs.ArchiveStatementJob) error {
	statementID := uuid.New().String()
	now := time.Now().UTC()

	objectName := fmt.Sprintf("statements/%s/%s-%s",
		now.Format("2006/01/02"), statementID, path.Base(job.Filename))

	uri, err := a.objects.UploadBytes(ctx, objectName, job.ContentType, job.Data)
	if err != nil {
		return fmt.Errorf("upload statement %q: %w", job.Filename, err)
	}

	row := &StatementRow{
		StatementID:      statementID,
		BatchID:          job.BatchID,
		OriginalFilename: job.Filename,
		FileMimeType:     job.ContentType,
		GCSURI:           uri,
		TransactionCount: int64(len(job.Transactions)),
		UploadTS:         now,
	}
	if err := a.warehouse.InsertStatement(ctx, row); err != nil {
		return fmt.Errorf("archive statement %q: %w", job.Filename, err)
	}

	txRows := transactionRows(statementID, job.Transactions, now, func() string {
		return uuid.New().String()
	})
	if err := a.warehouse.InsertTransactions(ctx, txRows); err != nil {
		return fmt.Errorf("archive transactions for %q: %w", job.Filename, err)
	}

	a.log.Info().
		Str("statement_id", statementID).
		Str("filename", job.Filename).
		Str("gcs_uri", uri).
		Int("transactions", len(job.Transactions)).
		Msg("statement archived")

	return nil
}

// Close releases the underlying clients.
func (a *Archiver) Close() error {
	objErr := a.objects.Close()
	whErr := a.warehouse.Close()
	if objErr != nil {
		return objErr
	}
	return whErr
}
