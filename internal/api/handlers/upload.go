package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/analyze"
	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/jobs"
)

// FileProcessor extracts normalized, categorized transactions from a saved
// statement file.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path, filename string) (*domain.TransactionSet, error)
}

// Summarizer produces a narrative spending summary from the monthly
// category breakdown and the high-ticket purchases.
type Summarizer interface {
	Summarize(ctx context.Context, spendByMonth map[string]map[string]decimal.Decimal, highTicket []domain.Transaction) (string, error)
}

// UploadHandler handles statement upload and analysis.
type UploadHandler struct {
	cfg        *config.Config
	processor  FileProcessor
	summarizer Summarizer
	publisher  jobs.Publisher
	log        zerolog.Logger
}

// NewUploadHandler creates a new upload handler. summarizer and publisher
// may be nil; the handler degrades to structured data only and skips
// archival respectively.
func NewUploadHandler(cfg *config.Config, processor FileProcessor, summarizer Summarizer, publisher jobs.Publisher, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg:        cfg,
		processor:  processor,
		summarizer: summarizer,
		publisher:  publisher,
		log:        log,
	}
}

// View types keep the response field names stable for callers regardless of
// how the internal types evolve. Amounts are plain JSON numbers.

type transactionView struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

type categoryTotalView struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type monthlyNetView struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type incomeExpenseView struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type insightsView struct {
	Summary          string                        `json:"summary"`
	HighTicketItems  []transactionView             `json:"high_ticket_items"`
	MonthlyBreakdown map[string]map[string]float64 `json:"monthly_breakdown"`
}

type fileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type uploadResponse struct {
	CategoryData           []categoryTotalView          `json:"category_data"`
	TransactionsByCategory map[string][]transactionView `json:"transactions_by_category"`
	Insights               insightsView                 `json:"insights"`
	IncomeExpense          incomeExpenseView            `json:"income_expense"`
	MonthlyData            []monthlyNetView             `json:"monthly_data"`
	ProcessedFiles         []string                     `json:"processed_files"`
	FailedFiles            []fileError                  `json:"failed_files"`
}

// Upload handles POST /api/upload. It accepts one or more statement files in
// the multipart field "files", extracts and categorizes their transactions,
// and returns the aggregated spending analysis. Files that cannot be
// processed are reported in failed_files without failing the batch.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Please select at least one file to upload")
		return
	}

	batchID := middleware.GetRequestID(ctx)
	if batchID == "" {
		batchID = uuid.New().String()
	}

	var (
		sets      []domain.TransactionSet
		processed []string
		failed    []fileError
	)

	for _, header := range files {
		filename := filepath.Base(header.Filename)
		log := h.log.With().Str("file", filename).Logger()

		if !h.cfg.ExtensionAllowed(filepath.Ext(filename)) {
			failed = append(failed, fileError{Filename: filename, Error: "unsupported file format"})
			log.Warn().Msg("rejected upload with unsupported extension")
			continue
		}

		set, data, err := h.processUpload(ctx, header, filename)
		if err != nil {
			failed = append(failed, fileError{Filename: filename, Error: err.Error()})
			log.Warn().Err(err).Msg("failed to process statement")
			continue
		}

		sets = append(sets, *set)
		processed = append(processed, filename)
		log.Info().Int("transactions", len(set.Transactions)).Msg("statement processed")

		h.publishArchive(ctx, batchID, filename, header.Header.Get("Content-Type"), data, set.Transactions)
	}

	if len(sets) == 0 {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":        "No transactions could be extracted from the uploaded files",
			"failed_files": failedOrEmpty(failed),
		})
		return
	}

	summary := analyze.Aggregate(sets...)
	highTicket := analyze.HighTicketItems(sets, h.cfg.HighTicketThreshold)

	narrative := ""
	if h.summarizer != nil {
		var err error
		narrative, err = h.summarizer.Summarize(ctx, summary.MonthlySpendByCategory, highTicket)
		if err != nil {
			h.log.Warn().Err(err).Msg("narrative summary unavailable")
			narrative = ""
		}
	}

	middleware.WriteJSON(w, http.StatusOK, buildUploadResponse(summary, highTicket, narrative, processed, failed))
}

// processUpload saves the uploaded file to a temp path, runs extraction, and
// returns the transactions along with the raw bytes when archival needs them.
// The temp file is removed in all cases.
func (h *UploadHandler) processUpload(ctx context.Context, header *multipart.FileHeader, filename string) (*domain.TransactionSet, []byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(h.cfg.UploadDir, uuid.New().String()+"-"+filename)
	dst, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("save upload: %w", err)
	}
	defer os.Remove(path)

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, nil, fmt.Errorf("save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, nil, fmt.Errorf("save upload: %w", err)
	}

	var data []byte
	if h.publisher != nil && h.cfg.ArchiveEnabled() {
		// Read before the deferred remove; the archive job outlives the file.
		if data, err = os.ReadFile(path); err != nil {
			return nil, nil, fmt.Errorf("read upload: %w", err)
		}
	}

	set, err := h.processor.ProcessFile(ctx, path, filename)
	if err != nil {
		return nil, nil, err
	}
	return set, data, nil
}

// publishArchive enqueues an archive job when archival is configured.
// Failures are logged and do not affect the response.
func (h *UploadHandler) publishArchive(ctx context.Context, batchID, filename, contentType string, data []byte, txs []domain.Transaction) {
	if h.publisher == nil || !h.cfg.ArchiveEnabled() {
		return
	}

	job := &jobs.ArchiveStatementJob{
		BatchID:      batchID,
		Filename:     filename,
		ContentType:  contentType,
		Data:         data,
		Transactions: txs,
	}
	if err := h.publisher.PublishArchiveStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Str("file", filename).Msg("failed to enqueue archive job")
		return
	}
	h.log.Info().Str("job_id", job.JobID).Str("file", filename).Msg("archive job enqueued")
}

func buildUploadResponse(summary analyze.Summary, highTicket []domain.Transaction, narrative string, processed []string, failed []fileError) uploadResponse {
	categoryData := make([]categoryTotalView, 0, len(summary.CategoryTotals))
	for _, ct := range summary.CategoryTotals {
		total, _ := ct.Total.Float64()
		categoryData = append(categoryData, categoryTotalView{Category: ct.Category, Total: total})
	}

	byCategory := make(map[string][]transactionView, len(summary.ByCategory))
	for category, txs := range summary.ByCategory {
		byCategory[category] = transactionViews(txs)
	}

	monthlyData := make([]monthlyNetView, 0, len(summary.MonthlyNet))
	for _, mn := range summary.MonthlyNet {
		amount, _ := mn.Amount.Float64()
		monthlyData = append(monthlyData, monthlyNetView{Month: mn.Month, Amount: amount})
	}

	breakdown := make(map[string]map[string]float64, len(summary.MonthlySpendByCategory))
	for month, byCat := range summary.MonthlySpendByCategory {
		breakdown[month] = make(map[string]float64, len(byCat))
		for category, total := range byCat {
			f, _ := total.Float64()
			breakdown[month][category] = f
		}
	}

	income, _ := summary.Income.Float64()
	expenses, _ := summary.Expenses.Float64()

	if processed == nil {
		processed = []string{}
	}

	return uploadResponse{
		CategoryData:           categoryData,
		TransactionsByCategory: byCategory,
		Insights: insightsView{
			Summary:          narrative,
			HighTicketItems:  transactionViews(highTicket),
			MonthlyBreakdown: breakdown,
		},
		IncomeExpense:  incomeExpenseView{Income: income, Expenses: expenses},
		MonthlyData:    monthlyData,
		ProcessedFiles: processed,
		FailedFiles:    failedOrEmpty(failed),
	}
}

func transactionViews(txs []domain.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		amount, _ := tx.Amount.Float64()
		views = append(views, transactionView{
			Date:        tx.Date.String(),
			Description: tx.Description,
			Amount:      amount,
			Category:    tx.Category,
		})
	}
	return views
}

func failedOrEmpty(failed []fileError) []fileError {
	if failed == nil {
		return []fileError{}
	}
	return failed
}
