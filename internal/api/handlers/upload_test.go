package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/statement"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		UploadDir:           t.TempDir(),
		AllowedExtensions:   []string{".csv", ".xlsx", ".xls", ".pdf"},
		ClassifyTimeout:     time.Second,
		HighTicketThreshold: decimal.NewFromInt(500),
	}
}

type stubSummarizer struct {
	text string
	err  error
}

func (s *stubSummarizer) Summarize(ctx context.Context, spendByMonth map[string]map[string]decimal.Decimal, highTicket []domain.Transaction) (string, error) {
	return s.text, s.err
}

func newTestHandler(t *testing.T, summarizer Summarizer) *UploadHandler {
	t.Helper()
	cfg := testConfig(t)
	log := logger.NewWithWriter(bytes.NewBuffer(nil))
	processor := statement.NewProcessor(cfg, nil, log)
	return NewUploadHandler(cfg, processor, summarizer, nil, log)
}

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile(%s): %v", name, err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("writing part %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadMixedBatch(t *testing.T) {
	handler := newTestHandler(t, &stubSummarizer{text: "Spending held steady in March."})

	req := multipartRequest(t, map[string]string{
		"march.csv": "Date,Description,Amount\n" +
			"03/14/2024,Coffee Shop,-4.50\n" +
			"03/15/2024,Salary,2500.00\n",
		"april.csv": "Transaction Date,Memo,Debit Amount\n" +
			"04/02/2024,Grocery Store,-80.00\n",
		"broken.csv": "id,notes\n1,nothing useful\n",
	})
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		CategoryData []struct {
			Category string  `json:"category"`
			Total    float64 `json:"total"`
		} `json:"category_data"`
		TransactionsByCategory map[string][]struct {
			Date        string  `json:"date"`
			Description string  `json:"description"`
			Amount      float64 `json:"amount"`
		} `json:"transactions_by_category"`
		Insights struct {
			Summary          string                        `json:"summary"`
			HighTicketItems  []json.RawMessage             `json:"high_ticket_items"`
			MonthlyBreakdown map[string]map[string]float64 `json:"monthly_breakdown"`
		} `json:"insights"`
		IncomeExpense struct {
			Income   float64 `json:"income"`
			Expenses float64 `json:"expenses"`
		} `json:"income_expense"`
		ProcessedFiles []string `json:"processed_files"`
		FailedFiles    []struct {
			Filename string `json:"filename"`
			Error    string `json:"error"`
		} `json:"failed_files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(resp.ProcessedFiles) != 2 {
		t.Errorf("processed_files = %v, want 2 entries", resp.ProcessedFiles)
	}
	if len(resp.FailedFiles) != 1 || resp.FailedFiles[0].Filename != "broken.csv" {
		t.Fatalf("failed_files = %+v, want one entry for broken.csv", resp.FailedFiles)
	}
	if resp.FailedFiles[0].Error == "" {
		t.Error("expected a failure reason for broken.csv")
	}
	if resp.Insights.Summary != "Spending held steady in March." {
		t.Errorf("insights.summary = %q", resp.Insights.Summary)
	}
	if resp.IncomeExpense.Income != 2500 {
		t.Errorf("income = %v, want 2500", resp.IncomeExpense.Income)
	}
	if resp.IncomeExpense.Expenses != 84.5 {
		t.Errorf("expenses = %v, want 84.5", resp.IncomeExpense.Expenses)
	}

	// Without a classifier everything lands in Other.
	var otherTotal float64
	for _, ct := range resp.CategoryData {
		if ct.Category == domain.CategoryOther {
			otherTotal = ct.Total
		}
	}
	if otherTotal != 84.5 {
		t.Errorf("category_data[Other] = %v, want 84.5", otherTotal)
	}

	// Inflows are listed too; only category totals exclude them.
	other := resp.TransactionsByCategory[domain.CategoryOther]
	if len(other) != 3 {
		t.Fatalf("transactions_by_category[Other] has %d entries, want 3", len(other))
	}
	// Most recent first.
	wantDates := []string{"2024-04-02", "2024-03-15", "2024-03-14"}
	for i, want := range wantDates {
		if other[i].Date != want {
			t.Errorf("transactions_by_category[Other][%d].Date = %s, want %s", i, other[i].Date, want)
		}
	}
}

func TestUploadNoFiles(t *testing.T) {
	handler := newTestHandler(t, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != "Please select at least one file to upload" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestUploadAllFilesFail(t *testing.T) {
	handler := newTestHandler(t, nil)

	req := multipartRequest(t, map[string]string{
		"notes.txt":  "not a statement",
		"broken.csv": "id,notes\n1,nothing useful\n",
	})
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error       string `json:"error"`
		FailedFiles []struct {
			Filename string `json:"filename"`
			Error    string `json:"error"`
		} `json:"failed_files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected top-level error message")
	}
	if len(resp.FailedFiles) != 2 {
		t.Errorf("failed_files = %+v, want 2 entries", resp.FailedFiles)
	}
}

func TestUploadSummarizerFailureDegrades(t *testing.T) {
	handler := newTestHandler(t, &stubSummarizer{err: errors.New("model unavailable")})

	req := multipartRequest(t, map[string]string{
		"march.csv": "Date,Description,Amount\n03/14/2024,Coffee Shop,-4.50\n",
	})
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Insights struct {
			Summary string `json:"summary"`
		} `json:"insights"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Insights.Summary != "" {
		t.Errorf("insights.summary = %q, want empty on summarizer failure", resp.Insights.Summary)
	}
}
