// Command ingest analyzes statement files from the command line and prints
// the aggregated spending analysis as JSON. Useful for trying out extraction
// without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spendlens/spendlens/internal/analyze"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/insight"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/statement"
)

func main() {
	noClassify := flag.Bool("no-classify", false, "skip Gemini categorization even when GEMINI_API_KEY is set")
	flag.Parse()

	log := logger.New()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ingest [flags] <statement-file> [<statement-file> ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var classifier statement.Classifier
	if cfg.GeminiAPIKey != "" && !*noClassify {
		gemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		classifier = gemini
	} else {
		log.Warn().Msg("Categorization disabled - transactions will be reported as Other")
	}

	processor := statement.NewProcessor(cfg, classifier, log)

	var sets []domain.TransactionSet
	for _, path := range files {
		filename := filepath.Base(path)
		set, err := processor.ProcessFile(ctx, path, filename)
		if err != nil {
			log.Error().Err(err).Str("file", filename).Msg("Failed to process statement")
			continue
		}
		log.Info().Str("file", filename).Int("transactions", len(set.Transactions)).Msg("Statement processed")
		sets = append(sets, *set)
	}

	if len(sets) == 0 {
		log.Fatal().Msg("No transactions could be extracted from the given files")
	}

	summary := analyze.Aggregate(sets...)
	highTicket := analyze.HighTicketItems(sets, cfg.HighTicketThreshold)

	out := map[string]interface{}{
		"category_data":            summary.CategoryTotals,
		"transactions_by_category": summary.ByCategory,
		"monthly_data":             summary.MonthlyNet,
		"income_expense": map[string]interface{}{
			"income":   summary.Income,
			"expenses": summary.Expenses,
		},
		"high_ticket_items": highTicket,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode analysis")
	}
}
