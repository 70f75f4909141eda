package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spendlens/spendlens/internal/api/handlers"
	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/archive"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/insight"
	"github.com/spendlens/spendlens/internal/jobs"
	"github.com/spendlens/spendlens/internal/jobs/inmemory"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/statement"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	ctx := context.Background()

	// Gemini powers both per-transaction categorization and the narrative
	// summary. Without a key the service still extracts and aggregates;
	// transactions land in "Other" and the summary is empty.
	var (
		classifier statement.Classifier
		summarizer handlers.Summarizer
	)
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set - categorization and insights are disabled")
	} else {
		gemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		classifier = gemini
		summarizer = gemini
	}

	processor := statement.NewProcessor(cfg, classifier, log)

	// Optional archive sink: raw statements to GCS, transactions to
	// BigQuery, processed off the request path by the in-memory queue.
	var (
		publisher jobs.Publisher
		jobStore  *inmemory.Store
		jobQueue  *inmemory.Queue
		archiver  *archive.Archiver
	)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if cfg.ArchiveEnabled() {
		objects, err := archive.NewObjectStore(ctx, cfg.ArchiveBucket, cfg.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create archive object store")
		}
		warehouse, err := archive.NewWarehouse(ctx, cfg.ArchiveProject, cfg.ArchiveDataset, cfg.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create archive warehouse")
		}
		archiver = archive.NewArchiver(objects, warehouse, log)

		jobStore = inmemory.NewStore()
		jobQueue = inmemory.NewQueue(100, 5, jobStore)
		publisher = jobQueue

		go func() {
			log.Info().Str("bucket", cfg.ArchiveBucket).Str("dataset", cfg.ArchiveDataset).Msg("Starting archive worker")
			if err := jobQueue.Start(workerCtx, archiver.HandleJob); err != nil {
				log.Error().Err(err).Msg("Archive worker stopped with error")
			}
		}()
	} else {
		log.Info().Msg("Archive sink not configured - statements are analyzed and discarded")
	}

	uploadHandler := handlers.NewUploadHandler(cfg, processor, summarizer, publisher, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			uploadHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if jobStore == nil {
			middleware.WriteError(w, http.StatusNotFound, "Archiving is not configured")
			return
		}
		jobsHandler.ListJobs(w, r)
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if jobStore == nil {
			middleware.WriteError(w, http.StatusNotFound, "Archiving is not configured")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.GetJob(w, r, jobID)
	})

	mux.HandleFunc("/health", handlers.Health)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if jobQueue != nil {
		// Stop waits for in-flight archive jobs before the clients close.
		if err := jobQueue.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping archive queue")
		}
	}
	if archiver != nil {
		if err := archiver.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close archive clients")
		}
	}

	log.Info().Msg("Server exited")
}
