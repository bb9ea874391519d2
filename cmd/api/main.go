package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/finlend/credit-service/internal/config"
	"github.com/finlend/credit-service/internal/handler"
	"github.com/finlend/credit-service/internal/ingestion"
	"github.com/finlend/credit-service/internal/metrics"
	"github.com/finlend/credit-service/internal/notify"
	"github.com/finlend/credit-service/internal/repository/postgres"
	"github.com/finlend/credit-service/internal/scoring"
	"github.com/finlend/credit-service/internal/underwriting"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	customers := postgres.NewCustomerStore(db)
	loans := postgres.NewLoanStore(db)
	collector := metrics.NewCollector()
	scorer := scoring.NewEngine()

	var notifier underwriting.Notifier
	sender := notify.NewSender(cfg, logger)
	if sender.Enabled() {
		notifier = sender
	}

	svc := underwriting.NewService(customers, loans, scorer, logger, collector, notifier)
	h := handler.NewHandler(svc, logger)
	reconciler := ingestion.NewReconciler(customers, loans, logger, collector)

	// Schedule out-of-band reconciliation when configured
	if cfg.IngestCronSpec != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.IngestCronSpec, func() {
			summary, err := reconciler.IngestFiles(context.Background(), cfg.CustomerDataPath, cfg.LoanDataPath)
			if err != nil {
				logger.Errorf("Scheduled reconciliation failed: %v", err)
				return
			}
			logger.Infof("Scheduled reconciliation run %s complete", summary.RunID)
		})
		if err != nil {
			logger.Fatalf("Invalid INGEST_CRON_SPEC: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/check-eligibility", h.CheckEligibility).Methods("POST")
	r.HandleFunc("/create-loan", h.CreateLoan).Methods("POST")
	r.HandleFunc("/view-loan/{loan_id}", h.ViewLoan).Methods("GET")
	r.HandleFunc("/view-loans/{customer_id}", h.ViewLoans).Methods("GET")
	r.Handle("/metrics", collector.Handler()).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
