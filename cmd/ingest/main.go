package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/finlend/credit-service/internal/config"
	"github.com/finlend/credit-service/internal/ingestion"
	"github.com/finlend/credit-service/internal/repository/postgres"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "credit-ingest",
		Short: "One-shot batch ingestion into the credit ledger",
	}

	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var customerPath, loanPath, dsn string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile customer and loan batch files into the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetFormatter(&logrus.JSONFormatter{})

			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dsn == "" {
				dsn = cfg.DBConn
			}
			if customerPath == "" {
				customerPath = cfg.CustomerDataPath
			}
			if loanPath == "" {
				loanPath = cfg.LoanDataPath
			}

			db, err := sql.Open("postgres", dsn)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			if err := db.Ping(); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			reconciler := ingestion.NewReconciler(
				postgres.NewCustomerStore(db),
				postgres.NewLoanStore(db),
				logger,
				nil,
			)

			summary, err := reconciler.IngestFiles(context.Background(), customerPath, loanPath)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().StringVar(&customerPath, "customers", "", "Path to customer batch file (.csv or .xml)")
	cmd.Flags().StringVar(&loanPath, "loans", "", "Path to loan batch file (.csv or .xml)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string (defaults to DB_CONN)")

	return cmd
}
