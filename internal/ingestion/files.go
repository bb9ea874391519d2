package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IngestFiles runs one reconciliation over file-based batch sources.
// Either path may be empty to skip that kind. Format is chosen by
// extension: .xml uses the XML batch parser, everything else is CSV.
// Parser row errors are folded into the run summary.
func (r *Reconciler) IngestFiles(ctx context.Context, customerPath, loanPath string) (*Summary, error) {
	var customers []CustomerRecord
	var loans []LoanRecord
	var parseErrs []RecordError

	if customerPath != "" {
		data, err := os.ReadFile(customerPath)
		if err != nil {
			return nil, fmt.Errorf("read customer source: %w", err)
		}
		if isXML(customerPath) {
			recs, _, errs, err := ParseBatchXML(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", customerPath, err)
			}
			customers = recs
			parseErrs = append(parseErrs, errs...)
		} else {
			var errs []RecordError
			customers, errs = ParseCustomersCSV(data)
			parseErrs = append(parseErrs, errs...)
		}
	}

	if loanPath != "" {
		data, err := os.ReadFile(loanPath)
		if err != nil {
			return nil, fmt.Errorf("read loan source: %w", err)
		}
		if isXML(loanPath) {
			_, recs, errs, err := ParseBatchXML(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", loanPath, err)
			}
			loans = recs
			parseErrs = append(parseErrs, errs...)
		} else {
			var errs []RecordError
			loans, errs = ParseLoansCSV(data)
			parseErrs = append(parseErrs, errs...)
		}
	}

	summary, err := r.Ingest(ctx, customers, loans)
	if err != nil {
		return nil, err
	}
	summary.Errors = append(parseErrs, summary.Errors...)
	return summary, nil
}

func isXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
