package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSV column contract. Header names are normalized (lowercased, spaces
// to underscores) before matching, so "Customer ID" and "customer_id"
// are the same column. Empty cells count as absent fields.

// ParseCustomersCSV parses a customer batch source. Malformed rows are
// reported per-line and skipped, never fatal.
func ParseCustomersCSV(data []byte) ([]CustomerRecord, []RecordError) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []RecordError{{Source: "customers", Line: 1, Reason: fmt.Sprintf("read header: %v", err)}}
	}
	cols := indexColumns(header)

	var records []CustomerRecord
	var rowErrs []RecordError
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RecordError{Source: "customers", Line: lineNum, Reason: err.Error()})
			continue
		}

		p := rowParser{cols: cols, row: row}
		rec := CustomerRecord{
			FirstName:     p.str("first_name"),
			LastName:      p.str("last_name"),
			Age:           p.intp("age"),
			PhoneNumber:   p.int64p("phone_number"),
			MonthlySalary: p.float("monthly_salary"),
			ApprovedLimit: p.float("approved_limit"),
			CurrentDebt:   p.float("current_debt"),
		}
		id := p.int64p("customer_id")
		if p.err != nil {
			rowErrs = append(rowErrs, RecordError{Source: "customers", Line: lineNum, Reason: p.err.Error()})
			continue
		}
		if id == nil {
			rowErrs = append(rowErrs, RecordError{Source: "customers", Line: lineNum, Reason: "missing customer_id"})
			continue
		}
		rec.CustomerID = *id
		records = append(records, rec)
	}

	return records, rowErrs
}

// ParseLoansCSV parses a loan batch source.
func ParseLoansCSV(data []byte) ([]LoanRecord, []RecordError) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []RecordError{{Source: "loans", Line: 1, Reason: fmt.Sprintf("read header: %v", err)}}
	}
	cols := indexColumns(header)

	var records []LoanRecord
	var rowErrs []RecordError
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RecordError{Source: "loans", Line: lineNum, Reason: err.Error()})
			continue
		}

		p := rowParser{cols: cols, row: row}
		rec := LoanRecord{
			Amount:             p.float("loan_amount"),
			Tenure:             p.intp("tenure"),
			InterestRate:       p.float("interest_rate"),
			MonthlyInstallment: p.float("monthly_repayment"),
			EMIsPaid:           p.intp("emis_paid_on_time"),
			StartDate:          p.date("start_date"),
			EndDate:            p.date("end_date"),
		}
		loanID := p.int64p("loan_id")
		customerID := p.int64p("customer_id")
		if p.err != nil {
			rowErrs = append(rowErrs, RecordError{Source: "loans", Line: lineNum, Reason: p.err.Error()})
			continue
		}
		if loanID == nil || customerID == nil {
			rowErrs = append(rowErrs, RecordError{Source: "loans", Line: lineNum, Reason: "missing loan_id or customer_id"})
			continue
		}
		rec.LoanID = *loanID
		rec.CustomerID = *customerID
		records = append(records, rec)
	}

	return records, rowErrs
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.ReplaceAll(name, " ", "_")
		cols[name] = i
	}
	return cols
}

// rowParser pulls typed optional values out of one CSV row. The first
// conversion failure sticks in err.
type rowParser struct {
	cols map[string]int
	row  []string
	err  error
}

func (p *rowParser) cell(name string) (string, bool) {
	i, ok := p.cols[name]
	if !ok || i >= len(p.row) {
		return "", false
	}
	v := strings.TrimSpace(p.row[i])
	if v == "" {
		return "", false
	}
	return v, true
}

func (p *rowParser) str(name string) *string {
	v, ok := p.cell(name)
	if !ok {
		return nil
	}
	return &v
}

func (p *rowParser) intp(name string) *int {
	v, ok := p.cell(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, err)
		return nil
	}
	return &n
}

func (p *rowParser) int64p(name string) *int64 {
	v, ok := p.cell(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(name, err)
		return nil
	}
	return &n
}

func (p *rowParser) float(name string) *float64 {
	v, ok := p.cell(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, err)
		return nil
	}
	return &f
}

func (p *rowParser) date(name string) *time.Time {
	v, ok := p.cell(name)
	if !ok {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		t, err = time.Parse(time.RFC3339, v)
		if err != nil {
			p.fail(name, err)
			return nil
		}
	}
	return &t
}

func (p *rowParser) fail(name string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("column %s: %v", name, err)
	}
}
