package ingestion

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// ParseBatchXML parses an XML batch source carrying both record kinds:
//
//	<ledger>
//	  <customers>
//	    <customer>
//	      <customer_id>1</customer_id>
//	      <first_name>Aarav</first_name>
//	      ...
//	    </customer>
//	  </customers>
//	  <loans>
//	    <loan> ... </loan>
//	  </loans>
//	</ledger>
//
// A child element present in the source marks that field as present;
// missing elements leave the stored value untouched on update.
func ParseBatchXML(data []byte) ([]CustomerRecord, []LoanRecord, []RecordError, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, nil, fmt.Errorf("parse XML: %w", err)
	}

	var customers []CustomerRecord
	var loans []LoanRecord
	var rowErrs []RecordError

	for i, el := range doc.FindElements("//customers/customer") {
		p := elemParser{el: el}
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
			rowErrs = append(rowErrs, RecordError{Source: "customers", Line: i + 1, Reason: p.err.Error()})
			continue
		}
		if id == nil {
			rowErrs = append(rowErrs, RecordError{Source: "customers", Line: i + 1, Reason: "missing customer_id"})
			continue
		}
		rec.CustomerID = *id
		customers = append(customers, rec)
	}

	for i, el := range doc.FindElements("//loans/loan") {
		p := elemParser{el: el}
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
			rowErrs = append(rowErrs, RecordError{Source: "loans", Line: i + 1, Reason: p.err.Error()})
			continue
		}
		if loanID == nil || customerID == nil {
			rowErrs = append(rowErrs, RecordError{Source: "loans", Line: i + 1, Reason: "missing loan_id or customer_id"})
			continue
		}
		rec.LoanID = *loanID
		rec.CustomerID = *customerID
		loans = append(loans, rec)
	}

	return customers, loans, rowErrs, nil
}

type elemParser struct {
	el  *etree.Element
	err error
}

func (p *elemParser) text(name string) (string, bool) {
	child := p.el.FindElement("./" + name)
	if child == nil {
		return "", false
	}
	return child.Text(), true
}

func (p *elemParser) str(name string) *string {
	v, ok := p.text(name)
	if !ok {
		return nil
	}
	return &v
}

func (p *elemParser) intp(name string) *int {
	v, ok := p.text(name)
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

func (p *elemParser) int64p(name string) *int64 {
	v, ok := p.text(name)
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

func (p *elemParser) float(name string) *float64 {
	v, ok := p.text(name)
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

func (p *elemParser) date(name string) *time.Time {
	v, ok := p.text(name)
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

func (p *elemParser) fail(name string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("element %s: %v", name, err)
	}
}
