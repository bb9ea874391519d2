package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomersCSV(t *testing.T) {
	data := []byte(
		"Customer ID,First Name,Last Name,Age,Phone Number,Monthly Salary,Approved Limit,Current Debt\n" +
			"1,Asha,Verma,32,9876543210,50000,1800000,0\n" +
			"2,Rohan,Iyer,,9876543211,65000,,\n")

	records, errs := ParseCustomersCSV(data)
	require.Empty(t, errs)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0].CustomerID)
	assert.Equal(t, "Asha", *records[0].FirstName)
	assert.Equal(t, 50000.0, *records[0].MonthlySalary)

	// Empty cells are absent fields, not zero values.
	assert.Nil(t, records[1].Age)
	assert.Nil(t, records[1].ApprovedLimit)
	assert.Nil(t, records[1].CurrentDebt)
}

func TestParseCustomersCSVMalformedRow(t *testing.T) {
	data := []byte(
		"customer_id,first_name,monthly_salary\n" +
			"1,Asha,50000\n" +
			"two,Rohan,65000\n" +
			"3,Meera,70000\n")

	records, errs := ParseCustomersCSV(data)
	require.Len(t, records, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Line)
}

func TestParseLoansCSV(t *testing.T) {
	data := []byte(
		"customer_id,loan_id,loan_amount,tenure,interest_rate,monthly_repayment,emis_paid_on_time,start_date,end_date\n" +
			"1,10,100000,12,12,8884.88,6,2025-01-01,2026-01-01\n")

	records, errs := ParseLoansCSV(data)
	require.Empty(t, errs)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(10), rec.LoanID)
	assert.Equal(t, int64(1), rec.CustomerID)
	assert.Equal(t, 100000.0, *rec.Amount)
	assert.Equal(t, 12, *rec.Tenure)
	assert.Equal(t, 6, *rec.EMIsPaid)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), *rec.StartDate)
}

func TestParseLoansCSVMissingIDs(t *testing.T) {
	data := []byte(
		"customer_id,loan_id,loan_amount\n" +
			",10,100000\n")

	records, errs := ParseLoansCSV(data)
	assert.Empty(t, records)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Reason, "missing")
}

func TestParseBatchXML(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8"?>
<ledger>
  <customers>
    <customer>
      <customer_id>1</customer_id>
      <first_name>Asha</first_name>
      <last_name>Verma</last_name>
      <monthly_salary>50000</monthly_salary>
    </customer>
  </customers>
  <loans>
    <loan>
      <loan_id>10</loan_id>
      <customer_id>1</customer_id>
      <loan_amount>100000</loan_amount>
      <tenure>12</tenure>
      <interest_rate>12</interest_rate>
      <start_date>2025-01-01</start_date>
    </loan>
  </loans>
</ledger>`)

	customers, loans, errs, err := ParseBatchXML(data)
	require.NoError(t, err)
	require.Empty(t, errs)

	require.Len(t, customers, 1)
	assert.Equal(t, int64(1), customers[0].CustomerID)
	assert.Equal(t, "Asha", *customers[0].FirstName)
	assert.Nil(t, customers[0].Age)

	require.Len(t, loans, 1)
	assert.Equal(t, int64(10), loans[0].LoanID)
	assert.Equal(t, 12, *loans[0].Tenure)
	assert.Nil(t, loans[0].MonthlyInstallment)
}

func TestParseBatchXMLBadDocument(t *testing.T) {
	_, _, _, err := ParseBatchXML([]byte("not xml at all <"))
	assert.Error(t, err)
}
