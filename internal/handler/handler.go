package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/finlend/credit-service/internal/emi"
	"github.com/finlend/credit-service/internal/repository"
	"github.com/finlend/credit-service/internal/underwriting"
)

type Handler struct {
	svc *underwriting.Service
	log *logrus.Logger
}

func NewHandler(svc *underwriting.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, emi.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "ledger store unavailable, retry later")
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// --- endpoints ---

type registerRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	PhoneNumber   int64   `json:"phone_number"`
}

type registerResponse struct {
	CustomerID    int64   `json:"customer_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   int64   `json:"phone_number"`
}

// Register handles customer registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.svc.RegisterCustomer(r.Context(), req.FirstName, req.LastName, req.Age, req.MonthlyIncome, req.PhoneNumber)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		CustomerID:    customer.ID,
		Name:          customer.FullName(),
		Age:           customer.Age,
		MonthlyIncome: customer.MonthlyIncome,
		ApprovedLimit: customer.ApprovedLimit,
		PhoneNumber:   customer.PhoneNumber,
	})
}

type loanRequest struct {
	CustomerID   int64   `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

// CheckEligibility handles the dry-run eligibility check
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := h.svc.EvaluateEligibility(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

type createLoanResponse struct {
	LoanID             *int64  `json:"loan_id"`
	CustomerID         int64   `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
}

// CreateLoan handles the committing loan request
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := h.svc.CreateLoan(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := createLoanResponse{
		CustomerID:         decision.CustomerID,
		LoanApproved:       decision.Approved,
		Message:            decision.Message,
		MonthlyInstallment: decision.MonthlyInstallment,
	}
	if decision.Approved {
		resp.LoanID = &decision.LoanID
	}
	writeJSON(w, http.StatusOK, resp)
}

type customerDetail struct {
	CustomerID  int64  `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         int    `json:"age"`
	PhoneNumber int64  `json:"phone_number"`
}

type loanDetailResponse struct {
	LoanID             int64          `json:"loan_id"`
	Customer           customerDetail `json:"customer"`
	LoanAmount         float64        `json:"loan_amount"`
	InterestRate       float64        `json:"interest_rate"`
	MonthlyInstallment float64        `json:"monthly_installment"`
	Tenure             int            `json:"tenure"`
}

// ViewLoan handles loan detail lookup
func (h *Handler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loan_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, customer, err := h.svc.GetLoan(r.Context(), loanID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loanDetailResponse{
		LoanID: loan.ID,
		Customer: customerDetail{
			CustomerID:  customer.ID,
			FirstName:   customer.FirstName,
			LastName:    customer.LastName,
			Age:         customer.Age,
			PhoneNumber: customer.PhoneNumber,
		},
		LoanAmount:         loan.Amount,
		InterestRate:       loan.InterestRate,
		MonthlyInstallment: loan.MonthlyInstallment,
		Tenure:             loan.Tenure,
	})
}

type loanSummary struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

// ViewLoans handles listing a customer's loans
func (h *Handler) ViewLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	loans, err := h.svc.ListLoans(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	summaries := make([]loanSummary, 0, len(loans))
	for i := range loans {
		summaries = append(summaries, loanSummary{
			LoanID:             loans[i].ID,
			LoanAmount:         loans[i].Amount,
			InterestRate:       loans[i].InterestRate,
			MonthlyInstallment: loans[i].MonthlyInstallment,
			RepaymentsLeft:     loans[i].RepaymentsLeft(),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}
