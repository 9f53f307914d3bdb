/*
handlers.go - HTTP API handlers for the shop ledger engine

PURPOSE:
  Exposes the debt and employee ledgers via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the ledger logic.
  The ledgers never format user-facing text; translation of typed failures
  into messages and statuses happens here.

ENDPOINTS:
  Customers:
    GET    /api/customers/debtors               Customers with outstanding debt
    GET    /api/customers/{id}/debts            Debts, oldest first
    POST   /api/customers/{id}/debts            Create debt (sale on credit)
    GET    /api/customers/{id}/balance          Outstanding balance
    GET    /api/customers/{id}/payments         Payment history
    POST   /api/customers/{id}/payments         Pay across outstanding debts

  Debts:
    GET    /api/debts/{id}                      Single debt
    POST   /api/debts/{id}/payments             Pay one specific debt

  Employees:
    GET    /api/employees/{id}/entries          Ledger entries (?kind= filter)
    GET    /api/employees/{id}/balance          Signed net balance
    POST   /api/employees/{id}/earnings         Record earning
    POST   /api/employees/{id}/debts            Record advance debt
    POST   /api/employees/{id}/settlements      Settle toward zero
    POST   /api/entries/{id}/paid               Annotate advance debt as recovered

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid amounts or malformed input
  - 404: Unknown debt/entry id
  - 409: Ledger state conflicts (nothing to pay, no balance,
         rejected overpayment/over-settlement)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/ledger-engine/debt"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Debts   *debt.Ledger
	Payroll *payroll.Ledger

	// Optional read-only collaborators. When present, debt creation can
	// resolve the customer name and snapshot product name/price from ids.
	Customers ledger.CustomerDirectory
	Products  ledger.ProductDirectory
}

func NewHandler(debts *debt.Ledger, pay *payroll.Ledger) *Handler {
	return &Handler{Debts: debts, Payroll: pay}
}

// =============================================================================
// CUSTOMER DEBT HANDLERS
// =============================================================================

// CreateDebt creates a debt with its itemized lines.
// POST /api/customers/{id}/debts
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	customerID := ledger.CustomerID(chi.URLParam(r, "id"))

	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	name := req.CustomerName
	if name == "" && h.Customers != nil {
		resolved, err := h.Customers.CustomerName(customerID)
		if err != nil {
			writeError(w, http.StatusNotFound, "Unknown customer", err)
			return
		}
		name = resolved
	}

	items := make([]ledger.DebtItem, len(req.Items))
	for i, it := range req.Items {
		item := ledger.DebtItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   ledger.NewAmountFromFloat(it.UnitPrice),
			Quantity:    it.Quantity,
			LineTotal:   ledger.NewAmountFromFloat(it.LineTotal),
		}
		// Snapshot missing product details at creation time; prices are
		// never re-read afterwards.
		if item.ProductName == "" && h.Products != nil {
			info, err := h.Products.Product(it.ProductID)
			if err != nil {
				writeError(w, http.StatusNotFound, "Unknown product", err)
				return
			}
			item.ProductName = info.Name
			if item.UnitPrice.IsZero() {
				item.UnitPrice = info.Price
				item.LineTotal = info.Price.MulInt(item.Quantity)
			}
		}
		items[i] = item
	}

	d, err := h.Debts.CreateDebt(r.Context(), customerID, name, items, ledger.NewAmountFromFloat(req.Total))
	if err != nil {
		writeLedgerError(w, "Failed to create debt", err)
		return
	}

	debtsCreated.Inc()
	writeJSON(w, http.StatusCreated, toDebtDTO(d))
}

// ListDebts returns all of a customer's debts, oldest first.
// GET /api/customers/{id}/debts
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	customerID := ledger.CustomerID(chi.URLParam(r, "id"))

	debts, err := h.Debts.DebtsForCustomer(r.Context(), customerID)
	if err != nil {
		writeLedgerError(w, "Failed to list debts", err)
		return
	}

	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDebt returns a single debt.
// GET /api/debts/{id}
func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	id := ledger.DebtID(chi.URLParam(r, "id"))

	d, err := h.Debts.Debt(r.Context(), id)
	if err != nil {
		writeLedgerError(w, "Failed to get debt", err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(d))
}

// GetBalance returns the customer's outstanding balance, recomputed from
// the persisted debts.
// GET /api/customers/{id}/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	customerID := ledger.CustomerID(chi.URLParam(r, "id"))

	balance, err := h.Debts.OutstandingBalance(r.Context(), customerID)
	if err != nil {
		writeLedgerError(w, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		CustomerID:  string(customerID),
		Outstanding: balance.Float64(),
	})
}

// ListDebtors returns every customer with any outstanding debt.
// GET /api/customers/debtors
func (h *Handler) ListDebtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.Debts.Debtors(r.Context())
	if err != nil {
		writeLedgerError(w, "Failed to list debtors", err)
		return
	}

	dtos := make([]DebtorDTO, len(debtors))
	for i, d := range debtors {
		dtos[i] = DebtorDTO{
			CustomerID:   string(d.CustomerID),
			CustomerName: d.CustomerName,
			TotalDebt:    d.TotalDebt.Float64(),
			DebtCount:    d.DebtCount,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// PayCustomer applies one payment across the customer's outstanding debts.
// POST /api/customers/{id}/payments
func (h *Handler) PayCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := ledger.CustomerID(chi.URLParam(r, "id"))

	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	alloc, err := h.Debts.PayCustomer(r.Context(), customerID, ledger.NewAmountFromFloat(req.Amount))
	if err != nil {
		writeLedgerError(w, "Failed to apply payment", err)
		return
	}

	paymentsAllocated.Inc()
	writeJSON(w, http.StatusCreated, toAllocationDTO(alloc))
}

// PayDebt pays one specific debt directly.
// POST /api/debts/{id}/payments
func (h *Handler) PayDebt(w http.ResponseWriter, r *http.Request) {
	id := ledger.DebtID(chi.URLParam(r, "id"))

	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	alloc, err := h.Debts.PayDebt(r.Context(), id, ledger.NewAmountFromFloat(req.Amount))
	if err != nil {
		writeLedgerError(w, "Failed to apply payment", err)
		return
	}

	paymentsAllocated.Inc()
	writeJSON(w, http.StatusCreated, toAllocationDTO(alloc))
}

// ListPayments returns the customer's payment history.
// GET /api/customers/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	customerID := ledger.CustomerID(chi.URLParam(r, "id"))

	payments, err := h.Debts.Payments(r.Context(), customerID)
	if err != nil {
		writeLedgerError(w, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// AddEarning records a salary or commission earning.
// POST /api/employees/{id}/earnings
func (h *Handler) AddEarning(w http.ResponseWriter, r *http.Request) {
	employeeID := ledger.EmployeeID(chi.URLParam(r, "id"))

	var req AddEarningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Payroll.AddEarning(r.Context(), employeeID,
		ledger.EarningType(req.Type), req.Description, ledger.NewAmountFromFloat(req.Amount))
	if err != nil {
		writeLedgerError(w, "Failed to add earning", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

// AddEmployeeDebt records an advance debt.
// POST /api/employees/{id}/debts
func (h *Handler) AddEmployeeDebt(w http.ResponseWriter, r *http.Request) {
	employeeID := ledger.EmployeeID(chi.URLParam(r, "id"))

	var req AddEmployeeDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Payroll.AddDebt(r.Context(), employeeID, req.Description, ledger.NewAmountFromFloat(req.Amount))
	if err != nil {
		writeLedgerError(w, "Failed to add debt", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

// MarkDebtPaid annotates how an advance debt was recovered.
// POST /api/entries/{id}/paid
func (h *Handler) MarkDebtPaid(w http.ResponseWriter, r *http.Request) {
	entryID := ledger.EntryID(chi.URLParam(r, "id"))

	var req MarkDebtPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Payroll.MarkDebtPaid(r.Context(), entryID, ledger.PaymentMethod(req.Method))
	if err != nil {
		writeLedgerError(w, "Failed to mark debt paid", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(e))
}

// GetNetBalance returns the employee's signed net balance.
// GET /api/employees/{id}/balance
func (h *Handler) GetNetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := ledger.EmployeeID(chi.URLParam(r, "id"))

	balance, err := h.Payroll.NetBalance(r.Context(), employeeID)
	if err != nil {
		writeLedgerError(w, "Failed to compute net balance", err)
		return
	}
	writeJSON(w, http.StatusOK, NetBalanceDTO{
		EmployeeID: string(employeeID),
		NetBalance: balance.Float64(),
	})
}

// ListEntries returns the employee's ledger entries, oldest first.
// GET /api/employees/{id}/entries?kind=earning|debt|settlement
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	employeeID := ledger.EmployeeID(chi.URLParam(r, "id"))
	kind := ledger.EntryKind(r.URL.Query().Get("kind"))

	entries, err := h.Payroll.Entries(r.Context(), employeeID, kind)
	if err != nil {
		writeLedgerError(w, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Settle moves the employee's net balance toward zero.
// POST /api/employees/{id}/settlements
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	employeeID := ledger.EmployeeID(chi.URLParam(r, "id"))

	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Payroll.Settle(r.Context(), employeeID, ledger.NewAmountFromFloat(req.Amount), req.Description)
	if err != nil {
		writeLedgerError(w, "Failed to settle", err)
		return
	}

	settlementsRecorded.Inc()
	writeJSON(w, http.StatusCreated, toSettlementDTO(s))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeLedgerError maps typed ledger failures to HTTP statuses and counts
// the rejection.
func writeLedgerError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case ledger.IsClientError(err):
		operationsRejected.WithLabelValues(rejectionReason(err)).Inc()
		writeError(w, rejectionStatus(err), message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		// NothingToPay, NoBalance, Overpayment, OverSettlement conflict
		// with the current ledger state rather than the request shape.
		return http.StatusConflict
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ledger.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ledger.ErrNothingToPay):
		return "nothing_to_pay"
	case errors.Is(err, ledger.ErrNoBalance):
		return "no_balance"
	case errors.Is(err, ledger.ErrOverpayment):
		return "overpayment"
	case errors.Is(err, ledger.ErrOverSettlement):
		return "over_settlement"
	default:
		return "other"
	}
}
