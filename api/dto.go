/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal record model from the external API contract. Amounts cross
  the wire as JSON numbers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/ledger-engine/debt"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/payroll"
)

// =============================================================================
// DEBT TYPES
// =============================================================================

type DebtItemDTO struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type DebtDTO struct {
	ID           string        `json:"id"`
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Items        []DebtItemDTO `json:"items"`
	Total        float64       `json:"total"`
	PaidAmount   float64       `json:"paid_amount"`
	Remaining    float64       `json:"remaining"`
	Status       string        `json:"status"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
	PaidAt       string        `json:"paid_at,omitempty"`
}

type CreateDebtRequest struct {
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	Items        []CreateDebtItem `json:"items"`
	Total        float64          `json:"total"`
}

type CreateDebtItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

// =============================================================================
// PAYMENT TYPES
// =============================================================================

type PayRequest struct {
	Amount float64 `json:"amount"`
}

type PaymentDTO struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"created_at"`
}

// DebtChangeDTO reports the per-debt effect of one allocation. This
// breakdown exists only in the response; the store keeps the consolidated
// payment.
type DebtChangeDTO struct {
	Debt    DebtDTO `json:"debt"`
	Applied float64 `json:"applied"`
}

type AllocationDTO struct {
	Payment   PaymentDTO      `json:"payment"`
	Changes   []DebtChangeDTO `json:"changes"`
	Requested float64         `json:"requested"`
	Allocated float64         `json:"allocated"`
	Leftover  float64         `json:"leftover"`
}

type BalanceDTO struct {
	CustomerID  string  `json:"customer_id"`
	Outstanding float64 `json:"outstanding"`
}

type DebtorDTO struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	TotalDebt    float64 `json:"total_debt"`
	DebtCount    int     `json:"debt_count"`
}

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

type EntryDTO struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	EarningType string  `json:"earning_type,omitempty"`
	IsPaid      bool    `json:"is_paid,omitempty"`
	Method      string  `json:"payment_method,omitempty"`
	PaidAt      string  `json:"paid_at,omitempty"`
	Direction   string  `json:"direction,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type AddEarningRequest struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type AddEmployeeDebtRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type MarkDebtPaidRequest struct {
	Method string `json:"method"`
}

type SettleRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type SettlementDTO struct {
	Entry   EntryDTO `json:"entry"`
	Before  float64  `json:"balance_before"`
	After   float64  `json:"balance_after"`
	Clamped bool     `json:"clamped,omitempty"`
}

type NetBalanceDTO struct {
	EmployeeID string  `json:"employee_id"`
	NetBalance float64 `json:"net_balance"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDebtDTO(d ledger.Debt) DebtDTO {
	items := make([]DebtItemDTO, len(d.Items))
	for i, it := range d.Items {
		items[i] = DebtItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice.Float64(),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal.Float64(),
		}
	}
	dto := DebtDTO{
		ID:           string(d.ID),
		CustomerID:   string(d.CustomerID),
		CustomerName: d.CustomerName,
		Items:        items,
		Total:        d.Total.Float64(),
		PaidAmount:   d.PaidAmount.Float64(),
		Remaining:    d.Remaining().Float64(),
		Status:       string(d.Status()),
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    d.UpdatedAt.Format(time.RFC3339),
	}
	if d.PaidAt != nil {
		dto.PaidAt = d.PaidAt.Format(time.RFC3339)
	}
	return dto
}

func toPaymentDTO(p ledger.Payment) PaymentDTO {
	return PaymentDTO{
		ID:         string(p.ID),
		CustomerID: string(p.CustomerID),
		Amount:     p.Amount.Float64(),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

func toAllocationDTO(a debt.Allocation) AllocationDTO {
	changes := make([]DebtChangeDTO, len(a.Changes))
	for i, c := range a.Changes {
		changes[i] = DebtChangeDTO{Debt: toDebtDTO(c.Debt), Applied: c.Applied.Float64()}
	}
	return AllocationDTO{
		Payment:   toPaymentDTO(a.Payment),
		Changes:   changes,
		Requested: a.Requested.Float64(),
		Allocated: a.Allocated.Float64(),
		Leftover:  a.Leftover.Float64(),
	}
}

func toEntryDTO(e ledger.Entry) EntryDTO {
	dto := EntryDTO{
		ID:          string(e.ID),
		EmployeeID:  string(e.EmployeeID),
		Kind:        string(e.Kind),
		Amount:      e.Amount.Float64(),
		Description: e.Description,
		EarningType: string(e.EarningType),
		IsPaid:      e.IsPaid,
		Method:      string(e.Method),
		Direction:   string(e.Direction),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.PaidAt != nil {
		dto.PaidAt = e.PaidAt.Format(time.RFC3339)
	}
	return dto
}

func toSettlementDTO(s payroll.Settlement) SettlementDTO {
	return SettlementDTO{
		Entry:   toEntryDTO(s.Entry),
		Before:  s.Before.Float64(),
		After:   s.After.Float64(),
		Clamped: s.Clamped,
	}
}
