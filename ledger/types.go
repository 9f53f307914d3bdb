/*
Package ledger provides the core record model for the shop ledger engine.

PURPOSE:
  This package contains the shared types and algorithms for tracking money
  owed by customers (sale debts and payments) and money owed to or by
  employees (earnings, advances, settlements). Balances are never stored;
  they are always recomputed from the persisted records.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A money quantity (single currency, whole units)
  - Debt: One unpaid sale extended as credit, with itemized lines
  - Payment: A single customer payment event, possibly spanning debts
  - Entry: One employee ledger entry (earning, debt, or settlement)

DESIGN PRINCIPLES:
  1. Derived views: remaining amount, status, and balances are computed,
     never independently settable
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Type Safety: Strong typing for IDs prevents mixing customer/employee IDs
  4. Append-only employee ledger: entries are never rewritten; "payment" of
     an advance is an annotation, never an amount change

SEE ALSO:
  - errors.go: Error kinds surfaced at the call boundary
  - store.go: Persistence interface
  - debt/: Debt ledger and payment allocator
  - payroll/: Employee ledger and settlement engine
*/
package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Money quantity (one currency, no conversion)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

// NewAmountFromFloat converts a float. NaN and ±Inf have no decimal
// representation; they collapse to zero, which the positive-amount checks
// then reject as invalid.
func NewAmountFromFloat(value float64) Amount {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ZeroAmount()
	}
	return Amount{Value: decimal.NewFromFloat(value)}
}

// MustParseAmount parses s or panics. For literals in tests and fixtures.
func MustParseAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("invalid amount %q: %v", s, err))
	}
	return Amount{Value: d}
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Neg() Amount               { return Amount{Value: a.Value.Neg()} }
func (a Amount) Abs() Amount               { return Amount{Value: a.Value.Abs()} }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) MulInt(n int) Amount {
	return Amount{Value: a.Value.Mul(decimal.NewFromInt(int64(n)))}
}

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func (a Amount) String() string { return a.Value.String() }

func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CustomerID string
type EmployeeID string
type DebtID string
type PaymentID string
type EntryID string

// =============================================================================
// DEBT - One unpaid sale extended as customer credit
// =============================================================================

type DebtStatus string

const (
	DebtUnpaid  DebtStatus = "unpaid"  // PaidAmount == 0
	DebtPartial DebtStatus = "partial" // 0 < PaidAmount < Total
	DebtPaid    DebtStatus = "paid"    // Remaining() == 0
)

// DebtItem is one line of the sale, with the price snapshotted at creation.
// Items are immutable after the debt is created.
type DebtItem struct {
	ProductID   string
	ProductName string
	UnitPrice   Amount
	Quantity    int
	LineTotal   Amount
}

// Debt tracks an itemized sale total against a monotonically non-decreasing
// paid amount. Remaining amount and status are always derived, never stored
// independently, so they cannot drift from PaidAmount.
type Debt struct {
	ID           DebtID
	CustomerID   CustomerID
	CustomerName string // snapshot at creation, not re-synced
	Items        []DebtItem
	Total        Amount
	PaidAmount   Amount

	// Seq is assigned by the store on first insert. It breaks CreatedAt ties
	// so oldest-first ordering stays stable across reloads.
	Seq int64

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time // set exactly once, on the transition into paid
}

// Remaining returns max(0, Total - PaidAmount).
func (d Debt) Remaining() Amount {
	r := d.Total.Sub(d.PaidAmount)
	if r.IsNegative() {
		return ZeroAmount()
	}
	return r
}

// Status derives the debt status from PaidAmount and Total.
func (d Debt) Status() DebtStatus {
	switch {
	case d.Remaining().IsZero():
		return DebtPaid
	case d.PaidAmount.IsZero():
		return DebtUnpaid
	default:
		return DebtPartial
	}
}

// ItemsTotal sums the line totals. CreateDebt validates Total against this.
func (d Debt) ItemsTotal() Amount {
	sum := ZeroAmount()
	for _, it := range d.Items {
		sum = sum.Add(it.LineTotal)
	}
	return sum
}

// =============================================================================
// PAYMENT - A single customer payment event
// =============================================================================

// Payment records the full amount the customer handed over. It does not
// store which debts it covered; the per-debt breakdown is recomputed from
// debt timestamps and reported to the caller at allocation time only.
type Payment struct {
	ID         PaymentID
	CustomerID CustomerID
	Amount     Amount
	Seq        int64
	CreatedAt  time.Time
}

// =============================================================================
// EMPLOYEE ENTRY - Closed sum over earning / debt / settlement
// =============================================================================

type EntryKind string

const (
	EntryEarning    EntryKind = "earning"    // increases balance
	EntryDebt       EntryKind = "debt"       // decreases balance once created
	EntrySettlement EntryKind = "settlement" // moves balance toward zero
)

type EarningType string

const (
	EarningSalary     EarningType = "salary"
	EarningCommission EarningType = "commission"
)

// PaymentMethod annotates how a pre-existing advance debt was physically
// recovered. It never participates in balance arithmetic.
type PaymentMethod string

const (
	PaymentSeparate        PaymentMethod = "separate"
	PaymentSalaryDeduction PaymentMethod = "salary_deduction"
)

type SettlementDirection string

const (
	AdminToEmployee SettlementDirection = "admin_to_employee" // pays down a surplus owed to the employee
	EmployeeToAdmin SettlementDirection = "employee_to_admin" // pays down a deficit owed by the employee
)

// Entry is one append-only employee ledger record. Kind discriminates the
// variant; the variant-specific fields are zero for the other kinds.
// No entry is ever mutated except the IsPaid/PaidAt/Method annotation on
// debt entries, which is explicitly outside the balance computation.
type Entry struct {
	ID          EntryID
	EmployeeID  EmployeeID
	Kind        EntryKind
	Amount      Amount // always positive; sign comes from SignedDelta
	Description string
	Seq         int64
	CreatedAt   time.Time

	// Earning fields
	EarningType EarningType

	// Debt fields
	IsPaid bool
	Method PaymentMethod
	PaidAt *time.Time

	// Settlement fields
	Direction SettlementDirection
}

// SignedDelta returns the entry's contribution to the employee's net balance:
//
//	netBalance = Σ earnings − Σ debts − signed settlements
//
// An admin_to_employee settlement subtracts (surplus paid out); an
// employee_to_admin settlement adds back (deficit paid in). Debt entries
// subtract regardless of IsPaid.
func (e Entry) SignedDelta() Amount {
	switch e.Kind {
	case EntryEarning:
		return e.Amount
	case EntryDebt:
		return e.Amount.Neg()
	case EntrySettlement:
		if e.Direction == EmployeeToAdmin {
			return e.Amount
		}
		return e.Amount.Neg()
	default:
		return ZeroAmount()
	}
}

// NetBalance folds entries into a signed balance. Positive means the business
// owes the employee; negative means the employee owes the business.
func NetBalance(entries []Entry) Amount {
	balance := ZeroAmount()
	for _, e := range entries {
		balance = balance.Add(e.SignedDelta())
	}
	return balance
}

// =============================================================================
// DEBTOR SUMMARY - Aggregated outward view
// =============================================================================

// Debtor is one row of the "customers with any outstanding debt" view.
type Debtor struct {
	CustomerID   CustomerID
	CustomerName string
	TotalDebt    Amount
	DebtCount    int
}

// =============================================================================
// DIRECTORY COLLABORATORS - Consumed read-only at the boundary
// =============================================================================

// CustomerDirectory resolves customer names at debt-creation time. The name
// is snapshotted into the debt and never re-read.
type CustomerDirectory interface {
	CustomerName(id CustomerID) (string, error)
}

// ProductInfo is the point-in-time product snapshot used to build debt items.
type ProductInfo struct {
	ID    string
	Name  string
	Price Amount
}

// ProductDirectory resolves product name/price at debt-creation time only.
type ProductDirectory interface {
	Product(id string) (ProductInfo, error)
}
