/*
Package debt implements the customer debt ledger and the payment allocator.

PURPOSE:
  Tracks per-customer debts with itemized lines and applies partial,
  multi-target payments across them. A debt's remaining amount and status
  are derived from its paid amount on every read; the outstanding balance
  for a customer is recomputed from the persisted debts on every call and
  never cached.

INVARIANTS:
  1. remaining == max(0, total - paid) at all times
  2. PaidAmount is monotonically non-decreasing; only the allocator advances it
  3. PaidAt is set exactly once, on the transition into paid
  4. Allocation order is createdAt ascending, ties broken by insertion order

CONCURRENCY:
  Operations on the same customer are serialized with a per-key lock; every
  mutation runs inside a store transaction so a payment touching N debts plus
  one payment record commits atomically or not at all.

SEE ALSO:
  - allocate.go: The pure FIFO allocation function and paying operations
  - ledger package: Record model, errors, store interface
*/
package debt

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// DEBT LEDGER
// =============================================================================

// Ledger creates debts and computes derived per-customer views.
type Ledger struct {
	store ledger.TxStore
	clock ledger.Clock
	locks *ledger.KeyMutex

	// rejectOverpayment makes PayCustomer fail instead of silently absorbing
	// an amount beyond the customer's total outstanding debt.
	rejectOverpayment bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source (used in tests).
func WithClock(c ledger.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithRejectOverpayment enables the explicit overpayment validation point.
func WithRejectOverpayment(reject bool) Option {
	return func(l *Ledger) { l.rejectOverpayment = reject }
}

func NewLedger(store ledger.TxStore, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		clock: ledger.SystemClock,
		locks: ledger.NewKeyMutex(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// =============================================================================
// CREATION
// =============================================================================

// CreateDebt constructs a new debt with its items, unpaid, created and
// updated now. The items and total are immutable afterwards.
//
// Rejects:
//   - empty items or a total that does not equal the sum of line totals
//     (ErrInvalidInput)
//   - non-positive total (ErrInvalidAmount)
func (l *Ledger) CreateDebt(ctx context.Context, customerID ledger.CustomerID, customerName string, items []ledger.DebtItem, total ledger.Amount) (ledger.Debt, error) {
	if len(items) == 0 {
		return ledger.Debt{}, &ledger.InvalidInputError{Reason: "debt has no items"}
	}
	if !total.IsPositive() {
		return ledger.Debt{}, ledger.ErrInvalidAmount
	}

	now := l.clock()
	d := ledger.Debt{
		ID:           ledger.DebtID(uuid.NewString()),
		CustomerID:   customerID,
		CustomerName: customerName,
		Items:        items,
		Total:        total,
		PaidAmount:   ledger.ZeroAmount(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if !d.ItemsTotal().Equal(total) {
		return ledger.Debt{}, &ledger.InvalidInputError{Reason: "total does not match sum of line totals"}
	}

	if err := l.store.PutDebt(ctx, d); err != nil {
		return ledger.Debt{}, err
	}
	return d, nil
}

// =============================================================================
// READS (always derived, never cached)
// =============================================================================

// Debt returns a single debt by id.
func (l *Ledger) Debt(ctx context.Context, id ledger.DebtID) (ledger.Debt, error) {
	return l.store.GetDebt(ctx, id)
}

// DebtsForCustomer returns all debts for a customer, oldest first.
func (l *Ledger) DebtsForCustomer(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	debts, err := l.store.ListDebtsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sortOldestFirst(debts)
	return debts, nil
}

// OutstandingDebtsOldestFirst returns the customer's non-paid debts ordered
// by createdAt ascending, ties broken by insertion order. This ordering is
// the allocation contract.
func (l *Ledger) OutstandingDebtsOldestFirst(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	debts, err := l.store.ListDebtsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return outstandingOldestFirst(debts), nil
}

// OutstandingBalance returns the sum of remaining amounts over the
// customer's non-paid debts, recomputed on every call.
func (l *Ledger) OutstandingBalance(ctx context.Context, customerID ledger.CustomerID) (ledger.Amount, error) {
	debts, err := l.store.ListDebtsByCustomer(ctx, customerID)
	if err != nil {
		return ledger.Amount{}, err
	}
	balance := ledger.ZeroAmount()
	for _, d := range debts {
		if d.Status() != ledger.DebtPaid {
			balance = balance.Add(d.Remaining())
		}
	}
	return balance, nil
}

// Payments returns the customer's payment history, oldest first.
func (l *Ledger) Payments(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Payment, error) {
	payments, err := l.store.ListPaymentsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(payments, func(i, j int) bool {
		if payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].Seq < payments[j].Seq
		}
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}

// Debtors aggregates every customer with any outstanding debt into
// customerId -> {name, totalDebt, debtCount} rows, sorted by name for a
// stable presentation order.
func (l *Ledger) Debtors(ctx context.Context) ([]ledger.Debtor, error) {
	debts, err := l.store.ListDebts(ctx)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[ledger.CustomerID]*ledger.Debtor)
	newest := make(map[ledger.CustomerID]ledger.Debt)
	for _, d := range debts {
		if d.Status() == ledger.DebtPaid {
			continue
		}
		row, ok := byCustomer[d.CustomerID]
		if !ok {
			row = &ledger.Debtor{CustomerID: d.CustomerID}
			byCustomer[d.CustomerID] = row
		}
		// Names are per-debt snapshots and can differ across a customer's
		// debts; the newest outstanding debt carries the current one.
		if cur, ok := newest[d.CustomerID]; !ok || newerThan(d, cur) {
			newest[d.CustomerID] = d
			row.CustomerName = d.CustomerName
		}
		row.TotalDebt = row.TotalDebt.Add(d.Remaining())
		row.DebtCount++
	}

	debtors := make([]ledger.Debtor, 0, len(byCustomer))
	for _, row := range byCustomer {
		debtors = append(debtors, *row)
	}
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].CustomerName == debtors[j].CustomerName {
			return debtors[i].CustomerID < debtors[j].CustomerID
		}
		return debtors[i].CustomerName < debtors[j].CustomerName
	})
	return debtors, nil
}

// =============================================================================
// ORDERING HELPERS
// =============================================================================

func newerThan(a, b ledger.Debt) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.Seq > b.Seq
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func sortOldestFirst(debts []ledger.Debt) {
	sort.SliceStable(debts, func(i, j int) bool {
		if debts[i].CreatedAt.Equal(debts[j].CreatedAt) {
			return debts[i].Seq < debts[j].Seq
		}
		return debts[i].CreatedAt.Before(debts[j].CreatedAt)
	})
}

func outstandingOldestFirst(debts []ledger.Debt) []ledger.Debt {
	outstanding := make([]ledger.Debt, 0, len(debts))
	for _, d := range debts {
		if d.Status() != ledger.DebtPaid {
			outstanding = append(outstanding, d)
		}
	}
	sortOldestFirst(outstanding)
	return outstanding
}
