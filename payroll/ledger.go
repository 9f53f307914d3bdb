/*
Package payroll implements the employee compensation ledger.

PURPOSE:
  Tracks earnings (salary, commission), advance debts, and settlements for
  each employee in one append-only entry log. The three entry kinds are a
  single closed sum type with a kind discriminant, so the net balance is a
  total, exhaustively-matched fold over one sequence:

    netBalance = Σ earnings − Σ debts − signed settlements

  Positive means the business owes the employee; negative means the employee
  owes the business.

APPEND-ONLY:
  No entry amount is ever rewritten. "Paying" an advance debt is recorded as
  an annotation (IsPaid/Method/PaidAt) that never touches the balance
  arithmetic - the debt already reduced the balance at creation. Moving the
  balance itself is the settlement engine's job (settle.go).

CONCURRENCY:
  Operations on the same employee are serialized with a per-key lock;
  balance reads recompute from the persisted entries on every call.

SEE ALSO:
  - settle.go: Settlement engine
  - ledger package: Entry sum type, SignedDelta, NetBalance fold
*/
package payroll

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// EMPLOYEE LEDGER
// =============================================================================

type Ledger struct {
	store ledger.TxStore
	clock ledger.Clock
	locks *ledger.KeyMutex

	// Over-settlement policy; see settle.go.
	clampSettlement      bool
	rejectOverSettlement bool
}

type Option func(*Ledger)

// WithClock overrides the time source (used in tests).
func WithClock(c ledger.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithClampSettlement clamps settlement amounts to abs(balance) instead of
// letting an over-settlement flip the balance sign.
func WithClampSettlement(clamp bool) Option {
	return func(l *Ledger) { l.clampSettlement = clamp }
}

// WithRejectOverSettlement refuses settlement amounts beyond abs(balance).
// Takes precedence over clamping.
func WithRejectOverSettlement(reject bool) Option {
	return func(l *Ledger) { l.rejectOverSettlement = reject }
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
// WRITES (append-only)
// =============================================================================

// AddEarning records a salary or commission earning. Rejects amount <= 0
// and an unknown earning type.
func (l *Ledger) AddEarning(ctx context.Context, employeeID ledger.EmployeeID, typ ledger.EarningType, description string, amount ledger.Amount) (ledger.Entry, error) {
	if !amount.IsPositive() {
		return ledger.Entry{}, ledger.ErrInvalidAmount
	}
	if typ != ledger.EarningSalary && typ != ledger.EarningCommission {
		return ledger.Entry{}, &ledger.InvalidInputError{Reason: "unknown earning type"}
	}

	e := ledger.Entry{
		ID:          ledger.EntryID(uuid.NewString()),
		EmployeeID:  employeeID,
		Kind:        ledger.EntryEarning,
		EarningType: typ,
		Description: description,
		Amount:      amount,
		CreatedAt:   l.clock(),
	}
	if err := l.store.PutEntry(ctx, e); err != nil {
		return ledger.Entry{}, err
	}
	return e, nil
}

// AddDebt records an advance debt. The debt decreases the net balance from
// the moment it is created, independent of the IsPaid annotation.
// Rejects amount <= 0.
func (l *Ledger) AddDebt(ctx context.Context, employeeID ledger.EmployeeID, description string, amount ledger.Amount) (ledger.Entry, error) {
	if !amount.IsPositive() {
		return ledger.Entry{}, ledger.ErrInvalidAmount
	}

	e := ledger.Entry{
		ID:          ledger.EntryID(uuid.NewString()),
		EmployeeID:  employeeID,
		Kind:        ledger.EntryDebt,
		Description: description,
		Amount:      amount,
		IsPaid:      false,
		CreatedAt:   l.clock(),
	}
	if err := l.store.PutEntry(ctx, e); err != nil {
		return ledger.Entry{}, err
	}
	return e, nil
}

// MarkDebtPaid annotates how an advance debt was physically recovered
// outside the ledger arithmetic. It sets IsPaid, PaidAt, and the method;
// it never changes the entry's amount and therefore never changes the net
// balance.
//
// Rejects an entry that is not a debt, an already-paid debt, and an
// unknown payment method (ErrInvalidInput).
func (l *Ledger) MarkDebtPaid(ctx context.Context, entryID ledger.EntryID, method ledger.PaymentMethod) (ledger.Entry, error) {
	if method != ledger.PaymentSeparate && method != ledger.PaymentSalaryDeduction {
		return ledger.Entry{}, &ledger.InvalidInputError{Reason: "unknown payment method"}
	}

	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return ledger.Entry{}, err
	}

	unlock := l.locks.Lock(string(e.EmployeeID))
	defer unlock()

	var updated ledger.Entry
	err = l.store.WithTx(ctx, func(s ledger.Store) error {
		e, err := s.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Kind != ledger.EntryDebt {
			return &ledger.InvalidInputError{Reason: "entry is not a debt"}
		}
		if e.IsPaid {
			return &ledger.InvalidInputError{Reason: "debt already marked paid"}
		}

		paidAt := l.clock()
		e.IsPaid = true
		e.Method = method
		e.PaidAt = &paidAt
		if err := s.PutEntry(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return ledger.Entry{}, err
	}
	return updated, nil
}

// =============================================================================
// READS (always derived, never cached)
// =============================================================================

// NetBalance folds the employee's entries into a signed balance,
// recomputed from the persisted entry set on every call.
func (l *Ledger) NetBalance(ctx context.Context, employeeID ledger.EmployeeID) (ledger.Amount, error) {
	entries, err := l.store.ListEntriesByEmployee(ctx, employeeID)
	if err != nil {
		return ledger.Amount{}, err
	}
	return ledger.NetBalance(entries), nil
}

// Entries returns the employee's entries oldest first, optionally filtered
// by kind (pass "" for all kinds).
func (l *Ledger) Entries(ctx context.Context, employeeID ledger.EmployeeID, kind ledger.EntryKind) ([]ledger.Entry, error) {
	entries, err := l.store.ListEntriesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if kind != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Kind == kind {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}
