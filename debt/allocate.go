/*
allocate.go - FIFO payment allocation

PURPOSE:
  Applies one payment amount across a customer's outstanding debts, oldest
  first, and records exactly one consolidated Payment for the total. The
  allocation itself is a pure function over (sortedDebts, amount) so the
  hardest logic in the engine is unit-testable without a storage backend;
  the paying operations apply its result transactionally.

GUARANTEES:
  - After allocation, the sum of remaining amounts over the customer's debts
    decreases by exactly the allocated amount
  - No debt's remaining amount ever goes negative
  - Status always matches paid/total; PaidAt is set only on the transition
    into paid
  - The payment record and all mutated debts commit atomically

OVERPAYMENT:
  The reference behavior silently absorbs any amount beyond the total
  outstanding. That is preserved by default, but the result always reports
  the leftover, and WithRejectOverpayment turns it into a typed failure
  before any write.

SEE ALSO:
  - ledger.go: Outstanding-debt ordering (the allocation contract)
*/
package debt

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// ALLOCATION RESULT
// =============================================================================

// DebtChange is the effect of an allocation on one debt. Debt carries the
// post-application state; Applied is how much of the payment it received.
type DebtChange struct {
	Debt    ledger.Debt
	Applied ledger.Amount
}

// Allocation is the outcome of a payment: the consolidated payment record,
// the per-debt breakdown (reported to the caller, never persisted), and the
// leftover that found no debt to cover.
type Allocation struct {
	Payment   ledger.Payment
	Changes   []DebtChange
	Requested ledger.Amount
	Allocated ledger.Amount
	Leftover  ledger.Amount
}

// =============================================================================
// PURE ALLOCATION - no side effects, no storage
// =============================================================================

// Allocate distributes amount across debts in the given order, clamping each
// application to the debt's remaining amount, and stops as soon as the amount
// is exhausted. Debts the payment never reached are absent from the result.
//
// The caller supplies debts already ordered oldest first; Allocate never
// reorders them. Paid debts in the input receive nothing and are skipped.
func Allocate(debts []ledger.Debt, amount ledger.Amount, now time.Time) ([]DebtChange, ledger.Amount) {
	remaining := amount
	var changes []DebtChange

	for _, d := range debts {
		if !remaining.IsPositive() {
			break
		}
		open := d.Remaining()
		if open.IsZero() {
			continue
		}

		applied := remaining.Min(open)
		d.PaidAmount = d.PaidAmount.Add(applied)
		d.UpdatedAt = now
		if d.Remaining().IsZero() && d.PaidAt == nil {
			paidAt := now
			d.PaidAt = &paidAt
		}

		changes = append(changes, DebtChange{Debt: d, Applied: applied})
		remaining = remaining.Sub(applied)
	}

	return changes, remaining
}

// =============================================================================
// PAYING OPERATIONS
// =============================================================================

// PayCustomer applies one payment across the customer's outstanding debts,
// oldest first, and records exactly one Payment for the full amount.
//
// Rejects:
//   - amount <= 0 (ErrInvalidAmount)
//   - no outstanding debts (ErrNothingToPay)
//   - amount beyond the outstanding total, when overpayment rejection is
//     enabled (OverpaymentError); otherwise the leftover is reported in the
//     Allocation and the full amount is still recorded as the payment
func (l *Ledger) PayCustomer(ctx context.Context, customerID ledger.CustomerID, amount ledger.Amount) (Allocation, error) {
	if !amount.IsPositive() {
		return Allocation{}, ledger.ErrInvalidAmount
	}

	unlock := l.locks.Lock(string(customerID))
	defer unlock()

	now := l.clock()
	var alloc Allocation

	err := l.store.WithTx(ctx, func(s ledger.Store) error {
		debts, err := s.ListDebtsByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		outstanding := outstandingOldestFirst(debts)
		if len(outstanding) == 0 {
			return ledger.ErrNothingToPay
		}

		if l.rejectOverpayment {
			total := ledger.ZeroAmount()
			for _, d := range outstanding {
				total = total.Add(d.Remaining())
			}
			if amount.GreaterThan(total) {
				return &ledger.OverpaymentError{
					CustomerID:  customerID,
					Requested:   amount,
					Outstanding: total,
				}
			}
		}

		changes, leftover := Allocate(outstanding, amount, now)
		for _, c := range changes {
			if err := s.PutDebt(ctx, c.Debt); err != nil {
				return err
			}
		}

		payment := ledger.Payment{
			ID:         ledger.PaymentID(uuid.NewString()),
			CustomerID: customerID,
			Amount:     amount,
			CreatedAt:  now,
		}
		if err := s.PutPayment(ctx, payment); err != nil {
			return err
		}

		alloc = Allocation{
			Payment:   payment,
			Changes:   changes,
			Requested: amount,
			Allocated: amount.Sub(leftover),
			Leftover:  leftover,
		}
		return nil
	})
	if err != nil {
		return Allocation{}, err
	}
	return alloc, nil
}

// PayDebt pays one specific debt directly. Overpayment beyond the debt's
// remaining amount is accepted and simply zeroes the debt: the derived
// remaining amount clamps at zero, it is never driven negative. The full
// amount handed over is recorded as the payment.
//
// Rejects amount <= 0 (ErrInvalidAmount) and an already-paid debt
// (ErrNothingToPay).
func (l *Ledger) PayDebt(ctx context.Context, debtID ledger.DebtID, amount ledger.Amount) (Allocation, error) {
	if !amount.IsPositive() {
		return Allocation{}, ledger.ErrInvalidAmount
	}

	// Resolve the owning customer first so the lock covers the same key as
	// multi-debt allocations against this customer.
	d, err := l.store.GetDebt(ctx, debtID)
	if err != nil {
		return Allocation{}, err
	}

	unlock := l.locks.Lock(string(d.CustomerID))
	defer unlock()

	now := l.clock()
	var alloc Allocation

	err = l.store.WithTx(ctx, func(s ledger.Store) error {
		d, err := s.GetDebt(ctx, debtID)
		if err != nil {
			return err
		}
		if d.Status() == ledger.DebtPaid {
			return ledger.ErrNothingToPay
		}

		applied := amount.Min(d.Remaining())
		d.PaidAmount = d.PaidAmount.Add(amount)
		d.UpdatedAt = now
		if d.Remaining().IsZero() && d.PaidAt == nil {
			paidAt := now
			d.PaidAt = &paidAt
		}
		if err := s.PutDebt(ctx, d); err != nil {
			return err
		}

		payment := ledger.Payment{
			ID:         ledger.PaymentID(uuid.NewString()),
			CustomerID: d.CustomerID,
			Amount:     amount,
			CreatedAt:  now,
		}
		if err := s.PutPayment(ctx, payment); err != nil {
			return err
		}

		alloc = Allocation{
			Payment:   payment,
			Changes:   []DebtChange{{Debt: d, Applied: applied}},
			Requested: amount,
			Allocated: applied,
			Leftover:  amount.Sub(applied),
		}
		return nil
	})
	if err != nil {
		return Allocation{}, err
	}
	return alloc, nil
}
