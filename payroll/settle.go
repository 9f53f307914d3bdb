/*
settle.go - Settlement engine

PURPOSE:
  Moves an employee's net balance toward zero. The direction is never chosen
  by the caller; it is derived from the sign of the balance at settlement
  time: a positive balance settles admin_to_employee (the business pays out
  the surplus), a negative balance settles employee_to_admin (the employee
  pays in the deficit).

OVER-SETTLEMENT:
  The reference behavior accepts a settlement beyond abs(balance), flipping
  the balance sign. That is preserved by default, but it is an explicit,
  configurable validation point: WithClampSettlement clamps the amount to
  abs(balance), WithRejectOverSettlement refuses it outright. The result
  always reports the balance before and after so callers can surface a flip.

SEE ALSO:
  - ledger.go: NetBalance fold the direction is derived from
*/
package payroll

import (
	"context"

	"github.com/google/uuid"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// SETTLEMENT
// =============================================================================

// Settlement is the outcome of a settle operation.
type Settlement struct {
	Entry   ledger.Entry
	Before  ledger.Amount // net balance at settlement time
	After   ledger.Amount // net balance after the settlement entry
	Clamped bool          // amount was reduced to abs(Before)
}

// Settle creates a settlement entry of the correct direction for the
// employee's current net balance and validates the amount against it.
//
// Rejects:
//   - amount <= 0 (ErrInvalidAmount), producing no new entry
//   - a zero net balance (ErrNoBalance)
//   - amount beyond abs(balance), when over-settlement rejection is enabled
//     (OverSettlementError)
//
// Postcondition: the recomputed net balance equals Before - amount for
// admin_to_employee, Before + amount for employee_to_admin.
func (l *Ledger) Settle(ctx context.Context, employeeID ledger.EmployeeID, amount ledger.Amount, description string) (Settlement, error) {
	if !amount.IsPositive() {
		return Settlement{}, ledger.ErrInvalidAmount
	}

	unlock := l.locks.Lock(string(employeeID))
	defer unlock()

	var result Settlement
	err := l.store.WithTx(ctx, func(s ledger.Store) error {
		entries, err := s.ListEntriesByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		balance := ledger.NetBalance(entries)
		if balance.IsZero() {
			return ledger.ErrNoBalance
		}

		direction := ledger.AdminToEmployee
		if balance.IsNegative() {
			direction = ledger.EmployeeToAdmin
		}

		clamped := false
		if amount.GreaterThan(balance.Abs()) {
			if l.rejectOverSettlement {
				return &ledger.OverSettlementError{
					EmployeeID: employeeID,
					Requested:  amount,
					Balance:    balance,
				}
			}
			if l.clampSettlement {
				amount = balance.Abs()
				clamped = true
			}
		}

		e := ledger.Entry{
			ID:          ledger.EntryID(uuid.NewString()),
			EmployeeID:  employeeID,
			Kind:        ledger.EntrySettlement,
			Direction:   direction,
			Description: description,
			Amount:      amount,
			CreatedAt:   l.clock(),
		}
		if err := s.PutEntry(ctx, e); err != nil {
			return err
		}

		result = Settlement{
			Entry:   e,
			Before:  balance,
			After:   balance.Add(e.SignedDelta()),
			Clamped: clamped,
		}
		return nil
	})
	if err != nil {
		return Settlement{}, err
	}
	return result, nil
}
