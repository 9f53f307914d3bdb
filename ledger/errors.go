/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Every failure is surfaced to the caller as a typed error and leaves no
  partial state behind; the HTTP layer translates them, this package never
  formats user-facing text.

ERROR CATEGORIES:
  1. Input errors - Rejected before any write (amounts, malformed debts)
  2. State errors - The ledger cannot satisfy the operation (nothing to pay,
     zero balance, missing records)
  3. Policy errors - Explicit validation points for behavior the reference
     system left silent (overpayment, over-settlement)

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, ledger.ErrNothingToPay) { ... }

    var over *ledger.OverpaymentError
    if errors.As(err, &over) { ... over.Outstanding ... }

SEE ALSO:
  - debt/allocate.go: Uses overpayment errors
  - payroll/settle.go: Uses over-settlement errors
  - api/handlers.go: Maps these to HTTP statuses
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned for zero, negative, or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidInput is returned for malformed debt items or a total that
	// does not match the sum of line totals.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNothingToPay is returned when a payment targets a customer with no
	// outstanding debts (or a single debt that is already paid).
	ErrNothingToPay = errors.New("nothing to pay")

	// ErrNotFound is returned for unknown debt, payment, entry, customer,
	// or employee ids.
	ErrNotFound = errors.New("not found")

	// ErrNoBalance is returned when settlement is attempted against a zero
	// net balance; there is no direction to settle in.
	ErrNoBalance = errors.New("no balance to settle")

	// ErrOverpayment is returned, when overpayment rejection is enabled,
	// for a payment exceeding the customer's total outstanding debt.
	ErrOverpayment = errors.New("payment exceeds outstanding debt")

	// ErrOverSettlement is returned, when over-settlement rejection is
	// enabled, for a settlement that would flip the balance sign.
	ErrOverSettlement = errors.New("settlement exceeds net balance")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which record kind and id was missing.
type NotFoundError struct {
	Kind string // "debt", "payment", "entry"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidInputError explains why a debt could not be created.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// OverpaymentError reports how far a payment exceeded the outstanding total.
type OverpaymentError struct {
	CustomerID  CustomerID
	Requested   Amount
	Outstanding Amount
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment %v exceeds outstanding debt %v for customer %s",
		e.Requested.Value, e.Outstanding.Value, e.CustomerID)
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpayment }

// OverSettlementError reports a settlement larger than the absolute balance.
type OverSettlementError struct {
	EmployeeID EmployeeID
	Requested  Amount
	Balance    Amount // signed balance at settlement time
}

func (e *OverSettlementError) Error() string {
	return fmt.Sprintf("settlement %v exceeds net balance %v for employee %s",
		e.Requested.Value, e.Balance.Value, e.EmployeeID)
}

func (e *OverSettlementError) Unwrap() error { return ErrOverSettlement }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input or
// a state the client can observe and correct.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNothingToPay) ||
		errors.Is(err, ErrNoBalance) ||
		errors.Is(err, ErrOverpayment) ||
		errors.Is(err, ErrOverSettlement)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
