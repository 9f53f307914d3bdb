/*
store.go - Persistence interface for ledger records

PURPOSE:
  Defines the interface between the ledger logic and the database. The Store
  persists three record kinds (debts, payments, employee entries) and nothing
  else - no materialized balances exist anywhere. Different implementations
  can use SQLite or in-memory storage.

CONTRACT:
  - Put is an upsert by id. Payments and employee entry amounts are
    append-only in practice: the ledgers only ever upsert debts (to advance
    PaidAmount) and the IsPaid annotation on employee debt entries.
  - List methods make no ordering guarantee; callers sort. The store assigns
    a monotonic Seq on first insert so callers can break CreatedAt ties
    deterministically.
  - Delete is an administrative override. The normal ledger flow never
    deletes a record.

ATOMICITY:
  WithTx ensures a payment allocation touching N debts plus one payment
  record is applied as a single unit. Either everything commits or nothing
  does; partial application is never observable.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for testing/dev

SEE ALSO:
  - debt/ledger.go, payroll/ledger.go: Consumers of this interface
*/
package ledger

import "context"

// =============================================================================
// STORE - Keyed record storage for the three ledger record kinds
// =============================================================================

type Store interface {
	// Debts
	GetDebt(ctx context.Context, id DebtID) (Debt, error)
	PutDebt(ctx context.Context, d Debt) error
	ListDebts(ctx context.Context) ([]Debt, error)
	ListDebtsByCustomer(ctx context.Context, customerID CustomerID) ([]Debt, error)
	DeleteDebt(ctx context.Context, id DebtID) error // administrative only

	// Payments
	GetPayment(ctx context.Context, id PaymentID) (Payment, error)
	PutPayment(ctx context.Context, p Payment) error
	ListPayments(ctx context.Context) ([]Payment, error)
	ListPaymentsByCustomer(ctx context.Context, customerID CustomerID) ([]Payment, error)
	DeletePayment(ctx context.Context, id PaymentID) error // administrative only

	// Employee entries
	GetEntry(ctx context.Context, id EntryID) (Entry, error)
	PutEntry(ctx context.Context, e Entry) error
	ListEntries(ctx context.Context) ([]Entry, error)
	ListEntriesByEmployee(ctx context.Context, employeeID EmployeeID) ([]Entry, error)
	DeleteEntry(ctx context.Context, id EntryID) error // administrative only
}

// =============================================================================
// TRANSACTIONAL STORE - For atomic multi-record operations
// =============================================================================

// TxStore wraps Store with transaction support. Use this whenever an
// operation writes more than one record (e.g., a payment allocation).
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
