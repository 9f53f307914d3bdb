/*
Package sqlite provides a SQLite-backed implementation of the ledger Store.

PURPOSE:
  Implements ledger.TxStore using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  debts:            One row per sale debt; paid_amount advances, the rest
                    is immutable after insert
  debt_items:       Itemized lines, snapshotted at creation, never updated
  payments:         Consolidated customer payment events, immutable
  employee_entries: Append-only employee ledger (earning/debt/settlement);
                    only the is_paid annotation is ever updated

  No balance table exists. Balances are always recomputed from these rows.

SEQ COLUMNS:
  Every table carries an AUTOINCREMENT seq used by callers to break
  created_at ties, so oldest-first allocation order is stable across
  reloads. Upserts preserve the original seq.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/ledger-engine/ledger"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A second pooled connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Customer sale debts
	CREATE TABLE IF NOT EXISTS debts (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		total TEXT NOT NULL,
		paid_amount TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		paid_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_debts_customer
		ON debts(customer_id);

	-- Itemized debt lines (immutable after creation)
	CREATE TABLE IF NOT EXISTS debt_items (
		debt_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		line_total TEXT NOT NULL,
		PRIMARY KEY (debt_id, position)
	);

	-- Consolidated customer payment events (immutable)
	CREATE TABLE IF NOT EXISTS payments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		customer_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_customer
		ON payments(customer_id);

	-- Employee ledger (append-only; only is_paid annotation is updated)
	CREATE TABLE IF NOT EXISTS employee_entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		employee_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT,
		earning_type TEXT,
		is_paid INTEGER NOT NULL DEFAULT 0,
		payment_method TEXT,
		paid_at TEXT,
		direction TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_employee
		ON employee_entries(employee_id);
	CREATE INDEX IF NOT EXISTS idx_entries_employee_kind
		ON employee_entries(employee_id, kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx so the same helpers run
// inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// DEBTS
// =============================================================================

func (s *Store) GetDebt(ctx context.Context, id ledger.DebtID) (ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getDebt(ctx, s.db, id)
}

func (s *Store) PutDebt(ctx context.Context, d ledger.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putDebt(ctx, s.db, d)
}

func (s *Store) ListDebts(ctx context.Context) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listDebts(ctx, s.db, "")
}

func (s *Store) ListDebtsByCustomer(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listDebts(ctx, s.db, customerID)
}

func (s *Store) DeleteDebt(ctx context.Context, id ledger.DebtID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteDebt(ctx, s.db, id)
}

func getDebt(ctx context.Context, q querier, id ledger.DebtID) (ledger.Debt, error) {
	row := q.QueryRowContext(ctx, `
		SELECT seq, id, customer_id, customer_name, total, paid_amount, created_at, updated_at, paid_at
		FROM debts WHERE id = ?`, string(id))

	d, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return ledger.Debt{}, &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	if err != nil {
		return ledger.Debt{}, fmt.Errorf("failed to get debt: %w", err)
	}

	d.Items, err = loadItems(ctx, q, d.ID)
	if err != nil {
		return ledger.Debt{}, err
	}
	return d, nil
}

func putDebt(ctx context.Context, q querier, d ledger.Debt) error {
	// Immutable fields are only written on insert; upserts advance
	// paid_amount, updated_at, and paid_at.
	_, err := q.ExecContext(ctx, `
		INSERT INTO debts (id, customer_id, customer_name, total, paid_amount, created_at, updated_at, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			paid_amount = excluded.paid_amount,
			updated_at = excluded.updated_at,
			paid_at = excluded.paid_at`,
		string(d.ID),
		string(d.CustomerID),
		d.CustomerName,
		d.Total.String(),
		d.PaidAmount.String(),
		formatTime(d.CreatedAt),
		formatTime(d.UpdatedAt),
		nullTime(d.PaidAt),
	)
	if err != nil {
		return fmt.Errorf("failed to put debt: %w", err)
	}

	// Items are immutable; OR IGNORE makes re-upserts of the debt row a no-op
	// on the item table.
	for i, it := range d.Items {
		_, err := q.ExecContext(ctx, `
			INSERT OR IGNORE INTO debt_items (debt_id, position, product_id, product_name, unit_price, quantity, line_total)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(d.ID), i, it.ProductID, it.ProductName,
			it.UnitPrice.String(), it.Quantity, it.LineTotal.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to put debt item: %w", err)
		}
	}
	return nil
}

func listDebts(ctx context.Context, q querier, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	query := `
		SELECT seq, id, customer_id, customer_name, total, paid_amount, created_at, updated_at, paid_at
		FROM debts`
	var args []any
	if customerID != "" {
		query += " WHERE customer_id = ?"
		args = append(args, string(customerID))
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var debts []ledger.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range debts {
		debts[i].Items, err = loadItems(ctx, q, debts[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return debts, nil
}

func deleteDebt(ctx context.Context, q querier, id ledger.DebtID) error {
	res, err := q.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	_, err = q.ExecContext(ctx, "DELETE FROM debt_items WHERE debt_id = ?", string(id))
	return err
}

func loadItems(ctx context.Context, q querier, debtID ledger.DebtID) ([]ledger.DebtItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, product_name, unit_price, quantity, line_total
		FROM debt_items WHERE debt_id = ? ORDER BY position ASC`, string(debtID))
	if err != nil {
		return nil, fmt.Errorf("failed to query debt items: %w", err)
	}
	defer rows.Close()

	var items []ledger.DebtItem
	for rows.Next() {
		var it ledger.DebtItem
		var unitPrice, lineTotal string
		if err := rows.Scan(&it.ProductID, &it.ProductName, &unitPrice, &it.Quantity, &lineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan debt item: %w", err)
		}
		var err error
		if it.UnitPrice, err = parseAmount(unitPrice); err != nil {
			return nil, err
		}
		if it.LineTotal, err = parseAmount(lineTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebt(row rowScanner) (ledger.Debt, error) {
	var (
		d                    ledger.Debt
		id, customerID       string
		total, paidAmount    string
		createdAt, updatedAt string
		paidAt               sql.NullString
	)

	err := row.Scan(&d.Seq, &id, &customerID, &d.CustomerName,
		&total, &paidAmount, &createdAt, &updatedAt, &paidAt)
	if err != nil {
		return d, err
	}

	d.ID = ledger.DebtID(id)
	d.CustomerID = ledger.CustomerID(customerID)
	if d.Total, err = parseAmount(total); err != nil {
		return d, err
	}
	if d.PaidAmount, err = parseAmount(paidAmount); err != nil {
		return d, err
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	if paidAt.Valid {
		t := parseTime(paidAt.String)
		d.PaidAt = &t
	}
	return d, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) GetPayment(ctx context.Context, id ledger.PaymentID) (ledger.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPayment(ctx, s.db, id)
}

func (s *Store) PutPayment(ctx context.Context, p ledger.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putPayment(ctx, s.db, p)
}

func (s *Store) ListPayments(ctx context.Context) ([]ledger.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listPayments(ctx, s.db, "")
}

func (s *Store) ListPaymentsByCustomer(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listPayments(ctx, s.db, customerID)
}

func (s *Store) DeletePayment(ctx context.Context, id ledger.PaymentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deletePayment(ctx, s.db, id)
}

func getPayment(ctx context.Context, q querier, id ledger.PaymentID) (ledger.Payment, error) {
	row := q.QueryRowContext(ctx, `
		SELECT seq, id, customer_id, amount, created_at
		FROM payments WHERE id = ?`, string(id))

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return ledger.Payment{}, &ledger.NotFoundError{Kind: "payment", ID: string(id)}
	}
	if err != nil {
		return ledger.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func putPayment(ctx context.Context, q querier, p ledger.Payment) error {
	// Payments are immutable; a re-put of an existing id is a no-op.
	_, err := q.ExecContext(ctx, `
		INSERT INTO payments (id, customer_id, amount, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		string(p.ID), string(p.CustomerID), p.Amount.String(), formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to put payment: %w", err)
	}
	return nil
}

func listPayments(ctx context.Context, q querier, customerID ledger.CustomerID) ([]ledger.Payment, error) {
	query := "SELECT seq, id, customer_id, amount, created_at FROM payments"
	var args []any
	if customerID != "" {
		query += " WHERE customer_id = ?"
		args = append(args, string(customerID))
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func deletePayment(ctx context.Context, q querier, id ledger.PaymentID) error {
	res, err := q.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ledger.NotFoundError{Kind: "payment", ID: string(id)}
	}
	return nil
}

func scanPayment(row rowScanner) (ledger.Payment, error) {
	var (
		p                 ledger.Payment
		id, customerID    string
		amount, createdAt string
	)
	if err := row.Scan(&p.Seq, &id, &customerID, &amount, &createdAt); err != nil {
		return p, err
	}
	p.ID = ledger.PaymentID(id)
	p.CustomerID = ledger.CustomerID(customerID)
	var err error
	if p.Amount, err = parseAmount(amount); err != nil {
		return p, err
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// =============================================================================
// EMPLOYEE ENTRIES
// =============================================================================

func (s *Store) GetEntry(ctx context.Context, id ledger.EntryID) (ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEntry(ctx, s.db, id)
}

func (s *Store) PutEntry(ctx context.Context, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putEntry(ctx, s.db, e)
}

func (s *Store) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEntries(ctx, s.db, "")
}

func (s *Store) ListEntriesByEmployee(ctx context.Context, employeeID ledger.EmployeeID) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEntries(ctx, s.db, employeeID)
}

func (s *Store) DeleteEntry(ctx context.Context, id ledger.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteEntry(ctx, s.db, id)
}

func getEntry(ctx context.Context, q querier, id ledger.EntryID) (ledger.Entry, error) {
	row := q.QueryRowContext(ctx, `
		SELECT seq, id, employee_id, kind, amount, description, earning_type,
		       is_paid, payment_method, paid_at, direction, created_at
		FROM employee_entries WHERE id = ?`, string(id))

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return ledger.Entry{}, &ledger.NotFoundError{Kind: "entry", ID: string(id)}
	}
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

func putEntry(ctx context.Context, q querier, e ledger.Entry) error {
	// Amounts are never rewritten; only the is_paid annotation may change.
	_, err := q.ExecContext(ctx, `
		INSERT INTO employee_entries
		(id, employee_id, kind, amount, description, earning_type, is_paid, payment_method, paid_at, direction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_paid = excluded.is_paid,
			payment_method = excluded.payment_method,
			paid_at = excluded.paid_at`,
		string(e.ID),
		string(e.EmployeeID),
		string(e.Kind),
		e.Amount.String(),
		e.Description,
		nullString(string(e.EarningType)),
		boolToInt(e.IsPaid),
		nullString(string(e.Method)),
		nullTime(e.PaidAt),
		nullString(string(e.Direction)),
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

func listEntries(ctx context.Context, q querier, employeeID ledger.EmployeeID) ([]ledger.Entry, error) {
	query := `
		SELECT seq, id, employee_id, kind, amount, description, earning_type,
		       is_paid, payment_method, paid_at, direction, created_at
		FROM employee_entries`
	var args []any
	if employeeID != "" {
		query += " WHERE employee_id = ?"
		args = append(args, string(employeeID))
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func deleteEntry(ctx context.Context, q querier, id ledger.EntryID) error {
	res, err := q.ExecContext(ctx, "DELETE FROM employee_entries WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ledger.NotFoundError{Kind: "entry", ID: string(id)}
	}
	return nil
}

func scanEntry(row rowScanner) (ledger.Entry, error) {
	var (
		e                           ledger.Entry
		id, employeeID, kind        string
		amount, createdAt           string
		description                 sql.NullString
		earningType, method, paidAt sql.NullString
		direction                   sql.NullString
		isPaid                      int
	)

	err := row.Scan(&e.Seq, &id, &employeeID, &kind, &amount, &description,
		&earningType, &isPaid, &method, &paidAt, &direction, &createdAt)
	if err != nil {
		return e, err
	}

	e.ID = ledger.EntryID(id)
	e.EmployeeID = ledger.EmployeeID(employeeID)
	e.Kind = ledger.EntryKind(kind)
	if e.Amount, err = parseAmount(amount); err != nil {
		return e, err
	}
	e.Description = description.String
	e.EarningType = ledger.EarningType(earningType.String)
	e.IsPaid = isPaid != 0
	e.Method = ledger.PaymentMethod(method.String)
	e.Direction = ledger.SettlementDirection(direction.String)
	e.CreatedAt = parseTime(createdAt)
	if paidAt.Valid {
		t := parseTime(paidAt.String)
		e.PaidAt = &t
	}
	return e, nil
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes fn within a database transaction. The txStore passed to fn
// runs all reads and writes against the same *sql.Tx, so fn observes its own
// writes and everything commits or rolls back as one unit.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) GetDebt(ctx context.Context, id ledger.DebtID) (ledger.Debt, error) {
	return getDebt(ctx, ts.tx, id)
}

func (ts *txStore) PutDebt(ctx context.Context, d ledger.Debt) error {
	return putDebt(ctx, ts.tx, d)
}

func (ts *txStore) ListDebts(ctx context.Context) ([]ledger.Debt, error) {
	return listDebts(ctx, ts.tx, "")
}

func (ts *txStore) ListDebtsByCustomer(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	return listDebts(ctx, ts.tx, customerID)
}

func (ts *txStore) DeleteDebt(ctx context.Context, id ledger.DebtID) error {
	return deleteDebt(ctx, ts.tx, id)
}

func (ts *txStore) GetPayment(ctx context.Context, id ledger.PaymentID) (ledger.Payment, error) {
	return getPayment(ctx, ts.tx, id)
}

func (ts *txStore) PutPayment(ctx context.Context, p ledger.Payment) error {
	return putPayment(ctx, ts.tx, p)
}

func (ts *txStore) ListPayments(ctx context.Context) ([]ledger.Payment, error) {
	return listPayments(ctx, ts.tx, "")
}

func (ts *txStore) ListPaymentsByCustomer(ctx context.Context, customerID ledger.CustomerID) ([]ledger.Payment, error) {
	return listPayments(ctx, ts.tx, customerID)
}

func (ts *txStore) DeletePayment(ctx context.Context, id ledger.PaymentID) error {
	return deletePayment(ctx, ts.tx, id)
}

func (ts *txStore) GetEntry(ctx context.Context, id ledger.EntryID) (ledger.Entry, error) {
	return getEntry(ctx, ts.tx, id)
}

func (ts *txStore) PutEntry(ctx context.Context, e ledger.Entry) error {
	return putEntry(ctx, ts.tx, e)
}

func (ts *txStore) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	return listEntries(ctx, ts.tx, "")
}

func (ts *txStore) ListEntriesByEmployee(ctx context.Context, employeeID ledger.EmployeeID) ([]ledger.Entry, error) {
	return listEntries(ctx, ts.tx, employeeID)
}

func (ts *txStore) DeleteEntry(ctx context.Context, id ledger.EntryID) error {
	return deleteEntry(ctx, ts.tx, id)
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

// parseAmount refuses to guess: a stored amount that no longer parses is
// corruption, not zero.
func parseAmount(s string) (ledger.Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ledger.Amount{}, fmt.Errorf("corrupt stored amount %q: %w", s, err)
	}
	return ledger.Amount{Value: d}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
