// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"sync"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu sync.RWMutex

	debts    map[ledger.DebtID]ledger.Debt
	payments map[ledger.PaymentID]ledger.Payment
	entries  map[ledger.EntryID]ledger.Entry

	// Seq counters, one per record kind, assigned on first insert.
	debtSeq    int64
	paymentSeq int64
	entrySeq   int64
}

func New() *Store {
	return &Store{
		debts:    make(map[ledger.DebtID]ledger.Debt),
		payments: make(map[ledger.PaymentID]ledger.Payment),
		entries:  make(map[ledger.EntryID]ledger.Entry),
	}
}

// =============================================================================
// DEBTS
// =============================================================================

func (m *Store) GetDebt(_ context.Context, id ledger.DebtID) (ledger.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.debts[id]
	if !ok {
		return ledger.Debt{}, &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	return cloneDebt(d), nil
}

func (m *Store) PutDebt(_ context.Context, d ledger.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putDebtLocked(d)
	return nil
}

func (m *Store) putDebtLocked(d ledger.Debt) {
	if existing, ok := m.debts[d.ID]; ok {
		d.Seq = existing.Seq // insertion order survives upserts
	} else {
		m.debtSeq++
		d.Seq = m.debtSeq
	}
	m.debts[d.ID] = cloneDebt(d)
}

func (m *Store) ListDebts(_ context.Context) ([]ledger.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Debt, 0, len(m.debts))
	for _, d := range m.debts {
		result = append(result, cloneDebt(d))
	}
	return result, nil
}

func (m *Store) ListDebtsByCustomer(_ context.Context, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.Debt
	for _, d := range m.debts {
		if d.CustomerID == customerID {
			result = append(result, cloneDebt(d))
		}
	}
	return result, nil
}

func (m *Store) DeleteDebt(_ context.Context, id ledger.DebtID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.debts[id]; !ok {
		return &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	delete(m.debts, id)
	return nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (m *Store) GetPayment(_ context.Context, id ledger.PaymentID) (ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return ledger.Payment{}, &ledger.NotFoundError{Kind: "payment", ID: string(id)}
	}
	return p, nil
}

func (m *Store) PutPayment(_ context.Context, p ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putPaymentLocked(p)
	return nil
}

func (m *Store) putPaymentLocked(p ledger.Payment) {
	if existing, ok := m.payments[p.ID]; ok {
		p.Seq = existing.Seq
	} else {
		m.paymentSeq++
		p.Seq = m.paymentSeq
	}
	m.payments[p.ID] = p
}

func (m *Store) ListPayments(_ context.Context) ([]ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		result = append(result, p)
	}
	return result, nil
}

func (m *Store) ListPaymentsByCustomer(_ context.Context, customerID ledger.CustomerID) ([]ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.Payment
	for _, p := range m.payments {
		if p.CustomerID == customerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *Store) DeletePayment(_ context.Context, id ledger.PaymentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return &ledger.NotFoundError{Kind: "payment", ID: string(id)}
	}
	delete(m.payments, id)
	return nil
}

// =============================================================================
// EMPLOYEE ENTRIES
// =============================================================================

func (m *Store) GetEntry(_ context.Context, id ledger.EntryID) (ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return ledger.Entry{}, &ledger.NotFoundError{Kind: "entry", ID: string(id)}
	}
	return e, nil
}

func (m *Store) PutEntry(_ context.Context, e ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putEntryLocked(e)
	return nil
}

func (m *Store) putEntryLocked(e ledger.Entry) {
	if existing, ok := m.entries[e.ID]; ok {
		e.Seq = existing.Seq
	} else {
		m.entrySeq++
		e.Seq = m.entrySeq
	}
	m.entries[e.ID] = e
}

func (m *Store) ListEntries(_ context.Context) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	return result, nil
}

func (m *Store) ListEntriesByEmployee(_ context.Context, employeeID ledger.EmployeeID) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.Entry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Store) DeleteEntry(_ context.Context, id ledger.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return &ledger.NotFoundError{Kind: "entry", ID: string(id)}
	}
	delete(m.entries, id)
	return nil
}

// =============================================================================
// TRANSACTIONS - Snapshot + rollback on error
// =============================================================================

// WithTx executes fn against a transactional view. For the memory store the
// transaction is simulated with a snapshot restored on error, mirroring the
// all-or-nothing guarantee of the SQLite store.
func (m *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()

	if err := fn(&txView{parent: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	debts      map[ledger.DebtID]ledger.Debt
	payments   map[ledger.PaymentID]ledger.Payment
	entries    map[ledger.EntryID]ledger.Entry
	debtSeq    int64
	paymentSeq int64
	entrySeq   int64
}

func (m *Store) snapshot() snapshot {
	debts := make(map[ledger.DebtID]ledger.Debt, len(m.debts))
	for k, v := range m.debts {
		debts[k] = cloneDebt(v)
	}
	payments := make(map[ledger.PaymentID]ledger.Payment, len(m.payments))
	for k, v := range m.payments {
		payments[k] = v
	}
	entries := make(map[ledger.EntryID]ledger.Entry, len(m.entries))
	for k, v := range m.entries {
		entries[k] = v
	}
	return snapshot{
		debts: debts, payments: payments, entries: entries,
		debtSeq: m.debtSeq, paymentSeq: m.paymentSeq, entrySeq: m.entrySeq,
	}
}

func (m *Store) restore(s snapshot) {
	m.debts = s.debts
	m.payments = s.payments
	m.entries = s.entries
	m.debtSeq = s.debtSeq
	m.paymentSeq = s.paymentSeq
	m.entrySeq = s.entrySeq
}

// txView gives fn direct access to the already-locked parent maps.
type txView struct {
	parent *Store
}

func (tv *txView) GetDebt(_ context.Context, id ledger.DebtID) (ledger.Debt, error) {
	d, ok := tv.parent.debts[id]
	if !ok {
		return ledger.Debt{}, &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	return cloneDebt(d), nil
}

func (tv *txView) PutDebt(_ context.Context, d ledger.Debt) error {
	tv.parent.putDebtLocked(d)
	return nil
}

func (tv *txView) ListDebts(_ context.Context) ([]ledger.Debt, error) {
	result := make([]ledger.Debt, 0, len(tv.parent.debts))
	for _, d := range tv.parent.debts {
		result = append(result, cloneDebt(d))
	}
	return result, nil
}

func (tv *txView) ListDebtsByCustomer(_ context.Context, customerID ledger.CustomerID) ([]ledger.Debt, error) {
	var result []ledger.Debt
	for _, d := range tv.parent.debts {
		if d.CustomerID == customerID {
			result = append(result, cloneDebt(d))
		}
	}
	return result, nil
}

func (tv *txView) DeleteDebt(_ context.Context, id ledger.DebtID) error {
	if _, ok := tv.parent.debts[id]; !ok {
		return &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	delete(tv.parent.debts, id)
	return nil
}

func (tv *txView) GetPayment(_ context.Context, id ledger.PaymentID) (ledger.Payment, error) {
	p, ok := tv.parent.payments[id]
	if !ok {
		return ledger.Payment{}, &ledger.NotFoundError{Kind: "payment", ID: string(id)}
	}
	return p, nil
}

func (tv *txView) PutPayment(_ context.Context, p ledger.Payment) error {
	tv.parent.putPaymentLocked(p)
	return nil
}

func (tv *txView) ListPayments(_ context.Context) ([]ledger.Payment, error) {
	result := make([]ledger.Payment, 0, len(tv.parent.payments))
	for _, p := range tv.parent.payments {
		result = append(result, p)
	}
	return result, nil
}

func (tv *txView) ListPaymentsByCustomer(_ context.Context, customerID ledger.CustomerID) ([]ledger.Payment, error) {
	var result []ledger.Payment
	for _, p := range tv.parent.payments {
		if p.CustomerID == customerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (tv *txView) DeletePayment(_ context.Context, id ledger.PaymentID) error {
	if _, ok := tv.parent.payments[id]; !ok {
		return &ledger.NotFoundError{Kind: "payment", ID: string(id)}
	}
	delete(tv.parent.payments, id)
	return nil
}

func (tv *txView) GetEntry(_ context.Context, id ledger.EntryID) (ledger.Entry, error) {
	e, ok := tv.parent.entries[id]
	if !ok {
		return ledger.Entry{}, &ledger.NotFoundError{Kind: "entry", ID: string(id)}
	}
	return e, nil
}

func (tv *txView) PutEntry(_ context.Context, e ledger.Entry) error {
	tv.parent.putEntryLocked(e)
	return nil
}

func (tv *txView) ListEntries(_ context.Context) ([]ledger.Entry, error) {
	result := make([]ledger.Entry, 0, len(tv.parent.entries))
	for _, e := range tv.parent.entries {
		result = append(result, e)
	}
	return result, nil
}

func (tv *txView) ListEntriesByEmployee(_ context.Context, employeeID ledger.EmployeeID) ([]ledger.Entry, error) {
	var result []ledger.Entry
	for _, e := range tv.parent.entries {
		if e.EmployeeID == employeeID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (tv *txView) DeleteEntry(_ context.Context, id ledger.EntryID) error {
	if _, ok := tv.parent.entries[id]; !ok {
		return &ledger.NotFoundError{Kind: "entry", ID: string(id)}
	}
	delete(tv.parent.entries, id)
	return nil
}

// cloneDebt copies the items slice so callers cannot mutate stored state.
func cloneDebt(d ledger.Debt) ledger.Debt {
	if d.Items != nil {
		items := make([]ledger.DebtItem, len(d.Items))
		copy(items, d.Items)
		d.Items = items
	}
	if d.PaidAt != nil {
		paidAt := *d.PaidAt
		d.PaidAt = &paidAt
	}
	return d
}
