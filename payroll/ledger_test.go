package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/payroll"
	"github.com/warp/ledger-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type steppingClock struct {
	now  time.Time
	step time.Duration
}

func newSteppingClock(step time.Duration) *steppingClock {
	return &steppingClock{
		now:  time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestLedger(t *testing.T, opts ...payroll.Option) *payroll.Ledger {
	t.Helper()
	opts = append([]payroll.Option{payroll.WithClock((newSteppingClock(time.Second)).Now)}, opts...)
	return payroll.NewLedger(memory.New(), opts...)
}

// =============================================================================
// EARNING TESTS
// =============================================================================

func TestAddEarning_SalaryAndCommission(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	salary, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "March salary", ledger.NewAmount(10000))
	require.NoError(t, err)
	assert.Equal(t, ledger.EntryEarning, salary.Kind)
	assert.Equal(t, ledger.EarningSalary, salary.EarningType)

	commission, err := l.AddEarning(ctx, "emp-1", ledger.EarningCommission, "Q1 sales", ledger.NewAmount(2000))
	require.NoError(t, err)
	assert.Equal(t, ledger.EarningCommission, commission.EarningType)

	balance, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(12000)))
}

func TestAddEarning_UnknownType_Rejected(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.AddEarning(context.Background(), "emp-1", "bonus", "nope", ledger.NewAmount(1000))

	assert.True(t, errors.Is(err, ledger.ErrInvalidInput))
}

func TestAddEarning_NonPositiveAmount_Rejected(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "zero", ledger.ZeroAmount())
	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))

	_, err = l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "negative", ledger.NewAmount(-100))
	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))

	// Nothing was appended.
	entries, err := l.Entries(ctx, "emp-1", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// ADVANCE DEBT TESTS
// =============================================================================

func TestAddDebt_DecreasesBalanceImmediately(t *testing.T) {
	// The advance reduces the balance at creation, not when marked paid.
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(10000))
	require.NoError(t, err)
	_, err = l.AddDebt(ctx, "emp-1", "cash advance", ledger.NewAmount(3000))
	require.NoError(t, err)

	balance, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(7000)))
}

func TestAddDebt_NonPositiveAmount_Rejected(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.AddDebt(context.Background(), "emp-1", "zero", ledger.ZeroAmount())

	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))
}

// =============================================================================
// MARK DEBT PAID TESTS
// =============================================================================

func TestMarkDebtPaid_NeverMovesBalance(t *testing.T) {
	// GIVEN: Salary 10000 and an advance of 3000 (balance 7000)
	// WHEN: The advance is annotated as recovered via salary deduction
	// THEN: Annotation fields are set; the balance does not move

	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(10000))
	require.NoError(t, err)
	d, err := l.AddDebt(ctx, "emp-1", "cash advance", ledger.NewAmount(3000))
	require.NoError(t, err)

	before, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)

	updated, err := l.MarkDebtPaid(ctx, d.ID, ledger.PaymentSalaryDeduction)
	require.NoError(t, err)

	assert.True(t, updated.IsPaid)
	assert.Equal(t, ledger.PaymentSalaryDeduction, updated.Method)
	require.NotNil(t, updated.PaidAt)
	assert.True(t, updated.Amount.Equal(d.Amount), "amount must never be rewritten")

	after, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, before.Equal(after), "annotation must not change the balance")
}

func TestMarkDebtPaid_Twice_Rejected(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	d, err := l.AddDebt(ctx, "emp-1", "advance", ledger.NewAmount(500))
	require.NoError(t, err)

	_, err = l.MarkDebtPaid(ctx, d.ID, ledger.PaymentSeparate)
	require.NoError(t, err)

	_, err = l.MarkDebtPaid(ctx, d.ID, ledger.PaymentSeparate)
	assert.True(t, errors.Is(err, ledger.ErrInvalidInput))
}

func TestMarkDebtPaid_NonDebtEntry_Rejected(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	e, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(1000))
	require.NoError(t, err)

	_, err = l.MarkDebtPaid(ctx, e.ID, ledger.PaymentSeparate)
	assert.True(t, errors.Is(err, ledger.ErrInvalidInput))
}

func TestMarkDebtPaid_UnknownMethod_Rejected(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	d, err := l.AddDebt(ctx, "emp-1", "advance", ledger.NewAmount(500))
	require.NoError(t, err)

	_, err = l.MarkDebtPaid(ctx, d.ID, "cash")
	assert.True(t, errors.Is(err, ledger.ErrInvalidInput))
}

func TestMarkDebtPaid_UnknownEntry_NotFound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.MarkDebtPaid(context.Background(), "missing", ledger.PaymentSeparate)

	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// ENTRY LISTING TESTS
// =============================================================================

func TestEntries_OldestFirstWithKindFilter(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	salary, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(10000))
	require.NoError(t, err)
	advance, err := l.AddDebt(ctx, "emp-1", "advance", ledger.NewAmount(3000))
	require.NoError(t, err)
	commission, err := l.AddEarning(ctx, "emp-1", ledger.EarningCommission, "commission", ledger.NewAmount(2000))
	require.NoError(t, err)

	all, err := l.Entries(ctx, "emp-1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, salary.ID, all[0].ID)
	assert.Equal(t, advance.ID, all[1].ID)
	assert.Equal(t, commission.ID, all[2].ID)

	earnings, err := l.Entries(ctx, "emp-1", ledger.EntryEarning)
	require.NoError(t, err)
	require.Len(t, earnings, 2)
	assert.Equal(t, salary.ID, earnings[0].ID)
	assert.Equal(t, commission.ID, earnings[1].ID)

	debts, err := l.Entries(ctx, "emp-1", ledger.EntryDebt)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, advance.ID, debts[0].ID)
}

func TestEntries_ScopedToEmployee(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(10000))
	require.NoError(t, err)
	_, err = l.AddEarning(ctx, "emp-2", ledger.EarningSalary, "salary", ledger.NewAmount(8000))
	require.NoError(t, err)

	entries, err := l.Entries(ctx, "emp-1", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	balance, err := l.NetBalance(ctx, "emp-2")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(8000)))
}

func TestNetBalance_NoEntriesIsZero(t *testing.T) {
	l := newTestLedger(t)

	balance, err := l.NetBalance(context.Background(), "emp-unknown")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}
