package payroll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/payroll"
)

// =============================================================================
// SETTLEMENT DIRECTION TESTS
// =============================================================================

func TestSettle_PositiveBalance_AdminPaysEmployee(t *testing.T) {
	// GIVEN: Net balance +10000 (the business owes the employee)
	// WHEN: Settling 4000
	// THEN: Direction admin_to_employee, balance becomes +6000

	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(10000))
	require.NoError(t, err)

	s, err := l.Settle(ctx, "emp-1", ledger.NewAmount(4000), "partial payout")
	require.NoError(t, err)

	assert.Equal(t, ledger.AdminToEmployee, s.Entry.Direction)
	assert.True(t, s.Before.Equal(ledger.NewAmount(10000)))
	assert.True(t, s.After.Equal(ledger.NewAmount(6000)))
	assert.False(t, s.Clamped)

	balance, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(6000)), "recomputed balance must match the reported After")
}

func TestSettle_NegativeBalance_EmployeePaysAdmin(t *testing.T) {
	// GIVEN: Net balance -7000 (the employee owes the business)
	// WHEN: Settling the full 7000
	// THEN: Direction employee_to_admin, balance becomes zero

	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddDebt(ctx, "emp-1", "cash advance", ledger.NewAmount(7000))
	require.NoError(t, err)

	s, err := l.Settle(ctx, "emp-1", ledger.NewAmount(7000), "full repayment")
	require.NoError(t, err)

	assert.Equal(t, ledger.EmployeeToAdmin, s.Entry.Direction)
	assert.True(t, s.Before.Equal(ledger.NewAmount(-7000)))
	assert.True(t, s.After.IsZero())

	balance, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

// =============================================================================
// SETTLEMENT VALIDATION TESTS
// =============================================================================

func TestSettle_ZeroBalance_Rejected(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Settle(context.Background(), "emp-1", ledger.NewAmount(100), "nothing there")

	assert.True(t, errors.Is(err, ledger.ErrNoBalance))
}

func TestSettle_NonPositiveAmount_RejectedWithoutEntry(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(5000))
	require.NoError(t, err)

	_, err = l.Settle(ctx, "emp-1", ledger.ZeroAmount(), "zero")
	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))

	_, err = l.Settle(ctx, "emp-1", ledger.NewAmount(-100), "negative")
	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))

	// No settlement entry was appended either way.
	settlements, err := l.Entries(ctx, "emp-1", ledger.EntrySettlement)
	require.NoError(t, err)
	assert.Empty(t, settlements)
}

// =============================================================================
// OVER-SETTLEMENT POLICY TESTS
// =============================================================================

func TestSettle_OverSettlement_FlipsSignByDefault(t *testing.T) {
	// Historical behavior: settling 1500 against +1000 drives the
	// balance to -500. The result reports both sides of the flip.
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(1000))
	require.NoError(t, err)

	s, err := l.Settle(ctx, "emp-1", ledger.NewAmount(1500), "overshoot")
	require.NoError(t, err)

	assert.True(t, s.Before.Equal(ledger.NewAmount(1000)))
	assert.True(t, s.After.Equal(ledger.NewAmount(-500)))
	assert.False(t, s.Clamped)

	balance, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(-500)))
}

func TestSettle_ClampOption_StopsAtZero(t *testing.T) {
	l := newTestLedger(t, payroll.WithClampSettlement(true))
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(1000))
	require.NoError(t, err)

	s, err := l.Settle(ctx, "emp-1", ledger.NewAmount(1500), "overshoot")
	require.NoError(t, err)

	assert.True(t, s.Clamped)
	assert.True(t, s.Entry.Amount.Equal(ledger.NewAmount(1000)), "amount clamped to abs(balance)")
	assert.True(t, s.After.IsZero())
}

func TestSettle_RejectOption_FailsWithoutEntry(t *testing.T) {
	l := newTestLedger(t, payroll.WithRejectOverSettlement(true))
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(1000))
	require.NoError(t, err)

	_, err = l.Settle(ctx, "emp-1", ledger.NewAmount(1500), "overshoot")

	var overErr *ledger.OverSettlementError
	require.ErrorAs(t, err, &overErr)
	assert.True(t, overErr.Balance.Equal(ledger.NewAmount(1000)))
	assert.True(t, errors.Is(err, ledger.ErrOverSettlement))

	balance, err := l.NetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(1000)), "balance untouched on rejection")

	settlements, err := l.Entries(ctx, "emp-1", ledger.EntrySettlement)
	require.NoError(t, err)
	assert.Empty(t, settlements)
}

func TestSettle_ExactAbsBalance_AllowedUnderAllPolicies(t *testing.T) {
	for _, opts := range [][]payroll.Option{
		nil,
		{payroll.WithClampSettlement(true)},
		{payroll.WithRejectOverSettlement(true)},
	} {
		l := newTestLedger(t, opts...)
		ctx := context.Background()

		_, err := l.AddDebt(ctx, "emp-1", "advance", ledger.NewAmount(2000))
		require.NoError(t, err)

		s, err := l.Settle(ctx, "emp-1", ledger.NewAmount(2000), "exact")
		require.NoError(t, err)
		assert.True(t, s.After.IsZero())
		assert.False(t, s.Clamped)
	}
}

func TestSettle_SequenceReachesZero(t *testing.T) {
	// Earn, advance, partial settle, final settle: the fold must track
	// every step and end exactly at zero.
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddEarning(ctx, "emp-1", ledger.EarningSalary, "salary", ledger.NewAmount(10000))
	require.NoError(t, err)
	_, err = l.AddDebt(ctx, "emp-1", "advance", ledger.NewAmount(3000))
	require.NoError(t, err)

	s, err := l.Settle(ctx, "emp-1", ledger.NewAmount(5000), "first payout")
	require.NoError(t, err)
	assert.True(t, s.After.Equal(ledger.NewAmount(2000)))

	s, err = l.Settle(ctx, "emp-1", ledger.NewAmount(2000), "final payout")
	require.NoError(t, err)
	assert.True(t, s.After.IsZero())

	_, err = l.Settle(ctx, "emp-1", ledger.NewAmount(1), "nothing left")
	assert.True(t, errors.Is(err, ledger.ErrNoBalance))
}
