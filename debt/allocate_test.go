package debt_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/debt"
	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// PURE ALLOCATION TESTS
// =============================================================================

func makeDebt(id string, total, paid int64, createdAt time.Time) ledger.Debt {
	return ledger.Debt{
		ID:         ledger.DebtID(id),
		CustomerID: "cust-1",
		Total:      ledger.NewAmount(total),
		PaidAmount: ledger.NewAmount(paid),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestAllocate_SpreadsAcrossDebtsOldestFirst(t *testing.T) {
	// GIVEN: D1 owes 5000, D2 owes 3000
	// WHEN: Allocating 6000
	// THEN: D1 fully paid, D2 receives 1000 leaving 2000

	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	debts := []ledger.Debt{
		makeDebt("d1", 5000, 0, now.Add(-2*time.Hour)),
		makeDebt("d2", 3000, 0, now.Add(-1*time.Hour)),
	}

	changes, leftover := debt.Allocate(debts, ledger.NewAmount(6000), now)

	require.Len(t, changes, 2)
	assert.True(t, leftover.IsZero())

	assert.Equal(t, ledger.DebtID("d1"), changes[0].Debt.ID)
	assert.True(t, changes[0].Applied.Equal(ledger.NewAmount(5000)))
	assert.Equal(t, ledger.DebtPaid, changes[0].Debt.Status())
	require.NotNil(t, changes[0].Debt.PaidAt)
	assert.Equal(t, now, *changes[0].Debt.PaidAt)

	assert.Equal(t, ledger.DebtID("d2"), changes[1].Debt.ID)
	assert.True(t, changes[1].Applied.Equal(ledger.NewAmount(1000)))
	assert.Equal(t, ledger.DebtPartial, changes[1].Debt.Status())
	assert.True(t, changes[1].Debt.Remaining().Equal(ledger.NewAmount(2000)))
	assert.Nil(t, changes[1].Debt.PaidAt)
}

func TestAllocate_StopsWhenExhausted(t *testing.T) {
	// A payment smaller than the first debt never touches the rest.
	now := time.Now().UTC()
	debts := []ledger.Debt{
		makeDebt("d1", 5000, 0, now.Add(-2*time.Hour)),
		makeDebt("d2", 3000, 0, now.Add(-1*time.Hour)),
	}

	changes, leftover := debt.Allocate(debts, ledger.NewAmount(2000), now)

	require.Len(t, changes, 1)
	assert.Equal(t, ledger.DebtID("d1"), changes[0].Debt.ID)
	assert.True(t, changes[0].Debt.Remaining().Equal(ledger.NewAmount(3000)))
	assert.True(t, leftover.IsZero())
}

func TestAllocate_ReportsLeftover(t *testing.T) {
	now := time.Now().UTC()
	debts := []ledger.Debt{makeDebt("d1", 5000, 0, now)}

	changes, leftover := debt.Allocate(debts, ledger.NewAmount(7000), now)

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Applied.Equal(ledger.NewAmount(5000)))
	assert.True(t, leftover.Equal(ledger.NewAmount(2000)))
}

func TestAllocate_SkipsAlreadyPaidDebts(t *testing.T) {
	now := time.Now().UTC()
	debts := []ledger.Debt{
		makeDebt("d1", 5000, 5000, now.Add(-2*time.Hour)), // already paid
		makeDebt("d2", 3000, 0, now.Add(-1*time.Hour)),
	}

	changes, leftover := debt.Allocate(debts, ledger.NewAmount(1000), now)

	require.Len(t, changes, 1)
	assert.Equal(t, ledger.DebtID("d2"), changes[0].Debt.ID)
	assert.True(t, leftover.IsZero())
}

func TestAllocate_ConservesMoney(t *testing.T) {
	// Total outstanding must drop by exactly the allocated amount.
	now := time.Now().UTC()
	debts := []ledger.Debt{
		makeDebt("d1", 5000, 1000, now.Add(-3*time.Hour)),
		makeDebt("d2", 3000, 0, now.Add(-2*time.Hour)),
		makeDebt("d3", 2000, 500, now.Add(-1*time.Hour)),
	}
	before := ledger.ZeroAmount()
	for _, d := range debts {
		before = before.Add(d.Remaining())
	}

	amount := ledger.NewAmount(6000)
	changes, leftover := debt.Allocate(debts, amount, now)

	applied := ledger.ZeroAmount()
	touched := make(map[ledger.DebtID]ledger.Debt)
	for _, c := range changes {
		applied = applied.Add(c.Applied)
		touched[c.Debt.ID] = c.Debt
		assert.False(t, c.Debt.Remaining().IsNegative())
	}
	assert.True(t, applied.Add(leftover).Equal(amount), "applied + leftover must equal the requested amount")

	after := ledger.ZeroAmount()
	for _, d := range debts {
		if changed, ok := touched[d.ID]; ok {
			after = after.Add(changed.Remaining())
		} else {
			after = after.Add(d.Remaining())
		}
	}
	assert.True(t, after.Equal(before.Sub(applied)), "outstanding total must drop by exactly the applied amount")
}

// =============================================================================
// PAY CUSTOMER TESTS
// =============================================================================

func TestPayCustomer_OneConsolidatedPaymentRecord(t *testing.T) {
	// GIVEN: D1 5000 and D2 3000 outstanding
	// WHEN: The customer hands over 6000
	// THEN: One payment of 6000 is recorded and the balance drops to 2000

	l := newTestLedger(t)
	ctx := context.Background()

	d1, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)
	_, err = l.CreateDebt(ctx, "cust-1", "Maria", oneItem(3000), ledger.NewAmount(3000))
	require.NoError(t, err)

	alloc, err := l.PayCustomer(ctx, "cust-1", ledger.NewAmount(6000))
	require.NoError(t, err)

	assert.True(t, alloc.Payment.Amount.Equal(ledger.NewAmount(6000)))
	assert.True(t, alloc.Allocated.Equal(ledger.NewAmount(6000)))
	assert.True(t, alloc.Leftover.IsZero())
	require.Len(t, alloc.Changes, 2)
	assert.Equal(t, d1.ID, alloc.Changes[0].Debt.ID)

	balance, err := l.OutstandingBalance(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(2000)))

	history, err := l.Payments(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(ledger.NewAmount(6000)))
}

func TestPayCustomer_NonPositiveAmount_Rejected(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	_, err = l.PayCustomer(ctx, "cust-1", ledger.ZeroAmount())
	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))

	_, err = l.PayCustomer(ctx, "cust-1", ledger.NewAmount(-100))
	assert.True(t, errors.Is(err, ledger.ErrInvalidAmount))

	// No payment was recorded and the debt is untouched.
	history, err := l.Payments(ctx, "cust-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPayCustomer_NonFiniteAmount_Rejected(t *testing.T) {
	// A NaN or infinite amount from the boundary must come back as a
	// typed failure, never a panic.
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var payErr error
		assert.NotPanics(t, func() {
			_, payErr = l.PayCustomer(ctx, "cust-1", ledger.NewAmountFromFloat(v))
		})
		assert.True(t, errors.Is(payErr, ledger.ErrInvalidAmount), "value %v", v)
	}
}

func TestPayCustomer_NothingOutstanding_Rejected(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.PayCustomer(context.Background(), "cust-1", ledger.NewAmount(1000))

	assert.True(t, errors.Is(err, ledger.ErrNothingToPay))
}

func TestPayCustomer_OverpaymentAbsorbedByDefault(t *testing.T) {
	// Historical behavior: the extra money vanishes into the recorded
	// payment, but the caller is told exactly how much found no debt.
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	alloc, err := l.PayCustomer(ctx, "cust-1", ledger.NewAmount(8000))
	require.NoError(t, err)

	assert.True(t, alloc.Payment.Amount.Equal(ledger.NewAmount(8000)))
	assert.True(t, alloc.Allocated.Equal(ledger.NewAmount(5000)))
	assert.True(t, alloc.Leftover.Equal(ledger.NewAmount(3000)))

	balance, err := l.OutstandingBalance(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestPayCustomer_RejectOverpaymentOption(t *testing.T) {
	// GIVEN: Overpayment rejection enabled
	// WHEN: Paying beyond the outstanding total
	// THEN: Typed failure, nothing written

	l := newTestLedger(t, debt.WithRejectOverpayment(true))
	ctx := context.Background()

	_, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	_, err = l.PayCustomer(ctx, "cust-1", ledger.NewAmount(8000))

	var overErr *ledger.OverpaymentError
	require.ErrorAs(t, err, &overErr)
	assert.True(t, overErr.Outstanding.Equal(ledger.NewAmount(5000)))
	assert.True(t, errors.Is(err, ledger.ErrOverpayment))

	balance, err := l.OutstandingBalance(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(5000)), "balance must be untouched")

	history, err := l.Payments(ctx, "cust-1")
	require.NoError(t, err)
	assert.Empty(t, history, "no payment record on rejection")
}

func TestPayCustomer_ExactPaymentStillAllowedWithRejection(t *testing.T) {
	l := newTestLedger(t, debt.WithRejectOverpayment(true))
	ctx := context.Background()

	_, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	alloc, err := l.PayCustomer(ctx, "cust-1", ledger.NewAmount(5000))
	require.NoError(t, err)
	assert.True(t, alloc.Leftover.IsZero())
}

func TestPayCustomer_SequentialPaymentsNeverDoubleCount(t *testing.T) {
	// Two partial payments against the same debt must sum, not race.
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	_, err = l.PayCustomer(ctx, "cust-1", ledger.NewAmount(2000))
	require.NoError(t, err)
	_, err = l.PayCustomer(ctx, "cust-1", ledger.NewAmount(2000))
	require.NoError(t, err)

	balance, err := l.OutstandingBalance(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.NewAmount(1000)))
}

// =============================================================================
// PAY SINGLE DEBT TESTS
// =============================================================================

func TestPayDebt_PartialThenPaid(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	d, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	alloc, err := l.PayDebt(ctx, d.ID, ledger.NewAmount(2000))
	require.NoError(t, err)
	assert.Equal(t, ledger.DebtPartial, alloc.Changes[0].Debt.Status())
	assert.Nil(t, alloc.Changes[0].Debt.PaidAt)

	alloc, err = l.PayDebt(ctx, d.ID, ledger.NewAmount(3000))
	require.NoError(t, err)
	assert.Equal(t, ledger.DebtPaid, alloc.Changes[0].Debt.Status())
	assert.NotNil(t, alloc.Changes[0].Debt.PaidAt)
}

func TestPayDebt_PaidAtSetOnlyOnce(t *testing.T) {
	// The paid timestamp marks the transition into paid and never moves.
	l := newTestLedger(t)
	ctx := context.Background()

	d, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	alloc, err := l.PayDebt(ctx, d.ID, ledger.NewAmount(5000))
	require.NoError(t, err)
	require.NotNil(t, alloc.Changes[0].Debt.PaidAt)
	paidAt := *alloc.Changes[0].Debt.PaidAt

	_, err = l.PayDebt(ctx, d.ID, ledger.NewAmount(100))
	assert.True(t, errors.Is(err, ledger.ErrNothingToPay))

	got, err := l.Debt(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, paidAt, *got.PaidAt)
}

func TestPayDebt_OverpaymentClampsRemaining(t *testing.T) {
	// Paying 6000 against a 5000 debt zeroes it; remaining never goes
	// negative, and the full 6000 is what the payment record shows.
	l := newTestLedger(t)
	ctx := context.Background()

	d, err := l.CreateDebt(ctx, "cust-1", "Maria", oneItem(5000), ledger.NewAmount(5000))
	require.NoError(t, err)

	alloc, err := l.PayDebt(ctx, d.ID, ledger.NewAmount(6000))
	require.NoError(t, err)

	assert.True(t, alloc.Payment.Amount.Equal(ledger.NewAmount(6000)))
	assert.True(t, alloc.Allocated.Equal(ledger.NewAmount(5000)))
	assert.True(t, alloc.Leftover.Equal(ledger.NewAmount(1000)))
	assert.True(t, alloc.Changes[0].Debt.Remaining().IsZero())
	assert.Equal(t, ledger.DebtPaid, alloc.Changes[0].Debt.Status())
}

func TestPayDebt_UnknownDebt_NotFound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.PayDebt(context.Background(), "missing", ledger.NewAmount(100))

	assert.True(t, ledger.IsNotFound(err))
}
