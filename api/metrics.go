package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation counters exposed on /metrics. Balances are derived values and
// are not exported as gauges.
var (
	debtsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_debts_created_total",
		Help: "Customer debts created.",
	})

	paymentsAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_payments_allocated_total",
		Help: "Customer payments applied across outstanding debts.",
	})

	settlementsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_settlements_recorded_total",
		Help: "Employee settlements recorded.",
	})

	operationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_rejected_total",
		Help: "Ledger operations rejected before any write, by reason.",
	}, []string{"reason"})
)
