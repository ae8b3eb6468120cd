// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StockAdjustments counts committed stock mutations by direction.
	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_adjustments_total",
		Help: "Committed stock adjustments by transaction type.",
	}, []string{"type"})

	// LedgerAppends counts ledger entries written, by transaction type.
	LedgerAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_ledger_appends_total",
		Help: "Ledger entries appended by transaction type.",
	}, []string{"type"})

	// LedgerWriteFailures counts best-effort ledger writes that failed after
	// the primary write committed (initial-stock bootstrap entries).
	LedgerWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_ledger_write_failures_total",
		Help: "Best-effort ledger writes that failed after the item write committed.",
	})

	// ItemsDeleted counts completed item-deletion protocols.
	ItemsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_deleted_total",
		Help: "Items removed through the deletion protocol.",
	})

	// Logins counts authentication attempts by outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_logins_total",
		Help: "Login attempts by outcome (success or failure).",
	}, []string{"outcome"})
)
