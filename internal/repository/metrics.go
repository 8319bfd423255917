package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var slotOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_slot_operations_total",
		Help: "Total number of persistence slot operations",
	},
	[]string{"slot", "op", "result"},
)

func recordSlotOp(slot, op, result string) {
	slotOperations.WithLabelValues(slot, op, result).Inc()
}
