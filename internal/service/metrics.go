package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of cart mutations by operation",
		},
		[]string{"op"},
	)

	activeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_clients",
		Help: "Number of clients held in memory",
	})

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Total number of orders placed",
	})

	scentSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_scent_sessions_total",
			Help: "Total number of finished scent finder sessions by outcome",
		},
		[]string{"outcome"},
	)
)
