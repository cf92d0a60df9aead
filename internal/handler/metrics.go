package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_purchases_total",
			Help: "Total number of successful diamond purchases by product and platform.",
		},
		[]string{"product", "platform"},
	)

	inventoriesProvisionedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameplay_inventories_provisioned_total",
		Help: "Total number of newly created user inventories.",
	})

	progressResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameplay_progress_resets_total",
		Help: "Total number of administrative progress resets.",
	})
)
