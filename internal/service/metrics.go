package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chaptersStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameplay_chapters_started_total",
		Help: "Total number of started chapters.",
	})

	choicesMadeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_choices_made_total",
			Help: "Total number of applied choices by currency (free for choices without cost).",
		},
		[]string{"currency"},
	)

	scenesAdvancedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameplay_scenes_advanced_total",
		Help: "Total number of auto-advanced scenes.",
	})

	currencyDeductedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_currency_deducted_total",
			Help: "Total amount of currency deducted from user inventories.",
		},
		[]string{"currency"},
	)

	currencyCreditedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_currency_credited_total",
			Help: "Total amount of currency credited to user inventories.",
		},
		[]string{"currency"},
	)
)
