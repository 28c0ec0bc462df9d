package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshesTotal counts dashboard snapshot recomputes.
	RefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apostas_dashboard_refreshes_total",
		Help: "Dashboard snapshot refreshes",
	})

	// SettledBets tracks how many settled bets fed the latest snapshot.
	SettledBets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "apostas_dashboard_settled_bets",
		Help: "Settled bets included in the latest snapshot",
	})
)
