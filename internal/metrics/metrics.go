// Package metrics exposes the operational metrics of the trading server in
// Prometheus format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsActive tracks the currently connected client sessions.
	SessionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "trading_sessions_active",
		Help: "Number of currently active client sessions.",
	}, []string{"protocol"})

	// SessionsTotal counts all client sessions ever started.
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_sessions_total",
		Help: "Total number of client sessions started.",
	}, []string{"protocol"})

	// MessagesReceived counts inbound protocol messages by kind.
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_messages_received_total",
		Help: "Total number of protocol messages received.",
	}, []string{"kind"})

	// LeasesGranted counts volume leases handed out by the money management.
	LeasesGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trading_volume_leases_granted_total",
		Help: "Total number of volume leases granted.",
	})

	// LeasesReleased counts volume leases returned. In a healthy server this
	// converges against LeasesGranted.
	LeasesReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trading_volume_leases_released_total",
		Help: "Total number of volume leases released.",
	})

	// VolumeLeased tracks the volume currently lent out, in base units.
	VolumeLeased = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trading_volume_leased",
		Help: "Trading volume currently lent out, in base units.",
	})

	// TradesCompleted counts trades that reached a terminal state.
	TradesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_trades_completed_total",
		Help: "Total number of completed trades by symbol and outcome.",
	}, []string{"symbol", "outcome"})

	// FaultsTotal counts session faults by classification.
	FaultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_session_faults_total",
		Help: "Total number of session faults by classification.",
	}, []string{"class"})
)
