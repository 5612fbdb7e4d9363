package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotsTotal counts generated snapshots.
	SnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_snapshots_generated_total",
			Help: "Total number of snapshots generated by the driver loop",
		},
	)

	// AlertsRaisedTotal counts alerts created by rule evaluation.
	AlertsRaisedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_alerts_raised_total",
			Help: "Total number of alerts raised",
		},
	)

	// AlertsActive tracks non-dismissed alerts.
	AlertsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "energy_alerts_active",
			Help: "Number of non-dismissed alerts",
		},
	)

	// BatteryPercent tracks the simulated battery state of charge.
	BatteryPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "energy_battery_percent",
			Help: "Current battery state of charge",
		},
	)

	// GenerationKW tracks total generation from the latest snapshot.
	GenerationKW = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "energy_generation_kw",
			Help: "Total generation in the latest snapshot",
		},
	)

	// ConsumptionKW tracks total consumption from the latest snapshot.
	ConsumptionKW = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "energy_consumption_kw",
			Help: "Total consumption in the latest snapshot",
		},
	)

	// ConnectedClients tracks WebSocket dashboard connections.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "energy_ws_clients",
			Help: "Number of connected WebSocket clients",
		},
	)
)
