package energy

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"energy_dashboard/internal/model"
)

const (
	maxAlerts     = 50
	dedupWindow   = 5 * time.Minute
	batteryCrit   = 20.0
	batteryWarn   = 30.0
	gridLoadLimit = 80.0
)

const (
	titleBatteryCritical = "Critical Battery Level"
	titleBatteryLow      = "Low Battery Warning"
	titleGridLoadHigh    = "High Grid Load"
)

// checkAlerts evaluates threshold rules against the snapshot and inserts new
// alerts at the front of m.alerts, newest first. Must be called with m.mu
// held. Returns the alerts created by this evaluation.
func (m *Model) checkAlerts(snap model.Snapshot) []model.Alert {
	var created []model.Alert

	if snap.Battery.Percentage < batteryCrit {
		created = m.raiseAlert(created, model.AlertCritical, titleBatteryCritical,
			fmt.Sprintf("Battery at %.1f%%, below the %.0f%% critical threshold", snap.Battery.Percentage, batteryCrit),
			snap.Timestamp)
	} else if snap.Battery.Percentage < batteryWarn {
		created = m.raiseAlert(created, model.AlertWarning, titleBatteryLow,
			fmt.Sprintf("Battery at %.1f%%, below the %.0f%% warning threshold", snap.Battery.Percentage, batteryWarn),
			snap.Timestamp)
	}

	if snap.Grid.LoadPercent > gridLoadLimit {
		created = m.raiseAlert(created, model.AlertWarning, titleGridLoadHigh,
			fmt.Sprintf("Grid load at %.1f%%, above the %.0f%% limit", snap.Grid.LoadPercent, gridLoadLimit),
			snap.Timestamp)
	}

	return created
}

// raiseAlert inserts an alert unless a non-dismissed alert with the same
// title exists within the dedup window. Keeps the list capped at maxAlerts.
func (m *Model) raiseAlert(created []model.Alert, typ model.AlertType, title, message string, now time.Time) []model.Alert {
	for _, a := range m.alerts {
		if a.Title == title && !a.Dismissed && now.Sub(a.Timestamp) < dedupWindow {
			return created
		}
	}

	alert := model.Alert{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: now,
	}

	m.alerts = append([]model.Alert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}
	return append(created, alert)
}

// DismissAlert marks an alert dismissed. Returns false for unknown ids.
func (m *Model) DismissAlert(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].Dismissed = true
			return true
		}
	}
	return false
}

// AlertsData returns a copy of all alerts, newest first.
func (m *Model) AlertsData() []model.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// ActiveAlertCount returns the number of non-dismissed alerts.
func (m *Model) ActiveAlertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, a := range m.alerts {
		if !a.Dismissed {
			n++
		}
	}
	return n
}
