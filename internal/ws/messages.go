package ws

import (
	"encoding/json"
	"time"

	"energy_dashboard/internal/driver"
	"energy_dashboard/internal/model"
	"energy_dashboard/internal/settings"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeSimPause        = "sim:pause"
	TypeSimResume       = "sim:resume"
	TypeSimSetInterval  = "sim:set_interval"
	TypeDeviceToggle    = "device:toggle"
	TypeDeviceSetStatus = "device:set_status"
	TypeAlertDismiss    = "alert:dismiss"
	TypeScheduleAdd     = "schedule:add"
	TypeScheduleToggle  = "schedule:toggle"
	TypeControlUpdate   = "control:update"
	TypeReportGet       = "report:get"
	TypeSettingsUpdate  = "settings:update"

	// Server -> Client
	TypeDataLoaded       = "data:loaded"
	TypeSimState         = "sim:state"
	TypeSnapshotUpdate   = "snapshot:update"
	TypeHouseholdsUpdate = "households:update"
	TypeAlertsUpdate     = "alerts:update"
	TypeSchedulesUpdate  = "schedules:update"
	TypeReportData       = "report:data"
	TypeSettingsState    = "settings:state"
)

// Client -> Server payloads

type SetIntervalPayload struct {
	Seconds int `json:"seconds"`
}

type DeviceTogglePayload struct {
	HouseholdID string `json:"household_id"`
	Device      string `json:"device"`
}

type DeviceSetStatusPayload struct {
	HouseholdID string `json:"household_id"`
	Device      string `json:"device"`
	Status      string `json:"status"`
}

type AlertDismissPayload struct {
	ID string `json:"id"`
}

type ScheduleAddPayload struct {
	Name        string   `json:"name"`
	HouseholdID string   `json:"household_id"`
	Device      string   `json:"device"`
	Action      string   `json:"action"`
	At          string   `json:"at"`
	Days        []string `json:"days"`
}

type ScheduleTogglePayload struct {
	ID string `json:"id"`
}

type ControlUpdatePayload struct {
	Category string  `json:"category"`
	Key      string  `json:"key"`
	Value    float64 `json:"value"`
}

type ReportGetPayload struct {
	Period string `json:"period"`
}

// Server -> Client payloads

type SimStatePayload struct {
	Running         bool `json:"running"`
	IntervalSeconds int  `json:"interval_seconds"`
}

// DataLoadedPayload is sent once on connect with the full current state.
type DataLoadedPayload struct {
	Snapshot   model.Snapshot                `json:"snapshot"`
	Households []model.Household             `json:"households"`
	Alerts     []model.Alert                 `json:"alerts"`
	Schedules  []model.Schedule              `json:"schedules"`
	Controls   map[string]map[string]float64 `json:"controls"`
	Settings   settings.Settings             `json:"settings"`
	State      SimStatePayload               `json:"state"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func SimStateFromDriver(s driver.State) SimStatePayload {
	return SimStatePayload{
		Running:         s.Running,
		IntervalSeconds: int(s.Interval / time.Second),
	}
}
