package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"energy_dashboard/internal/driver"
	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/model"
	"energy_dashboard/internal/sched"
	"energy_dashboard/internal/settings"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes client commands to the
// model, driver, scheduler and settings store.
type Handler struct {
	hub      *Hub
	model    *energy.Model
	driver   *driver.Driver
	store    *settings.Store
	executor *sched.Executor
	log      *zap.Logger
}

func NewHandler(hub *Hub, m *energy.Model, d *driver.Driver, store *settings.Store, executor *sched.Executor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{hub: hub, model: m, driver: d, store: store, executor: executor, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.sendDataLoaded(client)
	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.log.Warn("invalid message", zap.Error(err))
		return
	}

	switch env.Type {
	case TypeSimResume:
		h.driver.Start()

	case TypeSimPause:
		h.driver.Pause()

	case TypeSimSetInterval:
		var p SetIntervalPayload
		if !h.decode(env, &p) {
			return
		}
		h.driver.SetInterval(time.Duration(p.Seconds) * time.Second)

	case TypeDeviceToggle:
		var p DeviceTogglePayload
		if !h.decode(env, &p) {
			return
		}
		if !h.model.ToggleDevice(p.HouseholdID, p.Device) {
			h.log.Warn("toggle failed", zap.String("household", p.HouseholdID), zap.String("device", p.Device))
			return
		}
		h.broadcast(TypeHouseholdsUpdate, h.model.HouseholdData())

	case TypeDeviceSetStatus:
		var p DeviceSetStatusPayload
		if !h.decode(env, &p) {
			return
		}
		if !h.model.SetDeviceStatus(p.HouseholdID, p.Device, model.DeviceStatus(p.Status)) {
			h.log.Warn("set status failed", zap.String("household", p.HouseholdID), zap.String("device", p.Device))
			return
		}
		h.broadcast(TypeHouseholdsUpdate, h.model.HouseholdData())

	case TypeAlertDismiss:
		var p AlertDismissPayload
		if !h.decode(env, &p) {
			return
		}
		if !h.model.DismissAlert(p.ID) {
			h.log.Warn("dismiss failed", zap.String("id", p.ID))
			return
		}
		h.broadcast(TypeAlertsUpdate, h.model.AlertsData())

	case TypeScheduleAdd:
		var p ScheduleAddPayload
		if !h.decode(env, &p) {
			return
		}
		h.model.AddSchedule(model.Schedule{
			Name:        p.Name,
			HouseholdID: p.HouseholdID,
			Device:      p.Device,
			Action:      model.DeviceStatus(p.Action),
			At:          p.At,
			Days:        p.Days,
		})
		h.executor.Reload()
		h.broadcast(TypeSchedulesUpdate, h.model.Schedules())

	case TypeScheduleToggle:
		var p ScheduleTogglePayload
		if !h.decode(env, &p) {
			return
		}
		if !h.model.ToggleSchedule(p.ID) {
			h.log.Warn("schedule toggle failed", zap.String("id", p.ID))
			return
		}
		h.executor.Reload()
		h.broadcast(TypeSchedulesUpdate, h.model.Schedules())

	case TypeControlUpdate:
		var p ControlUpdatePayload
		if !h.decode(env, &p) {
			return
		}
		if !h.model.UpdateControlSetting(p.Category, p.Key, p.Value) {
			h.log.Warn("control update failed", zap.String("category", p.Category), zap.String("key", p.Key))
		}

	case TypeReportGet:
		var p ReportGetPayload
		if !h.decode(env, &p) {
			return
		}
		report, ok := h.model.ReportData(model.Period(p.Period))
		if !ok {
			h.log.Warn("unknown report period", zap.String("period", p.Period))
			return
		}
		h.sendTo(c, TypeReportData, report)

	case TypeSettingsUpdate:
		var p settings.Settings
		if !h.decode(env, &p) {
			return
		}
		if err := h.store.Update(p); err != nil {
			h.log.Warn("settings update failed", zap.Error(err))
			return
		}
		h.driver.SetInterval(time.Duration(p.Dashboard.UpdateFrequencySec) * time.Second)
		h.broadcast(TypeSettingsState, h.store.Current())

	default:
		h.log.Warn("unknown message type", zap.String("type", env.Type))
	}
}

func (h *Handler) decode(env Envelope, out any) bool {
	if err := json.Unmarshal(env.Payload, out); err != nil {
		h.log.Warn("invalid payload", zap.String("type", env.Type), zap.Error(err))
		return false
	}
	return true
}

func (h *Handler) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.log.Error("marshaling broadcast", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.hub.Broadcast(msg)
}

func (h *Handler) sendTo(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.log.Error("marshaling reply", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (h *Handler) sendDataLoaded(c *Client) {
	h.sendTo(c, TypeDataLoaded, DataLoadedPayload{
		Snapshot:   h.model.CurrentData(),
		Households: h.model.HouseholdData(),
		Alerts:     h.model.AlertsData(),
		Schedules:  h.model.Schedules(),
		Controls:   h.model.ControlSettings(),
		Settings:   h.store.Current(),
		State:      SimStateFromDriver(h.driver.State()),
	})
}
