package ws

import (
	"go.uber.org/zap"

	"energy_dashboard/internal/driver"
	"energy_dashboard/internal/model"
)

// Bridge implements driver.Callback and broadcasts events to the hub.
type Bridge struct {
	hub *Hub
	log *zap.Logger
}

func NewBridge(hub *Hub, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{hub: hub, log: log}
}

func (b *Bridge) OnState(s driver.State) {
	b.broadcast(TypeSimState, SimStateFromDriver(s))
}

func (b *Bridge) OnSnapshot(snap model.Snapshot) {
	b.broadcast(TypeSnapshotUpdate, snap)
}

func (b *Bridge) OnHouseholds(households []model.Household) {
	b.broadcast(TypeHouseholdsUpdate, households)
}

func (b *Bridge) OnAlerts(alerts []model.Alert) {
	b.broadcast(TypeAlertsUpdate, alerts)
}

func (b *Bridge) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		b.log.Error("marshaling broadcast", zap.String("type", msgType), zap.Error(err))
		return
	}
	b.hub.Broadcast(msg)
}
