package platform

import (
	"encoding/hex"
	"strconv"

	"socialfi/core/events"
	"socialfi/core/types"
)

const (
	// EventTypeConfigInitialized is emitted when the singleton config is created.
	EventTypeConfigInitialized = "platform.config.initialized"
	// EventTypePauseToggled is emitted when the pause switch changes.
	EventTypePauseToggled = "platform.pause.toggled"
	// EventTypeAdminUpdated is emitted when the admin role is handed over.
	EventTypeAdminUpdated = "platform.admin.updated"
	// EventTypeFeeCollectorUpdated is emitted when the revenue account changes.
	EventTypeFeeCollectorUpdated = "platform.feecollector.updated"
	// EventTypeLiquidityFloorUpdated is emitted when the market floor changes.
	EventTypeLiquidityFloorUpdated = "platform.liquidityfloor.updated"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func hexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

// ConfigInitializedEvent returns the payload for a freshly written config.
func ConfigInitializedEvent(admin, feeCollector string, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeConfigInitialized,
		Attributes: map[string]string{
			"admin":        admin,
			"feeCollector": feeCollector,
			"timestamp":    strconv.FormatInt(ts, 10),
		},
	}
}

// PauseToggledEvent returns the payload for a pause switch change.
func PauseToggledEvent(admin string, paused bool, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypePauseToggled,
		Attributes: map[string]string{
			"admin":     admin,
			"paused":    strconv.FormatBool(paused),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}

// AdminUpdatedEvent returns the payload for an admin handover.
func AdminUpdatedEvent(previous, next string, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeAdminUpdated,
		Attributes: map[string]string{
			"previousAdmin": previous,
			"newAdmin":      next,
			"timestamp":     strconv.FormatInt(ts, 10),
		},
	}
}

// FeeCollectorUpdatedEvent returns the payload for a fee collector change.
func FeeCollectorUpdatedEvent(admin, collector string, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeFeeCollectorUpdated,
		Attributes: map[string]string{
			"admin":        admin,
			"feeCollector": collector,
			"timestamp":    strconv.FormatInt(ts, 10),
		},
	}
}

// LiquidityFloorUpdatedEvent returns the payload for a liquidity floor change.
func LiquidityFloorUpdatedEvent(admin string, bps uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeLiquidityFloorUpdated,
		Attributes: map[string]string{
			"admin":     admin,
			"bps":       strconv.FormatUint(bps, 10),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}
