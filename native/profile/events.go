package profile

import (
	"encoding/hex"
	"strconv"

	"socialfi/core/events"
	"socialfi/core/types"
)

const (
	// EventTypeUserInitialized is emitted when a profile is created.
	EventTypeUserInitialized = "profile.user.initialized"
	// EventTypeTipSent is emitted when a tip settles.
	EventTypeTipSent = "profile.tip.sent"
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

// UserInitializedEvent returns the payload for a freshly created profile.
func UserInitializedEvent(owner, username string, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeUserInitialized,
		Attributes: map[string]string{
			"owner":     owner,
			"username":  username,
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}

// TipSentEvent returns the payload for a settled tip.
func TipSentEvent(sender, recipient string, amount uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeTipSent,
		Attributes: map[string]string{
			"sender":    sender,
			"recipient": recipient,
			"amount":    strconv.FormatUint(amount, 10),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}
