package subscription

import (
	"encoding/hex"
	"strconv"

	"socialfi/core/events"
	"socialfi/core/types"
)

const (
	// EventTypeTierCreated is emitted when a creator registers an offering.
	EventTypeTierCreated = "subscription.tier.created"
	// EventTypeSubscribed is emitted when a paid membership opens.
	EventTypeSubscribed = "subscription.subscribed"
	// EventTypeCancelled is emitted when a membership is ended early.
	EventTypeCancelled = "subscription.cancelled"
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

// TierCreatedEvent returns the payload for a new tier.
func TierCreatedEvent(creator string, tierID uint64, name string, price uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeTierCreated,
		Attributes: map[string]string{
			"creator":   creator,
			"tierId":    strconv.FormatUint(tierID, 10),
			"name":      name,
			"price":     strconv.FormatUint(price, 10),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}

// SubscribedEvent returns the payload for an opened membership.
func SubscribedEvent(subscriber, creator string, tierID uint64, startDate, endDate int64) *types.Event {
	return &types.Event{
		Type: EventTypeSubscribed,
		Attributes: map[string]string{
			"subscriber": subscriber,
			"creator":    creator,
			"tierId":     strconv.FormatUint(tierID, 10),
			"startDate":  strconv.FormatInt(startDate, 10),
			"endDate":    strconv.FormatInt(endDate, 10),
		},
	}
}

// CancelledEvent returns the payload for an early cancellation.
func CancelledEvent(subscriber, creator string, tierID uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeCancelled,
		Attributes: map[string]string{
			"subscriber": subscriber,
			"creator":    creator,
			"tierId":     strconv.FormatUint(tierID, 10),
			"timestamp":  strconv.FormatInt(ts, 10),
		},
	}
}
