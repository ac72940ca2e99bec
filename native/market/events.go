package market

import (
	"encoding/hex"
	"strconv"

	"socialfi/core/events"
	"socialfi/core/types"
)

const (
	// EventTypePoolInitialized is emitted when a creator opens a share pool.
	EventTypePoolInitialized = "market.pool.initialized"
	// EventTypeSharesPurchased is emitted when a buy settles.
	EventTypeSharesPurchased = "market.shares.purchased"
	// EventTypeSharesSold is emitted when a sell settles.
	EventTypeSharesSold = "market.shares.sold"
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

// PoolInitializedEvent returns the structured payload for pool creation.
func PoolInitializedEvent(creator string, basePrice uint64, createdAt int64) *types.Event {
	return &types.Event{
		Type: EventTypePoolInitialized,
		Attributes: map[string]string{
			"creator":   creator,
			"basePrice": strconv.FormatUint(basePrice, 10),
			"createdAt": strconv.FormatInt(createdAt, 10),
		},
	}
}

// SharesPurchasedEvent returns the structured payload for a settled buy.
func SharesPurchasedEvent(buyer, creator string, amount, avgPrice, totalCost uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeSharesPurchased,
		Attributes: map[string]string{
			"buyer":     buyer,
			"creator":   creator,
			"amount":    strconv.FormatUint(amount, 10),
			"price":     strconv.FormatUint(avgPrice, 10),
			"totalCost": strconv.FormatUint(totalCost, 10),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}

// SharesSoldEvent returns the structured payload for a settled sell.
func SharesSoldEvent(seller, creator string, amount, avgPrice, received, fee uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeSharesSold,
		Attributes: map[string]string{
			"seller":    seller,
			"creator":   creator,
			"amount":    strconv.FormatUint(amount, 10),
			"price":     strconv.FormatUint(avgPrice, 10),
			"received":  strconv.FormatUint(received, 10),
			"fee":       strconv.FormatUint(fee, 10),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}
