package staking

import (
	"encoding/hex"
	"strconv"

	"socialfi/core/events"
	"socialfi/core/types"
)

const (
	// EventTypeTokensStaked is emitted when a lock position opens.
	EventTypeTokensStaked = "staking.tokens.staked"
	// EventTypeTokensUnstaked is emitted when a lock position closes.
	EventTypeTokensUnstaked = "staking.tokens.unstaked"
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

// TokensStakedEvent returns the structured payload for a new lock.
func TokensStakedEvent(staker string, amount, lockDays, votingPower uint64, unlocksAt, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeTokensStaked,
		Attributes: map[string]string{
			"staker":      staker,
			"amount":      strconv.FormatUint(amount, 10),
			"lockDays":    strconv.FormatUint(lockDays, 10),
			"votingPower": strconv.FormatUint(votingPower, 10),
			"unlocksAt":   strconv.FormatInt(unlocksAt, 10),
			"timestamp":   strconv.FormatInt(ts, 10),
		},
	}
}

// TokensUnstakedEvent returns the structured payload for a closed lock.
func TokensUnstakedEvent(staker string, amount, rewards uint64, ts int64) *types.Event {
	return &types.Event{
		Type: EventTypeTokensUnstaked,
		Attributes: map[string]string{
			"staker":    staker,
			"amount":    strconv.FormatUint(amount, 10),
			"rewards":   strconv.FormatUint(rewards, 10),
			"timestamp": strconv.FormatInt(ts, 10),
		},
	}
}
