package gov

import (
	"encoding/hex"
	"strconv"

	"socialfi/core/events"
	"socialfi/core/types"
)

const (
	// EventTypeProposalCreated is emitted when a proposal opens for voting.
	EventTypeProposalCreated = "gov.proposal.created"
	// EventTypeVoteCast is emitted when a ballot is recorded.
	EventTypeVoteCast = "gov.vote.cast"
	// EventTypeProposalExecuted is emitted when a passed proposal executes.
	EventTypeProposalExecuted = "gov.proposal.executed"
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

// ProposalCreatedEvent returns the structured payload for a new proposal.
func ProposalCreatedEvent(p *Proposal) *types.Event {
	attrs := make(map[string]string)
	if p != nil {
		attrs["id"] = strconv.FormatUint(p.ID, 10)
		attrs["proposer"] = hexAddr(p.Proposer)
		attrs["title"] = p.Title
		attrs["category"] = strconv.FormatUint(uint64(p.Category), 10)
		attrs["votingEndsAt"] = strconv.FormatInt(p.VotingEndsAt, 10)
		attrs["quorumRequired"] = strconv.FormatUint(p.QuorumRequired, 10)
	}
	return &types.Event{Type: EventTypeProposalCreated, Attributes: attrs}
}

// VoteCastEvent returns the structured payload for a recorded ballot.
func VoteCastEvent(v *Vote) *types.Event {
	attrs := make(map[string]string)
	if v != nil {
		attrs["id"] = strconv.FormatUint(v.ProposalID, 10)
		attrs["voter"] = hexAddr(v.Voter)
		attrs["type"] = v.Type.String()
		attrs["votingPower"] = strconv.FormatUint(v.VotingPower, 10)
		attrs["timestamp"] = strconv.FormatInt(v.VotedAt, 10)
	}
	return &types.Event{Type: EventTypeVoteCast, Attributes: attrs}
}

// ProposalExecutedEvent returns the structured payload for execution.
func ProposalExecutedEvent(p *Proposal, executor string) *types.Event {
	attrs := map[string]string{"executor": executor}
	if p != nil {
		attrs["id"] = strconv.FormatUint(p.ID, 10)
		attrs["status"] = p.Status.String()
		attrs["votesFor"] = strconv.FormatUint(p.VotesFor, 10)
		attrs["votesAgainst"] = strconv.FormatUint(p.VotesAgainst, 10)
		attrs["executedAt"] = strconv.FormatInt(p.ExecutedAt, 10)
	}
	return &types.Event{Type: EventTypeProposalExecuted, Attributes: attrs}
}
