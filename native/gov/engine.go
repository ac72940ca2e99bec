package gov

import (
	"errors"
	"strings"
	"time"

	"socialfi/core/events"
	"socialfi/core/types"
	nativecommon "socialfi/native/common"
)

const (
	// MinVotingPower is the floor a proposer must hold to open a proposal.
	MinVotingPower uint64 = 1_000
	// VotingPeriodSeconds is the fixed length of every voting window.
	VotingPeriodSeconds int64 = 7 * 24 * 60 * 60
	// MinExecutionDelaySeconds bounds how soon after the deadline a passed
	// proposal may execute.
	MinExecutionDelaySeconds int64 = 24 * 60 * 60
	// QuorumFactor scales the proposer's power into the quorum snapshot.
	QuorumFactor uint64 = 10
	// MaxTitleLength caps proposal titles.
	MaxTitleLength = 100
	// MaxDescriptionLength caps proposal descriptions.
	MaxDescriptionLength = 500
)

var (
	errNilState            = errors.New("gov engine: state not configured")
	errTitleRequired       = errors.New("gov engine: title required")
	errTitleTooLong        = errors.New("gov engine: proposal title too long")
	errDescriptionTooLong  = errors.New("gov engine: proposal description too long")
	errInvalidCategory     = errors.New("gov engine: invalid proposal category")
	errInvalidVoteType     = errors.New("gov engine: invalid vote type")
	errDelayTooShort       = errors.New("gov engine: execution delay below minimum")
	errInsufficientPower   = errors.New("gov engine: insufficient voting power")
	errNoVotingPower       = errors.New("gov engine: voter has zero voting power")
	errProposalExists      = errors.New("gov engine: proposal already exists for title")
	errProposalNotFound    = errors.New("gov engine: proposal not found")
	errVotingPeriodEnded   = errors.New("gov engine: voting period has ended")
	errVotingPeriodActive  = errors.New("gov engine: voting period still active")
	errAlreadyVoted        = errors.New("gov engine: already voted on this proposal")
	errProposalNotPassed   = errors.New("gov engine: proposal did not pass")
	errExecutionDelayUnmet = errors.New("gov engine: execution delay not met")
	errAlreadyExecuted     = errors.New("gov engine: proposal already executed")
)

const moduleName = "gov"

type engineState interface {
	GovNextProposalID() (uint64, error)
	GovProposalGet(id uint64) (*Proposal, bool, error)
	GovProposalPut(p *Proposal) error
	// GovProposalSlotClaim reserves the (proposer, title) pair, returning
	// false when a proposal for that pair already exists.
	GovProposalSlotClaim(proposer [20]byte, title string) (bool, error)
	// GovVoteInsert persists the vote only if none exists for the
	// (proposal, voter) pair, returning false otherwise.
	GovVoteInsert(v *Vote) (bool, error)
	GovVoteGet(proposalID uint64, voter [20]byte) (*Vote, bool, error)
	// VotingPowerGet reads the address's current derived voting power from
	// the staking records.
	VotingPowerGet(addr [20]byte) (uint64, error)
}

// Engine gates collective decisions behind quorum, strict majority, and a
// post-deadline execution delay.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine constructs a governance engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the platform pause switches consulted before every call.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// CreateProposal opens a proposal after validating the proposer's power and
// the payload bounds. The quorum requirement is snapshotted from the
// proposer's current voting power scaled by QuorumFactor.
func (e *Engine) CreateProposal(proposer [20]byte, title, description string, category ProposalCategory, executionDelay int64) (*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, errTitleRequired
	}
	if len(trimmed) > MaxTitleLength {
		return nil, errTitleTooLong
	}
	if len(description) > MaxDescriptionLength {
		return nil, errDescriptionTooLong
	}
	if !category.Valid() {
		return nil, errInvalidCategory
	}
	if executionDelay < MinExecutionDelaySeconds {
		return nil, errDelayTooShort
	}

	power, err := e.state.VotingPowerGet(proposer)
	if err != nil {
		return nil, err
	}
	if power < MinVotingPower {
		return nil, errInsufficientPower
	}
	quorum, err := nativecommon.CheckedMul(power, QuorumFactor)
	if err != nil {
		return nil, err
	}

	claimed, err := e.state.GovProposalSlotClaim(proposer, trimmed)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, errProposalExists
	}

	id, err := e.state.GovNextProposalID()
	if err != nil {
		return nil, err
	}
	now := e.now()
	proposal := &Proposal{
		ID:             id,
		Proposer:       proposer,
		Title:          trimmed,
		Description:    description,
		Category:       category,
		Status:         ProposalStatusActive,
		CreatedAt:      now,
		VotingEndsAt:   now + VotingPeriodSeconds,
		ExecutionDelay: executionDelay,
		QuorumRequired: quorum,
	}
	if err := e.state.GovProposalPut(proposal); err != nil {
		return nil, err
	}
	e.emit(ProposalCreatedEvent(proposal))
	return proposal.Clone(), nil
}

// CastVote records the voter's ballot with their power frozen at cast time.
// The vote record's uniqueness is the double-vote guard; a second ballot is
// rejected regardless of its type.
func (e *Engine) CastVote(voter [20]byte, proposalID uint64, voteType VoteType) (*Vote, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if !voteType.Valid() {
		return nil, errInvalidVoteType
	}
	proposal, ok, err := e.state.GovProposalGet(proposalID)
	if err != nil {
		return nil, err
	}
	if !ok || proposal == nil {
		return nil, errProposalNotFound
	}
	now := e.now()
	if !proposal.Active(now) {
		return nil, errVotingPeriodEnded
	}

	power, err := e.state.VotingPowerGet(voter)
	if err != nil {
		return nil, err
	}
	if power == 0 {
		return nil, errNoVotingPower
	}

	vote := &Vote{
		ProposalID:  proposalID,
		Voter:       voter,
		Type:        voteType,
		VotingPower: power,
		VotedAt:     now,
	}
	inserted, err := e.state.GovVoteInsert(vote)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, errAlreadyVoted
	}

	switch voteType {
	case VoteFor:
		if proposal.VotesFor, err = nativecommon.CheckedAdd(proposal.VotesFor, power); err != nil {
			return nil, err
		}
	case VoteAgainst:
		if proposal.VotesAgainst, err = nativecommon.CheckedAdd(proposal.VotesAgainst, power); err != nil {
			return nil, err
		}
	case VoteAbstain:
		if proposal.VotesAbstain, err = nativecommon.CheckedAdd(proposal.VotesAbstain, power); err != nil {
			return nil, err
		}
	}
	if err := e.state.GovProposalPut(proposal); err != nil {
		return nil, err
	}
	e.emit(VoteCastEvent(vote))
	return vote.Clone(), nil
}

// hasPassed evaluates the outcome purely from raw tallies so Execute stays
// idempotent-safe to re-evaluate: quorum on combined weight, then a strict
// for-majority. An exact tie never passes.
func hasPassed(p *Proposal) (bool, error) {
	total, err := nativecommon.CheckedAdd(p.VotesFor, p.VotesAgainst)
	if err != nil {
		return false, err
	}
	if total, err = nativecommon.CheckedAdd(total, p.VotesAbstain); err != nil {
		return false, err
	}
	return total >= p.QuorumRequired && p.VotesFor > p.VotesAgainst, nil
}

// ExecuteProposal applies a passed proposal once the execution delay has
// elapsed and stamps the terminal status.
func (e *Engine) ExecuteProposal(executor [20]byte, proposalID uint64) (*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	proposal, ok, err := e.state.GovProposalGet(proposalID)
	if err != nil {
		return nil, err
	}
	if !ok || proposal == nil {
		return nil, errProposalNotFound
	}
	now := e.now()
	if proposal.Active(now) {
		return nil, errVotingPeriodActive
	}
	if proposal.Status == ProposalStatusExecuted || proposal.ExecutedAt != 0 {
		return nil, errAlreadyExecuted
	}
	passed, err := hasPassed(proposal)
	if err != nil {
		return nil, err
	}
	if !passed {
		return nil, errProposalNotPassed
	}
	if now < proposal.VotingEndsAt+proposal.ExecutionDelay {
		return nil, errExecutionDelayUnmet
	}

	proposal.Status = ProposalStatusExecuted
	proposal.ExecutedAt = now
	if err := e.state.GovProposalPut(proposal); err != nil {
		return nil, err
	}
	e.emit(ProposalExecutedEvent(proposal, hexAddr(executor)))
	return proposal.Clone(), nil
}

// Proposal returns the proposal record without mutating state.
func (e *Engine) Proposal(id uint64) (*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	proposal, ok, err := e.state.GovProposalGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || proposal == nil {
		return nil, errProposalNotFound
	}
	return proposal.Clone(), nil
}

// Vote returns the recorded ballot for the (proposal, voter) pair, or nil
// when the voter has not voted.
func (e *Engine) Vote(proposalID uint64, voter [20]byte) (*Vote, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	vote, ok, err := e.state.GovVoteGet(proposalID, voter)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return vote.Clone(), nil
}
