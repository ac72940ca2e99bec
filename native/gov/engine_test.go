package gov

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	nativecommon "socialfi/native/common"
)

type mockState struct {
	counter   uint64
	proposals map[uint64]*Proposal
	votes     map[string]*Vote
	slots     map[string]struct{}
	powers    map[[20]byte]uint64
}

func newMockState() *mockState {
	return &mockState{
		proposals: make(map[uint64]*Proposal),
		votes:     make(map[string]*Vote),
		slots:     make(map[string]struct{}),
		powers:    make(map[[20]byte]uint64),
	}
}

func (m *mockState) GovNextProposalID() (uint64, error) {
	m.counter++
	return m.counter, nil
}

func (m *mockState) GovProposalGet(id uint64) (*Proposal, bool, error) {
	proposal, ok := m.proposals[id]
	if !ok {
		return nil, false, nil
	}
	return proposal.Clone(), true, nil
}

func (m *mockState) GovProposalPut(p *Proposal) error {
	if p == nil {
		return nil
	}
	m.proposals[p.ID] = p.Clone()
	return nil
}

func slotKey(proposer [20]byte, title string) string {
	return string(proposer[:]) + "|" + title
}

func (m *mockState) GovProposalSlotClaim(proposer [20]byte, title string) (bool, error) {
	key := slotKey(proposer, title)
	if _, ok := m.slots[key]; ok {
		return false, nil
	}
	m.slots[key] = struct{}{}
	return true, nil
}

func voteMapKey(proposalID uint64, voter [20]byte) string {
	return strconv.FormatUint(proposalID, 10) + "|" + string(voter[:])
}

func (m *mockState) GovVoteInsert(v *Vote) (bool, error) {
	if v == nil {
		return false, nil
	}
	key := voteMapKey(v.ProposalID, v.Voter)
	if _, ok := m.votes[key]; ok {
		return false, nil
	}
	m.votes[key] = v.Clone()
	return true, nil
}

func (m *mockState) GovVoteGet(proposalID uint64, voter [20]byte) (*Vote, bool, error) {
	vote, ok := m.votes[voteMapKey(proposalID, voter)]
	if !ok {
		return nil, false, nil
	}
	return vote.Clone(), true, nil
}

func (m *mockState) VotingPowerGet(addr [20]byte) (uint64, error) {
	return m.powers[addr], nil
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

type pausedView struct{}

func (pausedView) IsPaused(string) bool { return true }

func newTestEngine(state *mockState, now *int64) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return *now })
	return engine
}

func TestCreateProposalRequiresPower(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)

	state.powers[proposer] = MinVotingPower - 1
	if _, err := engine.CreateProposal(proposer, "raise fees", "", CategoryParameter, MinExecutionDelaySeconds); !errors.Is(err, errInsufficientPower) {
		t.Fatalf("expected insufficient power, got %v", err)
	}

	state.powers[proposer] = MinVotingPower
	proposal, err := engine.CreateProposal(proposer, "raise fees", "", CategoryParameter, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if proposal.ID != 1 {
		t.Fatalf("first proposal id = %d, want 1", proposal.ID)
	}
	if proposal.QuorumRequired != MinVotingPower*QuorumFactor {
		t.Fatalf("quorum = %d, want %d", proposal.QuorumRequired, MinVotingPower*QuorumFactor)
	}
	if proposal.VotingEndsAt != now+VotingPeriodSeconds {
		t.Fatalf("voting deadline = %d", proposal.VotingEndsAt)
	}
}

func TestCreateProposalValidation(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	state.powers[proposer] = 5_000

	if _, err := engine.CreateProposal(proposer, "  ", "", CategoryProtocol, MinExecutionDelaySeconds); !errors.Is(err, errTitleRequired) {
		t.Fatalf("expected title required, got %v", err)
	}
	long := strings.Repeat("a", MaxTitleLength+1)
	if _, err := engine.CreateProposal(proposer, long, "", CategoryProtocol, MinExecutionDelaySeconds); !errors.Is(err, errTitleTooLong) {
		t.Fatalf("expected title too long, got %v", err)
	}
	if _, err := engine.CreateProposal(proposer, "ok", strings.Repeat("d", MaxDescriptionLength+1), CategoryProtocol, MinExecutionDelaySeconds); !errors.Is(err, errDescriptionTooLong) {
		t.Fatalf("expected description too long, got %v", err)
	}
	if _, err := engine.CreateProposal(proposer, "ok", "", ProposalCategory(9), MinExecutionDelaySeconds); !errors.Is(err, errInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
	if _, err := engine.CreateProposal(proposer, "ok", "", CategoryProtocol, MinExecutionDelaySeconds-1); !errors.Is(err, errDelayTooShort) {
		t.Fatalf("expected delay too short, got %v", err)
	}
}

func TestCreateProposalDuplicateTitle(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	state.powers[proposer] = 5_000

	if _, err := engine.CreateProposal(proposer, "same title", "", CategoryTreasury, MinExecutionDelaySeconds); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.CreateProposal(proposer, "same title", "", CategoryTreasury, MinExecutionDelaySeconds); !errors.Is(err, errProposalExists) {
		t.Fatalf("expected duplicate proposal, got %v", err)
	}

	// A different proposer can reuse the title.
	other := addr(0x02)
	state.powers[other] = 5_000
	if _, err := engine.CreateProposal(other, "same title", "", CategoryTreasury, MinExecutionDelaySeconds); err != nil {
		t.Fatalf("distinct proposer blocked: %v", err)
	}
}

func TestCastVoteTalliesAndFreezesPower(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	voter := addr(0x02)
	state.powers[proposer] = 1_000
	state.powers[voter] = 7_000

	proposal, err := engine.CreateProposal(proposer, "upgrade", "", CategoryFeature, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	vote, err := engine.CastVote(voter, proposal.ID, VoteFor)
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if vote.VotingPower != 7_000 {
		t.Fatalf("vote power = %d, want 7000", vote.VotingPower)
	}

	// Later power changes must not affect the recorded ballot or tally.
	state.powers[voter] = 1
	updated := state.proposals[proposal.ID]
	if updated.VotesFor != 7_000 {
		t.Fatalf("tally = %d, want 7000", updated.VotesFor)
	}

	if _, err := engine.CastVote(voter, proposal.ID, VoteAgainst); !errors.Is(err, errAlreadyVoted) {
		t.Fatalf("expected double-vote rejection, got %v", err)
	}
}

func TestCastVoteGuards(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	voter := addr(0x02)
	state.powers[proposer] = 1_000
	state.powers[voter] = 500

	proposal, err := engine.CreateProposal(proposer, "upgrade", "", CategoryFeature, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := engine.CastVote(voter, 99, VoteFor); !errors.Is(err, errProposalNotFound) {
		t.Fatalf("expected missing proposal, got %v", err)
	}
	if _, err := engine.CastVote(voter, proposal.ID, VoteType(9)); !errors.Is(err, errInvalidVoteType) {
		t.Fatalf("expected invalid vote type, got %v", err)
	}

	powerless := addr(0x03)
	if _, err := engine.CastVote(powerless, proposal.ID, VoteFor); !errors.Is(err, errNoVotingPower) {
		t.Fatalf("expected zero-power rejection, got %v", err)
	}

	now = proposal.VotingEndsAt
	if _, err := engine.CastVote(voter, proposal.ID, VoteFor); !errors.Is(err, errVotingPeriodEnded) {
		t.Fatalf("vote at the deadline should be rejected, got %v", err)
	}
}

func TestExecuteProposalLifecycle(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	voter := addr(0x02)
	state.powers[proposer] = 1_000
	state.powers[voter] = 20_000

	proposal, err := engine.CreateProposal(proposer, "upgrade", "", CategoryProtocol, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.CastVote(voter, proposal.ID, VoteFor); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	if _, err := engine.ExecuteProposal(proposer, proposal.ID); !errors.Is(err, errVotingPeriodActive) {
		t.Fatalf("expected active-period rejection, got %v", err)
	}

	now = proposal.VotingEndsAt
	if _, err := engine.ExecuteProposal(proposer, proposal.ID); !errors.Is(err, errExecutionDelayUnmet) {
		t.Fatalf("expected delay rejection, got %v", err)
	}

	now = proposal.VotingEndsAt + proposal.ExecutionDelay
	executed, err := engine.ExecuteProposal(proposer, proposal.ID)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if executed.Status != ProposalStatusExecuted || executed.ExecutedAt != now {
		t.Fatalf("executed proposal wrong: %+v", executed)
	}

	if _, err := engine.ExecuteProposal(proposer, proposal.ID); !errors.Is(err, errAlreadyExecuted) {
		t.Fatalf("expected already-executed rejection, got %v", err)
	}
}

func TestExecuteProposalQuorumAndMajority(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	forVoter := addr(0x02)
	againstVoter := addr(0x03)
	state.powers[proposer] = 1_000
	state.powers[forVoter] = 5_000
	state.powers[againstVoter] = 5_000

	proposal, err := engine.CreateProposal(proposer, "contested", "", CategoryTreasury, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.CastVote(forVoter, proposal.ID, VoteFor); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := engine.CastVote(againstVoter, proposal.ID, VoteAgainst); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	// Quorum met (10000 >= 10000) but an exact tie never passes.
	now = proposal.VotingEndsAt + proposal.ExecutionDelay
	if _, err := engine.ExecuteProposal(proposer, proposal.ID); !errors.Is(err, errProposalNotPassed) {
		t.Fatalf("tie should not pass, got %v", err)
	}
}

func TestExecuteProposalBelowQuorum(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	voter := addr(0x02)
	state.powers[proposer] = 1_000
	state.powers[voter] = 9_999 // one short of quorum

	proposal, err := engine.CreateProposal(proposer, "quiet", "", CategoryParameter, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.CastVote(voter, proposal.ID, VoteFor); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	now = proposal.VotingEndsAt + proposal.ExecutionDelay
	if _, err := engine.ExecuteProposal(proposer, proposal.ID); !errors.Is(err, errProposalNotPassed) {
		t.Fatalf("below-quorum proposal should not pass, got %v", err)
	}
}

func TestAbstainCountsTowardQuorum(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	proposer := addr(0x01)
	forVoter := addr(0x02)
	abstainer := addr(0x03)
	state.powers[proposer] = 1_000
	state.powers[forVoter] = 4_000
	state.powers[abstainer] = 6_000

	proposal, err := engine.CreateProposal(proposer, "mixed", "", CategoryFeature, MinExecutionDelaySeconds)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.CastVote(forVoter, proposal.ID, VoteFor); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := engine.CastVote(abstainer, proposal.ID, VoteAbstain); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	now = proposal.VotingEndsAt + proposal.ExecutionDelay
	executed, err := engine.ExecuteProposal(proposer, proposal.ID)
	if err != nil {
		t.Fatalf("abstain-backed quorum should pass: %v", err)
	}
	if executed.Status != ProposalStatusExecuted {
		t.Fatalf("status = %v, want executed", executed.Status)
	}
}

func TestGovPauseGuard(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	engine.SetPauses(pausedView{})

	if _, err := engine.CreateProposal(addr(0x01), "x", "", CategoryProtocol, MinExecutionDelaySeconds); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
	if _, err := engine.CastVote(addr(0x01), 1, VoteFor); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
	if _, err := engine.ExecuteProposal(addr(0x01), 1); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
}
