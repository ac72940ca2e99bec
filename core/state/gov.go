package state

import "socialfi/native/gov"

type storedProposal struct {
	ID             uint64
	Proposer       [20]byte
	Title          string
	Description    string
	Category       uint8
	Status         uint8
	CreatedAt      uint64
	VotingEndsAt   uint64
	ExecutionDelay uint64
	VotesFor       uint64
	VotesAgainst   uint64
	VotesAbstain   uint64
	QuorumRequired uint64
	ExecutedAt     uint64
}

func clampTimestamp(ts int64) uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func newStoredProposal(p *gov.Proposal) *storedProposal {
	if p == nil {
		p = &gov.Proposal{}
	}
	return &storedProposal{
		ID:             p.ID,
		Proposer:       p.Proposer,
		Title:          p.Title,
		Description:    p.Description,
		Category:       uint8(p.Category),
		Status:         uint8(p.Status),
		CreatedAt:      clampTimestamp(p.CreatedAt),
		VotingEndsAt:   clampTimestamp(p.VotingEndsAt),
		ExecutionDelay: clampTimestamp(p.ExecutionDelay),
		VotesFor:       p.VotesFor,
		VotesAgainst:   p.VotesAgainst,
		VotesAbstain:   p.VotesAbstain,
		QuorumRequired: p.QuorumRequired,
		ExecutedAt:     clampTimestamp(p.ExecutedAt),
	}
}

func (s *storedProposal) toProposal() *gov.Proposal {
	if s == nil {
		return &gov.Proposal{}
	}
	return &gov.Proposal{
		ID:             s.ID,
		Proposer:       s.Proposer,
		Title:          s.Title,
		Description:    s.Description,
		Category:       gov.ProposalCategory(s.Category),
		Status:         gov.ProposalStatus(s.Status),
		CreatedAt:      int64(s.CreatedAt),
		VotingEndsAt:   int64(s.VotingEndsAt),
		ExecutionDelay: int64(s.ExecutionDelay),
		VotesFor:       s.VotesFor,
		VotesAgainst:   s.VotesAgainst,
		VotesAbstain:   s.VotesAbstain,
		QuorumRequired: s.QuorumRequired,
		ExecutedAt:     int64(s.ExecutedAt),
	}
}

type storedVote struct {
	ProposalID  uint64
	Voter       [20]byte
	Type        uint8
	VotingPower uint64
	VotedAt     uint64
}

func newStoredVote(v *gov.Vote) *storedVote {
	if v == nil {
		v = &gov.Vote{}
	}
	return &storedVote{
		ProposalID:  v.ProposalID,
		Voter:       v.Voter,
		Type:        uint8(v.Type),
		VotingPower: v.VotingPower,
		VotedAt:     clampTimestamp(v.VotedAt),
	}
}

func (s *storedVote) toVote() *gov.Vote {
	if s == nil {
		return &gov.Vote{}
	}
	return &gov.Vote{
		ProposalID:  s.ProposalID,
		Voter:       s.Voter,
		Type:        gov.VoteType(s.Type),
		VotingPower: s.VotingPower,
		VotedAt:     int64(s.VotedAt),
	}
}

// GovNextProposalID allocates the next sequential proposal id, starting at 1.
func (m *Manager) GovNextProposalID() (uint64, error) {
	var counter uint64
	if _, err := m.getRecord(proposalCounterKey, &counter); err != nil {
		return 0, err
	}
	next := counter + 1
	if err := m.putRecord(proposalCounterKey, next); err != nil {
		return 0, err
	}
	return next, nil
}

// GovProposalGet loads a proposal by id.
func (m *Manager) GovProposalGet(id uint64) (*gov.Proposal, bool, error) {
	stored := new(storedProposal)
	ok, err := m.getRecord(proposalKey(id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toProposal(), true, nil
}

// GovProposalPut persists a proposal.
func (m *Manager) GovProposalPut(p *gov.Proposal) error {
	if p == nil {
		return nil
	}
	return m.putRecord(proposalKey(p.ID), newStoredProposal(p))
}

// GovProposalSlotClaim reserves the (proposer, title) pair. It returns false
// when a proposal for that pair already exists.
func (m *Manager) GovProposalSlotClaim(proposer [20]byte, title string) (bool, error) {
	key := proposalSlotKey(proposer, title)
	taken, err := m.hasRecord(key)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}
	if err := m.db.Put(key, []byte{1}); err != nil {
		return false, err
	}
	return true, nil
}

// GovVoteInsert persists the vote only if none exists for the
// (proposal, voter) pair.
func (m *Manager) GovVoteInsert(v *gov.Vote) (bool, error) {
	if v == nil {
		return false, nil
	}
	key := voteKey(v.ProposalID, v.Voter)
	taken, err := m.hasRecord(key)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}
	if err := m.putRecord(key, newStoredVote(v)); err != nil {
		return false, err
	}
	return true, nil
}

// GovVoteGet loads the vote cast by a voter on a proposal.
func (m *Manager) GovVoteGet(proposalID uint64, voter [20]byte) (*gov.Vote, bool, error) {
	stored := new(storedVote)
	ok, err := m.getRecord(voteKey(proposalID, voter), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toVote(), true, nil
}
