package gov

// ProposalStatus enumerates the lifecycle phases of a proposal. Transitions
// only move forward; a proposal is never reopened.
type ProposalStatus uint8

const (
	// ProposalStatusActive identifies proposals accepting votes.
	ProposalStatusActive ProposalStatus = iota
	// ProposalStatusPassed marks proposals that met quorum and majority.
	ProposalStatusPassed
	// ProposalStatusRejected marks proposals that failed quorum or majority.
	ProposalStatusRejected
	// ProposalStatusExecuted marks proposals whose decision has been applied.
	ProposalStatusExecuted
	// ProposalStatusCancelled marks proposals withdrawn before resolution.
	ProposalStatusCancelled
)

// String implements fmt.Stringer for logs and event emission.
func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusPassed:
		return "passed"
	case ProposalStatusRejected:
		return "rejected"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ProposalCategory enumerates what a proposal intends to change.
type ProposalCategory uint8

const (
	CategoryProtocol ProposalCategory = iota
	CategoryTreasury
	CategoryFeature
	CategoryParameter
)

// Valid reports whether the category is one of the supported values.
func (c ProposalCategory) Valid() bool {
	return c <= CategoryParameter
}

// VoteType enumerates the supported ballot selections.
type VoteType uint8

const (
	VoteFor VoteType = iota
	VoteAgainst
	VoteAbstain
)

// Valid reports whether the vote type is one of the supported values.
func (v VoteType) Valid() bool {
	return v <= VoteAbstain
}

// String implements fmt.Stringer for logs and event emission.
func (v VoteType) String() string {
	switch v {
	case VoteFor:
		return "for"
	case VoteAgainst:
		return "against"
	case VoteAbstain:
		return "abstain"
	default:
		return "unknown"
	}
}

// Proposal captures one governance question, its tallies, and its deadlines.
// QuorumRequired is snapshotted at creation from the proposer's voting power
// so later stake churn cannot move the bar.
type Proposal struct {
	ID             uint64           `json:"id"`
	Proposer       [20]byte         `json:"proposer"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Category       ProposalCategory `json:"category"`
	Status         ProposalStatus   `json:"status"`
	CreatedAt      int64            `json:"createdAt"`
	VotingEndsAt   int64            `json:"votingEndsAt"`
	ExecutionDelay int64            `json:"executionDelay"`
	VotesFor       uint64           `json:"votesFor"`
	VotesAgainst   uint64           `json:"votesAgainst"`
	VotesAbstain   uint64           `json:"votesAbstain"`
	QuorumRequired uint64           `json:"quorumRequired"`
	ExecutedAt     int64            `json:"executedAt"`
}

// Clone returns a copy of the proposal.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Active reports whether the proposal is still accepting votes at now.
func (p *Proposal) Active(now int64) bool {
	return p.Status == ProposalStatusActive && now < p.VotingEndsAt
}

// Vote is the write-once record of one voter's ballot on one proposal. The
// voting power is frozen at cast time; the record's existence is itself the
// already-voted guard.
type Vote struct {
	ProposalID  uint64   `json:"proposalId"`
	Voter       [20]byte `json:"voter"`
	Type        VoteType `json:"type"`
	VotingPower uint64   `json:"votingPower"`
	VotedAt     int64    `json:"votedAt"`
}

// Clone returns a copy of the vote.
func (v *Vote) Clone() *Vote {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
