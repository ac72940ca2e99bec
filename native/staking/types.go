package staking

// Lock durations accepted by the engine, in days. Anything else is rejected.
const (
	Lock0Days   uint64 = 0
	Lock30Days  uint64 = 30
	Lock90Days  uint64 = 90
	Lock180Days uint64 = 180
	Lock365Days uint64 = 365
)

const (
	// SecondsPerDay converts lock durations to unlock timestamps.
	SecondsPerDay uint64 = 86_400
	// SecondsPerYear anchors the APY accrual formula.
	SecondsPerYear uint64 = 31_536_000
	// BpsDenominator converts basis points to fractions.
	BpsDenominator uint64 = 10_000
)

// multiplierBps maps a lock duration to the voting-power scaling factor.
// Longer commitment buys proportionally more influence, up to 3x.
var multiplierBps = map[uint64]uint64{
	Lock0Days:   10_000,
	Lock30Days:  12_000,
	Lock90Days:  15_000,
	Lock180Days: 20_000,
	Lock365Days: 30_000,
}

// apyBps maps a lock duration to the reward accrual rate.
var apyBps = map[uint64]uint64{
	Lock0Days:   500,
	Lock30Days:  1_000,
	Lock90Days:  1_500,
	Lock180Days: 2_000,
	Lock365Days: 3_000,
}

// StakePosition is the single active lock a staker may hold. It is read-only
// between creation and unlock; adding funds requires closing it first.
type StakePosition struct {
	Staker      [20]byte `json:"staker"`
	Amount      uint64   `json:"amount"`
	StakedAt    int64    `json:"stakedAt"`
	LockDays    uint64   `json:"lockDays"`
	UnlocksAt   int64    `json:"unlocksAt"`
	Rewards     uint64   `json:"rewards"`
	VotingPower uint64   `json:"votingPower"`
}

// Clone returns a copy of the position.
func (p *StakePosition) Clone() *StakePosition {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Unlocked reports whether the position can be closed at the given time.
func (p *StakePosition) Unlocked(now int64) bool {
	return now >= p.UnlocksAt
}

// UnstakeResult reports the principal and accrued rewards released when a
// position closes. Settlement of the funds themselves is delegated to the
// token escrow collaborator.
type UnstakeResult struct {
	Staker    [20]byte `json:"staker"`
	Principal uint64   `json:"principal"`
	Rewards   uint64   `json:"rewards"`
	Total     uint64   `json:"total"`
	Timestamp int64    `json:"timestamp"`
}
