package state

import "socialfi/native/staking"

type storedStakePosition struct {
	Staker      [20]byte
	Amount      uint64
	StakedAt    uint64
	LockDays    uint64
	UnlocksAt   uint64
	Rewards     uint64
	VotingPower uint64
}

func newStoredStakePosition(position *staking.StakePosition) *storedStakePosition {
	if position == nil {
		position = &staking.StakePosition{}
	}
	stakedAt := position.StakedAt
	if stakedAt < 0 {
		stakedAt = 0
	}
	unlocksAt := position.UnlocksAt
	if unlocksAt < 0 {
		unlocksAt = 0
	}
	return &storedStakePosition{
		Staker:      position.Staker,
		Amount:      position.Amount,
		StakedAt:    uint64(stakedAt),
		LockDays:    position.LockDays,
		UnlocksAt:   uint64(unlocksAt),
		Rewards:     position.Rewards,
		VotingPower: position.VotingPower,
	}
}

func (s *storedStakePosition) toPosition() *staking.StakePosition {
	if s == nil {
		return &staking.StakePosition{}
	}
	return &staking.StakePosition{
		Staker:      s.Staker,
		Amount:      s.Amount,
		StakedAt:    int64(s.StakedAt),
		LockDays:    s.LockDays,
		UnlocksAt:   int64(s.UnlocksAt),
		Rewards:     s.Rewards,
		VotingPower: s.VotingPower,
	}
}

// StakePositionGet loads the active lock for a staker.
func (m *Manager) StakePositionGet(staker [20]byte) (*staking.StakePosition, bool, error) {
	stored := new(storedStakePosition)
	ok, err := m.getRecord(stakePositionKey(staker), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toPosition(), true, nil
}

// StakePositionPut persists the active lock for a staker.
func (m *Manager) StakePositionPut(position *staking.StakePosition) error {
	if position == nil {
		return nil
	}
	return m.putRecord(stakePositionKey(position.Staker), newStoredStakePosition(position))
}

// StakePositionDelete removes a closed lock.
func (m *Manager) StakePositionDelete(staker [20]byte) error {
	return m.db.Delete(stakePositionKey(staker))
}

// VotingPowerGet reports the governance power currently backing an address.
// Addresses without an active lock have zero power.
func (m *Manager) VotingPowerGet(addr [20]byte) (uint64, error) {
	position, ok, err := m.StakePositionGet(addr)
	if err != nil || !ok {
		return 0, err
	}
	return position.VotingPower, nil
}
