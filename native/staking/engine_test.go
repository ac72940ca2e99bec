package staking

import (
	"errors"
	"testing"

	nativecommon "socialfi/native/common"
)

type mockState struct {
	positions map[string]*StakePosition
}

func newMockState() *mockState {
	return &mockState{positions: make(map[string]*StakePosition)}
}

func (m *mockState) StakePositionGet(staker [20]byte) (*StakePosition, bool, error) {
	position, ok := m.positions[string(staker[:])]
	if !ok {
		return nil, false, nil
	}
	return position.Clone(), true, nil
}

func (m *mockState) StakePositionPut(position *StakePosition) error {
	if position == nil {
		return nil
	}
	m.positions[string(position.Staker[:])] = position.Clone()
	return nil
}

func (m *mockState) StakePositionDelete(staker [20]byte) error {
	delete(m.positions, string(staker[:]))
	return nil
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

type pausedView struct{}

func (pausedView) IsPaused(string) bool { return true }

func TestComputeVotingPowerTiers(t *testing.T) {
	cases := []struct {
		lockDays uint64
		amount   uint64
		want     uint64
	}{
		{Lock0Days, 1_000, 1_000},
		{Lock30Days, 1_000, 1_200},
		{Lock90Days, 1_000, 1_500},
		{Lock180Days, 1_000, 2_000},
		{Lock365Days, 1_000, 3_000},
	}
	for _, tc := range cases {
		got, err := ComputeVotingPower(tc.amount, tc.lockDays)
		if err != nil {
			t.Fatalf("ComputeVotingPower(%d, %d) failed: %v", tc.amount, tc.lockDays, err)
		}
		if got != tc.want {
			t.Fatalf("ComputeVotingPower(%d, %d) = %d, want %d", tc.amount, tc.lockDays, got, tc.want)
		}
	}
}

func TestVotingPowerMonotonicInLock(t *testing.T) {
	locks := []uint64{Lock0Days, Lock30Days, Lock90Days, Lock180Days, Lock365Days}
	var previous uint64
	for _, lock := range locks {
		power, err := ComputeVotingPower(10_000, lock)
		if err != nil {
			t.Fatalf("ComputeVotingPower failed: %v", err)
		}
		if power <= previous && lock != Lock0Days {
			t.Fatalf("power for %d-day lock (%d) not above shorter lock (%d)", lock, power, previous)
		}
		previous = power
	}
}

func TestStakeOpensSinglePosition(t *testing.T) {
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return 1_000 })
	staker := addr(0x01)

	position, err := engine.Stake(staker, 1_000, Lock90Days)
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if position.VotingPower != 1_500 {
		t.Fatalf("voting power = %d, want 1500", position.VotingPower)
	}
	if position.UnlocksAt != 1_000+90*86_400 {
		t.Fatalf("unlock timestamp = %d", position.UnlocksAt)
	}

	if _, err := engine.Stake(staker, 500, Lock0Days); !errors.Is(err, errPositionExists) {
		t.Fatalf("expected single-position error, got %v", err)
	}
}

func TestStakeValidation(t *testing.T) {
	engine := NewEngine()
	engine.SetState(newMockState())

	if _, err := engine.Stake(addr(0x01), 0, Lock30Days); !errors.Is(err, errInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := engine.Stake(addr(0x01), 1_000, 45); !errors.Is(err, errInvalidLock) {
		t.Fatalf("expected invalid lock, got %v", err)
	}
}

func TestUnstakeBeforeUnlockRejected(t *testing.T) {
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	now := int64(1_000)
	engine.SetNowFunc(func() int64 { return now })
	staker := addr(0x01)

	if _, err := engine.Stake(staker, 1_000, Lock30Days); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	now = 1_000 + 30*86_400 - 1
	if _, err := engine.Unstake(staker); !errors.Is(err, errTokensLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}
}

func TestUnstakeAccruesRewards(t *testing.T) {
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	now := int64(1_000)
	engine.SetNowFunc(func() int64 { return now })
	staker := addr(0x01)

	if _, err := engine.Stake(staker, 1_000_000, Lock90Days); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	// Exactly the lock period elapses: amount*1500bps*elapsed/year/10000.
	elapsed := int64(90 * 86_400)
	now = 1_000 + elapsed
	result, err := engine.Unstake(staker)
	if err != nil {
		t.Fatalf("unstake failed: %v", err)
	}
	want := uint64(1_000_000) * 1_500 * uint64(elapsed) / SecondsPerYear / BpsDenominator
	if result.Rewards != want {
		t.Fatalf("rewards = %d, want %d", result.Rewards, want)
	}
	if result.Total != 1_000_000+want {
		t.Fatalf("total = %d, want %d", result.Total, 1_000_000+want)
	}

	if _, ok := state.positions[string(staker[:])]; ok {
		t.Fatalf("position should be deleted after unstake")
	}
	if _, err := engine.Unstake(staker); !errors.Is(err, errPositionNotFound) {
		t.Fatalf("expected missing position, got %v", err)
	}
}

func TestZeroLockUnstakesImmediately(t *testing.T) {
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return 1_000 })
	staker := addr(0x01)

	if _, err := engine.Stake(staker, 1_000, Lock0Days); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	result, err := engine.Unstake(staker)
	if err != nil {
		t.Fatalf("flexible unstake failed: %v", err)
	}
	if result.Rewards != 0 {
		t.Fatalf("no time elapsed, rewards = %d", result.Rewards)
	}
}

func TestVotingPowerAccessor(t *testing.T) {
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	staker := addr(0x01)

	power, err := engine.VotingPower(staker)
	if err != nil || power != 0 {
		t.Fatalf("expected zero power for unknown staker, got %d (%v)", power, err)
	}
	if _, err := engine.Stake(staker, 2_000, Lock365Days); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	power, err = engine.VotingPower(staker)
	if err != nil {
		t.Fatalf("voting power failed: %v", err)
	}
	if power != 6_000 {
		t.Fatalf("power = %d, want 6000", power)
	}
}

func TestStakingPauseGuard(t *testing.T) {
	engine := NewEngine()
	engine.SetState(newMockState())
	engine.SetPauses(pausedView{})

	if _, err := engine.Stake(addr(0x01), 1_000, Lock30Days); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
	if _, err := engine.Unstake(addr(0x01)); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
}
