package staking

import (
	"errors"
	"time"

	nativecommon "socialfi/native/common"

	"socialfi/core/events"
	"socialfi/core/types"
)

var (
	errNilState         = errors.New("staking engine: state not configured")
	errInvalidAmount    = errors.New("staking engine: amount must be positive")
	errInvalidLock      = errors.New("staking engine: invalid lock period")
	errPositionExists   = errors.New("staking engine: active stake position exists")
	errPositionNotFound = errors.New("staking engine: stake position not found")
	errTokensLocked     = errors.New("staking engine: tokens are still locked")
	errInvalidTimestamp = errors.New("staking engine: timestamp before stake time")
)

const moduleName = "staking"

type engineState interface {
	StakePositionGet(staker [20]byte) (*StakePosition, bool, error)
	StakePositionPut(position *StakePosition) error
	StakePositionDelete(staker [20]byte) error
}

// Engine converts locked deposits into time-weighted governance power and
// accrues rewards against fixed APY tiers. It never takes custody of funds;
// value settlement is the token escrow collaborator's job.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine constructs a staking engine with default dependencies.
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

// ComputeVotingPower derives governance power from a deposit and lock tier:
// amount scaled by the tier multiplier in basis points.
func ComputeVotingPower(amount, lockDays uint64) (uint64, error) {
	multiplier, ok := multiplierBps[lockDays]
	if !ok {
		return 0, errInvalidLock
	}
	scaled, err := nativecommon.CheckedMul(amount, multiplier)
	if err != nil {
		return 0, err
	}
	return scaled / BpsDenominator, nil
}

// computeRewards accrues rewards linearly over the elapsed stake time at the
// lock tier's APY. Integer arithmetic truncates toward zero at each division.
func computeRewards(position *StakePosition, now int64) (uint64, error) {
	if now < position.StakedAt {
		return 0, errInvalidTimestamp
	}
	elapsed := uint64(now - position.StakedAt)
	apy, ok := apyBps[position.LockDays]
	if !ok {
		apy = apyBps[Lock0Days]
	}
	rewards, err := nativecommon.CheckedMul(position.Amount, apy)
	if err != nil {
		return 0, err
	}
	if rewards, err = nativecommon.CheckedMul(rewards, elapsed); err != nil {
		return 0, err
	}
	return rewards / SecondsPerYear / BpsDenominator, nil
}

// Stake opens the caller's position. A staker holds at most one active lock;
// a second deposit requires unstaking first.
func (e *Engine) Stake(staker [20]byte, amount uint64, lockDays uint64) (*StakePosition, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, errInvalidAmount
	}
	if _, ok := multiplierBps[lockDays]; !ok {
		return nil, errInvalidLock
	}
	if existing, ok, err := e.state.StakePositionGet(staker); err != nil {
		return nil, err
	} else if ok && existing != nil {
		return nil, errPositionExists
	}

	votingPower, err := ComputeVotingPower(amount, lockDays)
	if err != nil {
		return nil, err
	}
	lockSeconds, err := nativecommon.CheckedMul(lockDays, SecondsPerDay)
	if err != nil {
		return nil, err
	}
	now := e.now()
	position := &StakePosition{
		Staker:      staker,
		Amount:      amount,
		StakedAt:    now,
		LockDays:    lockDays,
		UnlocksAt:   now + int64(lockSeconds),
		VotingPower: votingPower,
	}
	if err := e.state.StakePositionPut(position); err != nil {
		return nil, err
	}
	e.emit(TokensStakedEvent(hexAddr(staker), amount, lockDays, votingPower, position.UnlocksAt, now))
	return position.Clone(), nil
}

// Unstake closes the caller's position once the lock has elapsed and reports
// the principal plus accrued rewards.
func (e *Engine) Unstake(staker [20]byte) (*UnstakeResult, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	position, ok, err := e.state.StakePositionGet(staker)
	if err != nil {
		return nil, err
	}
	if !ok || position == nil {
		return nil, errPositionNotFound
	}
	now := e.now()
	if !position.Unlocked(now) {
		return nil, errTokensLocked
	}
	rewards, err := computeRewards(position, now)
	if err != nil {
		return nil, err
	}
	total, err := nativecommon.CheckedAdd(position.Amount, rewards)
	if err != nil {
		return nil, err
	}
	if err := e.state.StakePositionDelete(staker); err != nil {
		return nil, err
	}
	result := &UnstakeResult{
		Staker:    staker,
		Principal: position.Amount,
		Rewards:   rewards,
		Total:     total,
		Timestamp: now,
	}
	e.emit(TokensUnstakedEvent(hexAddr(staker), position.Amount, rewards, now))
	return result, nil
}

// VotingPower returns the staker's current governance power, zero when no
// position exists.
func (e *Engine) VotingPower(staker [20]byte) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	position, ok, err := e.state.StakePositionGet(staker)
	if err != nil {
		return 0, err
	}
	if !ok || position == nil {
		return 0, nil
	}
	return position.VotingPower, nil
}

// Position returns the staker's position without mutating state.
func (e *Engine) Position(staker [20]byte) (*StakePosition, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	position, ok, err := e.state.StakePositionGet(staker)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return position.Clone(), nil
}
