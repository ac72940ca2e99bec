package platform

import (
	"errors"
	"time"

	"socialfi/core/events"
	"socialfi/core/types"
)

var (
	errNilState       = errors.New("platform engine: state not configured")
	errAlreadyInit    = errors.New("platform engine: config already initialized")
	errNotInitialized = errors.New("platform engine: config not initialized")
	errUnauthorized   = errors.New("platform engine: caller is not the admin")
	errZeroAddress    = errors.New("platform engine: zero address")
	errBpsTooHigh     = errors.New("platform engine: liquidity floor above cap")
)

type engineState interface {
	PlatformConfigGet() (*Config, bool, error)
	PlatformConfigPut(cfg *Config) error
}

// Engine owns the singleton platform config record and the admin operations
// that mutate it. Pause enforcement itself happens in the other engines via
// the shared pause view; this engine only flips the switch.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a platform engine with default dependencies.
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

var zeroAddr [20]byte

// Initialize writes the singleton config. It fails if a record already exists
// so a second caller cannot seize the admin role.
func (e *Engine) Initialize(admin, feeCollector [20]byte) (*Config, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if admin == zeroAddr || feeCollector == zeroAddr {
		return nil, errZeroAddress
	}
	if _, ok, err := e.state.PlatformConfigGet(); err != nil {
		return nil, err
	} else if ok {
		return nil, errAlreadyInit
	}
	now := e.nowFn()
	cfg := &Config{
		Admin:           admin,
		FeeCollector:    feeCollector,
		Paused:          false,
		MinLiquidityBps: DefaultMinLiquidityBps,
		UpdatedAt:       now,
	}
	if err := e.state.PlatformConfigPut(cfg); err != nil {
		return nil, err
	}
	e.emit(ConfigInitializedEvent(hexAddr(admin), hexAddr(feeCollector), now))
	return cfg.Clone(), nil
}

func (e *Engine) adminConfig(caller [20]byte) (*Config, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cfg, ok, err := e.state.PlatformConfigGet()
	if err != nil {
		return nil, err
	}
	if !ok || cfg == nil {
		return nil, errNotInitialized
	}
	if cfg.Admin != caller {
		return nil, errUnauthorized
	}
	return cfg, nil
}

// SetPaused flips the global pause switch. Idempotent writes are allowed so
// an emergency pause never fails on a repeat call.
func (e *Engine) SetPaused(caller [20]byte, paused bool) error {
	cfg, err := e.adminConfig(caller)
	if err != nil {
		return err
	}
	cfg.Paused = paused
	cfg.UpdatedAt = e.nowFn()
	if err := e.state.PlatformConfigPut(cfg); err != nil {
		return err
	}
	e.emit(PauseToggledEvent(hexAddr(caller), paused, cfg.UpdatedAt))
	return nil
}

// UpdateAdmin hands the admin role to a new key.
func (e *Engine) UpdateAdmin(caller, newAdmin [20]byte) error {
	if newAdmin == zeroAddr {
		return errZeroAddress
	}
	cfg, err := e.adminConfig(caller)
	if err != nil {
		return err
	}
	previous := cfg.Admin
	cfg.Admin = newAdmin
	cfg.UpdatedAt = e.nowFn()
	if err := e.state.PlatformConfigPut(cfg); err != nil {
		return err
	}
	e.emit(AdminUpdatedEvent(hexAddr(previous), hexAddr(newAdmin), cfg.UpdatedAt))
	return nil
}

// UpdateFeeCollector points platform revenue at a new account.
func (e *Engine) UpdateFeeCollector(caller, collector [20]byte) error {
	if collector == zeroAddr {
		return errZeroAddress
	}
	cfg, err := e.adminConfig(caller)
	if err != nil {
		return err
	}
	cfg.FeeCollector = collector
	cfg.UpdatedAt = e.nowFn()
	if err := e.state.PlatformConfigPut(cfg); err != nil {
		return err
	}
	e.emit(FeeCollectorUpdatedEvent(hexAddr(caller), hexAddr(collector), cfg.UpdatedAt))
	return nil
}

// UpdateMinLiquidityBps adjusts the market liquidity floor, capped at
// MaxMinLiquidityBps.
func (e *Engine) UpdateMinLiquidityBps(caller [20]byte, bps uint64) error {
	if bps > MaxMinLiquidityBps {
		return errBpsTooHigh
	}
	cfg, err := e.adminConfig(caller)
	if err != nil {
		return err
	}
	cfg.MinLiquidityBps = bps
	cfg.UpdatedAt = e.nowFn()
	if err := e.state.PlatformConfigPut(cfg); err != nil {
		return err
	}
	e.emit(LiquidityFloorUpdatedEvent(hexAddr(caller), bps, cfg.UpdatedAt))
	return nil
}

// Current returns a copy of the config record, or false when uninitialized.
func (e *Engine) Current() (*Config, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	cfg, ok, err := e.state.PlatformConfigGet()
	if err != nil || !ok {
		return nil, ok, err
	}
	return cfg.Clone(), true, nil
}
