package state

import "socialfi/native/platform"

type storedPlatformConfig struct {
	Admin           [20]byte
	FeeCollector    [20]byte
	Paused          bool
	MinLiquidityBps uint64
	UpdatedAt       uint64
}

func newStoredPlatformConfig(cfg *platform.Config) *storedPlatformConfig {
	if cfg == nil {
		cfg = &platform.Config{}
	}
	return &storedPlatformConfig{
		Admin:           cfg.Admin,
		FeeCollector:    cfg.FeeCollector,
		Paused:          cfg.Paused,
		MinLiquidityBps: cfg.MinLiquidityBps,
		UpdatedAt:       clampTimestamp(cfg.UpdatedAt),
	}
}

func (s *storedPlatformConfig) toConfig() *platform.Config {
	if s == nil {
		return &platform.Config{}
	}
	return &platform.Config{
		Admin:           s.Admin,
		FeeCollector:    s.FeeCollector,
		Paused:          s.Paused,
		MinLiquidityBps: s.MinLiquidityBps,
		UpdatedAt:       int64(s.UpdatedAt),
	}
}

// PlatformConfigGet loads the singleton platform record.
func (m *Manager) PlatformConfigGet() (*platform.Config, bool, error) {
	stored := new(storedPlatformConfig)
	ok, err := m.getRecord(platformConfigKey, stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toConfig(), true, nil
}

// PlatformConfigPut persists the singleton platform record.
func (m *Manager) PlatformConfigPut(cfg *platform.Config) error {
	if cfg == nil {
		return nil
	}
	return m.putRecord(platformConfigKey, newStoredPlatformConfig(cfg))
}

// PlatformMinLiquidityBps reports the configured market liquidity floor.
// The ok result is false until the platform record is initialized, in which
// case callers fall back to their default.
func (m *Manager) PlatformMinLiquidityBps() (uint64, bool, error) {
	cfg, ok, err := m.PlatformConfigGet()
	if err != nil || !ok {
		return 0, false, err
	}
	return cfg.MinLiquidityBps, true, nil
}

// IsPaused implements the pause view consulted by every engine. The platform
// switch is global; an uninitialized record never pauses anything.
func (m *Manager) IsPaused(module string) bool {
	cfg, ok, err := m.PlatformConfigGet()
	if err != nil || !ok {
		return false
	}
	return cfg.Paused
}
