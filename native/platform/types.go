package platform

// MaxMinLiquidityBps caps the configurable liquidity floor at 50%.
const MaxMinLiquidityBps uint64 = 5_000

// DefaultMinLiquidityBps is the liquidity floor applied until an admin
// overrides it.
const DefaultMinLiquidityBps uint64 = 1_000

// Config is the singleton platform record. The admin key controls the global
// pause switch and the market liquidity floor; feeCollector is the account
// platform revenue settles to.
type Config struct {
	Admin           [20]byte
	FeeCollector    [20]byte
	Paused          bool
	MinLiquidityBps uint64
	UpdatedAt       int64
}

// Clone returns a deep copy of the config record.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
