package market

import (
	"math"

	"github.com/holiman/uint256"

	"socialfi/native/common"
)

const (
	// BasePrice is the floor price of one share, in native units.
	BasePrice uint64 = 10_000_000
	// PriceScale widens the curve steps: the quadratic term advances once
	// per PriceScale units of supply.
	PriceScale uint64 = 100
	// SellFeeBps is the fee retained on every sell, in basis points.
	SellFeeBps uint64 = 1_000
	// MaxSupply caps pool supply so the curve can never overflow.
	MaxSupply uint64 = 1_000_000
	// MaxPrice caps the unit price irrespective of supply.
	MaxPrice uint64 = math.MaxUint64 / 1_000
	// MaxSharesPerTrade bounds the per-call unit walk. Trades above it are
	// rejected outright, keeping cost of a single instruction predictable.
	MaxSharesPerTrade uint64 = 10_000
	// BpsDenominator converts basis points to fractions.
	BpsDenominator uint64 = 10_000
	// DefaultMinLiquidityBps is the reserve floor applied when the platform
	// record has not been initialised.
	DefaultMinLiquidityBps uint64 = 1_000
)

// curvePrice evaluates the quadratic bonding curve at the given supply:
// max(base, base*floor(supply/PriceScale)^2), capped at MaxPrice. All
// intermediate terms are 256-bit wide so the square never wraps.
func curvePrice(basePrice, supply uint64) (uint64, error) {
	if supply > MaxSupply {
		return 0, errSupplyTooHigh
	}
	scaled := new(uint256.Int).SetUint64(supply / PriceScale)
	price := new(uint256.Int).Mul(scaled, scaled)
	price.Mul(price, new(uint256.Int).SetUint64(basePrice))
	cap := new(uint256.Int).SetUint64(MaxPrice)
	if price.Gt(cap) {
		price.Set(cap)
	}
	unit := price.Uint64()
	if unit < basePrice {
		unit = basePrice
	}
	return unit, nil
}

// buyCost walks the curve one unit at a time, pricing unit i at the supply it
// creates. The unit walk (rather than a closed-form integral) keeps the result
// exactly reproducible in integer arithmetic.
func buyCost(pool *CreatorPool, amount uint64) (uint64, error) {
	finalSupply, err := common.CheckedAdd(pool.Supply, amount)
	if err != nil {
		return 0, err
	}
	if finalSupply > MaxSupply {
		return 0, errSupplyTooHigh
	}
	total := new(uint256.Int)
	for i := uint64(0); i < amount; i++ {
		price, err := curvePrice(pool.BasePrice, pool.Supply+i+1)
		if err != nil {
			return 0, err
		}
		total.Add(total, new(uint256.Int).SetUint64(price))
	}
	if !total.IsUint64() {
		return 0, errPriceTooHigh
	}
	return total.Uint64(), nil
}

// sellReturn walks the curve downward, pricing each unit at the supply level
// that existed before it was removed. The gross return is reported without the
// sell fee; the engine applies the fee at settlement.
func sellReturn(pool *CreatorPool, amount uint64) (uint64, error) {
	if amount > pool.Supply {
		return 0, common.ErrUnderflow
	}
	total := new(uint256.Int)
	for i := uint64(0); i < amount; i++ {
		price, err := curvePrice(pool.BasePrice, pool.Supply-i)
		if err != nil {
			return 0, err
		}
		total.Add(total, new(uint256.Int).SetUint64(price))
	}
	if !total.IsUint64() {
		return 0, errPriceTooHigh
	}
	return total.Uint64(), nil
}

// sellFee computes the retained fee on a gross sell return.
func sellFee(grossReturn uint64) (uint64, error) {
	fee, err := common.CheckedMul(grossReturn, SellFeeBps)
	if err != nil {
		return 0, err
	}
	return fee / BpsDenominator, nil
}

// minReserve computes the liquidity floor for a pool: the configured fraction
// of lifetime volume, widened so the multiply cannot wrap.
func minReserve(totalVolume, minLiquidityBps uint64) *uint256.Int {
	floor := new(uint256.Int).SetUint64(totalVolume)
	floor.Mul(floor, new(uint256.Int).SetUint64(minLiquidityBps))
	return floor.Div(floor, new(uint256.Int).SetUint64(BpsDenominator))
}
