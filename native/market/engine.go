package market

import (
	"errors"
	"math/big"
	"time"

	"github.com/holiman/uint256"

	"socialfi/core/events"
	"socialfi/core/types"
	nativecommon "socialfi/native/common"
)

var (
	errNilState              = errors.New("market engine: state not configured")
	errPoolExists            = errors.New("market engine: creator pool already exists")
	errPoolNotFound          = errors.New("market engine: creator pool not found")
	errInvalidAmount         = errors.New("market engine: invalid share amount")
	errSupplyTooHigh         = errors.New("market engine: supply exceeds maximum")
	errPriceTooHigh          = errors.New("market engine: price exceeds maximum")
	errSlippageExceeded      = errors.New("market engine: slippage tolerance exceeded")
	errInsufficientShares    = errors.New("market engine: not enough shares to sell")
	errInsufficientFunds     = errors.New("market engine: insufficient balance")
	errInsufficientLiquidity = errors.New("market engine: insufficient liquidity in reserve")
	errMinimumLiquidity      = errors.New("market engine: minimum liquidity requirement not met")
)

const moduleName = "market"

type engineState interface {
	MarketPoolGet(creator [20]byte) (*CreatorPool, bool, error)
	MarketPoolPut(pool *CreatorPool) error
	MarketPositionGet(holder [20]byte, creator [20]byte) (*SharePosition, bool, error)
	MarketPositionPut(position *SharePosition) error
	MarketReserveAddress(creator [20]byte) [20]byte
	TradeQuotaGet(trader [20]byte) (nativecommon.QuotaNow, error)
	TradeQuotaPut(trader [20]byte, usage nativecommon.QuotaNow) error
	PlatformMinLiquidityBps() (uint64, bool, error)
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// Engine prices and settles share trades against per-creator bonding curves.
// Buy proceeds accumulate in a derived liquidity reserve per creator; sells
// pay out of the same reserve under a minimum-liquidity floor.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
	quota   nativecommon.Quota
	nowFn   func() int64
}

// NewEngine constructs a market engine with default dependencies.
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

// SetTradeQuota configures the optional per-trader quota applied to buys and
// sells. The zero quota disables enforcement.
func (e *Engine) SetTradeQuota(q nativecommon.Quota) { e.quota = q }

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

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

// applyQuota charges one trade of the given value against the trader's quota
// counters. It must run before any balance moves so denials leave no residue.
func (e *Engine) applyQuota(trader [20]byte, value uint64) error {
	if !e.quota.Enabled() {
		return nil
	}
	nowEpoch := uint64(e.now()) / uint64(e.quota.EpochSeconds)
	prev, err := e.state.TradeQuotaGet(trader)
	if err != nil {
		return err
	}
	next, err := nativecommon.CheckQuota(e.quota, nowEpoch, prev, 1, value)
	if err != nil {
		return err
	}
	return e.state.TradeQuotaPut(trader, next)
}

func (e *Engine) minLiquidityBps() (uint64, error) {
	bps, ok, err := e.state.PlatformMinLiquidityBps()
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultMinLiquidityBps, nil
	}
	return bps, nil
}

// InitPool creates the bonding-curve pool for a creator at zero supply.
func (e *Engine) InitPool(creator [20]byte) (*CreatorPool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if existing, ok, err := e.state.MarketPoolGet(creator); err != nil {
		return nil, err
	} else if ok && existing != nil {
		return nil, errPoolExists
	}
	pool := &CreatorPool{
		Creator:   creator,
		BasePrice: BasePrice,
		CreatedAt: e.now(),
	}
	if err := e.state.MarketPoolPut(pool); err != nil {
		return nil, err
	}
	e.emit(PoolInitializedEvent(hexAddr(creator), pool.BasePrice, pool.CreatedAt))
	return pool.Clone(), nil
}

// BuyShares walks the curve for the requested amount, settles payment into the
// creator's liquidity reserve, and updates pool and position bookkeeping.
func (e *Engine) BuyShares(buyer [20]byte, creator [20]byte, amount uint64, maxPricePerShare uint64) (*TradeReceipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if amount == 0 || amount > MaxSharesPerTrade {
		return nil, errInvalidAmount
	}
	pool, ok, err := e.state.MarketPoolGet(creator)
	if err != nil {
		return nil, err
	}
	if !ok || pool == nil {
		return nil, errPoolNotFound
	}

	totalCost, err := buyCost(pool, amount)
	if err != nil {
		return nil, err
	}
	avgPrice := totalCost / amount
	if avgPrice > maxPricePerShare {
		return nil, errSlippageExceeded
	}
	if err := e.applyQuota(buyer, totalCost); err != nil {
		return nil, err
	}

	buyerAccount, err := e.state.GetAccount(buyer[:])
	if err != nil {
		return nil, err
	}
	buyerAccount = ensureAccount(buyerAccount)
	cost := new(big.Int).SetUint64(totalCost)
	if buyerAccount.Balance.Cmp(cost) < 0 {
		return nil, errInsufficientFunds
	}
	reserveAddr := e.state.MarketReserveAddress(creator)
	reserveAccount, err := e.state.GetAccount(reserveAddr[:])
	if err != nil {
		return nil, err
	}
	reserveAccount = ensureAccount(reserveAccount)
	buyerAccount.Balance = new(big.Int).Sub(buyerAccount.Balance, cost)
	reserveAccount.Balance = new(big.Int).Add(reserveAccount.Balance, cost)
	if err := e.state.PutAccount(buyer[:], buyerAccount); err != nil {
		return nil, err
	}
	if err := e.state.PutAccount(reserveAddr[:], reserveAccount); err != nil {
		return nil, err
	}

	position, ok, err := e.state.MarketPositionGet(buyer, creator)
	if err != nil {
		return nil, err
	}
	if !ok || position == nil {
		position = &SharePosition{Holder: buyer, Creator: creator}
	}
	isNewHolder := position.Amount == 0

	if pool.Supply, err = nativecommon.CheckedAdd(pool.Supply, amount); err != nil {
		return nil, err
	}
	if pool.TotalVolume, err = nativecommon.CheckedAdd(pool.TotalVolume, totalCost); err != nil {
		return nil, err
	}
	if isNewHolder {
		if pool.HoldersCount, err = nativecommon.CheckedAdd(pool.HoldersCount, 1); err != nil {
			return nil, err
		}
	}

	newAmount, err := nativecommon.CheckedAdd(position.Amount, amount)
	if err != nil {
		return nil, err
	}
	oldValue, err := nativecommon.CheckedMul(position.Amount, position.AveragePrice)
	if err != nil {
		return nil, err
	}
	totalValue, err := nativecommon.CheckedAdd(oldValue, totalCost)
	if err != nil {
		return nil, err
	}
	position.AveragePrice = totalValue / newAmount
	position.Amount = newAmount
	if position.CreatedAt == 0 {
		position.CreatedAt = e.now()
	}

	if err := e.state.MarketPoolPut(pool); err != nil {
		return nil, err
	}
	if err := e.state.MarketPositionPut(position); err != nil {
		return nil, err
	}

	receipt := &TradeReceipt{
		Trader:    buyer,
		Creator:   creator,
		Amount:    amount,
		AvgPrice:  avgPrice,
		GrossCost: totalCost,
		Paid:      totalCost,
		Timestamp: e.now(),
	}
	e.emit(SharesPurchasedEvent(hexAddr(buyer), hexAddr(creator), amount, avgPrice, totalCost, receipt.Timestamp))
	return receipt, nil
}

// SellShares walks the curve downward, applies the sell fee, and pays the
// seller out of the liquidity reserve while enforcing the reserve floor. The
// fee stays in the reserve, accruing to the remaining holders.
func (e *Engine) SellShares(seller [20]byte, creator [20]byte, amount uint64, minPricePerShare uint64) (*TradeReceipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if amount == 0 || amount > MaxSharesPerTrade {
		return nil, errInvalidAmount
	}
	pool, ok, err := e.state.MarketPoolGet(creator)
	if err != nil {
		return nil, err
	}
	if !ok || pool == nil {
		return nil, errPoolNotFound
	}
	position, ok, err := e.state.MarketPositionGet(seller, creator)
	if err != nil {
		return nil, err
	}
	if !ok || position == nil || position.Amount < amount {
		return nil, errInsufficientShares
	}

	grossReturn, err := sellReturn(pool, amount)
	if err != nil {
		return nil, err
	}
	fee, err := sellFee(grossReturn)
	if err != nil {
		return nil, err
	}
	payout, err := nativecommon.CheckedSub(grossReturn, fee)
	if err != nil {
		return nil, err
	}
	if payout/amount < minPricePerShare {
		return nil, errSlippageExceeded
	}
	if err := e.applyQuota(seller, grossReturn); err != nil {
		return nil, err
	}

	reserveAddr := e.state.MarketReserveAddress(creator)
	reserveAccount, err := e.state.GetAccount(reserveAddr[:])
	if err != nil {
		return nil, err
	}
	reserveAccount = ensureAccount(reserveAccount)
	payoutBig := new(big.Int).SetUint64(payout)
	if reserveAccount.Balance.Cmp(payoutBig) < 0 {
		return nil, errInsufficientLiquidity
	}

	newVolume, err := nativecommon.CheckedAdd(pool.TotalVolume, grossReturn)
	if err != nil {
		return nil, err
	}
	bps, err := e.minLiquidityBps()
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(reserveAccount.Balance, payoutBig)
	remainingWide, overflow := uint256.FromBig(remaining)
	if overflow {
		return nil, errPriceTooHigh
	}
	if remainingWide.Lt(minReserve(newVolume, bps)) {
		return nil, errMinimumLiquidity
	}

	sellerAccount, err := e.state.GetAccount(seller[:])
	if err != nil {
		return nil, err
	}
	sellerAccount = ensureAccount(sellerAccount)
	reserveAccount.Balance = remaining
	sellerAccount.Balance = new(big.Int).Add(sellerAccount.Balance, payoutBig)
	if err := e.state.PutAccount(reserveAddr[:], reserveAccount); err != nil {
		return nil, err
	}
	if err := e.state.PutAccount(seller[:], sellerAccount); err != nil {
		return nil, err
	}

	if pool.Supply, err = nativecommon.CheckedSub(pool.Supply, amount); err != nil {
		return nil, err
	}
	pool.TotalVolume = newVolume
	if position.Amount, err = nativecommon.CheckedSub(position.Amount, amount); err != nil {
		return nil, err
	}
	if position.Amount == 0 {
		if pool.HoldersCount, err = nativecommon.CheckedSub(pool.HoldersCount, 1); err != nil {
			return nil, err
		}
	}
	if err := e.state.MarketPoolPut(pool); err != nil {
		return nil, err
	}
	if err := e.state.MarketPositionPut(position); err != nil {
		return nil, err
	}

	receipt := &TradeReceipt{
		Trader:    seller,
		Creator:   creator,
		Amount:    amount,
		AvgPrice:  payout / amount,
		GrossCost: grossReturn,
		Fee:       fee,
		Paid:      payout,
		Timestamp: e.now(),
	}
	e.emit(SharesSoldEvent(hexAddr(seller), hexAddr(creator), amount, receipt.AvgPrice, payout, fee, receipt.Timestamp))
	return receipt, nil
}

// Pool returns the pool record for the creator without mutating state.
func (e *Engine) Pool(creator [20]byte) (*CreatorPool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, ok, err := e.state.MarketPoolGet(creator)
	if err != nil {
		return nil, err
	}
	if !ok || pool == nil {
		return nil, errPoolNotFound
	}
	return pool.Clone(), nil
}

// Position returns the holder's position in the creator's pool, or nil when
// the holder never bought in.
func (e *Engine) Position(holder [20]byte, creator [20]byte) (*SharePosition, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	position, ok, err := e.state.MarketPositionGet(holder, creator)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return position.Clone(), nil
}
