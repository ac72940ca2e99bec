package state

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	nativecommon "socialfi/native/common"
	"socialfi/native/market"
)

type storedCreatorPool struct {
	Creator      [20]byte
	Supply       uint64
	HoldersCount uint64
	BasePrice    uint64
	TotalVolume  uint64
	CreatedAt    uint64
}

func newStoredCreatorPool(pool *market.CreatorPool) *storedCreatorPool {
	if pool == nil {
		pool = &market.CreatorPool{}
	}
	ts := pool.CreatedAt
	if ts < 0 {
		ts = 0
	}
	return &storedCreatorPool{
		Creator:      pool.Creator,
		Supply:       pool.Supply,
		HoldersCount: pool.HoldersCount,
		BasePrice:    pool.BasePrice,
		TotalVolume:  pool.TotalVolume,
		CreatedAt:    uint64(ts),
	}
}

func (s *storedCreatorPool) toPool() *market.CreatorPool {
	if s == nil {
		return &market.CreatorPool{}
	}
	return &market.CreatorPool{
		Creator:      s.Creator,
		Supply:       s.Supply,
		HoldersCount: s.HoldersCount,
		BasePrice:    s.BasePrice,
		TotalVolume:  s.TotalVolume,
		CreatedAt:    int64(s.CreatedAt),
	}
}

type storedSharePosition struct {
	Holder       [20]byte
	Creator      [20]byte
	Amount       uint64
	AveragePrice uint64
	CreatedAt    uint64
}

func newStoredSharePosition(position *market.SharePosition) *storedSharePosition {
	if position == nil {
		position = &market.SharePosition{}
	}
	ts := position.CreatedAt
	if ts < 0 {
		ts = 0
	}
	return &storedSharePosition{
		Holder:       position.Holder,
		Creator:      position.Creator,
		Amount:       position.Amount,
		AveragePrice: position.AveragePrice,
		CreatedAt:    uint64(ts),
	}
}

func (s *storedSharePosition) toPosition() *market.SharePosition {
	if s == nil {
		return &market.SharePosition{}
	}
	return &market.SharePosition{
		Holder:       s.Holder,
		Creator:      s.Creator,
		Amount:       s.Amount,
		AveragePrice: s.AveragePrice,
		CreatedAt:    int64(s.CreatedAt),
	}
}

// MarketPoolGet loads the bonding-curve pool for a creator.
func (m *Manager) MarketPoolGet(creator [20]byte) (*market.CreatorPool, bool, error) {
	stored := new(storedCreatorPool)
	ok, err := m.getRecord(creatorPoolKey(creator), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toPool(), true, nil
}

// MarketPoolPut persists the bonding-curve pool for a creator.
func (m *Manager) MarketPoolPut(pool *market.CreatorPool) error {
	if pool == nil {
		return nil
	}
	return m.putRecord(creatorPoolKey(pool.Creator), newStoredCreatorPool(pool))
}

// MarketPositionGet loads a holder's share position against a creator.
func (m *Manager) MarketPositionGet(holder, creator [20]byte) (*market.SharePosition, bool, error) {
	stored := new(storedSharePosition)
	ok, err := m.getRecord(sharePositionKey(holder, creator), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toPosition(), true, nil
}

// MarketPositionPut persists a holder's share position.
func (m *Manager) MarketPositionPut(position *market.SharePosition) error {
	if position == nil {
		return nil
	}
	return m.putRecord(sharePositionKey(position.Holder, position.Creator), newStoredSharePosition(position))
}

type storedTradeQuota struct {
	ReqCount  uint32
	ValueUsed uint64
	EpochID   uint64
}

// TradeQuotaGet loads a trader's quota usage counters. Absent records are the
// zero usage.
func (m *Manager) TradeQuotaGet(trader [20]byte) (nativecommon.QuotaNow, error) {
	stored := new(storedTradeQuota)
	ok, err := m.getRecord(tradeQuotaKey(trader), stored)
	if err != nil || !ok {
		return nativecommon.QuotaNow{}, err
	}
	return nativecommon.QuotaNow{
		ReqCount:  stored.ReqCount,
		ValueUsed: stored.ValueUsed,
		EpochID:   stored.EpochID,
	}, nil
}

// TradeQuotaPut persists a trader's quota usage counters.
func (m *Manager) TradeQuotaPut(trader [20]byte, usage nativecommon.QuotaNow) error {
	return m.putRecord(tradeQuotaKey(trader), &storedTradeQuota{
		ReqCount:  usage.ReqCount,
		ValueUsed: usage.ValueUsed,
		EpochID:   usage.EpochID,
	})
}

// MarketReserveAddress derives the program-owned liquidity reserve account
// for a creator. The address has no known private key.
func (m *Manager) MarketReserveAddress(creator [20]byte) [20]byte {
	hash := ethcrypto.Keccak256(append(append([]byte{}, reservePrefix...), creator[:]...))
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}
