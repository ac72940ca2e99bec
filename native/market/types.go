package market

// CreatorPool tracks the bonding-curve market for a single creator's shares.
// Supply only moves through buy and sell settlement; TotalVolume accumulates
// the gross value of every trade over the pool's lifetime.
type CreatorPool struct {
	Creator      [20]byte `json:"creator"`
	Supply       uint64   `json:"supply"`
	HoldersCount uint64   `json:"holdersCount"`
	BasePrice    uint64   `json:"basePrice"`
	TotalVolume  uint64   `json:"totalVolume"`
	CreatedAt    int64    `json:"createdAt"`
}

// Clone returns a copy of the pool.
func (p *CreatorPool) Clone() *CreatorPool {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// SharePosition records one holder's stake in one creator's pool, created
// lazily on the first buy. AveragePrice is the volume-weighted entry price.
type SharePosition struct {
	Holder       [20]byte `json:"holder"`
	Creator      [20]byte `json:"creator"`
	Amount       uint64   `json:"amount"`
	AveragePrice uint64   `json:"averagePrice"`
	CreatedAt    int64    `json:"createdAt"`
}

// Clone returns a copy of the position.
func (p *SharePosition) Clone() *SharePosition {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// TradeReceipt summarises a settled buy or sell for callers and events.
type TradeReceipt struct {
	Trader    [20]byte `json:"trader"`
	Creator   [20]byte `json:"creator"`
	Amount    uint64   `json:"amount"`
	AvgPrice  uint64   `json:"avgPrice"`
	GrossCost uint64   `json:"grossCost"`
	Fee       uint64   `json:"fee"`
	Paid      uint64   `json:"paid"`
	Timestamp int64    `json:"timestamp"`
}
