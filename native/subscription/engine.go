package subscription

import (
	"errors"
	"math/big"
	"time"

	nativecommon "socialfi/native/common"

	"socialfi/core/events"
	"socialfi/core/types"
)

var (
	errNilState          = errors.New("subscription engine: state not configured")
	errInvalidName       = errors.New("subscription engine: invalid tier name")
	errDescriptionLong   = errors.New("subscription engine: description too long")
	errInvalidPrice      = errors.New("subscription engine: price must be positive")
	errInvalidDuration   = errors.New("subscription engine: duration must be positive")
	errTierExists        = errors.New("subscription engine: tier already exists")
	errTierNotFound      = errors.New("subscription engine: tier not found")
	errAlreadySubscribed = errors.New("subscription engine: subscription already exists")
	errNotFound          = errors.New("subscription engine: subscription not found")
	errInactive          = errors.New("subscription engine: subscription not active")
	errInsufficientFunds = errors.New("subscription engine: insufficient funds")
)

const moduleName = "subscription"

type engineState interface {
	SubscriptionTierGet(creator [20]byte, tierID uint64) (*Tier, bool, error)
	SubscriptionTierPut(tier *Tier) error
	SubscriptionGet(subscriber, creator [20]byte, tierID uint64) (*Subscription, bool, error)
	SubscriptionPut(sub *Subscription) error
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// Engine manages creator subscription tiers and the paid memberships against
// them. Payments settle directly to the creator account.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine constructs a subscription engine with default dependencies.
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

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

// CreateTier registers a new offering under (creator, tierID).
func (e *Engine) CreateTier(creator [20]byte, tierID uint64, name, description string, price, durationDays uint64) (*Tier, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if name == "" || len(name) > MaxNameLength {
		return nil, errInvalidName
	}
	if len(description) > MaxDescriptionLength {
		return nil, errDescriptionLong
	}
	if price == 0 {
		return nil, errInvalidPrice
	}
	if durationDays == 0 {
		return nil, errInvalidDuration
	}
	if _, ok, err := e.state.SubscriptionTierGet(creator, tierID); err != nil {
		return nil, err
	} else if ok {
		return nil, errTierExists
	}
	now := e.nowFn()
	tier := &Tier{
		Creator:      creator,
		TierID:       tierID,
		Name:         name,
		Description:  description,
		Price:        price,
		DurationDays: durationDays,
		CreatedAt:    now,
	}
	if err := e.state.SubscriptionTierPut(tier); err != nil {
		return nil, err
	}
	e.emit(TierCreatedEvent(hexAddr(creator), tierID, name, price, now))
	return tier.Clone(), nil
}

// Subscribe pays the tier price to the creator and opens a membership running
// durationDays from now.
func (e *Engine) Subscribe(subscriber, creator [20]byte, tierID uint64) (*Subscription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	tier, ok, err := e.state.SubscriptionTierGet(creator, tierID)
	if err != nil {
		return nil, err
	}
	if !ok || tier == nil {
		return nil, errTierNotFound
	}
	if _, ok, err := e.state.SubscriptionGet(subscriber, creator, tierID); err != nil {
		return nil, err
	} else if ok {
		return nil, errAlreadySubscribed
	}

	now := e.nowFn()
	durationSeconds, err := nativecommon.CheckedMul(tier.DurationDays, uint64(SecondsPerDay))
	if err != nil {
		return nil, err
	}
	endDate := now + int64(durationSeconds)
	if endDate < now {
		return nil, nativecommon.ErrOverflow
	}

	subscriberAccount, err := e.state.GetAccount(subscriber[:])
	if err != nil {
		return nil, err
	}
	subscriberAccount = ensureAccount(subscriberAccount)
	price := new(big.Int).SetUint64(tier.Price)
	if subscriberAccount.Balance.Cmp(price) < 0 {
		return nil, errInsufficientFunds
	}
	creatorAccount, err := e.state.GetAccount(creator[:])
	if err != nil {
		return nil, err
	}
	creatorAccount = ensureAccount(creatorAccount)
	subscriberAccount.Balance = new(big.Int).Sub(subscriberAccount.Balance, price)
	creatorAccount.Balance = new(big.Int).Add(creatorAccount.Balance, price)
	if err := e.state.PutAccount(subscriber[:], subscriberAccount); err != nil {
		return nil, err
	}
	if err := e.state.PutAccount(creator[:], creatorAccount); err != nil {
		return nil, err
	}

	sub := &Subscription{
		Subscriber: subscriber,
		Creator:    creator,
		TierID:     tierID,
		StartDate:  now,
		EndDate:    endDate,
		Status:     StatusActive,
		AutoRenew:  false,
		CreatedAt:  now,
	}
	if err := e.state.SubscriptionPut(sub); err != nil {
		return nil, err
	}
	count, err := nativecommon.CheckedAdd(tier.SubscriberCount, 1)
	if err != nil {
		return nil, err
	}
	tier.SubscriberCount = count
	if err := e.state.SubscriptionTierPut(tier); err != nil {
		return nil, err
	}

	e.emit(SubscribedEvent(hexAddr(subscriber), hexAddr(creator), tierID, now, endDate))
	return sub.Clone(), nil
}

// CancelSubscription ends a live membership early. Already expired or
// cancelled memberships are rejected.
func (e *Engine) CancelSubscription(subscriber, creator [20]byte, tierID uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	sub, ok, err := e.state.SubscriptionGet(subscriber, creator, tierID)
	if err != nil {
		return err
	}
	if !ok || sub == nil {
		return errNotFound
	}
	now := e.nowFn()
	if !sub.Active(now) {
		return errInactive
	}
	sub.Status = StatusCancelled
	sub.AutoRenew = false
	if err := e.state.SubscriptionPut(sub); err != nil {
		return err
	}
	e.emit(CancelledEvent(hexAddr(subscriber), hexAddr(creator), tierID, now))
	return nil
}

// TierFor returns a copy of the tier record.
func (e *Engine) TierFor(creator [20]byte, tierID uint64) (*Tier, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	tier, ok, err := e.state.SubscriptionTierGet(creator, tierID)
	if err != nil || !ok {
		return nil, ok, err
	}
	return tier.Clone(), true, nil
}

// SubscriptionFor returns a copy of the membership record.
func (e *Engine) SubscriptionFor(subscriber, creator [20]byte, tierID uint64) (*Subscription, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	sub, ok, err := e.state.SubscriptionGet(subscriber, creator, tierID)
	if err != nil || !ok {
		return nil, ok, err
	}
	return sub.Clone(), true, nil
}
