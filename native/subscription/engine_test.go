package subscription

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"testing"

	nativecommon "socialfi/native/common"

	"socialfi/core/types"
)

type mockState struct {
	tiers    map[string]*Tier
	subs     map[string]*Subscription
	accounts map[string]*types.Account
}

func newMockState() *mockState {
	return &mockState{
		tiers:    make(map[string]*Tier),
		subs:     make(map[string]*Subscription),
		accounts: make(map[string]*types.Account),
	}
}

func tierMapKey(creator [20]byte, tierID uint64) string {
	return string(creator[:]) + "|" + strconv.FormatUint(tierID, 10)
}

func subMapKey(subscriber, creator [20]byte, tierID uint64) string {
	return string(subscriber[:]) + "|" + tierMapKey(creator, tierID)
}

func (m *mockState) SubscriptionTierGet(creator [20]byte, tierID uint64) (*Tier, bool, error) {
	tier, ok := m.tiers[tierMapKey(creator, tierID)]
	if !ok {
		return nil, false, nil
	}
	return tier.Clone(), true, nil
}

func (m *mockState) SubscriptionTierPut(tier *Tier) error {
	if tier == nil {
		return nil
	}
	m.tiers[tierMapKey(tier.Creator, tier.TierID)] = tier.Clone()
	return nil
}

func (m *mockState) SubscriptionGet(subscriber, creator [20]byte, tierID uint64) (*Subscription, bool, error) {
	sub, ok := m.subs[subMapKey(subscriber, creator, tierID)]
	if !ok {
		return nil, false, nil
	}
	return sub.Clone(), true, nil
}

func (m *mockState) SubscriptionPut(sub *Subscription) error {
	if sub == nil {
		return nil
	}
	m.subs[subMapKey(sub.Subscriber, sub.Creator, sub.TierID)] = sub.Clone()
	return nil
}

func (m *mockState) GetAccount(addr []byte) (*types.Account, error) {
	if acc, ok := m.accounts[string(addr)]; ok && acc != nil {
		return acc.Clone(), nil
	}
	return nil, nil
}

func (m *mockState) PutAccount(addr []byte, account *types.Account) error {
	if account == nil {
		delete(m.accounts, string(addr))
		return nil
	}
	m.accounts[string(addr)] = account.Clone()
	return nil
}

func (m *mockState) setBalance(addr [20]byte, amount uint64) {
	m.accounts[string(addr[:])] = &types.Account{Balance: new(big.Int).SetUint64(amount)}
}

func (m *mockState) balance(addr [20]byte) *big.Int {
	if acc, ok := m.accounts[string(addr[:])]; ok && acc != nil && acc.Balance != nil {
		return new(big.Int).Set(acc.Balance)
	}
	return big.NewInt(0)
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func newTestEngine(state *mockState, now *int64) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return *now })
	return engine
}

type pausedView struct{}

func (pausedView) IsPaused(string) bool { return true }

func TestCreateTierValidation(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	creator := addr(0x01)

	if _, err := engine.CreateTier(creator, 1, "", "d", 100, 30); !errors.Is(err, errInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
	if _, err := engine.CreateTier(creator, 1, strings.Repeat("n", MaxNameLength+1), "d", 100, 30); !errors.Is(err, errInvalidName) {
		t.Fatalf("expected name cap, got %v", err)
	}
	if _, err := engine.CreateTier(creator, 1, "gold", strings.Repeat("d", MaxDescriptionLength+1), 100, 30); !errors.Is(err, errDescriptionLong) {
		t.Fatalf("expected description cap, got %v", err)
	}
	if _, err := engine.CreateTier(creator, 1, "gold", "d", 0, 30); !errors.Is(err, errInvalidPrice) {
		t.Fatalf("expected invalid price, got %v", err)
	}
	if _, err := engine.CreateTier(creator, 1, "gold", "d", 100, 0); !errors.Is(err, errInvalidDuration) {
		t.Fatalf("expected invalid duration, got %v", err)
	}

	if _, err := engine.CreateTier(creator, 1, "gold", "d", 100, 30); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.CreateTier(creator, 1, "gold again", "d", 200, 60); !errors.Is(err, errTierExists) {
		t.Fatalf("expected duplicate tier, got %v", err)
	}
}

func TestSubscribePaysCreator(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	creator := addr(0x01)
	subscriber := addr(0x02)

	if _, err := engine.CreateTier(creator, 1, "gold", "monthly", 5_000, 30); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	state.setBalance(subscriber, 20_000)

	sub, err := engine.Subscribe(subscriber, creator, 1)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if sub.EndDate != now+30*SecondsPerDay {
		t.Fatalf("end date = %d", sub.EndDate)
	}
	if sub.Status != StatusActive {
		t.Fatalf("status = %v, want active", sub.Status)
	}
	if got := state.balance(subscriber); got.Cmp(big.NewInt(15_000)) != 0 {
		t.Fatalf("subscriber balance = %s", got)
	}
	if got := state.balance(creator); got.Cmp(big.NewInt(5_000)) != 0 {
		t.Fatalf("creator balance = %s", got)
	}
	if state.tiers[tierMapKey(creator, 1)].SubscriberCount != 1 {
		t.Fatalf("subscriber count wrong")
	}

	if _, err := engine.Subscribe(subscriber, creator, 1); !errors.Is(err, errAlreadySubscribed) {
		t.Fatalf("expected double-subscribe rejection, got %v", err)
	}
}

func TestSubscribeGuards(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	creator := addr(0x01)
	subscriber := addr(0x02)

	if _, err := engine.Subscribe(subscriber, creator, 1); !errors.Is(err, errTierNotFound) {
		t.Fatalf("expected tier not found, got %v", err)
	}

	if _, err := engine.CreateTier(creator, 1, "gold", "d", 5_000, 30); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.Subscribe(subscriber, creator, 1); !errors.Is(err, errInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestCancelSubscription(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	creator := addr(0x01)
	subscriber := addr(0x02)

	if _, err := engine.CreateTier(creator, 1, "gold", "d", 5_000, 30); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	state.setBalance(subscriber, 10_000)
	if _, err := engine.Subscribe(subscriber, creator, 1); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := engine.CancelSubscription(subscriber, creator, 1); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	sub := state.subs[subMapKey(subscriber, creator, 1)]
	if sub.Status != StatusCancelled || sub.AutoRenew {
		t.Fatalf("cancelled subscription wrong: %+v", sub)
	}

	if err := engine.CancelSubscription(subscriber, creator, 1); !errors.Is(err, errInactive) {
		t.Fatalf("expected inactive rejection, got %v", err)
	}
}

func TestCancelExpiredSubscriptionRejected(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	creator := addr(0x01)
	subscriber := addr(0x02)

	if _, err := engine.CreateTier(creator, 1, "gold", "d", 5_000, 30); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	state.setBalance(subscriber, 10_000)
	if _, err := engine.Subscribe(subscriber, creator, 1); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	now = 1_000 + 30*SecondsPerDay
	if err := engine.CancelSubscription(subscriber, creator, 1); !errors.Is(err, errInactive) {
		t.Fatalf("expired subscription should not cancel, got %v", err)
	}
	if err := engine.CancelSubscription(subscriber, creator, 2); !errors.Is(err, errNotFound) {
		t.Fatalf("expected missing subscription, got %v", err)
	}
}

func TestSubscriptionPauseGuard(t *testing.T) {
	state := newMockState()
	now := int64(1_000)
	engine := newTestEngine(state, &now)
	engine.SetPauses(pausedView{})

	if _, err := engine.CreateTier(addr(0x01), 1, "gold", "d", 100, 30); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
	if _, err := engine.Subscribe(addr(0x02), addr(0x01), 1); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
	if err := engine.CancelSubscription(addr(0x02), addr(0x01), 1); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected pause rejection, got %v", err)
	}
}
