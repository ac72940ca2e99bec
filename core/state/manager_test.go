package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	nativecommon "socialfi/native/common"
	"socialfi/native/gov"
	"socialfi/native/market"
	"socialfi/native/platform"
	"socialfi/native/profile"
	"socialfi/native/staking"
	"socialfi/native/subscription"
	"socialfi/storage"
)

func testAddr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(storage.NewMemDB())
}

func TestAccountRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	addr := testAddr(0x01)

	account, err := manager.GetAccount(addr[:])
	require.NoError(t, err)
	require.Equal(t, int64(0), account.Balance.Int64())

	account.Nonce = 3
	account.Balance = big.NewInt(1_000_000)
	require.NoError(t, manager.PutAccount(addr[:], account))

	loaded, err := manager.GetAccount(addr[:])
	require.NoError(t, err)
	require.Equal(t, uint64(3), loaded.Nonce)
	require.Equal(t, int64(1_000_000), loaded.Balance.Int64())
}

func TestMarketPoolRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	creator := testAddr(0x01)

	_, ok, err := manager.MarketPoolGet(creator)
	require.NoError(t, err)
	require.False(t, ok)

	pool := &market.CreatorPool{
		Creator:      creator,
		Supply:       150,
		HoldersCount: 2,
		BasePrice:    market.BasePrice,
		TotalVolume:  12_345,
		CreatedAt:    1_700_000_000,
	}
	require.NoError(t, manager.MarketPoolPut(pool))

	loaded, ok, err := manager.MarketPoolGet(creator)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pool, loaded)
}

func TestMarketPositionRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	holder := testAddr(0x01)
	creator := testAddr(0x02)

	position := &market.SharePosition{
		Holder:       holder,
		Creator:      creator,
		Amount:       40,
		AveragePrice: market.BasePrice,
		CreatedAt:    1_700_000_000,
	}
	require.NoError(t, manager.MarketPositionPut(position))

	loaded, ok, err := manager.MarketPositionGet(holder, creator)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, position, loaded)

	// Positions are keyed by both parties.
	_, ok, err = manager.MarketPositionGet(creator, holder)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMarketReserveAddressIsStable(t *testing.T) {
	manager := newTestManager(t)
	creator := testAddr(0x01)

	first := manager.MarketReserveAddress(creator)
	second := manager.MarketReserveAddress(creator)
	require.Equal(t, first, second)
	require.NotEqual(t, creator, first)
	require.NotEqual(t, first, manager.MarketReserveAddress(testAddr(0x02)))
}

func TestStakePositionLifecycle(t *testing.T) {
	manager := newTestManager(t)
	staker := testAddr(0x01)

	position := &staking.StakePosition{
		Staker:      staker,
		Amount:      5_000,
		StakedAt:    1_700_000_000,
		LockDays:    staking.Lock90Days,
		UnlocksAt:   1_700_000_000 + 90*86_400,
		VotingPower: 7_500,
	}
	require.NoError(t, manager.StakePositionPut(position))

	loaded, ok, err := manager.StakePositionGet(staker)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, position, loaded)

	power, err := manager.VotingPowerGet(staker)
	require.NoError(t, err)
	require.Equal(t, uint64(7_500), power)

	require.NoError(t, manager.StakePositionDelete(staker))
	_, ok, err = manager.StakePositionGet(staker)
	require.NoError(t, err)
	require.False(t, ok)

	power, err = manager.VotingPowerGet(staker)
	require.NoError(t, err)
	require.Zero(t, power)
}

func TestGovProposalIDsAreSequential(t *testing.T) {
	manager := newTestManager(t)
	for want := uint64(1); want <= 3; want++ {
		id, err := manager.GovNextProposalID()
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
}

func TestGovProposalRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	proposal := &gov.Proposal{
		ID:             1,
		Proposer:       testAddr(0x01),
		Title:          "raise the liquidity floor",
		Description:    "details",
		Category:       gov.CategoryParameter,
		Status:         gov.ProposalStatusActive,
		CreatedAt:      1_700_000_000,
		VotingEndsAt:   1_700_000_000 + gov.VotingPeriodSeconds,
		ExecutionDelay: gov.MinExecutionDelaySeconds,
		VotesFor:       10,
		VotesAgainst:   5,
		VotesAbstain:   1,
		QuorumRequired: 10_000,
	}
	require.NoError(t, manager.GovProposalPut(proposal))

	loaded, ok, err := manager.GovProposalGet(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, proposal, loaded)
}

func TestGovProposalSlotClaim(t *testing.T) {
	manager := newTestManager(t)
	proposer := testAddr(0x01)

	claimed, err := manager.GovProposalSlotClaim(proposer, "one title")
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = manager.GovProposalSlotClaim(proposer, "one title")
	require.NoError(t, err)
	require.False(t, claimed)

	// Distinct title or proposer claims independently.
	claimed, err = manager.GovProposalSlotClaim(proposer, "another title")
	require.NoError(t, err)
	require.True(t, claimed)
	claimed, err = manager.GovProposalSlotClaim(testAddr(0x02), "one title")
	require.NoError(t, err)
	require.True(t, claimed)
}

func TestGovVoteInsertIsWriteOnce(t *testing.T) {
	manager := newTestManager(t)
	voter := testAddr(0x01)
	vote := &gov.Vote{
		ProposalID:  1,
		Voter:       voter,
		Type:        gov.VoteFor,
		VotingPower: 2_000,
		VotedAt:     1_700_000_000,
	}

	inserted, err := manager.GovVoteInsert(vote)
	require.NoError(t, err)
	require.True(t, inserted)

	second := vote.Clone()
	second.Type = gov.VoteAgainst
	inserted, err = manager.GovVoteInsert(second)
	require.NoError(t, err)
	require.False(t, inserted)

	loaded, ok, err := manager.GovVoteGet(1, voter)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, vote, loaded)
}

func TestUserProfileRoundTripAndUsernameClaim(t *testing.T) {
	manager := newTestManager(t)
	owner := testAddr(0x01)

	claimed, err := manager.UserProfileUsernameClaim("alice", owner)
	require.NoError(t, err)
	require.True(t, claimed)
	claimed, err = manager.UserProfileUsernameClaim("alice", testAddr(0x02))
	require.NoError(t, err)
	require.False(t, claimed)

	prof := &profile.UserProfile{
		Owner:        owner,
		Username:     "alice",
		ReferralCode: profile.ReferralCodeFor(owner),
		CreatedAt:    1_700_000_000,
	}
	require.NoError(t, manager.UserProfilePut(prof))

	loaded, ok, err := manager.UserProfileGet(owner)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, prof, loaded)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	creator := testAddr(0x01)
	subscriber := testAddr(0x02)

	tier := &subscription.Tier{
		Creator:      creator,
		TierID:       1,
		Name:         "gold",
		Description:  "monthly",
		Price:        5_000,
		DurationDays: 30,
		CreatedAt:    1_700_000_000,
	}
	require.NoError(t, manager.SubscriptionTierPut(tier))
	loadedTier, ok, err := manager.SubscriptionTierGet(creator, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tier, loadedTier)

	sub := &subscription.Subscription{
		Subscriber: subscriber,
		Creator:    creator,
		TierID:     1,
		StartDate:  1_700_000_000,
		EndDate:    1_700_000_000 + 30*subscription.SecondsPerDay,
		Status:     subscription.StatusActive,
		CreatedAt:  1_700_000_000,
	}
	require.NoError(t, manager.SubscriptionPut(sub))
	loadedSub, ok, err := manager.SubscriptionGet(subscriber, creator, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sub, loadedSub)
}

func TestPlatformConfigAndPauseView(t *testing.T) {
	manager := newTestManager(t)

	_, ok, err := manager.PlatformConfigGet()
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, manager.IsPaused("market"))

	_, ok, err = manager.PlatformMinLiquidityBps()
	require.NoError(t, err)
	require.False(t, ok)

	cfg := &platform.Config{
		Admin:           testAddr(0x01),
		FeeCollector:    testAddr(0x02),
		Paused:          true,
		MinLiquidityBps: 2_500,
		UpdatedAt:       1_700_000_000,
	}
	require.NoError(t, manager.PlatformConfigPut(cfg))

	loaded, ok, err := manager.PlatformConfigGet()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfg, loaded)
	require.True(t, manager.IsPaused("market"))

	bps, ok, err := manager.PlatformMinLiquidityBps()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2_500), bps)
}

func TestManagerOverOverlayIsAtomic(t *testing.T) {
	base := storage.NewMemDB()
	overlay := storage.NewOverlay(base)
	manager := NewManager(overlay)

	pool := &market.CreatorPool{Creator: testAddr(0x01), BasePrice: market.BasePrice, CreatedAt: 100}
	require.NoError(t, manager.MarketPoolPut(pool))

	// Before commit the base store sees nothing.
	baseManager := NewManager(base)
	_, ok, err := baseManager.MarketPoolGet(testAddr(0x01))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, overlay.Commit())
	loaded, ok, err := baseManager.MarketPoolGet(testAddr(0x01))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pool, loaded)

	// A discarded overlay leaves the base untouched.
	overlay2 := storage.NewOverlay(base)
	manager2 := NewManager(overlay2)
	require.NoError(t, manager2.MarketPoolPut(&market.CreatorPool{Creator: testAddr(0x02), BasePrice: 1}))
	overlay2.Discard()
	require.NoError(t, overlay2.Commit())
	_, ok, err = baseManager.MarketPoolGet(testAddr(0x02))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTradeQuotaRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	trader := testAddr(0x01)

	usage, err := manager.TradeQuotaGet(trader)
	require.NoError(t, err)
	require.Equal(t, nativecommon.QuotaNow{}, usage)

	want := nativecommon.QuotaNow{ReqCount: 3, ValueUsed: 42_000, EpochID: 7}
	require.NoError(t, manager.TradeQuotaPut(trader, want))

	usage, err = manager.TradeQuotaGet(trader)
	require.NoError(t, err)
	require.Equal(t, want, usage)
}
