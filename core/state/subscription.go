package state

import "socialfi/native/subscription"

type storedSubscriptionTier struct {
	Creator         [20]byte
	TierID          uint64
	Name            string
	Description     string
	Price           uint64
	DurationDays    uint64
	SubscriberCount uint64
	CreatedAt       uint64
}

func newStoredSubscriptionTier(t *subscription.Tier) *storedSubscriptionTier {
	if t == nil {
		t = &subscription.Tier{}
	}
	return &storedSubscriptionTier{
		Creator:         t.Creator,
		TierID:          t.TierID,
		Name:            t.Name,
		Description:     t.Description,
		Price:           t.Price,
		DurationDays:    t.DurationDays,
		SubscriberCount: t.SubscriberCount,
		CreatedAt:       clampTimestamp(t.CreatedAt),
	}
}

func (s *storedSubscriptionTier) toTier() *subscription.Tier {
	if s == nil {
		return &subscription.Tier{}
	}
	return &subscription.Tier{
		Creator:         s.Creator,
		TierID:          s.TierID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationDays:    s.DurationDays,
		SubscriberCount: s.SubscriberCount,
		CreatedAt:       int64(s.CreatedAt),
	}
}

type storedSubscription struct {
	Subscriber [20]byte
	Creator    [20]byte
	TierID     uint64
	StartDate  uint64
	EndDate    uint64
	Status     uint8
	AutoRenew  bool
	CreatedAt  uint64
}

func newStoredSubscription(sub *subscription.Subscription) *storedSubscription {
	if sub == nil {
		sub = &subscription.Subscription{}
	}
	return &storedSubscription{
		Subscriber: sub.Subscriber,
		Creator:    sub.Creator,
		TierID:     sub.TierID,
		StartDate:  clampTimestamp(sub.StartDate),
		EndDate:    clampTimestamp(sub.EndDate),
		Status:     uint8(sub.Status),
		AutoRenew:  sub.AutoRenew,
		CreatedAt:  clampTimestamp(sub.CreatedAt),
	}
}

func (s *storedSubscription) toSubscription() *subscription.Subscription {
	if s == nil {
		return &subscription.Subscription{}
	}
	return &subscription.Subscription{
		Subscriber: s.Subscriber,
		Creator:    s.Creator,
		TierID:     s.TierID,
		StartDate:  int64(s.StartDate),
		EndDate:    int64(s.EndDate),
		Status:     subscription.Status(s.Status),
		AutoRenew:  s.AutoRenew,
		CreatedAt:  int64(s.CreatedAt),
	}
}

// SubscriptionTierGet loads a creator's tier by id.
func (m *Manager) SubscriptionTierGet(creator [20]byte, tierID uint64) (*subscription.Tier, bool, error) {
	stored := new(storedSubscriptionTier)
	ok, err := m.getRecord(subscriptionTierKey(creator, tierID), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toTier(), true, nil
}

// SubscriptionTierPut persists a creator's tier.
func (m *Manager) SubscriptionTierPut(t *subscription.Tier) error {
	if t == nil {
		return nil
	}
	return m.putRecord(subscriptionTierKey(t.Creator, t.TierID), newStoredSubscriptionTier(t))
}

// SubscriptionGet loads a membership by (subscriber, creator, tier).
func (m *Manager) SubscriptionGet(subscriber, creator [20]byte, tierID uint64) (*subscription.Subscription, bool, error) {
	stored := new(storedSubscription)
	ok, err := m.getRecord(subscriptionKey(subscriber, creator, tierID), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toSubscription(), true, nil
}

// SubscriptionPut persists a membership record.
func (m *Manager) SubscriptionPut(sub *subscription.Subscription) error {
	if sub == nil {
		return nil
	}
	return m.putRecord(subscriptionKey(sub.Subscriber, sub.Creator, sub.TierID), newStoredSubscription(sub))
}
