package state

import "socialfi/native/profile"

type storedUserProfile struct {
	Owner             [20]byte
	Username          string
	TotalTipsSent     uint64
	TotalTipsReceived uint64
	ReferralCode      string
	ReferredBy        [20]byte
	ReferralsCount    uint64
	CreatedAt         uint64
}

func newStoredUserProfile(p *profile.UserProfile) *storedUserProfile {
	if p == nil {
		p = &profile.UserProfile{}
	}
	return &storedUserProfile{
		Owner:             p.Owner,
		Username:          p.Username,
		TotalTipsSent:     p.TotalTipsSent,
		TotalTipsReceived: p.TotalTipsReceived,
		ReferralCode:      p.ReferralCode,
		ReferredBy:        p.ReferredBy,
		ReferralsCount:    p.ReferralsCount,
		CreatedAt:         clampTimestamp(p.CreatedAt),
	}
}

func (s *storedUserProfile) toProfile() *profile.UserProfile {
	if s == nil {
		return &profile.UserProfile{}
	}
	return &profile.UserProfile{
		Owner:             s.Owner,
		Username:          s.Username,
		TotalTipsSent:     s.TotalTipsSent,
		TotalTipsReceived: s.TotalTipsReceived,
		ReferralCode:      s.ReferralCode,
		ReferredBy:        s.ReferredBy,
		ReferralsCount:    s.ReferralsCount,
		CreatedAt:         int64(s.CreatedAt),
	}
}

// UserProfileGet loads the profile record for an owner.
func (m *Manager) UserProfileGet(owner [20]byte) (*profile.UserProfile, bool, error) {
	stored := new(storedUserProfile)
	ok, err := m.getRecord(userProfileKey(owner), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toProfile(), true, nil
}

// UserProfilePut persists the profile record for an owner.
func (m *Manager) UserProfilePut(p *profile.UserProfile) error {
	if p == nil {
		return nil
	}
	return m.putRecord(userProfileKey(p.Owner), newStoredUserProfile(p))
}

// UserProfileUsernameClaim reserves a username for an owner. It returns false
// when the name is already taken.
func (m *Manager) UserProfileUsernameClaim(username string, owner [20]byte) (bool, error) {
	key := usernameIndexKey(username)
	taken, err := m.hasRecord(key)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}
	if err := m.db.Put(key, owner[:]); err != nil {
		return false, err
	}
	return true, nil
}
