package profile

import "github.com/btcsuite/btcutil/base58"

// MaxUsernameLength bounds usernames to 20 characters.
const MaxUsernameLength = 20

// referralCodeBytes is the address prefix length encoded into referral codes.
const referralCodeBytes = 6

// UserProfile tracks per-account tipping totals and referral bookkeeping.
// A zero ReferredBy address means the user joined without a referrer.
type UserProfile struct {
	Owner             [20]byte
	Username          string
	TotalTipsSent     uint64
	TotalTipsReceived uint64
	ReferralCode      string
	ReferredBy        [20]byte
	ReferralsCount    uint64
	CreatedAt         int64
}

// Clone returns a deep copy of the profile record.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// ReferralCodeFor derives the shareable referral code for an address.
func ReferralCodeFor(owner [20]byte) string {
	return base58.Encode(owner[:referralCodeBytes])
}

// ValidUsername reports whether the name fits the length and character rules.
func ValidUsername(name string) bool {
	if name == "" || len(name) > MaxUsernameLength {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
