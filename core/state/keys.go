package state

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Record keys are keccak hashes of a namespace prefix plus the identifying
// components, so unrelated record families can never collide.
var (
	accountPrefix          = []byte("account:")
	creatorPoolPrefix      = []byte("creator-pool:")
	sharePositionPrefix    = []byte("share-holding:")
	reservePrefix          = []byte("reserve:")
	tradeQuotaPrefix       = []byte("trade-quota:")
	stakePositionPrefix    = []byte("stake-position:")
	proposalPrefix         = []byte("proposal:")
	proposalSlotPrefix     = []byte("proposal-slot:")
	votePrefix             = []byte("vote:")
	userProfilePrefix      = []byte("user-profile:")
	usernameIndexPrefix    = []byte("username-index:")
	subscriptionTierPrefix = []byte("subscription-tier:")
	subscriptionPrefix     = []byte("subscription:")

	platformConfigKey  = ethcrypto.Keccak256([]byte("platform-config"))
	proposalCounterKey = ethcrypto.Keccak256([]byte("proposal-counter"))
)

func derivedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, p := range parts {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return ethcrypto.Keccak256(buf)
}

func uint64Bytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func accountKey(addr []byte) []byte {
	return derivedKey(accountPrefix, addr)
}

func creatorPoolKey(creator [20]byte) []byte {
	return derivedKey(creatorPoolPrefix, creator[:])
}

func sharePositionKey(holder, creator [20]byte) []byte {
	return derivedKey(sharePositionPrefix, holder[:], creator[:])
}

func tradeQuotaKey(trader [20]byte) []byte {
	return derivedKey(tradeQuotaPrefix, trader[:])
}

func stakePositionKey(staker [20]byte) []byte {
	return derivedKey(stakePositionPrefix, staker[:])
}

func proposalKey(id uint64) []byte {
	return derivedKey(proposalPrefix, uint64Bytes(id))
}

func proposalSlotKey(proposer [20]byte, title string) []byte {
	return derivedKey(proposalSlotPrefix, proposer[:], ethcrypto.Keccak256([]byte(title)))
}

func voteKey(proposalID uint64, voter [20]byte) []byte {
	return derivedKey(votePrefix, uint64Bytes(proposalID), voter[:])
}

func userProfileKey(owner [20]byte) []byte {
	return derivedKey(userProfilePrefix, owner[:])
}

func usernameIndexKey(username string) []byte {
	return derivedKey(usernameIndexPrefix, []byte(username))
}

func subscriptionTierKey(creator [20]byte, tierID uint64) []byte {
	return derivedKey(subscriptionTierPrefix, creator[:], uint64Bytes(tierID))
}

func subscriptionKey(subscriber, creator [20]byte, tierID uint64) []byte {
	return derivedKey(subscriptionPrefix, subscriber[:], creator[:], uint64Bytes(tierID))
}
