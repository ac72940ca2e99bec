package state

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"socialfi/core/types"
	"socialfi/storage"
)

// Manager layers derived record addressing and RLP encoding over a raw
// key-value store. It backs every native engine's state interface, so a
// single Manager wired to an overlay gives one instruction an atomic view.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided store.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) getRecord(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) putRecord(key []byte, record interface{}) error {
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

func (m *Manager) hasRecord(key []byte) (bool, error) {
	ok, err := m.db.Has(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return ok, err
}

// GetAccount loads the account stored for an address. Missing accounts come
// back zeroed rather than as an error.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	account := new(types.Account)
	ok, err := m.getRecord(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	if account.Balance == nil {
		account.Balance = big.NewInt(0)
	}
	return account, nil
}

// PutAccount persists the account record for an address.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if account == nil {
		account = &types.Account{}
	}
	if account.Balance == nil {
		account.Balance = big.NewInt(0)
	}
	return m.putRecord(accountKey(addr), account)
}
