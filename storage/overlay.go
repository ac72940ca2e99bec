package storage

import (
	"sort"
	"sync"
)

// Overlay buffers writes and deletes on top of a base database until the
// caller either commits or discards them. It gives every ledger instruction
// all-or-nothing semantics: a failed precondition mid-instruction discards the
// overlay and the base store is untouched.
type Overlay struct {
	mu      sync.RWMutex
	base    Database
	writes  map[string][]byte
	deletes map[string]struct{}
}

// NewOverlay wraps the base database in a fresh, empty overlay.
func NewOverlay(base Database) *Overlay {
	return &Overlay{
		base:    base,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (o *Overlay) Put(key []byte, value []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.deletes, string(key))
	o.writes[string(key)] = append([]byte(nil), value...)
	return nil
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, gone := o.deletes[string(key)]; gone {
		return nil, ErrNotFound
	}
	if value, ok := o.writes[string(key)]; ok {
		return append([]byte(nil), value...), nil
	}
	return o.base.Get(key)
}

func (o *Overlay) Has(key []byte) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, gone := o.deletes[string(key)]; gone {
		return false, nil
	}
	if _, ok := o.writes[string(key)]; ok {
		return true, nil
	}
	return o.base.Has(key)
}

func (o *Overlay) Delete(key []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.writes, string(key))
	o.deletes[string(key)] = struct{}{}
	return nil
}

// Close discards any pending mutations without touching the base store.
func (o *Overlay) Close() error {
	o.Discard()
	return nil
}

// Commit flushes the buffered mutations to the base store in sorted key order
// so repeated runs produce identical write sequences.
func (o *Overlay) Commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.writes)+len(o.deletes))
	for k := range o.writes {
		keys = append(keys, k)
	}
	for k := range o.deletes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if value, ok := o.writes[k]; ok {
			if err := o.base.Put([]byte(k), value); err != nil {
				return err
			}
			continue
		}
		if err := o.base.Delete([]byte(k)); err != nil {
			return err
		}
	}
	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
	return nil
}

// Discard drops all buffered mutations.
func (o *Overlay) Discard() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
}
