package portfolio

import (
	"sync"
)

type lockKey struct {
	accountID uint
	symbol    string
}

// LockTable hands out one mutex per (account, symbol). Entries are never
// removed; the table grows with the number of distinct positions.
type LockTable struct {
	mu    sync.Mutex
	locks map[lockKey]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[lockKey]*sync.Mutex)}
}

// Locks is shared by every writer of positions in this process.
var Locks = NewLockTable()

func (t *LockTable) For(accountID uint, symbol string) *sync.Mutex {
	key := lockKey{accountID: accountID, symbol: symbol}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.locks[key]; !exists {
		t.locks[key] = &sync.Mutex{}
	}
	return t.locks[key]
}
