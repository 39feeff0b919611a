package sync

import (
	"fmt"
	"sort"
	base "sync"
)

const (
	hashEntriesPerLock = 200
)

// StripedLock is a partitioned locking mechanism that consistently maps a key
// space to a set of locks. This provides concurrent data access while also
// limiting the total memory footprint.
type StripedLock struct {
	locks    []base.RWMutex
	hashRing *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes.
// At least one stripe is always allocated.
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	ringEntries := make(map[string]int)
	for i := 0; i < int(stripes); i++ {
		ringEntries[fmt.Sprintf("lock%d", i)] = i
	}

	return &StripedLock{
		locks:    make([]base.RWMutex, stripes),
		hashRing: newRing(ringEntries, hashEntriesPerLock),
	}
}

// Get gets the lock for a key
func (l *StripedLock) Get(key []byte) *base.RWMutex {
	return &l.locks[l.stripe(key)]
}

// LockKeys acquires the locks covering every key, exclusively for writable
// keys and shared for readonly keys. Stripes are locked once each in
// ascending order, so concurrent callers with overlapping key sets cannot
// deadlock. A stripe shared by a writable and a readonly key is locked
// exclusively.
//
// The returned func releases every lock that was acquired.
func (l *StripedLock) LockKeys(writable, readonly [][]byte) (unlock func()) {
	exclusive := make(map[int]bool)
	for _, key := range readonly {
		stripe := l.stripe(key)
		if _, ok := exclusive[stripe]; !ok {
			exclusive[stripe] = false
		}
	}
	for _, key := range writable {
		exclusive[l.stripe(key)] = true
	}

	stripes := make([]int, 0, len(exclusive))
	for stripe := range exclusive {
		stripes = append(stripes, stripe)
	}
	sort.Ints(stripes)

	for _, stripe := range stripes {
		if exclusive[stripe] {
			l.locks[stripe].Lock()
		} else {
			l.locks[stripe].RLock()
		}
	}

	var once base.Once
	return func() {
		once.Do(func() {
			for i := len(stripes) - 1; i >= 0; i-- {
				if exclusive[stripes[i]] {
					l.locks[stripes[i]].Unlock()
				} else {
					l.locks[stripes[i]].RUnlock()
				}
			}
		})
	}
}

func (l *StripedLock) stripe(key []byte) int {
	return l.hashRing.shard(key)
}
