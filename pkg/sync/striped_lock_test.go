package sync

import (
	"fmt"
	base "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripedLock_HappyPath(t *testing.T) {
	workerCount := 64
	operationCount := 1000

	l := NewStripedLock(4)

	var workerWg base.WaitGroup
	startChan := make(chan struct{})
	data := make([]int, workerCount)

	for i := 0; i < workerCount; i++ {
		workerWg.Add(1)

		go func(workerID int) {
			defer workerWg.Done()

			var opWg base.WaitGroup
			key := []byte(fmt.Sprintf("account%d", workerID))
			for j := 0; j < operationCount; j++ {
				opWg.Add(1)

				go func() {
					defer opWg.Done()

					<-startChan

					mu := l.Get(key)
					mu.Lock()
					data[workerID]++
					mu.Unlock()
				}()
			}
			opWg.Wait()
		}(i)
	}

	close(startChan)
	workerWg.Wait()

	for _, val := range data {
		assert.EqualValues(t, operationCount, val)
	}
}

func TestStripedLock_LockKeys(t *testing.T) {
	l := NewStripedLock(8)

	keys := make([][]byte, 16)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("account%d", i))
	}

	var workerWg base.WaitGroup
	balances := make([]int, len(keys))

	// Every worker moves a unit between overlapping, differently ordered
	// key pairs. Any lock ordering issue deadlocks the test.
	for i := 0; i < 32; i++ {
		workerWg.Add(1)
		go func(workerID int) {
			defer workerWg.Done()

			for j := 0; j < 500; j++ {
				from := (workerID + j) % len(keys)
				to := (workerID*7 + j*3 + 1) % len(keys)

				unlock := l.LockKeys([][]byte{keys[from], keys[to]}, [][]byte{keys[0]})
				balances[from]--
				balances[to]++
				unlock()
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for workers")
	}

	var total int
	for _, balance := range balances {
		total += balance
	}
	assert.Equal(t, 0, total)
}

func TestStripedLock_LockKeys_DuplicateKeys(t *testing.T) {
	l := NewStripedLock(2)

	key := []byte("account")

	// The same key appearing as both writable and readonly must not
	// self-deadlock.
	unlock := l.LockKeys([][]byte{key, key}, [][]byte{key})

	assert.False(t, l.Get(key).TryRLock())

	unlock()
	unlock()

	assert.True(t, l.Get(key).TryLock())
	l.Get(key).Unlock()
}

func TestStripedLock_LockKeys_SharedReaders(t *testing.T) {
	l := NewStripedLock(4)

	key := []byte("account")

	unlock1 := l.LockKeys(nil, [][]byte{key})
	unlock2 := l.LockKeys(nil, [][]byte{key})

	assert.False(t, l.Get(key).TryLock())

	unlock1()
	unlock2()

	assert.True(t, l.Get(key).TryLock())
	l.Get(key).Unlock()
}

func TestStripedLock_ZeroStripes(t *testing.T) {
	l := NewStripedLock(0)

	a := []byte("account1")
	b := []byte("account2")

	// Every key shares the single stripe.
	assert.Same(t, l.Get(a), l.Get(b))

	unlock := l.LockKeys([][]byte{a}, [][]byte{b})
	assert.False(t, l.Get(b).TryRLock())

	unlock()

	assert.True(t, l.Get(a).TryLock())
	l.Get(a).Unlock()
}
