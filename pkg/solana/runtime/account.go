package runtime

import (
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
)

// MaxPermittedDataLength is the largest data buffer an account can have.
const MaxPermittedDataLength = 10 * 1024 * 1024

// AccountInfo is a program's view of an account for the duration of a single
// instruction. The data buffer belongs to the host; programs gain access to it
// through BorrowData and BorrowMutData, which enforce a single writer.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Owner      ed25519.PublicKey
	Lamports   uint64
	IsSigner   bool
	IsWritable bool
	Executable bool

	borrowMu      sync.Mutex
	data          []byte
	mutBorrowed   bool
	sharedBorrows int
}

// NewAccountInfo wraps a host owned data buffer. The buffer is not copied, so
// writes made through BorrowMutData are visible to the host.
func NewAccountInfo(key, owner ed25519.PublicKey, lamports uint64, data []byte) *AccountInfo {
	return &AccountInfo{
		Key:      key,
		Owner:    owner,
		Lamports: lamports,
		data:     data,
	}
}

// DataLen returns the size of the account's data buffer.
func (a *AccountInfo) DataLen() int {
	a.borrowMu.Lock()
	defer a.borrowMu.Unlock()

	return len(a.data)
}

// BorrowData grants shared read access to the data buffer. It fails while a
// mutable borrow is outstanding. The returned release func must be called
// once the caller is done with the buffer.
func (a *AccountInfo) BorrowData() ([]byte, func(), error) {
	a.borrowMu.Lock()
	defer a.borrowMu.Unlock()

	if a.mutBorrowed {
		return nil, nil, ErrAccountBorrowFailed
	}

	a.sharedBorrows++

	var once sync.Once
	return a.data, func() {
		once.Do(func() {
			a.borrowMu.Lock()
			a.sharedBorrows--
			a.borrowMu.Unlock()
		})
	}, nil
}

// BorrowMutData grants exclusive access to the data buffer. It fails while any
// other borrow is outstanding.
func (a *AccountInfo) BorrowMutData() ([]byte, func(), error) {
	a.borrowMu.Lock()
	defer a.borrowMu.Unlock()

	if a.mutBorrowed || a.sharedBorrows > 0 {
		return nil, nil, ErrAccountBorrowFailed
	}

	a.mutBorrowed = true

	var once sync.Once
	return a.data, func() {
		once.Do(func() {
			a.borrowMu.Lock()
			a.mutBorrowed = false
			a.borrowMu.Unlock()
		})
	}, nil
}

// Realloc resizes the data buffer, zero filling any new space. It fails while
// any borrow is outstanding.
func (a *AccountInfo) Realloc(newLen int) error {
	a.borrowMu.Lock()
	defer a.borrowMu.Unlock()

	if a.mutBorrowed || a.sharedBorrows > 0 {
		return ErrAccountBorrowFailed
	}
	if newLen < 0 || newLen > MaxPermittedDataLength {
		return ErrInvalidRealloc
	}

	if newLen <= cap(a.data) {
		old := len(a.data)
		a.data = a.data[:newLen]
		for i := old; i < newLen; i++ {
			a.data[i] = 0
		}
		return nil
	}

	resized := make([]byte, newLen)
	copy(resized, a.data)
	a.data = resized
	return nil
}

// CopyData returns a copy of the current data buffer.
func (a *AccountInfo) CopyData() []byte {
	a.borrowMu.Lock()
	defer a.borrowMu.Unlock()

	return append([]byte(nil), a.data...)
}

// IsBorrowed reports whether any borrow of the data buffer is outstanding.
func (a *AccountInfo) IsBorrowed() bool {
	a.borrowMu.Lock()
	defer a.borrowMu.Unlock()

	return a.mutBorrowed || a.sharedBorrows > 0
}

func (a *AccountInfo) String() string {
	return base58.Encode(a.Key)
}

// AccountIterator walks the accounts passed to an instruction in order.
type AccountIterator struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIterator(accounts []*AccountInfo) *AccountIterator {
	return &AccountIterator{accounts: accounts}
}

// NextAccountInfo returns the next account, or ErrNotEnoughAccountKeys once
// the iterator is exhausted.
func NextAccountInfo(iter *AccountIterator) (*AccountInfo, error) {
	if iter.next >= len(iter.accounts) {
		return nil, ErrNotEnoughAccountKeys
	}

	account := iter.accounts[iter.next]
	iter.next++
	return account, nil
}
