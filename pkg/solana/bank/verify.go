package bank

import (
	"bytes"
	"crypto/ed25519"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/code-payments/scaler-program/pkg/solana/runtime"
)

// preAccount is the state of an account before an instruction executed.
type preAccount struct {
	info       *runtime.AccountInfo
	lamports   uint64
	owner      ed25519.PublicKey
	data       []byte
	executable bool
}

// snapshot records the state of each distinct account passed to an
// instruction.
func snapshot(accounts []*runtime.AccountInfo) []preAccount {
	seen := make(map[*runtime.AccountInfo]struct{}, len(accounts))

	pre := make([]preAccount, 0, len(accounts))
	for _, info := range accounts {
		if _, ok := seen[info]; ok {
			continue
		}
		seen[info] = struct{}{}

		pre = append(pre, preAccount{
			info:       info,
			lamports:   info.Lamports,
			owner:      append(ed25519.PublicKey(nil), info.Owner...),
			data:       info.CopyData(),
			executable: info.Executable,
		})
	}
	return pre
}

// verifyInstruction enforces the rules a program must follow when modifying
// accounts:
//   - only the owner may change an account's data or size, and only if the
//     account is writable
//   - only the owner may reassign a writable account, and only while its data
//     is zeroed
//   - only the owner may debit lamports, and only writable accounts may have
//     their balance change
//   - executable accounts are immutable
//   - lamports are neither created nor destroyed
func verifyInstruction(programID ed25519.PublicKey, pre []preAccount) error {
	var preHi, preLo, postHi, postLo uint64
	var carry uint64

	for _, p := range pre {
		post := p.info
		postData := post.CopyData()

		isOwner := bytes.Equal(p.owner, programID)
		ownerChanged := !bytes.Equal(p.owner, post.Owner)
		dataChanged := !bytes.Equal(p.data, postData)
		sizeChanged := len(p.data) != len(postData)

		if post.Executable != p.executable {
			return errors.Wrapf(runtime.ErrModifiedProgramID, "executable flag changed for account %s", post)
		}

		if ownerChanged {
			if !isOwner || !post.IsWritable || p.executable || !isZeroed(postData) {
				return errors.Wrapf(runtime.ErrModifiedProgramID, "account %s", post)
			}
		}

		if p.lamports != post.Lamports {
			if !post.IsWritable {
				return errors.Wrapf(runtime.ErrReadonlyLamportChange, "account %s", post)
			}
			if post.Lamports < p.lamports && !isOwner {
				return errors.Wrapf(runtime.ErrExternalAccountLamportSpend, "account %s", post)
			}
			if p.executable {
				return errors.Wrapf(runtime.ErrModifiedProgramID, "executable account %s balance changed", post)
			}
		}

		if sizeChanged && (!isOwner || !post.IsWritable) {
			return errors.Wrapf(runtime.ErrAccountDataSizeChanged, "account %s", post)
		}

		if dataChanged {
			if !post.IsWritable {
				return errors.Wrapf(runtime.ErrReadonlyDataModified, "account %s", post)
			}
			if !isOwner || p.executable {
				return errors.Wrapf(runtime.ErrExternalAccountDataModified, "account %s", post)
			}
		}

		preLo, carry = bits.Add64(preLo, p.lamports, 0)
		preHi += carry
		postLo, carry = bits.Add64(postLo, post.Lamports, 0)
		postHi += carry
	}

	if preHi != postHi || preLo != postLo {
		return runtime.ErrUnbalancedInstruction
	}

	return nil
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
