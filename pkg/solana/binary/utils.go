package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrBufferTooSmall indicates a read or write would go past the end of the
// provided buffer.
var ErrBufferTooSmall = errors.New("buffer too small")

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src)
	*offset += ed25519.PublicKeySize
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}

// ReadUint64 is a bounds checked GetUint64. The offset is only advanced on
// success.
func ReadUint64(src []byte, dst *uint64, offset *int) error {
	if *offset < 0 || len(src) < *offset+8 {
		return errors.Wrapf(ErrBufferTooSmall, "reading 8 bytes at offset %d of %d", *offset, len(src))
	}

	GetUint64(src[*offset:], dst, offset)
	return nil
}

// WriteUint64 is a bounds checked PutUint64. Nothing is written and the offset
// is left untouched when the value doesn't fit.
func WriteUint64(dst []byte, v uint64, offset *int) error {
	if *offset < 0 || len(dst) < *offset+8 {
		return errors.Wrapf(ErrBufferTooSmall, "writing 8 bytes at offset %d of %d", *offset, len(dst))
	}

	PutUint64(dst[*offset:], v, offset)
	return nil
}
