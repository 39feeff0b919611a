package sync

import (
	"encoding/binary"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring mapping arbitrary keys onto a fixed set of
// stripe indices.
type ring struct {
	hashRing *treemap.Map

	// minStripe caches the value of the min entry in hashRing, which is used
	// when a key hashes past the last entry. treemap.Map.Min() is O(log n).
	minStripe int
}

// newRing returns a new consistent hash ring with the set of named stripes,
// each having replicationFactor entries in the ring.
func newRing(stripes map[string]int, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)
	for name, stripe := range stripes {
		nameHash, _ := murmur3.Sum128([]byte(name))
		nameHashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(nameHashBytes, nameHash)

		indexBytes := make([]byte, 4)
		for i := 0; i < int(replicationFactor); i++ {
			binary.LittleEndian.PutUint32(indexBytes, uint32(i))

			hasher := murmur3.New128()
			hasher.Write(nameHashBytes)
			hasher.Write(indexBytes)
			hash, _ := hasher.Sum128()
			hashRing.Put(int64(hash), stripe)
		}
	}

	r := &ring{hashRing: hashRing}
	if _, minStripe := hashRing.Min(); minStripe != nil {
		r.minStripe = minStripe.(int)
	}
	return r
}

// shard consistently hashes the key and returns the stripe that owns it.
func (r *ring) shard(key []byte) int {
	raw, _ := murmur3.Sum128(key)
	_, stripe := r.hashRing.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.minStripe
}
