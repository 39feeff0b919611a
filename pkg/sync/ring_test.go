package sync

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_Consistency(t *testing.T) {
	stripes := make(map[string]int)
	for i := 0; i < 64; i++ {
		stripes[fmt.Sprintf("lock%d", i)] = i
	}

	r := newRing(stripes, 200)

	for i := 0; i < 256; i++ {
		key := []byte(fmt.Sprintf("account%d", i))
		val := r.shard(key)

		for j := 0; j < 16; j++ {
			assert.Equal(t, val, r.shard(key))
		}
		assert.Equal(t, val, newRing(stripes, 200).shard(key))
	}
}

func TestRing_Distribution(t *testing.T) {
	stripeCount := 5
	iterations := 100000
	marginOfError := 0.1
	expectedFrequency := iterations / stripeCount

	stripes := make(map[string]int)
	for i := 0; i < stripeCount; i++ {
		stripes[fmt.Sprintf("lock%d", i)] = i
	}

	r := newRing(stripes, 200)

	hits := make(map[int]int)
	for i := 0; i < iterations; i++ {
		key := []byte(fmt.Sprintf("account%d", i))
		hits[r.shard(key)]++
	}

	assert.Len(t, hits, stripeCount)
	for _, hitCount := range hits {
		assert.True(t, math.Abs(float64(hitCount-expectedFrequency)) <= marginOfError*float64(expectedFrequency))
	}
}

func TestRing_SingleStripe(t *testing.T) {
	r := newRing(map[string]int{"lock0": 0}, 1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, r.shard([]byte(fmt.Sprintf("account%d", i))))
	}
}
