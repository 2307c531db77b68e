package safeconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0), MustIntToUint32(0))
	assert.Equal(t, uint32(math.MaxUint32), MustIntToUint32(math.MaxUint32))
	assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
		MustIntToUint32(-1)
	})
	assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
		MustIntToUint32(math.MaxUint32 + 1)
	})
}

func TestMustInt64ToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), MustInt64ToUint64(0))
	assert.Equal(t, uint64(math.MaxInt64), MustInt64ToUint64(math.MaxInt64))
	assert.PanicsWithValue(t, "safeconv: negative int64 to uint64 conversion", func() {
		MustInt64ToUint64(-1)
	})
}
