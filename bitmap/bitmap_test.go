package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSetRoundTrip(t *testing.T) {
	bm := make(Bitmap, 4)
	assert.Equal(t, 0, bm.Get(5))
	bm.Set(5, 1)
	assert.Equal(t, 1, bm.Get(5))
	bm.Set(5, 0)
	assert.Equal(t, 0, bm.Get(5))
}

func TestNegativeIndexIsNoop(t *testing.T) {
	bm := make(Bitmap, 4)
	assert.Equal(t, 0, bm.Get(-1))
	bm.Set(-1, 1) // must not panic
	assert.Equal(t, Bitmap{0, 0, 0, 0}, bm)
}

func TestIndependentBits(t *testing.T) {
	bm := make(Bitmap, 2)
	bm.Set(0, 1)
	bm.Set(15, 1)
	for i := 1; i < 15; i++ {
		assert.Equal(t, 0, bm.Get(i), "bit %d should be unset", i)
	}
	assert.Equal(t, 1, bm.Get(0))
	assert.Equal(t, 1, bm.Get(15))
}

func TestPrintGrouping(t *testing.T) {
	bm := make(Bitmap, 2)
	bm.Set(0, 1)
	s := bm.Print(16)
	assert.Equal(t, "10000000 00000000 ", s)
}
