package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsToAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 19.99, CentsToAmount(1999))
	assert.Equal(t, 0.0, CentsToAmount(0))
	assert.Equal(t, 0.01, CentsToAmount(1))
	assert.Equal(t, 100.0, CentsToAmount(10000))
}

func TestAmountToCents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1999), AmountToCents(19.99))
	assert.Equal(t, int64(0), AmountToCents(0))
	// values that are not representable exactly in binary still round to the cent
	assert.Equal(t, int64(10), AmountToCents(0.1))
	assert.Equal(t, int64(29), AmountToCents(0.29))
}

func TestLineTotal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 59.97, LineTotal(1999, 3))
	assert.Equal(t, 0.0, LineTotal(1999, 0))
	// 0.1 + 0.2 style float drift does not appear with decimal math
	assert.Equal(t, 0.3, LineTotal(10, 3))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, cents := range []int64{0, 1, 99, 100, 1999, 123456789} {
		assert.Equal(t, cents, AmountToCents(CentsToAmount(cents)))
	}
}
