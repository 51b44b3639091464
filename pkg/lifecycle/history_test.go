package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepend_NewestFirst(t *testing.T) {
	var h []int
	h = Prepend(h, 1, 3)
	h = Prepend(h, 2, 3)

	assert.Equal(t, []int{2, 1}, h)
}

func TestPrepend_EvictsOldestAtLimit(t *testing.T) {
	h := []int{3, 2, 1}
	h = Prepend(h, 4, 3)

	assert.Equal(t, []int{4, 3, 2}, h)
}

func TestPrepend_FiftyFirstEvictsExactlyTheOldest(t *testing.T) {
	var h []int
	for i := 1; i <= DefaultSessionHistoryLimit; i++ {
		h = Prepend(h, i, DefaultSessionHistoryLimit)
	}
	assert.Len(t, h, 50)
	assert.Equal(t, 1, h[49])

	h = Prepend(h, 51, DefaultSessionHistoryLimit)
	assert.Len(t, h, 50)
	assert.Equal(t, 51, h[0])
	assert.Equal(t, 2, h[49])
	assert.NotContains(t, h, 1)
}

func TestPrepend_UnboundedWhenLimitIsZero(t *testing.T) {
	var h []int
	for i := 0; i < 120; i++ {
		h = Prepend(h, i, 0)
	}
	assert.Len(t, h, 120)
	assert.Equal(t, 119, h[0])
}

func TestPrepend_DoesNotMutateInput(t *testing.T) {
	in := []int{2, 1}
	out := Prepend(in, 3, 2)

	assert.Equal(t, []int{2, 1}, in)
	assert.Equal(t, []int{3, 2}, out)
}
