package par

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialVisitsEveryIndexInOrder(t *testing.T) {
	got := []int{}
	Serial{}.Run(5, func(i int) { got = append(got, i) })
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestPoolVisitsEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 7} {
		n := 1000
		counts := make([]int32, n)
		NewPool(workers).Run(n, func(i int) {
			atomic.AddInt32(&counts[i], 1)
		})
		for i, c := range counts {
			assert.Equal(t, int32(1), c, "workers=%d index=%d", workers, i)
		}
	}
}

func TestPoolSmallN(t *testing.T) {
	counts := make([]int32, 3)
	NewPool(8).Run(3, func(i int) { atomic.AddInt32(&counts[i], 1) })
	assert.Equal(t, []int32{1, 1, 1}, counts)
}

func TestPoolZeroN(t *testing.T) {
	called := false
	NewPool(4).Run(0, func(i int) { called = true })
	assert.False(t, called)
}
