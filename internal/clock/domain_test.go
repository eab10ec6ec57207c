package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain_AdvanceAccumulatesCycles(t *testing.T) {
	d := NewDomain()
	d.Advance(4)
	d.Advance(1)
	assert.Equal(t, uint64(5), d.Cycles())
}

func TestDomain_AwaitCyclesFiresOnlyAtOrPastTarget(t *testing.T) {
	d := NewDomain()
	fired := 0
	d.AwaitCycles(3, func() { fired++ })

	d.Advance(2)
	assert.Equal(t, 0, fired)

	d.Advance(1)
	assert.Equal(t, 1, fired)

	// Already released; further ticks must not fire it again.
	d.Advance(10)
	assert.Equal(t, 1, fired)
}

func TestDomain_MultipleWaitersFireIndependently(t *testing.T) {
	d := NewDomain()
	var order []int
	d.AwaitCycles(1, func() { order = append(order, 1) })
	d.AwaitCycles(2, func() { order = append(order, 2) })

	d.Advance(1)
	assert.Equal(t, []int{1}, order)

	d.Advance(1)
	assert.Equal(t, []int{1, 2}, order)
}
