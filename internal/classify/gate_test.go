package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateDelay(t *testing.T) {
	g := NewGate(1100 * time.Millisecond)
	t0 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	assert.Zero(t, g.Delay(t0))
	assert.InDelta(t, float64(1100*time.Millisecond), float64(g.Delay(t0)), float64(time.Millisecond))
	assert.Zero(t, g.Delay(t0.Add(3*time.Second)))
	assert.Equal(t, 1100*time.Millisecond, g.Interval())
}

func TestGateSpacesConsecutiveCalls(t *testing.T) {
	g := NewGate(time.Second)
	t0 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	assert.Zero(t, g.Delay(t0))
	d := g.Delay(t0.Add(400 * time.Millisecond))
	assert.InDelta(t, float64(600*time.Millisecond), float64(d), float64(time.Millisecond))
}

func TestGateDisabled(t *testing.T) {
	g := NewGate(0)
	t0 := time.Now()

	for i := 0; i < 5; i++ {
		assert.Zero(t, g.Delay(t0))
	}
}
