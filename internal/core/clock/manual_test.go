package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAdvanceFiresDueTimersInOrder(t *testing.T) {
	clk := NewManual(time.UnixMilli(0))

	var fired []string
	clk.AfterFunc(2*time.Second, func() { fired = append(fired, "second") })
	clk.AfterFunc(1*time.Second, func() { fired = append(fired, "first") })
	clk.AfterFunc(10*time.Second, func() { fired = append(fired, "later") })

	clk.Advance(5 * time.Second)

	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, time.UnixMilli(5000), clk.Now())

	clk.Advance(5 * time.Second)
	assert.Equal(t, []string{"first", "second", "later"}, fired)
}

func TestManualStoppedTimerNeverFires(t *testing.T) {
	clk := NewManual(time.UnixMilli(0))

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clk.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManualCallbackMayUseTheClock(t *testing.T) {
	clk := NewManual(time.UnixMilli(0))

	var observed time.Time
	clk.AfterFunc(time.Second, func() {
		observed = clk.Now()
		clk.AfterFunc(time.Hour, func() {})
	})

	clk.Advance(3 * time.Second)
	assert.Equal(t, time.UnixMilli(3000), observed)
}
