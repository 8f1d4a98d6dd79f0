package popup

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationInput(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"25", 25, true},
		{" 25 ", 25, true},
		{"1", 1, true},
		{"180", 180, true},
		{"0", 0, false},
		{"181", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
		{"12.5", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := ParseDurationInput(tc.text)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", FormatClock(1500))
	assert.Equal(t, "14:59", FormatClock(899))
	assert.Equal(t, "01:05", FormatClock(65))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "00:00", FormatClock(-3))
	assert.Equal(t, "180:00", FormatClock(180*60))
}

func TestDebouncerAppliesOnlyTheFinalInput(t *testing.T) {
	debouncer := NewDebouncer(40 * time.Millisecond)

	var mu sync.Mutex
	var applied []int

	// Simulates typing "1", "12", "125" before the input settles.
	for _, value := range []int{1, 12, 125} {
		value := value
		debouncer.Trigger(func() {
			mu.Lock()
			applied = append(applied, value)
			mu.Unlock()
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, applied, 1)
	assert.Equal(t, 125, applied[0])
}

func TestDebouncerCancelDropsPendingCallback(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	fired := false
	debouncer.Trigger(func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	debouncer.Cancel()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired)
}

func TestDebouncerDefaultsSettleDuration(t *testing.T) {
	assert.Equal(t, DefaultDebounceDuration, NewDebouncer(0).Duration())
	assert.Equal(t, time.Second, NewDebouncer(time.Second).Duration())
}

func TestQuickDurationsAreWithinRange(t *testing.T) {
	require.Equal(t, []int{5, 15, 25, 45, 60}, QuickDurations)
	for _, minutes := range QuickDurations {
		got, ok := ParseDurationInput(strconv.Itoa(minutes))
		require.True(t, ok, "quick duration %d rejected", minutes)
		assert.Equal(t, minutes, got)
	}
}
