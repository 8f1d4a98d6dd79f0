package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func startedAt(ms int64) *int64 {
	return &ms
}

func TestDefaultStateIsIdleAtFullDuration(t *testing.T) {
	state := DefaultState()

	assert.Equal(t, DefaultDurationMinutes, state.Duration)
	assert.Equal(t, DefaultDurationMinutes*60, state.TimeRemaining)
	assert.False(t, state.IsRunning)
	assert.Nil(t, state.StartTime)
}

func TestReconcileRecomputesElapsedTime(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	state := TimerState{
		Duration:      25,
		TimeRemaining: 1500,
		IsRunning:     true,
		StartTime:     startedAt(start.UnixMilli()),
	}

	got, completed := Reconcile(state, start.Add(600*time.Second))

	require.False(t, completed)
	assert.True(t, got.IsRunning)
	assert.Equal(t, 900, got.TimeRemaining)
}

func TestReconcileFloorsSubSecondElapsed(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	state := TimerState{
		Duration:      1,
		TimeRemaining: 60,
		IsRunning:     true,
		StartTime:     startedAt(start.UnixMilli()),
	}

	got, completed := Reconcile(state, start.Add(1500*time.Millisecond))

	require.False(t, completed)
	assert.Equal(t, 59, got.TimeRemaining)
}

func TestReconcileFinalizesExpiredRun(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	state := TimerState{
		Duration:      25,
		TimeRemaining: 1500,
		IsRunning:     true,
		StartTime:     startedAt(start.UnixMilli()),
	}

	got, completed := Reconcile(state, start.Add(2*time.Hour))

	require.True(t, completed)
	assert.False(t, got.IsRunning)
	assert.Equal(t, 0, got.TimeRemaining)
	assert.Nil(t, got.StartTime)
}

func TestReconcileLeavesIdleStateAlone(t *testing.T) {
	state := TimerState{Duration: 25, TimeRemaining: 720}

	got, completed := Reconcile(state, time.Now())

	assert.False(t, completed)
	assert.Equal(t, state, got)
}

func TestReconcileToleratesClockGoingBackwards(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	state := TimerState{
		Duration:      25,
		TimeRemaining: 1500,
		IsRunning:     true,
		StartTime:     startedAt(start.UnixMilli()),
	}

	got, completed := Reconcile(state, start.Add(-time.Minute))

	require.False(t, completed)
	assert.Equal(t, 1500, got.TimeRemaining)
}

func TestReconcileProperty(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)

	rapid.Check(t, func(t *rapid.T) {
		duration := rapid.IntRange(MinDurationMinutes, MaxDurationMinutes).Draw(t, "duration")
		remaining := rapid.IntRange(0, duration*60).Draw(t, "remaining")
		gap := rapid.IntRange(0, 6*3600).Draw(t, "gap")

		state := TimerState{
			Duration:      duration,
			TimeRemaining: remaining,
			IsRunning:     true,
			StartTime:     startedAt(base.UnixMilli()),
		}

		got, completed := Reconcile(state, base.Add(time.Duration(gap)*time.Second))

		want := remaining - gap
		if want < 0 {
			want = 0
		}
		if got.TimeRemaining != want {
			t.Fatalf("remaining = %d, want %d", got.TimeRemaining, want)
		}
		if completed != (want == 0) {
			t.Fatalf("completed = %v with remaining %d", completed, got.TimeRemaining)
		}
		if completed && got.IsRunning {
			t.Fatalf("completed run still marked running")
		}
		if got.TimeRemaining > duration*60 {
			t.Fatalf("remaining %d exceeds session length %d", got.TimeRemaining, duration*60)
		}
	})
}

func TestNormalizeClampsInvariants(t *testing.T) {
	tests := []struct {
		name string
		in   TimerState
		want TimerState
	}{
		{
			name: "remaining above session length",
			in:   TimerState{Duration: 10, TimeRemaining: 9000},
			want: TimerState{Duration: 10, TimeRemaining: 600},
		},
		{
			name: "negative remaining",
			in:   TimerState{Duration: 10, TimeRemaining: -5},
			want: TimerState{Duration: 10, TimeRemaining: 0},
		},
		{
			name: "duration out of range",
			in:   TimerState{Duration: 0, TimeRemaining: 60},
			want: TimerState{Duration: DefaultDurationMinutes, TimeRemaining: 60},
		},
		{
			name: "running without start timestamp",
			in:   TimerState{Duration: 10, TimeRemaining: 300, IsRunning: true},
			want: TimerState{Duration: 10, TimeRemaining: 300},
		},
		{
			name: "running with nothing left",
			in:   TimerState{Duration: 10, TimeRemaining: 0, IsRunning: true, StartTime: startedAt(1)},
			want: TimerState{Duration: 10, TimeRemaining: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestValidDuration(t *testing.T) {
	assert.True(t, ValidDuration(1))
	assert.True(t, ValidDuration(180))
	assert.False(t, ValidDuration(0))
	assert.False(t, ValidDuration(181))
	assert.False(t, ValidDuration(-25))
}
