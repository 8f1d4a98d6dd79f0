package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
)

func TestLoadStateDefaultsWhenRecordMissing(t *testing.T) {
	store := NewStateStore(t.TempDir())

	state, err := store.LoadState()

	require.NoError(t, err)
	assert.Equal(t, model.DefaultState(), state)
}

func TestStateRoundTrip(t *testing.T) {
	store := NewStateStore(t.TempDir())

	startedAt := time.Now().UnixMilli()
	want := model.TimerState{
		Duration:      45,
		TimeRemaining: 1234,
		IsRunning:     true,
		StartTime:     &startedAt,
	}
	require.NoError(t, store.SaveState(want))

	got, err := store.LoadState()

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	want := model.TimerState{Duration: 15, TimeRemaining: 900}
	require.NoError(t, NewStateStore(dir).SaveState(want))

	got, err := NewStateStore(dir).LoadState()

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWatchNotifiesOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	// A second handle writing to the same directory stands in for another
	// process updating the shared record.
	writer := NewStateStore(dir)
	require.NoError(t, writer.SaveState(model.TimerState{Duration: 25, TimeRemaining: 42}))

	select {
	case event, ok := <-changes:
		require.True(t, ok)
		assert.Equal(t, StateKey, event.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification received")
	}
}

func TestWatchCoalescesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	writer := NewStateStore(dir)
	for i := 0; i < 10; i++ {
		require.NoError(t, writer.SaveState(model.TimerState{Duration: 25, TimeRemaining: i}))
	}

	select {
	case _, ok := <-changes:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification received")
	}

	// Give any stragglers time to land, then verify the burst collapsed
	// to far fewer notifications than writes.
	time.Sleep(300 * time.Millisecond)
	extra := 0
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				t.Fatal("watch channel closed unexpectedly")
			}
			extra++
			continue
		default:
		}
		break
	}
	assert.Less(t, extra, 9)
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	store := NewStateStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel did not close after cancel")
	}
}
