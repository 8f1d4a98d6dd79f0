package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	json "github.com/goccy/go-json"
	"github.com/peterbourgon/diskv/v3"

	"pomodoro/internal/core/model"
)

// StateKey is the persisted record holding the countdown.
const StateKey = "pomodoroState"

const stateDirName = "state"

// StateStore persists timer records in a diskv key-value store. Writes are
// last-writer-wins; both the timekeeper and the popup go through it.
type StateStore struct {
	store    *diskv.Diskv
	basePath string
}

// NewStateStore opens (or creates) the store rooted at basePath.
func NewStateStore(basePath string) *StateStore {
	return &StateStore{
		store: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 64 * 1024,
		}),
		basePath: basePath,
	}
}

// DefaultStatePath returns the per-user store location for the app.
func DefaultStatePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, stateDirName), nil
}

// LoadState reads the persisted timer record. A store without the record
// yet yields the default idle state.
func (s *StateStore) LoadState() (model.TimerState, error) {
	data, err := s.store.Read(StateKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultState(), nil
		}
		return model.DefaultState(), fmt.Errorf("read %s: %w", StateKey, err)
	}

	var state model.TimerState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.DefaultState(), fmt.Errorf("decode %s: %w", StateKey, err)
	}
	return state, nil
}

// SaveState overwrites the persisted timer record.
func (s *StateStore) SaveState(state model.TimerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StateKey, err)
	}
	if err := s.store.Write(StateKey, data); err != nil {
		return fmt.Errorf("write %s: %w", StateKey, err)
	}
	return nil
}

// ChangeEvent is emitted by Watch when a persisted record changes.
type ChangeEvent struct {
	Key string
}

// Watch streams change notifications until ctx is cancelled. Rapid write
// bursts (the 1-second refresh, file syncers) are coalesced so consumers
// redraw once per burst. The channel is closed when ctx is done or the
// watcher fails irrecoverably.
func (s *StateStore) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("ensure store path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.basePath, err)
	}

	events := make(chan ChangeEvent, 16)

	go func() {
		defer close(events)
		defer watcher.Close()

		send := func(ev ChangeEvent) {
			select {
			case events <- ev:
			default:
				// Drop when the consumer lags; the next notification
				// re-reads the full record anyway.
			}
		}

		throttle := newChangeThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				_ = err
				throttle.Enqueue(ChangeEvent{Key: StateKey}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				throttle.Enqueue(ChangeEvent{Key: filepath.Base(evt.Name)}, send)
			}
		}
	}()

	return events, nil
}

// changeThrottle coalesces rapid notifications so consumers see one event
// per burst of store activity instead of one per write.
type changeThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *changeThrottle) Enqueue(ev ChangeEvent, send func(ChangeEvent)) {
	t.mu.Lock()
	t.pending[ev.Key] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *changeThrottle) flush(send func(ChangeEvent)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for key := range pending {
		send(ChangeEvent{Key: key})
	}
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
