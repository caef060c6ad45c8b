package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { callCount.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func writeCalendar(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	for _, poll := range []bool{false, true} {
		name := "fsnotify"
		if poll {
			name = "polling"
		}
		t.Run(name, func(t *testing.T) {
			path := writeCalendar(t, "[]")

			var changed atomic.Bool
			w, err := New(path,
				WithDebounceDuration(50*time.Millisecond),
				WithPollInterval(50*time.Millisecond),
				WithForcePoll(poll),
				WithOnChange(func() { changed.Store(true) }),
			)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Start(); err != nil {
				t.Fatal(err)
			}
			defer w.Stop()

			if poll && !w.IsPolling() {
				t.Error("expected polling mode")
			}

			time.Sleep(100 * time.Millisecond)
			if err := os.WriteFile(path, []byte(`[{"contributionDays":[]}]`), 0o644); err != nil {
				t.Fatal(err)
			}

			if !waitFor(t, 2*time.Second, changed.Load) {
				t.Error("expected change to be detected")
			}
		})
	}
}

func TestWatcher_ChangedChannel(t *testing.T) {
	path := writeCalendar(t, "[]")

	w, err := New(path, WithDebounceDuration(30*time.Millisecond), WithPollInterval(50*time.Millisecond), WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(80 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[ ]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Error("expected a notification on Changed()")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv("SNAKE_FORCE_POLL", "1")
	w, err := New(writeCalendar(t, "[]"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode when SNAKE_FORCE_POLL is set")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	path := writeCalendar(t, "[]")

	var (
		mu       sync.Mutex
		gotError error
	)
	w, err := New(path,
		WithDebounceDuration(30*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			mu.Lock()
			gotError = err
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(80 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return errors.Is(gotError, ErrFileRemoved)
	})
	if !ok {
		t.Errorf("expected ErrFileRemoved, got %v", gotError)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w, err := New(writeCalendar(t, "[]"))
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start()")
	}
	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop()")
	}
	w.Stop()
}

func TestWatcher_PathAndInterval(t *testing.T) {
	path := writeCalendar(t, "[]")
	w, err := New(path, WithPollInterval(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(path)
	if w.Path() != abs {
		t.Errorf("expected path %s, got %s", abs, w.Path())
	}
	if w.PollInterval() != 500*time.Millisecond {
		t.Errorf("PollInterval = %v", w.PollInterval())
	}

	w, _ = New(path, WithPollInterval(0))
	if w.PollInterval() != DefaultPollInterval {
		t.Errorf("zero interval should use the default, got %v", w.PollInterval())
	}
}

func TestRun_RegeneratesOnChange(t *testing.T) {
	path := writeCalendar(t, "[]")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, func(context.Context) error {
			runs.Add(1)
			return nil
		}, nil, WithForcePoll(true), WithPollInterval(30*time.Millisecond), WithDebounceDuration(20*time.Millisecond))
	}()

	if !waitFor(t, time.Second, func() bool { return runs.Load() == 1 }) {
		t.Fatal("Run should call fn once up front")
	}
	time.Sleep(60 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[ {\"contributionDays\": []} ]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() >= 2 }) {
		t.Error("Run should call fn again after a change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Run did not stop after cancel")
	}
}

func TestRun_ReportsErrors(t *testing.T) {
	path := writeCalendar(t, "[]")
	ctx, cancel := context.WithCancel(context.Background())

	boom := errors.New("render failed")
	var got atomic.Value
	go func() {
		_ = Run(ctx, path, func(context.Context) error { return boom }, func(err error) { got.Store(err) }, WithForcePoll(true))
	}()

	ok := waitFor(t, time.Second, func() bool {
		err, _ := got.Load().(error)
		return errors.Is(err, boom)
	})
	cancel()
	if !ok {
		t.Error("fn errors should reach onErr")
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {" on ", true},
		{"0", false}, {"false", false}, {"", false}, {"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv("SNAKE_TEST_BOOL", tt.value)
		if got := envBool("SNAKE_TEST_BOOL"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
