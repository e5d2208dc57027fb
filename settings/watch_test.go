package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	if err := SaveFile(path, Defaults()); err != nil {
		t.Fatal(err)
	}

	st := NewStore(Defaults())
	changed := make(chan Change, 16)
	st.Subscribe(func(c Change) { changed <- c }, KeyOffset)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Watch(ctx, path, st) }()

	edited := Defaults()
	edited.Offset = 42
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// The watcher may not be registered yet, so keep rewriting until the
	// change lands.
loop:
	for {
		if err := SaveFile(path, edited); err != nil {
			t.Fatal(err)
		}
		select {
		case c := <-changed:
			if c.New != 42.0 {
				t.Errorf("change = %+v, want d = 42", c)
			}
			break loop
		case <-tick.C:
		case <-deadline:
			t.Fatal("settings were not reloaded")
		}
	}

	// Invalid content is ignored.
	if err := os.WriteFile(path, []byte(`{"t_min": 9, "t_max": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := st.Snapshot().Offset; got != 42 {
		t.Errorf("d = %v after invalid reload, want 42", got)
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() error = %v, want context.Canceled", err)
	}
}
