package settings

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mhdeeb/geo-art/internal/logging"
)

// Watch reloads path into st whenever the file is written, until ctx is
// done. Invalid contents are logged and skipped; the store keeps its
// previous settings. The directory is watched so that editors which
// replace the file on save are handled.
func Watch(ctx context.Context, path string, st *Store) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings: watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("settings: watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("settings: watch %s: %w", filepath.Dir(abs), err)
	}
	logging.Logger().Info("settings: watching", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload(abs, st)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				reload(abs, st)
				continue
			}
			logging.Logger().Warn("settings: watch error", "err", err)
		}
	}
}

func reload(path string, st *Store) {
	s, err := LoadFile(path)
	if err != nil {
		logging.Logger().Warn("settings: reload rejected", "path", path, "err", err)
		return
	}
	if err := st.Replace(s); err != nil {
		logging.Logger().Warn("settings: reload rejected", "path", path, "err", err)
		return
	}
	logging.Logger().Info("settings: reloaded", "path", path)
}
