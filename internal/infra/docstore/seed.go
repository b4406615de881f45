package docstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

const reloadDebounce = 250 * time.Millisecond

// LoadSeedFile parses a YAML content file laid out as
// collection -> document id -> fields.
func LoadSeedFile(path string) (Collections, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	var decoded map[string]map[string]map[string]any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "parse seed file")
	}
	collections := Collections{}
	for name, docs := range decoded {
		collections[name] = map[string]map[string]any{}
		for id, data := range docs {
			normalized, _ := Normalize(data).(map[string]any)
			if normalized == nil {
				normalized = map[string]any{}
			}
			collections[name][id] = normalized
		}
	}
	return collections, nil
}

// LoadFile replaces the store content with the seed file at path.
func (m *Memory) LoadFile(path string) error {
	collections, err := LoadSeedFile(path)
	if err != nil {
		return err
	}
	m.Replace(collections)
	return nil
}

// Watch reloads the seed file whenever it changes and calls onReload after
// each successful reload. It blocks until ctx is done.
func (m *Memory) Watch(ctx context.Context, path string, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(err, "watch seed directory")
	}

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := m.LoadFile(target); err != nil {
				slog.WarnContext(
					ctx, "Seed reload failed",
					slog.String("error", err.Error()),
					slog.String("module", "docstore"),
				)
				continue
			}
			slog.InfoContext(
				ctx, "Seed reloaded",
				slog.String("path", target),
				slog.String("module", "docstore"),
			)
			if onReload != nil {
				onReload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(
				ctx, "Seed watcher error",
				slog.String("error", err.Error()),
				slog.String("module", "docstore"),
			)
		}
	}
}
