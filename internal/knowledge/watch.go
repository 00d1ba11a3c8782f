package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Overlay is the on-disk format for extending the built-in tables.
type Overlay struct {
	Interactions []InteractionRule   `yaml:"interactions"`
	Guidelines   []DosageGuideline   `yaml:"guidelines"`
	Alternatives map[string][]string `yaml:"alternatives"`
	SideEffects  map[string][]string `yaml:"side_effects"`
}

// ApplyOverlayFile merges a YAML overlay into the tables. Entries with the
// same key replace built-in ones.
func (t *Tables) ApplyOverlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read overlay: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse overlay: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, rule := range overlay.Interactions {
		t.putInteraction(rule)
	}
	for _, g := range overlay.Guidelines {
		if Normalize(g.Drug) == "" {
			continue
		}
		t.guidelines[Normalize(g.Drug)] = g
	}
	for drug, alts := range overlay.Alternatives {
		t.alternatives[Normalize(drug)] = alts
	}
	for drug, effects := range overlay.SideEffects {
		t.sideEffects[Normalize(drug)] = effects
	}

	return nil
}

// Watcher hot-reloads the overlay file when it changes on disk.
type Watcher struct {
	tables  *Tables
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for the given overlay path. The initial load
// happens on Start.
func NewWatcher(tables *Tables, path string, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		tables:  tables,
		path:    path,
		logger:  logger,
		watcher: fw,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start loads the overlay and begins watching for changes.
func (w *Watcher) Start() error {
	if err := w.tables.ApplyOverlayFile(w.path); err != nil {
		return err
	}

	// Watch the directory: editors often replace the file on save.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch overlay directory: %w", err)
	}

	w.wg.Add(1)
	go w.run()

	w.logger.Info("Watching knowledge overlay", zap.String("path", w.path))
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := w.tables.ApplyOverlayFile(w.path); err != nil {
				w.logger.Error("Failed to reload knowledge overlay", zap.Error(err))
				continue
			}
			w.logger.Info("Knowledge overlay reloaded", zap.String("path", w.path))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Knowledge overlay watcher error", zap.Error(err))
		}
	}
}
