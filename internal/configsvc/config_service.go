// Package configsvc watches YAML configuration files and notifies
// registered clients when they change.
package configsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ghodss/yaml"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	subs    map[string][]func()
	ready   chan struct{}
}

func New(log *zap.Logger) *Service {
	return &Service{
		log:   log,
		subs:  make(map[string][]func()),
		ready: make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	s.watcher = watcher
	defer s.watcher.Close()
	close(s.ready)
	s.log.Info("Config service started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.mu.Lock()
			for _, notify := range s.subs[event.Name] {
				notify()
			}
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Error("Watcher error", zap.Error(err))
		}
	}
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Register watches path and calls fn with the re-read configuration on
// every change. It returns the initial configuration. The service is a
// parameter rather than the receiver to allow the generic type.
func Register[T any](s *Service, path string, def T, fn func(config T, err error)) (T, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return def, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}
	config, err := readConfig(absPath, def)
	if err != nil {
		return def, fmt.Errorf("failed to read config: %w", err)
	}

	// The parent directory is watched so that editor rename-and-replace
	// saves are seen as well.
	err = s.watcher.Add(filepath.Dir(absPath))
	if err != nil {
		return def, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	s.mu.Lock()
	s.subs[absPath] = append(s.subs[absPath], func() {
		fn(readConfig(absPath, def))
	})
	s.mu.Unlock()

	return config, nil
}

func readConfig[T any](path string, def T) (T, error) {
	yamlB, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("failed to read config file: %w", err)
	}
	jsonB, err := yaml.YAMLToJSON(yamlB)
	if err != nil {
		return def, fmt.Errorf("failed to convert yaml to json: %w", err)
	}
	err = json.Unmarshal(jsonB, &def)
	if err != nil {
		return def, fmt.Errorf("failed to unmarshal json: %w", err)
	}
	return def, nil
}
