package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/medadhere/console/pkg/api"
	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/observability"
)

// Collection file names under the data directory, minus the .json suffix
const (
	collectionAdmins    = "admins"
	collectionCohorts   = "cohorts"
	collectionCaps      = "caps"
	collectionUsers     = "users"
	collectionQuestions = "questions"
	collectionRecords   = "adherence-records"
	collectionActivity  = "activity-log"
	collectionRollups   = "adherence-rollups"
)

// JSONStore implements api.Store over one JSON array file per collection.
// Reads are served from an in-memory snapshot guarded by a RWMutex; writes go
// to a temp file renamed into place, then update the snapshot. An optional
// fsnotify watcher reloads collections edited outside the process.
type JSONStore struct {
	dir     string
	logger  *observability.Logger
	metrics *observability.Metrics

	mu    sync.RWMutex
	cache map[string][]byte

	subsMu  sync.Mutex
	subs    []func()
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Option configures a JSONStore
type Option func(*JSONStore)

// WithMetrics records reload and write-failure counters
func WithMetrics(m *observability.Metrics) Option {
	return func(s *JSONStore) { s.metrics = m }
}

// NewJSONStore opens the store rooted at dir. Missing collection files are
// treated as empty collections so a partially seeded directory still works.
func NewJSONStore(dir string, logger *observability.Logger, opts ...Option) (*JSONStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", dir)
	}

	s := &JSONStore{
		dir:    dir,
		logger: logger,
		cache:  make(map[string][]byte),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.reloadAll(); err != nil {
		return nil, err
	}

	return s, nil
}

// Watch starts an fsnotify watcher that reloads a collection when its file
// changes on disk, e.g. after the seed script rewrites it.
func (s *JSONStore) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				name := strings.TrimSuffix(filepath.Base(event.Name), ".json")
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if err := s.reload(name); err != nil {
					s.logger.WithError(err).Warnf("Failed to reload collection %s", name)
					continue
				}
				if s.metrics != nil {
					s.metrics.StoreReloadsTotal.Inc()
				}
				s.logger.WithField("collection", name).Debug("collection reloaded")
				s.notify()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.WithError(err).Warn("Store watcher error")
			case <-s.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the watcher
func (s *JSONStore) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Dir returns the backing data directory
func (s *JSONStore) Dir() string {
	return s.dir
}

// Reload re-reads every collection from disk and notifies subscribers. The
// watcher calls this automatically; it is exported for callers that edit the
// data directory out of band.
func (s *JSONStore) Reload() error {
	if err := s.reloadAll(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe implements api.Store
func (s *JSONStore) Subscribe(fn func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Ping implements api.Store
func (s *JSONStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	return nil
}

func (s *JSONStore) notify() {
	s.subsMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *JSONStore) reloadAll() error {
	for _, name := range []string{
		collectionAdmins, collectionCohorts, collectionCaps, collectionUsers,
		collectionQuestions, collectionRecords, collectionActivity, collectionRollups,
	} {
		if err := s.reload(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONStore) reload(name string) error {
	path := filepath.Join(s.dir, name+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data = []byte("[]")
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Reject files that are not a JSON array before they poison the snapshot
	var probe []json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("collection %s is not a JSON array: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = data
	s.mu.Unlock()
	return nil
}

// read decodes the cached snapshot of a collection into dest
func (s *JSONStore) read(name string, dest interface{}) error {
	s.mu.RLock()
	data, ok := s.cache[name]
	s.mu.RUnlock()
	if !ok {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return nil
}

// write persists a collection atomically and updates the snapshot
func (s *JSONStore) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name+".json")
	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		s.recordWriteError()
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.recordWriteError()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.recordWriteError()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		s.recordWriteError()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[name] = data
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *JSONStore) recordWriteError() {
	if s.metrics != nil {
		s.metrics.StoreWriteErrorsTotal.Inc()
	}
}

// Admins implements api.Store
func (s *JSONStore) Admins() ([]auth.Admin, error) {
	var admins []auth.Admin
	return admins, s.read(collectionAdmins, &admins)
}

// Cohorts implements api.Store
func (s *JSONStore) Cohorts() ([]api.Cohort, error) {
	var cohorts []api.Cohort
	return cohorts, s.read(collectionCohorts, &cohorts)
}

// SaveCohorts implements api.Store
func (s *JSONStore) SaveCohorts(cohorts []api.Cohort) error {
	return s.write(collectionCohorts, cohorts)
}

// Caps implements api.Store
func (s *JSONStore) Caps() ([]api.Cap, error) {
	var caps []api.Cap
	return caps, s.read(collectionCaps, &caps)
}

// SaveCaps implements api.Store
func (s *JSONStore) SaveCaps(caps []api.Cap) error {
	return s.write(collectionCaps, caps)
}

// Users implements api.Store
func (s *JSONStore) Users() ([]api.User, error) {
	var users []api.User
	return users, s.read(collectionUsers, &users)
}

// Questions implements api.Store
func (s *JSONStore) Questions() ([]api.Question, error) {
	var questions []api.Question
	return questions, s.read(collectionQuestions, &questions)
}

// SaveQuestions implements api.Store
func (s *JSONStore) SaveQuestions(questions []api.Question) error {
	return s.write(collectionQuestions, questions)
}

// AdherenceRecords implements api.Store
func (s *JSONStore) AdherenceRecords() ([]api.AdherenceRecord, error) {
	var records []api.AdherenceRecord
	return records, s.read(collectionRecords, &records)
}

// Activity implements api.Store
func (s *JSONStore) Activity() ([]api.ActivityItem, error) {
	var items []api.ActivityItem
	return items, s.read(collectionActivity, &items)
}

// AppendActivity implements api.Store
func (s *JSONStore) AppendActivity(item api.ActivityItem) error {
	items, err := s.Activity()
	if err != nil {
		return err
	}
	items = append(items, item)
	return s.write(collectionActivity, items)
}

// Rollups implements api.Store
func (s *JSONStore) Rollups() ([]api.AdherenceSummary, error) {
	var rollups []api.AdherenceSummary
	return rollups, s.read(collectionRollups, &rollups)
}

// SaveRollups implements api.Store
func (s *JSONStore) SaveRollups(rollups []api.AdherenceSummary) error {
	return s.write(collectionRollups, rollups)
}
