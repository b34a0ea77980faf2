package manager

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
	"github.com/leengari/allergy-lookup/internal/storage/loader"
)

// LoadFunc reads a dataset from a path
type LoadFunc func(path string) (*schema.Dataset, error)

// Snapshot is one published state of the store: either a dataset or the
// error of the load that produced it. Snapshots are never modified after
// being published.
type Snapshot struct {
	Dataset    *schema.Dataset // nil when no load has ever succeeded
	Err        error           // error of the most recent load, nil on success
	AttemptAt  time.Time       // when the most recent load ran
	Generation uint64          // incremented on every load attempt
}

// Available reports whether the snapshot carries a dataset usable for matching
func (s *Snapshot) Available() bool {
	return s != nil && s.Dataset.HasColumns()
}

// Store owns the dataset for the lifetime of the process.
// Readers never lock: every load publishes a new Snapshot with a single
// atomic pointer swap. Loads are serialized by writeMu so each attempt gets
// its own generation.
type Store struct {
	path    string
	load    LoadFunc
	logger  *slog.Logger
	writeMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store for the dataset at path. Nothing is read until
// Load is called; until then the store reports unavailable.
func NewStore(path string, logger *slog.Logger) *Store {
	return NewStoreWithLoader(path, loader.Load, logger)
}

// NewStoreWithLoader creates a store with an explicit load function
func NewStoreWithLoader(path string, load LoadFunc, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:   path,
		load:   load,
		logger: logger,
	}
	s.current.Store(&Snapshot{
		Err: errors.NewLoadError(path, errors.StageOpen, fmt.Errorf("dataset not loaded yet")),
	})
	return s
}

// NewStaticStore wraps an already built dataset, for tests and one-shot tools
func NewStaticStore(ds *schema.Dataset) *Store {
	s := &Store{
		path:   ds.Path,
		load:   func(string) (*schema.Dataset, error) { return ds, nil },
		logger: slog.Default(),
	}
	s.current.Store(&Snapshot{Dataset: ds, AttemptAt: time.Now(), Generation: 1})
	return s
}

// Load performs the initial load. A failure is recorded in the snapshot and
// returned, but the store stays usable and reports unavailable.
func (s *Store) Load() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ds, err := s.load(s.path)
	prev := s.current.Load()

	next := &Snapshot{
		AttemptAt:  time.Now(),
		Generation: prev.Generation + 1,
	}
	if err != nil {
		next.Err = asLoadError(s.path, err)
		s.current.Store(next)
		s.logger.Error("failed to load dataset",
			slog.String("path", s.path),
			slog.Any("error", next.Err),
		)
		return next.Err
	}

	next.Dataset = ds
	s.current.Store(next)
	s.logger.Info("dataset loaded",
		slog.String("path", s.path),
		slog.Int("rows", ds.NumRows()),
		slog.Int("columns", len(ds.Columns)),
		slog.Uint64("generation", next.Generation),
	)
	return nil
}

// Reload re-reads the dataset. On failure the previously loaded dataset
// (if any) keeps being served and the error is recorded alongside it.
func (s *Store) Reload() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ds, err := s.load(s.path)
	prev := s.current.Load()

	next := &Snapshot{
		AttemptAt:  time.Now(),
		Generation: prev.Generation + 1,
	}
	if err != nil {
		next.Dataset = prev.Dataset
		next.Err = asLoadError(s.path, err)
		s.current.Store(next)
		s.logger.Error("dataset reload failed, keeping previous dataset",
			slog.String("path", s.path),
			slog.Bool("previous_available", prev.Available()),
			slog.Any("error", next.Err),
		)
		return next.Err
	}

	next.Dataset = ds
	s.current.Store(next)
	s.logger.Info("dataset reloaded",
		slog.String("path", s.path),
		slog.Int("rows", ds.NumRows()),
		slog.Uint64("generation", next.Generation),
	)
	return nil
}

// Snapshot returns the current published state
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Dataset returns the current dataset, or nil if none is available
func (s *Store) Dataset() *schema.Dataset {
	snap := s.current.Load()
	if !snap.Available() {
		return nil
	}
	return snap.Dataset
}

// IsAvailable reports whether a dataset with a non-empty column list is loaded
func (s *Store) IsAvailable() bool {
	return s.current.Load().Available()
}

// Err returns the error of the most recent load attempt
func (s *Store) Err() error {
	return s.current.Load().Err
}

// Path returns the configured dataset path
func (s *Store) Path() string {
	return s.path
}

func asLoadError(path string, err error) error {
	if errors.IsLoadError(err) {
		return err
	}
	return errors.NewLoadError(path, errors.StageRead, err)
}
