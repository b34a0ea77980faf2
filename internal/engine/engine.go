// Package engine implements the substring query engine over an in-memory
// dataset.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

// DatasetSource yields the dataset to search. It returns nil when no
// dataset is available.
type DatasetSource interface {
	Dataset() *schema.Dataset
}

type searchIDKey struct{}

// WithSearchID attaches an ID to ctx that Engine.Search uses for its events
func WithSearchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, searchIDKey{}, id)
}

// SearchIDFromContext returns the ID set by WithSearchID, if any
func SearchIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(searchIDKey{}).(string)
	return id, ok && id != ""
}

// Engine runs searches against a DatasetSource and reports each one to
// its observers
type Engine struct {
	source    DatasetSource
	mu        sync.RWMutex
	observers []Observer
}

// New creates a new Engine instance
func New(source DatasetSource) *Engine {
	return &Engine{
		source:    source,
		observers: make([]Observer, 0),
	}
}

// Search resolves the current dataset once and runs Search against it
func (e *Engine) Search(ctx context.Context, rawQuery string) (*Result, error) {
	id, ok := SearchIDFromContext(ctx)
	if !ok {
		id = uuid.New().String()
	}

	start := time.Now()
	e.notify(Event{Type: EventSearchStart, SearchID: id, Query: rawQuery})

	var ds *schema.Dataset
	if e.source != nil {
		ds = e.source.Dataset()
	}
	result, err := Search(ds, rawQuery)

	end := Event{
		Type:     EventSearchEnd,
		SearchID: id,
		Query:    rawQuery,
		Duration: time.Since(start),
	}
	switch {
	case errors.Is(err, domainerrors.ErrEmptyQuery):
		end.Outcome = OutcomeEmptyQuery
	case errors.Is(err, domainerrors.ErrDatasetUnavailable):
		end.Outcome = OutcomeUnavailable
	case result.NoMatches():
		end.Query = result.Query
		end.Outcome = OutcomeNoMatch
		end.Scanned = result.Scanned
	default:
		end.Query = result.Query
		end.Outcome = OutcomeMatch
		end.Matches = len(result.Matches)
		end.Scanned = result.Scanned
	}
	e.notify(end)

	return result, err
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
