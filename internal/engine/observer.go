package engine

import "time"

// EventType represents different lifecycle phases of a search
type EventType string

const (
	EventSearchStart EventType = "search_start"
	EventSearchEnd   EventType = "search_end"
)

// Outcome classifies how a search finished
type Outcome string

const (
	OutcomeMatch       Outcome = "match"
	OutcomeNoMatch     Outcome = "no_match"
	OutcomeEmptyQuery  Outcome = "empty_query"
	OutcomeUnavailable Outcome = "unavailable"
)

// Event represents a lifecycle event of a search
type Event struct {
	Type      EventType     // Type of event
	SearchID  string        // Search (or request) ID for tracing
	Timestamp time.Time     // When the event occurred
	Query     string        // Raw query on start, normalized query on end
	Outcome   Outcome       // Set on EventSearchEnd
	Matches   int           // Rows returned, set on EventSearchEnd
	Scanned   int           // Rows examined, set on EventSearchEnd
	Duration  time.Duration // Set on EventSearchEnd
}

// Observer interface for event subscribers
type Observer interface {
	OnEvent(event Event)
}
