package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/leengari/allergy-lookup/internal/engine"
)

func TestSearchObserverCountsOutcomes(t *testing.T) {
	before := testutil.ToFloat64(SearchesTotal.WithLabelValues(string(engine.OutcomeNoMatch)))

	obs := SearchObserver{}
	obs.OnEvent(engine.Event{Type: engine.EventSearchStart})
	obs.OnEvent(engine.Event{Type: engine.EventSearchEnd, Outcome: engine.OutcomeNoMatch, Duration: time.Millisecond})

	after := testutil.ToFloat64(SearchesTotal.WithLabelValues(string(engine.OutcomeNoMatch)))
	if after-before != 1 {
		t.Errorf("Expected no_match counter to grow by 1, got %v", after-before)
	}
}

func TestRecordDataset(t *testing.T) {
	RecordDataset(true, 42)
	if v := testutil.ToFloat64(DatasetRows); v != 42 {
		t.Errorf("Expected 42 rows, got %v", v)
	}
	if v := testutil.ToFloat64(DatasetAvailable); v != 1 {
		t.Errorf("Expected available=1, got %v", v)
	}

	RecordDataset(false, 0)
	if v := testutil.ToFloat64(DatasetAvailable); v != 0 {
		t.Errorf("Expected available=0, got %v", v)
	}
}
