package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/metrics"
	"github.com/leengari/allergy-lookup/internal/network"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
	"github.com/leengari/allergy-lookup/internal/testutil"
)

type predictResponse struct {
	Matches []map[string]interface{} `json:"matches"`
	Result  string                   `json:"result"`
	Error   string                   `json:"error"`
}

// startService boots store, engine and HTTP server on a random port
func startService(t *testing.T, datasetPath string) (string, *manager.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := manager.NewStore(datasetPath, logger)
	_ = store.Load()

	eng := engine.New(store)
	eng.AddObserver(engine.NewLoggingObserver(logger))
	eng.AddObserver(metrics.SearchObserver{})

	srv := network.NewServer(store, eng, network.Options{ShutdownTimeout: time.Second}, logger)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, l) }()

	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	})

	return fmt.Sprintf("http://%s", l.Addr().String()), store
}

func predict(t *testing.T, baseURL, text string) (int, predictResponse) {
	t.Helper()
	body := fmt.Sprintf(`{"text":%q}`, text)
	resp, err := http.Post(baseURL+"/predict", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /predict failed: %v", err)
	}
	defer resp.Body.Close()

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}
	return resp.StatusCode, out
}

func TestServiceEndToEnd(t *testing.T) {
	path := testutil.WriteAllergyCSV(t)
	baseURL, store := startService(t, path)

	t.Run("Home", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("Match", func(t *testing.T) {
		status, out := predict(t, baseURL, "milk")
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		if len(out.Matches) != 1 || out.Matches[0]["symptom"] != "rash" {
			t.Errorf("Expected the rash/milk row, got %+v", out.Matches)
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		status, out := predict(t, baseURL, "banana")
		if status != http.StatusOK || out.Result != network.MsgNoMatches {
			t.Errorf("Expected 200 %q, got %d %+v", network.MsgNoMatches, status, out)
		}
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		status, out := predict(t, baseURL, "")
		if status != http.StatusBadRequest || out.Error != network.MsgNoText {
			t.Errorf("Expected 400 %q, got %d %+v", network.MsgNoText, status, out)
		}
	})

	t.Run("Reload", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("symptom,ingredient\nhives,milk chocolate\nrash,milk\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := store.Reload(); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}

		status, out := predict(t, baseURL, "MILK")
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		if len(out.Matches) != 2 || out.Matches[0]["symptom"] != "hives" {
			t.Errorf("Expected reloaded rows in file order, got %+v", out.Matches)
		}
	})
}

func TestServiceWithoutDataset(t *testing.T) {
	baseURL, _ := startService(t, filepath.Join(t.TempDir(), "allergy_data_cleaned.xlsx"))

	resp, err := http.Get(baseURL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected liveness to survive a failed load, got %d", resp.StatusCode)
	}

	status, out := predict(t, baseURL, "milk")
	if status != http.StatusInternalServerError || out.Error != network.MsgDatasetNotLoaded {
		t.Errorf("Expected 500 %q, got %d %+v", network.MsgDatasetNotLoaded, status, out)
	}

	status, out = predict(t, baseURL, "   ")
	if status != http.StatusBadRequest || out.Error != network.MsgNoText {
		t.Errorf("Expected 400 %q, got %d %+v", network.MsgNoText, status, out)
	}
}
