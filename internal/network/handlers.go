package network

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
)

// Response messages of the public API
const (
	MsgRunning          = "Allergy lookup API is running!"
	MsgNoText           = "No text provided"
	MsgDatasetNotLoaded = "Dataset not loaded"
	MsgNoMatches        = "No matches found"
	MsgInternal         = "Internal server error"
)

// PredictRequest is the body of POST /predict
type PredictRequest struct {
	Text string `json:"text"`
}

// Handler serves the lookup API
type Handler struct {
	store  *manager.Store
	engine *engine.Engine
	logger *slog.Logger
}

// NewHandler creates a Handler
func NewHandler(store *manager.Store, eng *engine.Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  store,
		engine: eng,
		logger: logger,
	}
}

// Home is the liveness message at GET /
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": MsgRunning})
}

// Health reports liveness together with dataset availability.
// It answers 200 even when the dataset failed to load.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"dataset_loaded": h.store.IsAvailable(),
	})
}

// Predict runs a free-text lookup against the dataset
func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("invalid predict body", slog.Any("error", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgNoText})
		return
	}

	result, err := h.engine.Search(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, domainerrors.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgNoText})
		return
	case errors.Is(err, domainerrors.ErrDatasetUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgDatasetNotLoaded})
		return
	case err != nil:
		h.logger.Error("search failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternal})
		return
	}

	if result.NoMatches() {
		c.JSON(http.StatusOK, gin.H{"result": MsgNoMatches})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": result.Matches})
}

// DatasetInfo reports what the store is serving
func (h *Handler) DatasetInfo(c *gin.Context) {
	snap := h.store.Snapshot()

	if !snap.Available() {
		body := gin.H{"error": MsgDatasetNotLoaded}
		if snap.Err != nil {
			body["cause"] = snap.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	body := gin.H{
		"ok":         true,
		"name":       snap.Dataset.Name,
		"path":       snap.Dataset.Path,
		"rows":       snap.Dataset.NumRows(),
		"columns":    snap.Dataset.Columns,
		"loaded_at":  snap.Dataset.LoadedAt.UTC().Format(time.RFC3339),
		"generation": snap.Generation,
	}
	if snap.Err != nil {
		body["last_error"] = snap.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}
