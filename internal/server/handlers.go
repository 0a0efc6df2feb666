package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/internal/service/validate"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	svc       *validate.Service
	logger    *slog.Logger
	version   string
	maxBytes  int64
	startedAt time.Time
}

// NewHandlers creates Handlers. maxBytes bounds request bodies; a
// non-positive value means 1 MB.
func NewHandlers(svc *validate.Service, logger *slog.Logger, version string, maxBytes int64) *Handlers {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &Handlers{
		svc:       svc,
		logger:    logger,
		version:   version,
		maxBytes:  maxBytes,
		startedAt: time.Now(),
	}
}

// HandleValidate handles POST /v1/validate/{shape}. The body is the document,
// JSON or YAML. A rejected document is still a 200; the verdict is in data.
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	shape := r.PathValue("shape")
	if _, ok := validate.Lookup(shape); !ok {
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "unknown shape: "+shape)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidInput, "failed to read request body")
		return
	}

	res, err := h.svc.Validate(r.Context(), shape, validate.Input{
		Source: RequestIDFromContext(r.Context()),
		Data:   body,
	})
	if err != nil {
		h.logger.Error("validate failed", "shape", shape, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "validation failed")
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// HandleListShapes handles GET /v1/shapes, optionally filtered by ?group=.
func (h *Handlers) HandleListShapes(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		writeJSON(w, r, http.StatusOK, validate.Shapes())
		return
	}
	if !slices.Contains(validate.Groups(), group) {
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidInput, "unknown group: "+group)
		return
	}
	writeJSON(w, r, http.StatusOK, validate.InGroup(group))
}

// HandleConstants handles GET /v1/constants.
func (h *Handlers) HandleConstants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, contracts.NewCatalog())
}

// HandleEnums handles GET /v1/enums.
func (h *Handlers) HandleEnums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, contracts.EnumSets())
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Shapes:  len(validate.Names()),
		Uptime:  int64(time.Since(h.startedAt).Seconds()),
	})
}
