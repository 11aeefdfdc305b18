package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/user/listings-service/internal/delivery/http/request"
	"github.com/user/listings-service/internal/delivery/http/response"
	"github.com/user/listings-service/internal/repository"
	"github.com/user/listings-service/internal/usecase"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	listings usecase.ListingsService
	cars     usecase.CarService
	contact  usecase.ContactService
	runs     repository.RunRepository
	checks   map[string]HealthCheck
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler wires the handlers. runs may be nil when no run log is kept.
func NewHandler(
	listings usecase.ListingsService,
	cars usecase.CarService,
	contact usecase.ContactService,
	runs repository.RunRepository,
	checks map[string]HealthCheck,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		listings: listings,
		cars:     cars,
		contact:  contact,
		runs:     runs,
		checks:   checks,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Bilstudio server kjører."))
}

func (h *Handler) HandlePing(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.PingResponse{OK: true, Time: h.now().UTC()})
}

// HandleListings serves the extracted listings for ?orgId= (default org
// when empty). ?refresh=1 skips the cache.
func (h *Handler) HandleListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orgID := q.Get("orgId")

	if refresh, _ := strconv.ParseBool(q.Get("refresh")); refresh {
		if err := h.listings.Invalidate(r.Context(), orgID); err != nil && !errors.Is(err, usecase.ErrInvalidOrgID) {
			h.logger.Warn("cache invalidation failed", zap.String("org_id", orgID), zap.Error(err))
		}
	}

	res, err := h.listings.Listings(r.Context(), orgID)
	if err != nil {
		var fetchErr *usecase.FetchError
		switch {
		case errors.Is(err, usecase.ErrInvalidOrgID):
			h.writeJSON(w, http.StatusBadRequest, response.ListingsError(err.Error(), 0))
		case errors.Is(err, usecase.ErrConfiguration):
			h.logger.Error("listings misconfigured", zap.Error(err))
			h.writeJSON(w, http.StatusInternalServerError, response.ListingsError(err.Error(), 0))
		case errors.As(err, &fetchErr):
			h.writeJSON(w, http.StatusBadGateway, response.ListingsError(fetchErr.Error(), fetchErr.UpstreamStatus()))
		default:
			h.logger.Error("listings failed", zap.String("org_id", orgID), zap.Error(err))
			h.writeJSON(w, http.StatusInternalServerError, response.ListingsError("internal server error", 0))
		}
		return
	}

	h.logger.Info("listings served",
		zap.String("org_id", res.Snapshot.OrgID),
		zap.Int("count", len(res.Snapshot.Result.Items)),
		zap.Bool("cached", res.Cached))
	h.writeJSON(w, http.StatusOK, response.NewListingsResponse(res))
}

func (h *Handler) HandleActiveCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.cars.ActiveCars(r.Context())
	if err != nil {
		h.logger.Error("failed to list cars", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, cars)
}

func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		h.writeJSONError(w, "Ugyldig forespørsel", http.StatusBadRequest)
		return
	}

	err := h.contact.Submit(r.Context(), req.ToEntity())
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, response.ContactResponse{Success: true})
	case errors.Is(err, usecase.ErrMissingFields):
		h.writeJSONError(w, "Mangler påkrevde felt", http.StatusBadRequest)
	default:
		h.logger.Error("contact submission failed", zap.Error(err))
		h.writeJSONError(w, "Kunne ikke sende e-post", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleTestMail(w http.ResponseWriter, r *http.Request) {
	if err := h.contact.SendTest(r.Context()); err != nil {
		h.logger.Error("test mail failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) HandleRecentRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		h.writeJSONError(w, "Run log is not enabled", http.StatusNotFound)
		return
	}
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.runs.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load runs", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewRunResponses(runs))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "unhealthy"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "healthy"
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
