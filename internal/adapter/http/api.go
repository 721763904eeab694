package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/env-context-service/internal/aggregator"
	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/couchcryptid/env-context-service/internal/schema"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Gatherer builds snapshots on demand.
type Gatherer interface {
	Gather(ctx context.Context, keys aggregator.APIKeys, date time.Time) *domain.Snapshot
	GatherAdditional(ctx context.Context, keys aggregator.APIKeys) *domain.Additional
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// API serves environmental context over HTTP. Every request runs a fresh
// gather with the service's provider keys.
type API struct {
	gatherer Gatherer
	keys     aggregator.APIKeys
	logger   *slog.Logger
}

// NewAPI creates the API handlers.
func NewAPI(g Gatherer, keys aggregator.APIKeys, logger *slog.Logger) *API {
	return &API{gatherer: g, keys: keys, logger: logger}
}

// RegisterRoutes registers the /api/v1 routes on router.
func (a *API) RegisterRoutes(router *mux.Router) {
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/environment", a.GetEnvironment).Methods(http.MethodGet)
	v1.HandleFunc("/environment/text", a.GetEnvironmentText).Methods(http.MethodGet)
	v1.HandleFunc("/additional", a.GetAdditional).Methods(http.MethodGet)
}

// GetEnvironment handles GET /api/v1/environment[?date=YYYY-MM-DD].
func (a *API) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	date, ok := a.parseDate(w, r)
	if !ok {
		return
	}
	snapshot := a.gatherer.Gather(a.requestContext(r), a.keys, date)
	sharedobs.WriteJSON(w, http.StatusOK, schema.ToResponse(snapshot))
}

// GetEnvironmentText handles GET /api/v1/environment/text[?date=YYYY-MM-DD].
func (a *API) GetEnvironmentText(w http.ResponseWriter, r *http.Request) {
	date, ok := a.parseDate(w, r)
	if !ok {
		return
	}
	snapshot := a.gatherer.Gather(a.requestContext(r), a.keys, date)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(domain.FormatSnapshot(snapshot))) //nolint:errcheck // client may have gone away
}

// GetAdditional handles GET /api/v1/additional.
func (a *API) GetAdditional(w http.ResponseWriter, r *http.Request) {
	additional := a.gatherer.GatherAdditional(a.requestContext(r), a.keys)
	sharedobs.WriteJSON(w, http.StatusOK, schema.ToAdditionalResponse(additional))
}

// parseDate reads the optional date query parameter. A missing date is the
// zero time, which the aggregator resolves to today.
func (a *API) parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(schema.DateLayout, raw)
	if err != nil {
		a.logger.Debug("rejecting bad date parameter", "date", raw, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func (a *API) requestContext(r *http.Request) context.Context {
	return aggregator.WithCycleID(r.Context(), "api-"+uuid.NewString())
}

func writeError(w http.ResponseWriter, status int, message string) {
	sharedobs.WriteJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
