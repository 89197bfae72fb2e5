// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/zipheat/internal/app"
	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/legend"
	"github.com/okian/zipheat/internal/domain/overlay"
	"github.com/okian/zipheat/internal/domain/tooltip"
	"github.com/okian/zipheat/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	Scale() *colorscale.ThresholdScale
	ColorForValue(v float64) (int, colorscale.Color)

	LegendDefaults() (ticks int, reversed bool)
	Legend(ticks int, reversed bool) []legend.Entry
	LegendTitle() []string
	LegendSVG(ticks int, reversed bool) ([]byte, error)

	// Reads over the loaded dataset fail with service.ErrNotStarted before
	// Start and service.ErrFeatureNotFound for unknown IDs.
	FillColors() (map[string]colorscale.Color, error)
	Tooltip(id string) (*tooltip.Spec, error)
	Choropleth(ctx context.Context, w io.Writer) error
	Icons() ([]overlay.Icon, error)
	View() service.View
}

// Server wires HTTP routes for the choropleth API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	scaleHandler   *ScaleHandler
	legendHandler  *LegendHandler
	featureHandler *FeatureHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		scaleHandler:   NewScaleHandler(deps),
		legendHandler:  NewLegendHandler(deps),
		featureHandler: NewFeatureHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/scale", MetricsMiddleware(s.scaleHandler.HandleScale, "scale"))
	mux.HandleFunc("GET /api/color", MetricsMiddleware(s.scaleHandler.HandleColor, "color"))
	mux.HandleFunc("GET /api/legend", MetricsMiddleware(s.legendHandler.HandleLegend, "legend"))
	mux.HandleFunc("GET /api/legend.svg", MetricsMiddleware(s.legendHandler.HandleLegendSVG, "legend_svg"))
	mux.HandleFunc("GET /api/colors", MetricsMiddleware(s.featureHandler.HandleColors, "colors"))
	mux.HandleFunc("GET /api/tooltip/{id}", MetricsMiddleware(s.featureHandler.HandleTooltip, "tooltip"))
	mux.HandleFunc("GET /api/choropleth.geojson", MetricsMiddleware(s.featureHandler.HandleChoropleth, "choropleth"))
	mux.HandleFunc("GET /api/icons", MetricsMiddleware(s.featureHandler.HandleIcons, "icons"))
	mux.HandleFunc("GET /api/view", MetricsMiddleware(s.featureHandler.HandleView, "view"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service read errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrFeatureNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
