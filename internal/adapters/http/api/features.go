package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/zipheat/internal/app"
	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/overlay"
	"github.com/okian/zipheat/internal/domain/tooltip"
)

// FeatureDependencies defines the per-feature reads used by FeatureHandler.
type FeatureDependencies interface {
	FillColors() (map[string]colorscale.Color, error)
	Tooltip(id string) (*tooltip.Spec, error)
	Choropleth(ctx context.Context, w io.Writer) error
	Icons() ([]overlay.Icon, error)
	View() service.View
}

// FeatureHandler serves fill colors, tooltips, the annotated GeoJSON
// document, icon placements and the initial view.
type FeatureHandler struct {
	deps FeatureDependencies
}

// NewFeatureHandler creates a new feature handler.
func NewFeatureHandler(deps FeatureDependencies) *FeatureHandler {
	return &FeatureHandler{deps: deps}
}

type tooltipResponse struct {
	*tooltip.Spec
	HTML string `json:"html"`
}

// HandleColors handles GET /api/colors requests.
func (h *FeatureHandler) HandleColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.deps.FillColors()
	if err != nil {
		writeServiceError(w, r, "api.colors", err)
		return
	}
	writeJSON(w, http.StatusOK, colors)
}

// HandleTooltip handles GET /api/tooltip/{id} requests.
func (h *FeatureHandler) HandleTooltip(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	spec, err := h.deps.Tooltip(id)
	if err != nil {
		writeServiceError(w, r, "api.tooltip", err)
		return
	}
	writeJSON(w, http.StatusOK, tooltipResponse{Spec: spec, HTML: spec.HTML()})
}

// HandleChoropleth handles GET /api/choropleth.geojson requests. The
// document is buffered so that encode failures still produce an error
// status.
func (h *FeatureHandler) HandleChoropleth(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.Choropleth(r.Context(), &buf); err != nil {
		writeServiceError(w, r, "api.choropleth", err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleIcons handles GET /api/icons requests.
func (h *FeatureHandler) HandleIcons(w http.ResponseWriter, r *http.Request) {
	icons, err := h.deps.Icons()
	if err != nil {
		writeServiceError(w, r, "api.icons", err)
		return
	}
	if icons == nil {
		icons = []overlay.Icon{}
	}
	writeJSON(w, http.StatusOK, icons)
}

// HandleView handles GET /api/view requests.
func (h *FeatureHandler) HandleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.View())
}
