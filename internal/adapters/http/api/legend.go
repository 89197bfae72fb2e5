package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/zipheat/internal/domain/legend"
	"github.com/okian/zipheat/pkg/metrics"
)

// maxTicks bounds the ticks query parameter.
const maxTicks = 256

// LegendDependencies defines the legend operations used by LegendHandler.
type LegendDependencies interface {
	LegendDefaults() (ticks int, reversed bool)
	Legend(ticks int, reversed bool) []legend.Entry
	LegendTitle() []string
	LegendSVG(ticks int, reversed bool) ([]byte, error)
}

// LegendHandler serves legend entries as JSON and SVG.
type LegendHandler struct {
	deps LegendDependencies
}

// NewLegendHandler creates a new legend handler.
func NewLegendHandler(deps LegendDependencies) *LegendHandler {
	return &LegendHandler{deps: deps}
}

type legendResponse struct {
	Title   []string       `json:"title"`
	Entries []legend.Entry `json:"entries"`
}

// HandleLegend handles GET /api/legend?ticks=n&reversed=b requests.
func (h *LegendHandler) HandleLegend(w http.ResponseWriter, r *http.Request) {
	ticks, reversed, err := h.params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entries := h.deps.Legend(ticks, reversed)
	if entries == nil {
		entries = []legend.Entry{}
	}
	metrics.RecordLegendRender("json")
	writeJSON(w, http.StatusOK, legendResponse{Title: h.deps.LegendTitle(), Entries: entries})
}

// HandleLegendSVG handles GET /api/legend.svg requests.
func (h *LegendHandler) HandleLegendSVG(w http.ResponseWriter, r *http.Request) {
	ticks, reversed, err := h.params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	svg, err := h.deps.LegendSVG(ticks, reversed)
	if err != nil {
		writeServiceError(w, r, "api.legend_svg", err)
		return
	}
	metrics.RecordLegendRender("svg")
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// params reads ticks and reversed, falling back to the configured defaults.
func (h *LegendHandler) params(r *http.Request) (int, bool, error) {
	ticks, reversed := h.deps.LegendDefaults()
	q := r.URL.Query()
	if raw := q.Get("ticks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxTicks {
			return 0, false, fmt.Errorf("%w: %q must be an integer in [0, %d]", ErrBadTicks, raw, maxTicks)
		}
		ticks = n
	}
	if raw := q.Get("reversed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, false, fmt.Errorf("%w: reversed=%q", ErrBadRequest, raw)
		}
		reversed = b
	}
	return ticks, reversed, nil
}
