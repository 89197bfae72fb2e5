// Package verify checks a running server against locally computed colors
// and tooltips for the same dataset and scale.
package verify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/okian/zipheat/internal/domain/colorscale"
	"github.com/okian/zipheat/internal/domain/feature"
	"github.com/okian/zipheat/internal/domain/tooltip"
	"github.com/okian/zipheat/pkg/logger"
	"github.com/okian/zipheat/pkg/metrics"
)

// Sentinel error kinds for this package.
var (
	ErrUnhealthy = errors.New("server unhealthy")
	ErrFetch     = errors.New("fetch failed")
)

// Check names.
const (
	CheckColor   = "color"
	CheckTooltip = "tooltip"
)

// Mismatch is one disagreement between the server and the local computation.
type Mismatch struct {
	Check string `json:"check"`
	ID    string `json:"id"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

// Report holds the outcome of a run.
type Report struct {
	Features        int
	ColorMatches    int
	ColorMismatches int
	ExtraColors     int
	TooltipMatches  int
	TooltipMismatch int
	TooltipErrors   int
	Mismatches      []Mismatch
	Duration        time.Duration
}

// OK reports whether every check matched.
func (r *Report) OK() bool {
	return r.ColorMismatches == 0 && r.ExtraColors == 0 && r.TooltipMismatch == 0 && r.TooltipErrors == 0
}

// String summarizes the report on one line.
func (r *Report) String() string {
	return fmt.Sprintf("%s features: colors %s ok / %s mismatched / %s extra, tooltips %s ok / %s mismatched / %s failed in %s",
		humanize.Comma(int64(r.Features)),
		humanize.Comma(int64(r.ColorMatches)),
		humanize.Comma(int64(r.ColorMismatches)),
		humanize.Comma(int64(r.ExtraColors)),
		humanize.Comma(int64(r.TooltipMatches)),
		humanize.Comma(int64(r.TooltipMismatch)),
		humanize.Comma(int64(r.TooltipErrors)),
		r.Duration.Round(time.Millisecond),
	)
}

// recorder collects mismatches from concurrent workers.
type recorder struct {
	mu         sync.Mutex
	mismatches []Mismatch
}

func (rc *recorder) add(m Mismatch) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.mismatches) < maxMismatches {
		rc.mismatches = append(rc.mismatches, m)
	}
}

// Run fetches /api/colors and every /api/tooltip/{id} from the server at
// cfg.BaseURL and compares them with the colors scale assigns to ds. An error
// is returned only when the server cannot be checked at all; mismatches are
// reported on the Report.
func Run(ctx context.Context, cfg Config, ds *feature.Dataset, scale *colorscale.ThresholdScale) (*Report, error) {
	cfg = cfg.withDefaults()
	start := time.Now()
	log := logger.Named("verify")

	log.Info(ctx, "starting verification",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("features", ds.Len()),
		logger.Int("workers", cfg.Workers),
		logger.Float64("rate", cfg.Rate),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := checkHealth(ctx, c); err != nil {
		return nil, err
	}

	report := &Report{Features: ds.Len()}
	rec := &recorder{}

	if err := checkColors(ctx, c, cfg, ds, scale, report, rec); err != nil {
		return nil, err
	}
	checkTooltips(ctx, c, cfg, ds, report, rec)

	report.Mismatches = rec.mismatches
	sort.SliceStable(report.Mismatches, func(i, j int) bool {
		if report.Mismatches[i].Check != report.Mismatches[j].Check {
			return report.Mismatches[i].Check < report.Mismatches[j].Check
		}
		return report.Mismatches[i].ID < report.Mismatches[j].ID
	})
	report.Duration = time.Since(start)

	log.Info(ctx, "verification completed",
		logger.Bool("ok", report.OK()),
		logger.Int("colorMismatches", report.ColorMismatches),
		logger.Int("tooltipMismatches", report.TooltipMismatch),
		logger.Int("tooltipErrors", report.TooltipErrors),
		logger.Duration("took", report.Duration))
	return report, ctx.Err()
}

// checkHealth verifies the server is up.
func checkHealth(ctx context.Context, c *client) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// checkColors compares every served fill color with the local one.
func checkColors(ctx context.Context, c *client, cfg Config, ds *feature.Dataset, scale *colorscale.ThresholdScale, report *Report, rec *recorder) error {
	var served map[string]colorscale.Color
	if err := c.getJSON(ctx, "/api/colors", &served); err != nil {
		metrics.RecordVerifyCheck(CheckColor, metrics.VerifyError)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	for _, f := range ds.All() {
		v, ok := f.Number(cfg.MetricField)
		if !ok {
			v = math.NaN()
		}
		want := scale.ColorFor(v)
		got, ok := served[f.ID]
		switch {
		case !ok:
			report.ColorMismatches++
			rec.add(Mismatch{Check: CheckColor, ID: f.ID, Want: want.Hex(), Got: "missing"})
			metrics.RecordVerifyCheck(CheckColor, metrics.VerifyMismatch)
		case got != want:
			report.ColorMismatches++
			rec.add(Mismatch{Check: CheckColor, ID: f.ID, Want: want.Hex(), Got: got.Hex()})
			metrics.RecordVerifyCheck(CheckColor, metrics.VerifyMismatch)
		default:
			report.ColorMatches++
			metrics.RecordVerifyCheck(CheckColor, metrics.VerifyMatch)
		}
	}
	for id := range served {
		if _, ok := ds.Lookup(id); !ok {
			report.ExtraColors++
			rec.add(Mismatch{Check: CheckColor, ID: id, Want: "absent", Got: served[id].Hex()})
		}
	}
	return nil
}

// checkTooltips fetches every tooltip with at most cfg.Workers requests in
// flight, paced by cfg.Rate.
func checkTooltips(ctx context.Context, c *client, cfg Config, ds *feature.Dataset, report *Report, rec *recorder) {
	var matched, mismatched, failed atomic.Int64

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, f := range ds.All() {
		if err := limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			switch m, err := checkTooltip(gctx, c, cfg.Tooltips, f); {
			case err != nil:
				failed.Add(1)
				rec.add(Mismatch{Check: CheckTooltip, ID: f.ID, Want: "200", Got: err.Error()})
				metrics.RecordVerifyCheck(CheckTooltip, metrics.VerifyError)
			case m != nil:
				mismatched.Add(1)
				rec.add(*m)
				metrics.RecordVerifyCheck(CheckTooltip, metrics.VerifyMismatch)
			default:
				matched.Add(1)
				metrics.RecordVerifyCheck(CheckTooltip, metrics.VerifyMatch)
			}
			return nil // one bad feature must not stop the run
		})
	}
	_ = g.Wait()

	report.TooltipMatches = int(matched.Load())
	report.TooltipMismatch = int(mismatched.Load())
	report.TooltipErrors = int(failed.Load())
}

// checkTooltip returns a mismatch, or an error when the tooltip could not be
// fetched.
func checkTooltip(ctx context.Context, c *client, local *tooltip.Formatter, f *feature.Feature) (*Mismatch, error) {
	var got tooltip.Spec
	if err := c.getJSON(ctx, tooltipPath(f.ID), &got); err != nil {
		return nil, err
	}
	if got.ID != f.ID {
		return &Mismatch{Check: CheckTooltip, ID: f.ID, Want: f.ID, Got: got.ID}, nil
	}
	if local == nil {
		return nil, nil
	}
	want := local.Format(f)
	if len(want.Rows) != len(got.Rows) {
		return &Mismatch{Check: CheckTooltip, ID: f.ID,
			Want: fmt.Sprintf("%d rows", len(want.Rows)),
			Got:  fmt.Sprintf("%d rows", len(got.Rows))}, nil
	}
	for i := range want.Rows {
		if want.Rows[i] != got.Rows[i] {
			return &Mismatch{Check: CheckTooltip, ID: f.ID,
				Want: want.Rows[i].Label + ": " + want.Rows[i].Value,
				Got:  got.Rows[i].Label + ": " + got.Rows[i].Value}, nil
		}
	}
	return nil, nil
}
