package usecase

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

// TopIndustries is the length of the industry ranking.
const TopIndustries = 10

type MetricsReader struct {
	stats StatsGateway
}

func NewMetricsReader(stats StatsGateway) *MetricsReader {
	return &MetricsReader{stats: stats}
}

func (r *MetricsReader) Read(ctx context.Context, token string) (*entity.HomeMetrics, error) {
	m, err := r.stats.HomeMetrics(ctx, token)
	if err != nil {
		return nil, panelError(err, "metrics_unavailable")
	}
	return m, nil
}

// StatusShare is one bar of the status distribution.
type StatusShare struct {
	Status  string
	Count   int
	Percent float64
	Tone    entity.Tone
}

// StatsView is the stats panel content.
type StatsView struct {
	Total        int
	Statuses     []StatusShare
	Industries   entity.Counts
	IndustryPeak int
}

type StatsReader struct {
	stats StatsGateway
}

func NewStatsReader(stats StatsGateway) *StatsReader {
	return &StatsReader{stats: stats}
}

func (r *StatsReader) Read(ctx context.Context, token string) (*StatsView, error) {
	s, err := r.stats.Stats(ctx, token)
	if err != nil {
		return nil, panelError(err, "stats_unavailable")
	}
	return BuildStatsView(s), nil
}

// BuildStatsView keeps every status in backend order and ranks industries.
// Percentages are of the status total, falling back to the reported total.
func BuildStatsView(s *entity.Stats) *StatsView {
	denom := s.ByStatus.Total()
	if denom == 0 {
		denom = s.Total
	}

	v := &StatsView{Total: s.Total}
	for _, c := range s.ByStatus {
		share := StatusShare{Status: entity.StatusLabel(c.Key), Count: c.Value, Tone: entity.StatusTone(c.Key)}
		if denom > 0 {
			share.Percent = float64(c.Value) * 100 / float64(denom)
		}
		v.Statuses = append(v.Statuses, share)
	}

	v.Industries = s.ByIndustry.Top(TopIndustries)
	if len(v.Industries) > 0 {
		v.IndustryPeak = v.Industries[0].Value
	}
	return v
}

func panelError(err error, code string) error {
	if errors.Is(err, crm.ErrUnauthorized) {
		return ErrSessionExpired
	}
	return &TechnicalError{Code: code, Message: code, Err: err}
}

// DashboardView holds both panels. A failed panel has its error set and
// does not affect the other.
type DashboardView struct {
	Metrics    *entity.HomeMetrics
	MetricsErr error
	Stats      *StatsView
	StatsErr   error
}

type Dashboard struct {
	Metrics *MetricsReader
	Stats   *StatsReader
}

func NewDashboard(stats StatsGateway) *Dashboard {
	return &Dashboard{Metrics: NewMetricsReader(stats), Stats: NewStatsReader(stats)}
}

// Load fetches both panels concurrently. A failed panel never cancels the
// other and each keeps its own error.
func (d *Dashboard) Load(ctx context.Context, token string) DashboardView {
	var v DashboardView
	var g errgroup.Group

	g.Go(func() error {
		v.Metrics, v.MetricsErr = d.Metrics.Read(ctx, token)
		return v.MetricsErr
	})
	g.Go(func() error {
		v.Stats, v.StatsErr = d.Stats.Read(ctx, token)
		return v.StatsErr
	})
	if err := g.Wait(); err != nil && !errors.Is(err, ErrSessionExpired) {
		logger.LogError(err, "dashboard panel unavailable")
	}

	return v
}
