package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/leadpulse/internal/analytics"
	"github.com/AngelCh415/leadpulse/internal/models"
	"github.com/AngelCh415/leadpulse/internal/status"
	"github.com/AngelCh415/leadpulse/internal/store"
	"github.com/AngelCh415/leadpulse/internal/telemetry"
)

// Service applies the request filter to the snapshot and hands the result to
// the analytics views.
type Service struct {
	st     *store.MemoryStore
	funnel *status.Funnel
	tel    *telemetry.Collector
	log    *slog.Logger
	loc    *time.Location
	topN   int
}

func NewService(st *store.MemoryStore, funnel *status.Funnel, tel *telemetry.Collector, log *slog.Logger, loc *time.Location, topN int) *Service {
	if topN <= 0 {
		topN = analytics.DefaultTopCountries
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{st: st, funnel: funnel, tel: tel, log: log, loc: loc, topN: topN}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

// ParseFilter reads the upstream filter from query parameters. Dates are
// calendar days in the display timezone.
func (s *Service) ParseFilter(v url.Values) (models.Filter, error) {
	var f models.Filter
	var err error
	if f.From, err = s.parseDay(v.Get("from")); err != nil {
		return f, fmt.Errorf("from: %w", err)
	}
	if f.To, err = s.parseDay(v.Get("to")); err != nil {
		return f, fmt.Errorf("to: %w", err)
	}
	f.Treatments = csvSet(v.Get("treatment"))
	f.Countries = csvSet(v.Get("country"))
	f.Reps = csvSet(v.Get("rep"))
	f.Sources = csvSet(v.Get("source"))
	f.Languages = csvSet(v.Get("language"))
	return f, nil
}

func (s *Service) parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", v, s.loc)
}

func (s *Service) leads(v url.Values) ([]models.Lead, error) {
	f, err := s.ParseFilter(v)
	if err != nil {
		return nil, err
	}
	return s.st.Query(f), nil
}

func (s *Service) top(v url.Values) (int, error) {
	raw := v.Get("top")
	if raw == "" {
		return s.topN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 24 {
		return 0, fmt.Errorf("top: want 1-24, got %q", raw)
	}
	return n, nil
}

func (s *Service) observe(view string, n int, start time.Time) {
	took := time.Since(start)
	s.tel.ObserveView(view, n, took)
	s.log.Debug("view computed", slog.String("view", view), slog.Int("leads", n), slog.Duration("took", took))
}

func (s *Service) Funnel(v url.Values) (analytics.FunnelStats, error) {
	leads, err := s.leads(v)
	if err != nil {
		return analytics.FunnelStats{}, err
	}
	defer s.observe("funnel", len(leads), time.Now())
	return analytics.Funnel(s.funnel, leads), nil
}

func (s *Service) Pipeline(v url.Values) (analytics.PipelineHealth, error) {
	leads, err := s.leads(v)
	if err != nil {
		return analytics.PipelineHealth{}, err
	}
	defer s.observe("pipeline", len(leads), time.Now())
	return analytics.Pipeline(leads), nil
}

func (s *Service) Traffic(v url.Values) (analytics.TrafficMatrix, error) {
	leads, err := s.leads(v)
	if err != nil {
		return analytics.TrafficMatrix{}, err
	}
	n, err := s.top(v)
	if err != nil {
		return analytics.TrafficMatrix{}, err
	}
	defer s.observe("traffic", len(leads), time.Now())
	m := analytics.Traffic(leads, analytics.TopCountries(leads, n))
	s.tel.Skipped("traffic", "missing_date", m.Undated)
	return m, nil
}

func (s *Service) Quality(v url.Values) (analytics.QualityHeatmap, error) {
	leads, err := s.leads(v)
	if err != nil {
		return analytics.QualityHeatmap{}, err
	}
	n, err := s.top(v)
	if err != nil {
		return analytics.QualityHeatmap{}, err
	}
	defer s.observe("quality", len(leads), time.Now())
	q := analytics.Quality(leads, analytics.TopCountries(leads, n))
	s.tel.Skipped("quality", "missing_date_or_score", q.Skipped)
	return q, nil
}

func (s *Service) Momentum(v url.Values) ([]analytics.MomentumPoint, error) {
	leads, err := s.leads(v)
	if err != nil {
		return nil, err
	}
	defer s.observe("momentum", len(leads), time.Now())
	return analytics.Momentum(leads), nil
}

func (s *Service) Dashboard(ctx context.Context, v url.Values) (analytics.Dashboard, error) {
	leads, err := s.leads(v)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	n, err := s.top(v)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	defer s.observe("dashboard", len(leads), time.Now())
	return analytics.BuildDashboard(ctx, s.funnel, leads, n)
}

// StageLeads is the drill-down behind a funnel bar.
func (s *Service) StageLeads(v url.Values, stage status.Stage) ([]models.Lead, error) {
	leads, err := s.leads(v)
	if err != nil {
		return nil, err
	}
	return page(analytics.StageLeads(s.funnel, leads, stage), v), nil
}

// BucketLeads is the drill-down behind a pipeline segment.
func (s *Service) BucketLeads(v url.Values, b status.Bucket) ([]models.Lead, error) {
	leads, err := s.leads(v)
	if err != nil {
		return nil, err
	}
	return page(analytics.BucketLeads(leads, b), v), nil
}

func (s *Service) Breakdown(v url.Values, b status.Bucket) ([]analytics.StatusCount, error) {
	leads, err := s.leads(v)
	if err != nil {
		return nil, err
	}
	return analytics.Breakdown(b, analytics.BucketLeads(leads, b)), nil
}

// DayLeads is the drill-down behind a momentum point.
func (s *Service) DayLeads(v url.Values, date string) ([]models.Lead, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	leads, err := s.leads(v)
	if err != nil {
		return nil, err
	}
	return page(analytics.LeadsOn(leads, date), v), nil
}

func page(rows []models.Lead, v url.Values) []models.Lead {
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset)
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // hard cap
	if offset > n {
		offset = n
	}
	return limit, offset
}
