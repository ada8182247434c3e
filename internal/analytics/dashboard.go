package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/leadpulse/internal/models"
	"github.com/AngelCh415/leadpulse/internal/status"
)

type Dashboard struct {
	Countries []string        `json:"countries"`
	Funnel    FunnelStats     `json:"funnel"`
	Pipeline  PipelineHealth  `json:"pipeline"`
	Traffic   TrafficMatrix   `json:"traffic"`
	Quality   QualityHeatmap  `json:"quality"`
	Momentum  []MomentumPoint `json:"momentum"`
}

// BuildDashboard computes every view over the same snapshot concurrently.
// The top countries are selected once and shared by the traffic and quality
// views. topN <= 0 means DefaultTopCountries.
func BuildDashboard(ctx context.Context, f *status.Funnel, leads []models.Lead, topN int) (Dashboard, error) {
	if topN <= 0 {
		topN = DefaultTopCountries
	}
	d := Dashboard{Countries: TopCountries(leads, topN)}

	g, gctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	run(func() { d.Funnel = Funnel(f, leads) })
	run(func() { d.Pipeline = Pipeline(leads) })
	run(func() { d.Traffic = Traffic(leads, d.Countries) })
	run(func() { d.Quality = Quality(leads, d.Countries) })
	run(func() { d.Momentum = Momentum(leads) })

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
