// Package analytics computes the dashboard views over an already filtered
// lead snapshot. Every function here is pure: the same leads always give the
// same view and no input is modified.
package analytics

import (
	"strconv"

	"github.com/AngelCh415/leadpulse/internal/models"
	"github.com/AngelCh415/leadpulse/internal/status"
)

type StageCount struct {
	Stage status.Stage `json:"stage"`
	Count int          `json:"count"`
}

type FunnelStats struct {
	Stages []StageCount `json:"stages"`
	// ConversionRate is success/new in percent with one decimal, "0" when
	// there are no leads.
	ConversionRate string `json:"conversion_rate"`
}

func (s FunnelStats) Count(stage status.Stage) int {
	for _, sc := range s.Stages {
		if sc.Stage == stage {
			return sc.Count
		}
	}
	return 0
}

// StageLeads returns the leads whose status belongs to stage, in input order.
func StageLeads(f *status.Funnel, leads []models.Lead, stage status.Stage) []models.Lead {
	if stage == status.StageNew {
		return leads
	}
	var out []models.Lead
	for _, l := range leads {
		if f.Member(stage, l.OriginalStatus) {
			out = append(out, l)
		}
	}
	return out
}

func Funnel(f *status.Funnel, leads []models.Lead) FunnelStats {
	stats := FunnelStats{Stages: make([]StageCount, 0, len(status.Stages))}
	for _, st := range status.Stages {
		stats.Stages = append(stats.Stages, StageCount{Stage: st, Count: len(StageLeads(f, leads, st))})
	}
	stats.ConversionRate = conversionRate(stats.Count(status.StageSuccess), stats.Count(status.StageNew))
	return stats
}

func conversionRate(success, total int) string {
	if total == 0 {
		return "0"
	}
	return strconv.FormatFloat(round1(float64(success)/float64(total)*100), 'f', 1, 64)
}
