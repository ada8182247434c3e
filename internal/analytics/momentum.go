package analytics

import (
	"sort"

	"github.com/AngelCh415/leadpulse/internal/models"
)

const (
	MomentumWindow = 7
	dateLayout     = "2006-01-02"
)

type MomentumPoint struct {
	Label  string  `json:"label"`
	Date   string  `json:"date"`
	Daily  float64 `json:"daily"`
	Moving float64 `json:"moving"`
	Count  int     `json:"count"`
}

type dayAcc struct {
	label  string
	sum    float64
	scored int
	leads  int
}

// Momentum returns the daily mean score and its trailing moving average,
// oldest day first. The average is taken over the daily means of the last
// MomentumWindow scored days, so every day weighs the same. Undated leads
// are ignored; unscored leads only add to Count, and a day with no scored
// lead is left out.
func Momentum(leads []models.Lead) []MomentumPoint {
	days := map[string]*dayAcc{}
	for _, l := range leads {
		if !l.HasDate() {
			continue
		}
		key := l.CreateDate.Format(dateLayout)
		d, ok := days[key]
		if !ok {
			d = &dayAcc{label: l.CreateDate.Format("Jan 2")}
			days[key] = d
		}
		d.leads++
		if l.HasScore() {
			d.sum += *l.LeadScore
			d.scored++
		}
	}

	keys := make([]string, 0, len(days))
	for k, d := range days {
		if d.scored > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	means := make([]float64, len(keys))
	out := make([]MomentumPoint, len(keys))
	for i, k := range keys {
		d := days[k]
		means[i] = mean(d.sum, d.scored)

		lo := i - MomentumWindow + 1
		if lo < 0 {
			lo = 0
		}
		var wsum float64
		for _, m := range means[lo : i+1] {
			wsum += m
		}
		out[i] = MomentumPoint{
			Label:  d.label,
			Date:   k,
			Daily:  round1(means[i]),
			Moving: round1(wsum / float64(i+1-lo)),
			Count:  d.leads,
		}
	}
	return out
}

// LeadsOn returns the dated leads created on date (YYYY-MM-DD).
func LeadsOn(leads []models.Lead, date string) []models.Lead {
	var out []models.Lead
	for _, l := range leads {
		if l.HasDate() && l.CreateDate.Format(dateLayout) == date {
			out = append(out, l)
		}
	}
	return out
}
