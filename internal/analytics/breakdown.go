package analytics

import (
	"sort"

	"github.com/AngelCh415/leadpulse/internal/models"
	"github.com/AngelCh415/leadpulse/internal/status"
)

type StatusCount struct {
	Status   string        `json:"status"`
	Count    int           `json:"count"`
	Priority int           `json:"priority"`
	Leads    []models.Lead `json:"-"`
}

// Breakdown groups a bucket's leads by display label. Groups are ordered by
// size, except in the Open bucket where OpenPriority comes first and size
// only breaks ties.
func Breakdown(bucket status.Bucket, leads []models.Lead) []StatusCount {
	pos := map[string]int{}
	var out []StatusCount
	for _, l := range leads {
		label := status.DisplayLabel(l.OriginalStatus, l.NRCount)
		i, ok := pos[label]
		if !ok {
			i = len(out)
			pos[label] = i
			out = append(out, StatusCount{Status: label, Priority: status.OpenPriority(label)})
		}
		out[i].Count++
		out[i].Leads = append(out[i].Leads, l)
	}

	if bucket == status.BucketOpen {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Priority != out[j].Priority {
				return out[i].Priority < out[j].Priority
			}
			return out[i].Count > out[j].Count
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
