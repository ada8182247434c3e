package analytics

import (
	"github.com/AngelCh415/leadpulse/internal/models"
	"github.com/AngelCh415/leadpulse/internal/status"
)

type BucketStat struct {
	Bucket  status.Bucket `json:"bucket"`
	Count   int           `json:"count"`
	Percent float64       `json:"percent"`
	Leads   []models.Lead `json:"-"`
}

// PipelineHealth partitions the snapshot into the four pipeline buckets.
// Bucket counts always sum to Total.
type PipelineHealth struct {
	Total   int          `json:"total"`
	Buckets []BucketStat `json:"buckets"`
}

func (p PipelineHealth) Bucket(b status.Bucket) BucketStat {
	for _, bs := range p.Buckets {
		if bs.Bucket == b {
			return bs
		}
	}
	return BucketStat{Bucket: b}
}

func Pipeline(leads []models.Lead) PipelineHealth {
	grouped := make(map[status.Bucket][]models.Lead, len(status.Buckets))
	for _, l := range leads {
		b := status.BucketOf(l.OriginalStatus)
		grouped[b] = append(grouped[b], l)
	}
	out := PipelineHealth{Total: len(leads), Buckets: make([]BucketStat, 0, len(status.Buckets))}
	for _, b := range status.Buckets {
		ls := grouped[b]
		out.Buckets = append(out.Buckets, BucketStat{
			Bucket:  b,
			Count:   len(ls),
			Percent: pct(len(ls), len(leads)),
			Leads:   ls,
		})
	}
	return out
}

// BucketLeads re-derives one bucket's leads for drill-down.
func BucketLeads(leads []models.Lead, b status.Bucket) []models.Lead {
	var out []models.Lead
	for _, l := range leads {
		if status.BucketOf(l.OriginalStatus) == b {
			out = append(out, l)
		}
	}
	return out
}
