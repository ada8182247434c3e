package analytics

import (
	"strconv"
	"time"

	"github.com/AngelCh415/leadpulse/internal/models"
)

const noData = "-"

// HeatmapDays is the row order of the quality heatmap. The week starts on
// Saturday.
var HeatmapDays = [7]time.Weekday{
	time.Saturday, time.Sunday, time.Monday, time.Tuesday,
	time.Wednesday, time.Thursday, time.Friday,
}

// Cell is an average lead score. Count == 0 means no data and Display is
// "-" rather than a score of 0.
type Cell struct {
	Avg     float64 `json:"avg"`
	Count   int     `json:"count"`
	Display string  `json:"display"`
	sum     float64
}

func (c *Cell) add(score float64) {
	c.sum += score
	c.Count++
}

func (c *Cell) finish() {
	if c.Count == 0 {
		c.Avg, c.Display = 0, noData
		return
	}
	c.Avg = round1(mean(c.sum, c.Count))
	c.Display = strconv.FormatFloat(c.Avg, 'f', 1, 64)
}

type HeatmapRow struct {
	Day        string `json:"day"`
	Cells      []Cell `json:"cells"`
	DayAverage Cell   `json:"day_average"`
}

type QualityHeatmap struct {
	Countries       []string     `json:"countries"`
	Rows            []HeatmapRow `json:"rows"`
	CountryAverages []Cell       `json:"country_averages"`
	Skipped         int          `json:"skipped"`
}

// Quality averages lead scores per weekday and country. A nil country list
// selects the DefaultTopCountries busiest countries. Leads without a date or
// a score are counted in Skipped.
func Quality(leads []models.Lead, countries []string) QualityHeatmap {
	if countries == nil {
		countries = TopCountries(leads, DefaultTopCountries)
	}
	idx := countrySet(countries)

	var rowOf [7]int
	q := QualityHeatmap{
		Countries:       countries,
		Rows:            make([]HeatmapRow, len(HeatmapDays)),
		CountryAverages: make([]Cell, len(countries)),
	}
	for i, d := range HeatmapDays {
		rowOf[d] = i
		q.Rows[i] = HeatmapRow{Day: d.String(), Cells: make([]Cell, len(countries))}
	}

	for _, l := range leads {
		col, ok := idx[l.CountryKey()]
		if !ok {
			continue
		}
		if !l.HasDate() || !l.HasScore() {
			q.Skipped++
			continue
		}
		score := *l.LeadScore
		row := &q.Rows[rowOf[l.CreateDate.Weekday()]]
		row.Cells[col].add(score)
		row.DayAverage.add(score)
		q.CountryAverages[col].add(score)
	}

	for i := range q.Rows {
		for j := range q.Rows[i].Cells {
			q.Rows[i].Cells[j].finish()
		}
		q.Rows[i].DayAverage.finish()
	}
	for j := range q.CountryAverages {
		q.CountryAverages[j].finish()
	}
	return q
}
