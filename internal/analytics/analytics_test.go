package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/leadpulse/internal/models"
	"github.com/AngelCh415/leadpulse/internal/status"
)

func intp(i int) *int           { return &i }
func scorep(f float64) *float64 { return &f }
func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPipelineExampleScenario(t *testing.T) {
	leads := []models.Lead{
		{ID: "1", OriginalStatus: "New Lead"},
		{ID: "2", OriginalStatus: "NR", NRCount: intp(2)},
		{ID: "3", OriginalStatus: "Operation Done"},
		{ID: "4", OriginalStatus: "High Price"},
	}
	p := Pipeline(leads)
	assert.Equal(t, 2, p.Bucket(status.BucketOpen).Count)
	assert.Equal(t, 1, p.Bucket(status.BucketClosedSuccess).Count)
	assert.Equal(t, 1, p.Bucket(status.BucketNegativeLost).Count)
	assert.Equal(t, 0, p.Bucket(status.BucketActive).Count)
	assert.Equal(t, 50.0, p.Bucket(status.BucketOpen).Percent)

	open := Breakdown(status.BucketOpen, p.Bucket(status.BucketOpen).Leads)
	require.Len(t, open, 2)
	assert.Equal(t, "New Lead", open[0].Status)
	assert.Equal(t, 0, open[0].Priority)
	assert.Equal(t, "NR2", open[1].Status)
	assert.Equal(t, 4, open[1].Priority)
}

func TestPipelineTotality(t *testing.T) {
	leads := []models.Lead{
		{OriginalStatus: ""}, {OriginalStatus: "  "}, {OriginalStatus: "nr9"},
		{OriginalStatus: "Block"}, {OriginalStatus: "Ticket Received"}, {OriginalStatus: "who knows"},
	}
	p := Pipeline(leads)
	sum := 0
	for _, b := range p.Buckets {
		sum += b.Count
		assert.GreaterOrEqual(t, b.Percent, 0.0)
		assert.LessOrEqual(t, b.Percent, 100.0)
		assert.Len(t, b.Leads, b.Count)
		assert.Equal(t, b.Leads, BucketLeads(leads, b.Bucket))
	}
	assert.Equal(t, len(leads), sum)
	assert.Equal(t, len(leads), p.Total)
}

func TestPipelineEmpty(t *testing.T) {
	p := Pipeline(nil)
	require.Len(t, p.Buckets, 4)
	for _, b := range p.Buckets {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percent)
	}
}

func TestFunnelCountsAndConversion(t *testing.T) {
	leads := []models.Lead{
		{OriginalStatus: "Operation Done"},
		{OriginalStatus: "Interested"},
		{OriginalStatus: "Offer Sent"},
		{OriginalStatus: "High Price"},
		{OriginalStatus: "gibberish"},
		{OriginalStatus: "Ticket Received"},
		{OriginalStatus: "waiting evaluation"},
		{OriginalStatus: ""},
	}
	s := Funnel(status.DefaultFunnel, leads)
	assert.Equal(t, 8, s.Count(status.StageNew))
	assert.Equal(t, 1, s.Count(status.StageInterested))
	assert.Equal(t, 1, s.Count(status.StageWaitingEval))
	assert.Equal(t, 1, s.Count(status.StageOfferSent))
	assert.Equal(t, 2, s.Count(status.StageSuccess))
	assert.Equal(t, 1, s.Count(status.StageNegativeLost))
	assert.Equal(t, "25.0", s.ConversionRate)

	assert.Equal(t, "0", Funnel(status.DefaultFunnel, nil).ConversionRate)
	assert.Len(t, StageLeads(status.DefaultFunnel, leads, status.StageSuccess), 2)
}

func TestFunnelOverlappingSets(t *testing.T) {
	f := status.NewFunnel(status.Taxonomy{Interested: []string{"hot"}, OfferSent: []string{"hot"}})
	s := Funnel(f, []models.Lead{{OriginalStatus: "Hot"}})
	assert.Equal(t, 1, s.Count(status.StageInterested))
	assert.Equal(t, 1, s.Count(status.StageOfferSent))
	assert.Equal(t, "0.0", s.ConversionRate)
}

func TestTopCountriesTieBreakAndStability(t *testing.T) {
	var leads []models.Lead
	for _, c := range []string{"FR", "DE", "", "DE", "ES", "FR", "IT", "NL", "PT", "PT"} {
		leads = append(leads, models.Lead{Country: c})
	}
	top := TopCountries(leads, 5)
	assert.Equal(t, []string{"FR", "DE", "PT", models.UnknownCountry, "ES"}, top)
	assert.Equal(t, top, TopCountries(leads, 5))
	assert.Empty(t, TopCountries(nil, 5))
}

func TestTrafficExampleScenario(t *testing.T) {
	leads := []models.Lead{
		{Country: "DE", CreateDate: at("2025-03-03 09:10")},
		{Country: "DE", CreateDate: at("2025-03-04 09:55")},
		{Country: "DE", CreateDate: at("2025-03-04 14:00")},
		{Country: "DE"},
	}
	m := Traffic(leads, nil)
	require.Equal(t, []string{"DE"}, m.Countries)
	assert.Equal(t, 2, m.Rows[0].Hours[9])
	assert.Equal(t, 1, m.Rows[0].Hours[14])
	assert.Equal(t, 2, m.Max)
	assert.Equal(t, 1, m.Undated)
	assert.Equal(t, 1.0, m.Intensity(0, 9))
	assert.Equal(t, 0.5, m.Intensity(0, 14))
	assert.Zero(t, m.Intensity(3, 9))
}

func TestTrafficIgnoresCountriesOutsideSelection(t *testing.T) {
	leads := []models.Lead{
		{Country: "DE", CreateDate: at("2025-03-03 09:00")},
		{Country: "FR", CreateDate: at("2025-03-03 10:00")},
	}
	m := Traffic(leads, []string{"FR"})
	require.Len(t, m.Rows, 1)
	assert.Equal(t, 1, m.Rows[0].Hours[10])
	assert.Zero(t, m.Rows[0].Hours[9])
	assert.Equal(t, 1, m.Max)
}

func TestQualityHeatmap(t *testing.T) {
	// 2025-03-01 is a Saturday, 2025-03-03 a Monday.
	leads := []models.Lead{
		{Country: "DE", CreateDate: at("2025-03-01 10:00"), LeadScore: scorep(8)},
		{Country: "DE", CreateDate: at("2025-03-01 11:00"), LeadScore: scorep(6)},
		{Country: "FR", CreateDate: at("2025-03-01 12:00"), LeadScore: scorep(4)},
		{Country: "FR", CreateDate: at("2025-03-03 12:00"), LeadScore: scorep(9)},
		{Country: "FR", CreateDate: at("2025-03-03 12:00")},
		{Country: "DE", LeadScore: scorep(1)},
	}
	q := Quality(leads, nil)
	require.Equal(t, []string{"DE", "FR"}, q.Countries)
	require.Len(t, q.Rows, 7)
	assert.Equal(t, "Saturday", q.Rows[0].Day)
	assert.Equal(t, "Sunday", q.Rows[1].Day)
	assert.Equal(t, "Friday", q.Rows[6].Day)

	sat := q.Rows[0]
	assert.Equal(t, 7.0, sat.Cells[0].Avg)
	assert.Equal(t, "7.0", sat.Cells[0].Display)
	assert.Equal(t, 4.0, sat.Cells[1].Avg)
	assert.Equal(t, 6.0, sat.DayAverage.Avg)
	assert.Equal(t, 3, sat.DayAverage.Count)

	sun := q.Rows[1]
	assert.Equal(t, "-", sun.Cells[0].Display)
	assert.Equal(t, "-", sun.DayAverage.Display)
	assert.Zero(t, sun.DayAverage.Count)

	assert.Equal(t, 9.0, q.Rows[2].Cells[1].Avg)
	assert.Equal(t, 7.0, q.CountryAverages[0].Avg)
	assert.Equal(t, 6.5, q.CountryAverages[1].Avg)
	assert.Equal(t, 2, q.Skipped)

	b, err := json.Marshal(sat)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"Saturday",
		"cells":[{"avg":7,"count":2,"display":"7.0"},{"avg":4,"count":1,"display":"4.0"}],
		"day_average":{"avg":6,"count":3,"display":"6.0"}}`, string(b))
}

func TestMomentumSingleDay(t *testing.T) {
	var leads []models.Lead
	for i := 1; i <= 10; i++ {
		leads = append(leads, models.Lead{CreateDate: at("2025-05-10 08:00").Add(time.Duration(i) * time.Hour), LeadScore: scorep(float64(i))})
	}
	pts := Momentum(leads)
	require.Len(t, pts, 1)
	assert.Equal(t, 5.5, pts[0].Daily)
	assert.Equal(t, 5.5, pts[0].Moving)
	assert.Equal(t, 10, pts[0].Count)
	assert.Equal(t, "2025-05-10", pts[0].Date)
	assert.Equal(t, "May 10", pts[0].Label)
	assert.Len(t, LeadsOn(leads, "2025-05-10"), 10)
}

func TestMomentumTrailingWindow(t *testing.T) {
	var leads []models.Lead
	start := at("2025-01-01 12:00")
	// Nine consecutive days, inserted newest first; day i scores i+1.
	for i := 8; i >= 0; i-- {
		leads = append(leads, models.Lead{CreateDate: start.AddDate(0, 0, i), LeadScore: scorep(float64(i + 1))})
	}
	// A heavy day must not outweigh the others in the window.
	leads = append(leads,
		models.Lead{CreateDate: start, LeadScore: scorep(1)},
		models.Lead{CreateDate: start, LeadScore: scorep(1)},
		models.Lead{CreateDate: start.AddDate(0, 0, 1)},
		models.Lead{OriginalStatus: "no date", LeadScore: scorep(10)},
	)

	pts := Momentum(leads)
	require.Len(t, pts, 9)
	for i := 1; i < len(pts); i++ {
		assert.Less(t, pts[i-1].Date, pts[i].Date)
	}
	assert.Equal(t, 1.0, pts[0].Moving)
	assert.Equal(t, 3, pts[0].Count)
	assert.Equal(t, 2, pts[1].Count)
	assert.Equal(t, 1.5, pts[1].Moving)
	assert.Equal(t, 4.0, pts[6].Moving)
	// Window 2..8 -> mean 5, then 3..9 -> mean 6.
	assert.Equal(t, 5.0, pts[7].Moving)
	assert.Equal(t, 6.0, pts[8].Moving)
}

func TestMomentumWindowCountsEntriesNotCalendarDays(t *testing.T) {
	days := []string{
		"2024-12-31", "2025-01-03", "2025-01-10", "2025-01-20", "2025-02-02",
		"2025-02-14", "2025-03-01", "2025-03-30", "2025-04-15",
	}
	var leads []models.Lead
	for i := len(days) - 1; i >= 0; i-- {
		leads = append(leads, models.Lead{CreateDate: at(days[i] + " 09:00"), LeadScore: scorep(float64(i + 1))})
	}
	// A day with only unscored leads is not an entry and does not shift the window.
	leads = append(leads, models.Lead{CreateDate: at("2025-03-15 09:00")})

	pts := Momentum(leads)
	require.Len(t, pts, len(days))
	for i, d := range days {
		assert.Equal(t, d, pts[i].Date)
		assert.Equal(t, float64(i+1), pts[i].Daily)
	}
	assert.Equal(t, "Dec 31", pts[0].Label)
	// Seven entries span three months here: 1..7 -> 4, 2..8 -> 5, 3..9 -> 6.
	assert.Equal(t, 4.0, pts[6].Moving)
	assert.Equal(t, 5.0, pts[7].Moving)
	assert.Equal(t, 6.0, pts[8].Moving)
}

func TestMomentumSkipsDaysWithoutScores(t *testing.T) {
	leads := []models.Lead{{CreateDate: at("2025-01-01 10:00")}}
	assert.Empty(t, Momentum(leads))
}

func TestUndatedLeadOnlyInCountAggregates(t *testing.T) {
	leads := []models.Lead{{ID: "x", OriginalStatus: "Wrong Number", Country: "DE", LeadScore: scorep(3)}}
	d, err := BuildDashboard(context.Background(), status.DefaultFunnel, leads, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Pipeline.Bucket(status.BucketNegativeLost).Count)
	assert.Equal(t, 1, d.Funnel.Count(status.StageNegativeLost))
	assert.Zero(t, d.Traffic.Max)
	assert.Equal(t, 1, d.Traffic.Undated)
	for _, r := range d.Quality.Rows {
		assert.Zero(t, r.DayAverage.Count)
	}
	assert.Empty(t, d.Momentum)
}

func TestBreakdownDefaultOrder(t *testing.T) {
	leads := []models.Lead{
		{OriginalStatus: "Interested"},
		{OriginalStatus: "Call Back"},
		{OriginalStatus: "Call Back"},
		{OriginalStatus: "interested"},
	}
	got := Breakdown(status.BucketActive, leads)
	require.Len(t, got, 3)
	assert.Equal(t, "Call Back", got[0].Status)
	assert.Equal(t, 2, got[0].Count)
	// Raw casing is preserved, so these stay separate and keep first-seen order.
	assert.Equal(t, "Interested", got[1].Status)
	assert.Equal(t, "interested", got[2].Status)
}

func TestBreakdownOpenPriority(t *testing.T) {
	leads := []models.Lead{
		{OriginalStatus: "NR7"},
		{OriginalStatus: "NR", NRCount: intp(1)},
		{OriginalStatus: "NR"},
		{OriginalStatus: "NR - later"},
		{OriginalStatus: "NR - later"},
		{OriginalStatus: "nr0"},
		{OriginalStatus: "New Lead"},
	}
	var got []string
	for _, sc := range Breakdown(status.BucketOpen, leads) {
		got = append(got, sc.Status)
	}
	assert.Equal(t, []string{"New Lead", "NR", "nr0", "NR1", "NR7", "NR - later"}, got)
}

func TestBuildDashboardCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildDashboard(ctx, status.DefaultFunnel, []models.Lead{{}}, 5)
	assert.ErrorIs(t, err, context.Canceled)
}
