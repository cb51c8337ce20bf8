package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"mfginsight/internal/period"
	"mfginsight/internal/warehouse"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodLabel(t *testing.T) {
	rng := period.Range{Start: day(2025, time.August, 4), End: day(2025, time.August, 10)}

	assert.Equal(t, "August 2025", periodLabel(period.TypeMonth, rng))
	assert.Equal(t, "Week of Aug 4 - Aug 10, 2025", periodLabel(period.TypeWeek, rng))
	assert.Equal(t, "August 4, 2025", periodLabel(period.TypeDay, rng))
	assert.Equal(t, "August 2025", periodLabel("anything-else", rng))
}

func TestMonthOptionsDeduplicates(t *testing.T) {
	days := []warehouse.AvailableDay{
		{FullDate: day(2025, time.September, 2)},
		{FullDate: day(2025, time.September, 1)},
		{FullDate: day(2025, time.August, 30)},
		{FullDate: day(2025, time.August, 29)},
	}

	opts := monthOptions(days)
	assert.Equal(t, []monthOption{
		{Value: "2025-09", Label: "September 2025"},
		{Value: "2025-08", Label: "August 2025"},
	}, opts)
}

func TestWeekChoicesFormatting(t *testing.T) {
	choices := weekChoices([]period.WeekWindow{
		{Year: 2025, Week: 8, Start: day(2025, time.February, 17), End: day(2025, time.February, 23)},
	})

	assert.Len(t, choices, 1)
	assert.Equal(t, "2025-W08", choices[0].Value)
	assert.Equal(t, "Week 8, 2025 (Feb 17 - Feb 23)", choices[0].Label)
}

func TestQueryDefault(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/?periodType=week&machine=")

	assert.Equal(t, "week", queryDefault(&ctx, "periodType", "month"))
	assert.Equal(t, "all", queryDefault(&ctx, "machine", "all"))
	assert.Equal(t, "2025-08", queryDefault(&ctx, "period", "2025-08"))
}
