package handlers

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"mfginsight/internal/warehouse"
)

type dayOption struct {
	FullDate string `json:"full_date"`
}

type weekOption struct {
	Year      int    `json:"year"`
	Week      int    `json:"week"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// AvailableDays returns the distinct calendar days that have production
// data, as a JSON array. Drives the day selector; no parameters.
func AvailableDays(cat *warehouse.Catalog, log *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		days, err := cat.AvailableDays(ctx)
		if err != nil {
			log.Error("failed to fetch days", zap.Error(err))
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to fetch days")
			return
		}
		out := make([]dayOption, 0, len(days))
		for _, d := range days {
			out = append(out, dayOption{FullDate: d.FullDate.Format("2006-01-02")})
		}
		jsonResponse(ctx, out)
	}
}

// AvailableWeeks returns the (ISO year, ISO week, start, end) tuples that
// have production data, as a JSON array. Drives the week selector.
func AvailableWeeks(cat *warehouse.Catalog, log *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		weeks, err := cat.AvailableWeeks(ctx)
		if err != nil {
			log.Error("failed to fetch weeks", zap.Error(err))
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to fetch weeks")
			return
		}
		out := make([]weekOption, 0, len(weeks))
		for _, w := range weeks {
			out = append(out, weekOption{
				Year:      w.Year,
				Week:      w.Week,
				StartDate: w.Start.Format("2006-01-02"),
				EndDate:   w.End.Format("2006-01-02"),
			})
		}
		jsonResponse(ctx, out)
	}
}
