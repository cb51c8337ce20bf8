package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mfginsight/internal/compose"
	"mfginsight/internal/config"
	"mfginsight/internal/period"
	"mfginsight/internal/warehouse"
	ui "mfginsight/web"
)

type pageBase struct {
	Title      string
	ActivePage string
	UpdatedAt  string
}

type monthOption struct {
	Value string
	Label string
}

type weekChoice struct {
	Value string
	Label string
}

type machineRow struct {
	MachineCode    string
	MachineName    string
	TotalGood      string
	QualityRate    string
	DaysActive     int64
	UniqueArticles int64
}

type operatorRow struct {
	Rank        int
	Name        string
	MachineCode string
	GoodPieces  string
	QualityRate string
	Events      int64
}

type trendRow struct {
	Date            string
	MachineCode     string
	DailyProduction string
	AvgQuality      string
	ActiveOperators int64
	Events          int64
}

type qualityOverview struct {
	TotalGood     string
	TotalRejected string
	AvgQuality    string
}

type dashboardView struct {
	pageBase
	PeriodType      string
	PeriodValue     string
	PeriodLabel     string
	SelectedMachine string
	Machines        []warehouse.Machine
	MonthOptions    []monthOption
	WeekOptions     []weekChoice
	DayOptions      []string

	TotalProduction    string
	QualityRate        string
	MaterialEfficiency string
	TotalMachines      int64
	TotalOperators     int64

	Trend        []trendRow
	MachineRows  []machineRow
	OperatorRows []operatorRow
	Quality      qualityOverview
}

// DashboardPage renders the production dashboard: period + machine filters,
// KPI cards, trend and performance tables, and the quality overview. The
// independent warehouse reads run concurrently; composition starts once all
// of them have completed.
func DashboardPage(gw *warehouse.Gateway, cat *warehouse.Catalog, resolver *period.Resolver, cfg *config.Config, log *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		periodType := queryDefault(ctx, "periodType", period.TypeMonth)
		periodValue := queryDefault(ctx, "period", cfg.DefaultMonth)
		machine := queryDefault(ctx, "machine", warehouse.MachineAll)

		rng := resolver.Resolve(ctx, periodType, periodValue)

		var (
			machines     []warehouse.Machine
			kpi          warehouse.KPISummary
			trend        []warehouse.ProductionTrend
			machinePerf  []warehouse.MachinePerformance
			topOperators []warehouse.OperatorPerformance
			quality      []warehouse.QualityMetrics
			days         []warehouse.AvailableDay
			weeks        []period.WeekWindow
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			machines, err = gw.AllMachines(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			kpi, err = gw.KPISummary(gctx, &rng, machine)
			return err
		})
		g.Go(func() error {
			var err error
			trend, err = gw.ProductionTrend(gctx, &rng)
			return err
		})
		g.Go(func() error {
			var err error
			machinePerf, err = gw.MachinePerformance(gctx, &rng)
			return err
		})
		g.Go(func() error {
			var err error
			topOperators, err = gw.TopOperators(gctx, 0)
			return err
		})
		g.Go(func() error {
			var err error
			quality, err = gw.QualityMetrics(gctx, &rng)
			return err
		})
		g.Go(func() error {
			var err error
			days, err = cat.AvailableDays(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			weeks, err = cat.AvailableWeeks(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Error("failed to load dashboard data", zap.Error(err))
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load dashboard data")
			return
		}

		view := dashboardView{
			pageBase: pageBase{
				Title:      "Production Dashboard",
				ActivePage: "dashboard",
				UpdatedAt:  time.Now().Format("Jan 2, 2006 at 3:04 PM"),
			},
			PeriodType:      periodType,
			PeriodValue:     periodValue,
			PeriodLabel:     periodLabel(periodType, rng),
			SelectedMachine: machine,
			Machines:        machines,
			MonthOptions:    monthOptions(days),
			WeekOptions:     weekChoices(weeks),
			DayOptions:      dayChoices(days),

			TotalProduction:    compose.Count(kpi.TotalProduction),
			QualityRate:        compose.PercentOrNA(kpi.OverallQualityRate),
			MaterialEfficiency: compose.PercentOrNA(kpi.OverallMaterialEfficiency),
			TotalMachines:      kpi.TotalMachines,
			TotalOperators:     kpi.TotalOperators,
		}

		for _, t := range trend {
			view.Trend = append(view.Trend, trendRow{
				Date:            t.FullDate.Format("2006-01-02"),
				MachineCode:     t.MachineCode,
				DailyProduction: compose.Count(t.DailyProduction),
				AvgQuality:      compose.PercentOrDash(t.AvgQuality),
				ActiveOperators: t.ActiveOperators,
				Events:          t.Events,
			})
		}
		for _, m := range machinePerf {
			view.MachineRows = append(view.MachineRows, machineRow{
				MachineCode:    m.MachineCode,
				MachineName:    m.MachineName,
				TotalGood:      compose.Count(m.TotalGood),
				QualityRate:    compose.PercentOrDash(m.AvgGoodRate),
				DaysActive:     m.DaysActive,
				UniqueArticles: m.UniqueArticles,
			})
		}
		for i, op := range topOperators {
			view.OperatorRows = append(view.OperatorRows, operatorRow{
				Rank:        i + 1,
				Name:        compose.CapitalizeName(op.OperatorName),
				MachineCode: op.MachineCode,
				GoodPieces:  compose.Count(op.TotalGoodPieces),
				QualityRate: compose.PercentOrDash(op.AvgGoodRate),
				Events:      op.TotalEvents,
			})
		}

		view.Quality = overviewOf(quality)

		renderPage(ctx, "dashboard", view)
	}
}

type qualityRow struct {
	Date          string
	MachineCode   string
	EventCategory string
	EventCount    int64
	TotalGood     string
	TotalRejected string
	AvgGoodRate   string
	RejectRate    string
}

type qualityView struct {
	pageBase
	Overview qualityOverview
	Rows     []qualityRow
}

// QualityPage renders per-day quality metrics for the trailing 30 days with
// the same rollup shown on the dashboard.
func QualityPage(gw *warehouse.Gateway, log *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rows, err := gw.QualityMetrics(ctx, nil)
		if err != nil {
			log.Error("failed to load quality metrics", zap.Error(err))
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load quality metrics")
			return
		}

		view := qualityView{
			pageBase: pageBase{
				Title:      "Quality Dashboard",
				ActivePage: "quality",
				UpdatedAt:  time.Now().Format("Jan 2, 2006 at 3:04 PM"),
			},
			Overview: overviewOf(rows),
		}
		for _, r := range rows {
			view.Rows = append(view.Rows, qualityRow{
				Date:          r.FullDate.Format("2006-01-02"),
				MachineCode:   r.MachineCode,
				EventCategory: r.EventCategory,
				EventCount:    r.EventCount,
				TotalGood:     compose.Count(r.TotalGood),
				TotalRejected: compose.Count(r.TotalRejected),
				AvgGoodRate:   compose.PercentOrDash(r.AvgGoodRate),
				RejectRate:    compose.PercentOrDash(r.RejectRate),
			})
		}

		renderPage(ctx, "quality", view)
	}
}

type materialRow struct {
	MachineCode    string
	WireCode       string
	UsageCount     int64
	WireEfficiency string
	TotalWireUsed  string
	TotalWireGood  string
	Terminals      string
	Seals          string
}

type materialsView struct {
	pageBase
	Rows []materialRow
}

// MaterialsPage renders the machines and wire types with the worst material
// efficiency. ?limit= overrides the default of 10.
func MaterialsPage(gw *warehouse.Gateway, log *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		limit := 0
		if s := string(ctx.QueryArgs().Peek("limit")); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}

		rows, err := gw.MaterialEfficiency(ctx, limit)
		if err != nil {
			log.Error("failed to load material efficiency", zap.Error(err))
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load material efficiency")
			return
		}

		view := materialsView{
			pageBase: pageBase{
				Title:      "Materials Dashboard",
				ActivePage: "materials",
				UpdatedAt:  time.Now().Format("Jan 2, 2006 at 3:04 PM"),
			},
		}
		for _, r := range rows {
			view.Rows = append(view.Rows, materialRow{
				MachineCode:    r.MachineCode,
				WireCode:       r.WireCode,
				UsageCount:     r.UsageCount,
				WireEfficiency: compose.PercentOrDash(r.WireEfficiency),
				TotalWireUsed:  compose.Count(r.TotalWireUsed),
				TotalWireGood:  compose.Count(r.TotalWireGood),
				Terminals:      compose.Count(r.GoodTerminals) + " / " + compose.Count(r.TotalTerminals),
				Seals:          compose.Count(r.GoodSeals) + " / " + compose.Count(r.TotalSeals),
			})
		}

		renderPage(ctx, "materials", view)
	}
}

// overviewOf rolls quality rows up into display strings.
func overviewOf(rows []warehouse.QualityMetrics) qualityOverview {
	o := compose.SummarizeQuality(rows)
	return qualityOverview{
		TotalGood:     compose.CountValue(o.TotalGood),
		TotalRejected: compose.CountValue(o.TotalRejected),
		AvgQuality:    strconv.FormatFloat(o.AvgQuality, 'f', 1, 64) + "%",
	}
}

func queryDefault(ctx *fasthttp.RequestCtx, key, def string) string {
	if v := string(ctx.QueryArgs().Peek(key)); v != "" {
		return v
	}
	return def
}

func periodLabel(periodType string, rng period.Range) string {
	switch periodType {
	case period.TypeDay:
		return rng.Start.Format("January 2, 2006")
	case period.TypeWeek:
		return "Week of " + rng.Start.Format("Jan 2") + " - " + rng.End.Format("Jan 2, 2006")
	default:
		return rng.Start.Format("January 2006")
	}
}

func monthOptions(days []warehouse.AvailableDay) []monthOption {
	seen := make(map[string]bool)
	var opts []monthOption
	for _, d := range days {
		v := d.FullDate.Format("2006-01")
		if seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, monthOption{Value: v, Label: d.FullDate.Format("January 2006")})
	}
	return opts
}

func weekChoices(weeks []period.WeekWindow) []weekChoice {
	opts := make([]weekChoice, 0, len(weeks))
	for _, w := range weeks {
		opts = append(opts, weekChoice{
			Value: fmt.Sprintf("%d-W%02d", w.Year, w.Week),
			Label: fmt.Sprintf("Week %d, %d (%s - %s)", w.Week, w.Year,
				w.Start.Format("Jan 2"), w.End.Format("Jan 2")),
		})
	}
	return opts
}

func dayChoices(days []warehouse.AvailableDay) []string {
	opts := make([]string, 0, len(days))
	for _, d := range days {
		opts = append(opts, d.FullDate.Format("2006-01-02"))
	}
	return opts
}

func renderPage(ctx *fasthttp.RequestCtx, name string, data any) {
	var buf bytes.Buffer
	if err := ui.Templates().ExecuteTemplate(&buf, name, data); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("render error")
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}
