// Package warehouse issues the parameterized analytical queries against the
// production star schema and returns typed rows. All operations are pure
// reads: no retries, no local state, failures surface unmodified to the
// caller.
package warehouse

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mfginsight/internal/period"
)

const defaultMaterialLimit = 10

// Gateway owns query composition against the warehouse. The database handle
// is injected at construction and shared across requests; a query never
// outlives its own round-trip.
type Gateway struct {
	db  *gorm.DB
	sb  sq.StatementBuilderType
	log *zap.Logger
}

// NewGateway builds a Gateway on top of an existing database handle.
func NewGateway(gdb *gorm.DB, log *zap.Logger) *Gateway {
	return &Gateway{
		db: gdb,
		// Question placeholders: gorm's postgres dialect rewrites them to
		// $n when binding, so squirrel and gorm agree on argument order.
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		log: log,
	}
}

// KPISummary aggregates all matching Production facts into a single row.
// machineCode "" or "all" means no machine restriction.
func (g *Gateway) KPISummary(ctx context.Context, rng *period.Range, machineCode string) (KPISummary, error) {
	q := g.buildKPISummary(rng, machineCode)
	var row KPISummary
	err := g.run(ctx, "kpi_summary", q, &row)
	return row, err
}

func (g *Gateway) buildKPISummary(rng *period.Range, machineCode string) sq.SelectBuilder {
	q := g.sb.Select(
		"COUNT(DISTINCT m.machine_code) AS total_machines",
		"COUNT(DISTINCT a.article_code) AS total_articles",
		"COUNT(DISTINCT o.operator_name) AS total_operators",
		"COUNT(DISTINCT t.full_date) AS active_days",
		"SUM(fp.good_pieces) AS total_production",
		"SUM(fp.rejected_pieces) AS total_rejected",
		"ROUND(AVG(fp.good_rate), 2) AS overall_quality_rate",
		"ROUND(AVG(fp.material_efficiency), 2) AS overall_material_efficiency",
	).
		From("fact_production fp").
		Join("dim_time t ON fp.time_key = t.time_key").
		Join("dim_machine m ON fp.machine_key = m.machine_key").
		LeftJoin("dim_article a ON fp.article_key = a.article_key").
		LeftJoin("dim_operator o ON fp.operator_key = o.operator_key").
		Where("fp.event_category = 'Production'").
		Where("fp.good_pieces > 0")
	if rng != nil {
		q = q.Where(DateRangeFilter{Column: "t.full_date", Range: *rng})
	}
	if code := NormalizeMachineCode(machineCode); code != "" {
		q = q.Where(MachineFilter{Column: "m.machine_code", Code: code})
	}
	return q
}

// AllMachines returns distinct (code, name) pairs ordered by code. Feeds the
// machine filter; never aggregated.
func (g *Gateway) AllMachines(ctx context.Context) ([]Machine, error) {
	q := g.sb.Select("machine_code", "machine_name").
		Options("DISTINCT").
		From("dim_machine").
		OrderBy("machine_code")
	var rows []Machine
	err := g.run(ctx, "all_machines", q, &rows)
	return rows, err
}

// ProductionTrend returns daily production per (date, machine). Without a
// range it covers the trailing 30 days.
func (g *Gateway) ProductionTrend(ctx context.Context, rng *period.Range) ([]ProductionTrend, error) {
	q := g.buildProductionTrend(rng)
	var rows []ProductionTrend
	err := g.run(ctx, "production_trend", q, &rows)
	return rows, err
}

func (g *Gateway) buildProductionTrend(rng *period.Range) sq.SelectBuilder {
	q := g.sb.Select(
		"t.full_date",
		"m.machine_code",
		"SUM(fp.good_pieces) AS daily_production",
		"ROUND(AVG(fp.good_rate), 2) AS avg_quality",
		"COUNT(DISTINCT fp.operator_key) AS active_operators",
		"COUNT(*) AS events",
	).
		From("fact_production fp").
		Join("dim_time t ON fp.time_key = t.time_key").
		Join("dim_machine m ON fp.machine_key = m.machine_key").
		Where("fp.event_category = 'Production'")
	if rng != nil {
		q = q.Where(DateRangeFilter{Column: "t.full_date", Range: *rng})
	} else {
		q = q.Where("t.full_date >= CURRENT_DATE - INTERVAL '30 days'")
	}
	return q.GroupBy("t.full_date", "m.machine_code").
		OrderBy("t.full_date DESC", "m.machine_code")
}

// MachinePerformance returns per-machine totals. With a range it aggregates
// the fact table directly; without one it reads the precomputed
// vw_machine_performance view. Both paths carry identical column semantics.
func (g *Gateway) MachinePerformance(ctx context.Context, rng *period.Range) ([]MachinePerformance, error) {
	var (
		q    sq.SelectBuilder
		name string
	)
	if rng != nil {
		name = "machine_performance_range"
		q = g.buildMachinePerformanceRange(*rng)
	} else {
		name = "machine_performance_view"
		q = g.sb.Select("*").
			From("vw_machine_performance").
			OrderBy("total_good DESC")
	}
	var rows []MachinePerformance
	err := g.run(ctx, name, q, &rows)
	return rows, err
}

func (g *Gateway) buildMachinePerformanceRange(rng period.Range) sq.SelectBuilder {
	return g.sb.Select(
		"m.machine_code",
		"m.machine_name",
		"m.machine_type",
		"COUNT(DISTINCT t.full_date) AS days_active",
		"COUNT(*) AS total_events",
		"SUM(fp.requested_pieces) AS total_requested",
		"SUM(fp.good_pieces) AS total_good",
		"SUM(fp.rejected_pieces) AS total_rejected",
		"ROUND(AVG(fp.good_rate), 2) AS avg_good_rate",
		"ROUND(AVG(fp.material_efficiency), 2) AS avg_material_efficiency",
		"COUNT(DISTINCT fp.article_key) AS unique_articles",
		"COUNT(DISTINCT fp.operator_key) AS unique_operators",
	).
		From("fact_production fp").
		Join("dim_time t ON fp.time_key = t.time_key").
		Join("dim_machine m ON fp.machine_key = m.machine_key").
		Where(DateRangeFilter{Column: "t.full_date", Range: rng}).
		GroupBy("m.machine_code", "m.machine_name", "m.machine_type").
		OrderBy("total_good DESC")
}

// TopOperators returns per (operator, machine) totals from
// vw_operator_performance, best producers first. A limit <= 0 returns every
// row; despite the name there is no implicit top-N cap.
func (g *Gateway) TopOperators(ctx context.Context, limit int) ([]OperatorPerformance, error) {
	q := g.sb.Select("*").
		From("vw_operator_performance").
		OrderBy("total_good_pieces DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	var rows []OperatorPerformance
	err := g.run(ctx, "top_operators", q, &rows)
	return rows, err
}

// QualityMetrics returns per (date, machine, event category) rows from
// vw_quality_metrics, trailing 30 days when no range is given.
func (g *Gateway) QualityMetrics(ctx context.Context, rng *period.Range) ([]QualityMetrics, error) {
	q := g.sb.Select("*").From("vw_quality_metrics")
	if rng != nil {
		q = q.Where(DateRangeFilter{Column: "full_date", Range: *rng})
	} else {
		q = q.Where("full_date >= CURRENT_DATE - INTERVAL '30 days'")
	}
	q = q.OrderBy("full_date DESC", "machine_code")
	var rows []QualityMetrics
	err := g.run(ctx, "quality_metrics", q, &rows)
	return rows, err
}

// MaterialEfficiency returns per (machine, wire type) usage from
// vw_material_efficiency, worst wire efficiency first. A limit <= 0 falls
// back to the default of 10; the limit is always applied.
func (g *Gateway) MaterialEfficiency(ctx context.Context, limit int) ([]MaterialEfficiency, error) {
	if limit <= 0 {
		limit = defaultMaterialLimit
	}
	q := g.sb.Select("*").
		From("vw_material_efficiency").
		OrderBy("wire_efficiency ASC").
		Limit(uint64(limit))
	var rows []MaterialEfficiency
	err := g.run(ctx, "material_efficiency", q, &rows)
	return rows, err
}

// AvailableDays returns the distinct calendar dates that have Production
// facts, newest first. Drives the day selector.
func (g *Gateway) AvailableDays(ctx context.Context) ([]AvailableDay, error) {
	q := g.sb.Select("t.full_date").
		Options("DISTINCT").
		From("dim_time t").
		Join("fact_production fp ON fp.time_key = t.time_key").
		Where("fp.event_category = 'Production'").
		OrderBy("t.full_date DESC")
	var rows []AvailableDay
	err := g.run(ctx, "available_days", q, &rows)
	return rows, err
}

type weekRow struct {
	Year      int
	Week      int
	StartDate time.Time
	EndDate   time.Time
}

// AvailableWeeks returns the (ISO year, ISO week, start, end) tuples that
// have Production facts, newest first. Drives the week selector and the
// period resolver's week lookup.
func (g *Gateway) AvailableWeeks(ctx context.Context) ([]period.WeekWindow, error) {
	q := g.sb.Select(
		"t.iso_year AS year",
		"t.iso_week AS week",
		"MIN(t.full_date) AS start_date",
		"MAX(t.full_date) AS end_date",
	).
		From("dim_time t").
		Join("fact_production fp ON fp.time_key = t.time_key").
		Where("fp.event_category = 'Production'").
		GroupBy("t.iso_year", "t.iso_week").
		OrderBy("t.iso_year DESC", "t.iso_week DESC")
	var rows []weekRow
	if err := g.run(ctx, "available_weeks", q, &rows); err != nil {
		return nil, err
	}
	windows := make([]period.WeekWindow, 0, len(rows))
	for _, r := range rows {
		windows = append(windows, period.WeekWindow{
			Year:  r.Year,
			Week:  r.Week,
			Start: r.StartDate,
			End:   r.EndDate,
		})
	}
	return windows, nil
}

// run builds and executes a query, scanning into dest. Durations and
// failures are recorded per query name.
func (g *Gateway) run(ctx context.Context, name string, q sq.SelectBuilder, dest any) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", name, err)
	}

	start := time.Now()
	err = g.db.WithContext(ctx).Raw(sqlStr, args...).Scan(dest).Error
	queryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		queryFailures.WithLabelValues(name).Inc()
		g.log.Error("warehouse query failed", zap.String("query", name), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
