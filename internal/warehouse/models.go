package warehouse

import "time"

// Row types returned by the gateway. Counts are plain integers (COUNT never
// yields NULL); sums and averages are Numeric because a grouping key with no
// matching facts must surface as absent, not zero.

// KPISummary is the single-row aggregate across all matching Production facts.
type KPISummary struct {
	TotalMachines             int64
	TotalArticles             int64
	TotalOperators            int64
	ActiveDays                int64
	TotalProduction           Numeric
	TotalRejected             Numeric
	OverallQualityRate        Numeric
	OverallMaterialEfficiency Numeric
}

// Machine is one (code, name) pair for the machine filter.
type Machine struct {
	MachineCode string
	MachineName string
}

// ProductionTrend is one (date, machine) grouping of daily production.
type ProductionTrend struct {
	FullDate        time.Time
	MachineCode     string
	DailyProduction Numeric
	AvgQuality      Numeric
	ActiveOperators int64
	Events          int64
}

// MachinePerformance is one per-machine grouping, from either the fact table
// (when a range is given) or vw_machine_performance. Both paths carry the
// same column set.
type MachinePerformance struct {
	MachineCode           string
	MachineName           string
	MachineType           string
	DaysActive            int64
	TotalEvents           int64
	TotalRequested        Numeric
	TotalGood             Numeric
	TotalRejected         Numeric
	AvgGoodRate           Numeric
	AvgMaterialEfficiency Numeric
	UniqueArticles        int64
	UniqueOperators       int64
}

// OperatorPerformance is one (operator, machine) grouping from
// vw_operator_performance. Operator names are stored with inconsistent
// casing; display normalization happens in the composer.
type OperatorPerformance struct {
	OperatorName        string
	MachineCode         string
	TotalEvents         int64
	TotalGoodPieces     Numeric
	TotalRejectedPieces Numeric
	AvgGoodRate         Numeric
	UniqueArticles      int64
}

// QualityMetrics is one (date, machine, event category) grouping from
// vw_quality_metrics.
type QualityMetrics struct {
	FullDate      time.Time
	MachineCode   string
	EventCategory string
	EventCount    int64
	TotalGood     Numeric
	TotalRejected Numeric
	TotalDefects  Numeric
	AvgGoodRate   Numeric
	RejectRate    Numeric
}

// MaterialEfficiency is one (machine, wire type) grouping from
// vw_material_efficiency, worst wire efficiency first.
type MaterialEfficiency struct {
	MachineCode    string
	WireCode       string
	UsageCount     int64
	TotalWireUsed  Numeric
	TotalWireGood  Numeric
	WireEfficiency Numeric
	TotalTerminals Numeric
	GoodTerminals  Numeric
	TotalSeals     Numeric
	GoodSeals      Numeric
}

// AvailableDay is one calendar date that has production facts.
type AvailableDay struct {
	FullDate time.Time
}
