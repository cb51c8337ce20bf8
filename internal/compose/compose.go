// Package compose turns warehouse rows into presentation-ready values:
// numeric coercion, percentage formatting, cross-row rollups and operator
// name normalization. It performs no queries of its own.
package compose

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mfginsight/internal/warehouse"
)

var intPrinter = message.NewPrinter(language.English)

// PercentOrNA formats a rate as "12.3%" or the literal "N/A" when absent.
// Used for KPI-level rates on cards.
func PercentOrNA(n warehouse.Numeric) string {
	if !n.Valid {
		return "N/A"
	}
	return formatPercent(n.Float64)
}

// PercentOrDash formats a rate as "12.3%" or an em-dash when absent. Used
// for per-row rates in tables; distinct from the KPI convention above.
func PercentOrDash(n warehouse.Numeric) string {
	if !n.Valid {
		return "—"
	}
	return formatPercent(n.Float64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Count formats a piece count with thousands separators, treating an absent
// value as zero for display.
func Count(n warehouse.Numeric) string {
	return CountValue(n.Or(0))
}

// CountValue formats an already-rolled-up piece count with thousands
// separators. Counts are whole numbers in practice, but a rollup over
// fractional rejected sums can carry a fraction; it is kept rather than
// truncated.
func CountValue(v float64) string {
	if v == math.Trunc(v) {
		return intPrinter.Sprintf("%d", int64(v))
	}
	return intPrinter.Sprintf("%.1f", v)
}

// QualityOverview is the cross-row rollup of quality metric rows shown on
// the dashboard's quality section.
type QualityOverview struct {
	TotalGood     float64
	TotalRejected float64
	// AvgQuality is the arithmetic mean of per-row average good rates with
	// absent rates counted as zero and the divisor being the full row
	// count. This understates the true average when some rows lack a rate;
	// the dashboard has always displayed it this way and the behavior is
	// kept.
	AvgQuality float64
}

// SummarizeQuality rolls up quality metric rows. Sums treat absent values
// as zero; that convention applies to summation only, not to presence
// checks.
func SummarizeQuality(rows []warehouse.QualityMetrics) QualityOverview {
	var o QualityOverview
	for _, r := range rows {
		o.TotalGood += r.TotalGood.Or(0)
		o.TotalRejected += r.TotalRejected.Or(0)
		o.AvgQuality += r.AvgGoodRate.Or(0)
	}
	if len(rows) > 0 {
		o.AvgQuality /= float64(len(rows))
	}
	return o
}

// CapitalizeName lowercases a stored operator name and capitalizes the
// first letter of each space-separated word, so "SABER ferjani" displays as
// "Saber Ferjani". The empty string passes through unchanged.
func CapitalizeName(name string) string {
	if name == "" {
		return name
	}
	words := strings.Split(strings.ToLower(name), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
