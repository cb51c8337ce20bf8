package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfginsight/internal/warehouse"
)

// num scans a raw wire value the way rows leave the gateway, so these tests
// exercise the same text-to-float coercion path as production traffic.
func num(t *testing.T, v any) warehouse.Numeric {
	t.Helper()
	var n warehouse.Numeric
	require.NoError(t, n.Scan(v))
	return n
}

func TestSummarizeQualitySumsTreatAbsentAsZero(t *testing.T) {
	rows := []warehouse.QualityMetrics{
		{TotalGood: num(t, "100"), TotalRejected: num(t, "5")},
		{TotalGood: num(t, nil), TotalRejected: num(t, nil)},
		{TotalGood: num(t, "50"), TotalRejected: num(t, "2.5")},
	}

	o := SummarizeQuality(rows)
	assert.Equal(t, 150.0, o.TotalGood)
	assert.Equal(t, 7.5, o.TotalRejected)
}

func TestSummarizeQualityAverageDividesByRowCount(t *testing.T) {
	// The divisor is the full row count, not the count of rows with a
	// rate. A row with an absent rate drags the average down; that is the
	// long-standing display behavior and it stays.
	rows := []warehouse.QualityMetrics{
		{AvgGoodRate: num(t, "90")},
		{AvgGoodRate: num(t, nil)},
	}

	o := SummarizeQuality(rows)
	assert.Equal(t, 45.0, o.AvgQuality)
}

func TestSummarizeQualityEmpty(t *testing.T) {
	o := SummarizeQuality(nil)
	assert.Equal(t, 0.0, o.TotalGood)
	assert.Equal(t, 0.0, o.TotalRejected)
	assert.Equal(t, 0.0, o.AvgQuality)
}

func TestPercentOrNA(t *testing.T) {
	assert.Equal(t, "93.5%", PercentOrNA(num(t, "93.50")))
	assert.Equal(t, "0.0%", PercentOrNA(num(t, "0")))
	assert.Equal(t, "N/A", PercentOrNA(num(t, nil)))
}

func TestPercentOrDash(t *testing.T) {
	assert.Equal(t, "88.2%", PercentOrDash(num(t, "88.2")))
	assert.Equal(t, "—", PercentOrDash(num(t, nil)))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1,234,567", Count(num(t, "1234567")))
	assert.Equal(t, "1,234", Count(num(t, "1234.00")))
	// Absent counts display as zero; the null-vs-zero distinction only
	// matters before formatting.
	assert.Equal(t, "0", Count(num(t, nil)))
}

func TestCountValueKeepsFractions(t *testing.T) {
	// Rejected-piece rollups can sum to a fractional total; the fraction
	// is displayed, not truncated.
	assert.Equal(t, "7.5", CountValue(7.5))
	assert.Equal(t, "1,234.5", CountValue(1234.5))
	assert.Equal(t, "42", CountValue(42))
}

func TestCapitalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sofien", "Sofien"},
		{"HAITHEM", "Haithem"},
		{"saber ferjani", "Saber Ferjani"},
		{"SABER FERJANI", "Saber Ferjani"},
		{"", ""},
		{"a b c", "A B C"},
		{"  double  spaced ", "  Double  Spaced "},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CapitalizeName(tc.in), tc.in)
	}
}
