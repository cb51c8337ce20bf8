package warehouse

import (
	"mfginsight/internal/period"
)

// MachineAll is the sentinel machine code meaning "no machine restriction".
const MachineAll = "all"

// DateRangeFilter restricts a date column to an inclusive calendar range.
// It implements squirrel's Sqlizer, so the statement builder owns
// placeholder numbering and argument pairing for whichever filters are
// actually applied.
type DateRangeFilter struct {
	Column string
	Range  period.Range
}

// ToSql implements squirrel.Sqlizer.
func (f DateRangeFilter) ToSql() (string, []any, error) {
	return f.Column + " >= ?::date AND " + f.Column + " <= ?::date",
		[]any{f.Range.StartDate(), f.Range.EndDate()}, nil
}

// MachineFilter restricts rows to a single machine code.
type MachineFilter struct {
	Column string
	Code   string
}

// ToSql implements squirrel.Sqlizer.
func (f MachineFilter) ToSql() (string, []any, error) {
	return f.Column + " = ?", []any{f.Code}, nil
}

// NormalizeMachineCode maps the sentinel "all" and the empty string to "",
// meaning no filter; anything else is a concrete machine restriction.
func NormalizeMachineCode(code string) string {
	if code == MachineAll {
		return ""
	}
	return code
}
