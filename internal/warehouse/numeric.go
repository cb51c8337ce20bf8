package warehouse

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
)

// Numeric is a nullable metric value as returned by the warehouse. Postgres
// sends numeric/decimal aggregates as text on the wire, so every metric
// column is scanned through this type: strings are parsed tolerantly, NULL
// and non-numeric garbage both become an absent value. Absence is distinct
// from zero, since zero is a valid observed value.
type Numeric struct {
	Float64 float64
	Valid   bool
}

// Scan implements sql.Scanner.
func (n *Numeric) Scan(value any) error {
	n.Float64, n.Valid = 0, false
	switch v := value.(type) {
	case nil:
	case float64:
		n.Float64, n.Valid = v, true
	case float32:
		n.Float64, n.Valid = float64(v), true
	case int64:
		n.Float64, n.Valid = float64(v), true
	case []byte:
		n.set(string(v))
	case string:
		n.set(v)
	}
	return nil
}

func (n *Numeric) set(s string) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return
	}
	n.Float64, n.Valid = f, true
}

// Value implements driver.Valuer.
func (n Numeric) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Float64, nil
}

// Or returns the value, or def when absent. Used by summation rollups,
// which treat absent as zero; presence checks must use Valid instead.
func (n Numeric) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// MarshalJSON renders null for absent values.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}
