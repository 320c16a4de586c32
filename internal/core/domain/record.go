package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// RemoteRecord is a document as returned by the ledger: an open-ended field map.
type RemoteRecord map[string]any

// ID returns the document name, which the remote ledger uses as its primary key.
func (r RemoteRecord) ID() string {
	return r.String("name")
}

// DocStatus returns the lifecycle state stored in the "docstatus" field.
func (r RemoteRecord) DocStatus() DocStatus {
	return DocStatus(r.Int("docstatus"))
}

// String returns the field as a string, or "" when it is absent or null.
func (r RemoteRecord) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Decimal returns the field as a decimal, or zero when it is absent or not numeric.
func (r RemoteRecord) Decimal(field string) decimal.Decimal {
	switch v := r[field].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err == nil {
			return d
		}
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	}
	return decimal.Zero
}

// Int returns the field as an int, or 0 when it is absent or not numeric.
func (r RemoteRecord) Int(field string) int {
	switch v := r[field].(type) {
	case json.Number:
		i, err := v.Int64()
		if err == nil {
			return int(i)
		}
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return 0
}

// Bool treats 1/true (the ledger stores checkboxes as 0/1) as true.
func (r RemoteRecord) Bool(field string) bool {
	if b, ok := r[field].(bool); ok {
		return b
	}
	return r.Int(field) != 0
}
