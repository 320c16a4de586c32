package services

import (
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
)

// dateRangeFilter turns optional inclusive bounds into a single gateway predicate.
func dateRangeFilter(field, from, to string) (portsgw.Filter, bool) {
	switch {
	case from != "" && to != "":
		return portsgw.Filter{Field: field, Operator: portsgw.OpBetween, Value: []string{from, to}}, true
	case from != "":
		return portsgw.Filter{Field: field, Operator: portsgw.OpGreaterEqual, Value: from}, true
	case to != "":
		return portsgw.Filter{Field: field, Operator: portsgw.OpLessEqual, Value: to}, true
	}
	return portsgw.Filter{}, false
}

// equalsFilter returns an "=" predicate when value is non-empty.
func equalsFilter(field, value string) (portsgw.Filter, bool) {
	if value == "" {
		return portsgw.Filter{}, false
	}
	return portsgw.Filter{Field: field, Operator: portsgw.OpEquals, Value: value}, true
}
