// Package intake validates and type-coerces raw ROI requests into roi.Input.
// The calculator trusts its input; every check lives here.
package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"logistics_roi/pkg/core/roi"
)

// Field names accepted on the wire.
const (
	FieldCompanyName         = "company_name"
	FieldIndustry            = "industry"
	FieldRevenue             = "revenue"
	FieldCOGSPct             = "cogs_pct"
	FieldLogisticsCostPct    = "logistics_cost_pct"
	FieldExceptionCostPct    = "exception_cost_pct"
	FieldAvgInventoryValue   = "avg_inventory_value"
	FieldLogisticsPlannerFTE = "logistics_planner_fte"
)

var knownFields = map[string]bool{
	FieldCompanyName:         true,
	FieldIndustry:            true,
	FieldRevenue:             true,
	FieldCOGSPct:             true,
	FieldLogisticsCostPct:    true,
	FieldExceptionCostPct:    true,
	FieldAvgInventoryValue:   true,
	FieldLogisticsPlannerFTE: true,
}

// FieldError is one validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a request.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid ROI input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Decode parses a JSON request body. Unknown fields are rejected.
func Decode(data []byte) (roi.Input, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return roi.Input{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: "malformed JSON: " + err.Error()}}}
	}
	if m == nil {
		return roi.Input{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: "expected a JSON object"}}}
	}
	return fromMap(m, true)
}

// FromMap coerces a loosely typed payload, such as one extracted from a
// language model reply. Unknown keys are ignored.
func FromMap(m map[string]interface{}) (roi.Input, error) {
	return fromMap(m, false)
}

func fromMap(m map[string]interface{}, strict bool) (roi.Input, error) {
	verr := &ValidationError{}

	if strict {
		var unknown []string
		for k := range m {
			if !knownFields[k] {
				unknown = append(unknown, k)
			}
		}
		sort.Strings(unknown)
		for _, k := range unknown {
			verr.add(k, "unknown field")
		}
	}

	in := roi.Input{
		CompanyName:      requiredString(m, FieldCompanyName, verr),
		Industry:         requiredString(m, FieldIndustry, verr),
		Revenue:          requiredNumber(m, FieldRevenue, verr),
		COGSPct:          requiredNumber(m, FieldCOGSPct, verr),
		LogisticsCostPct: requiredNumber(m, FieldLogisticsCostPct, verr),
		ExceptionCostPct: requiredNumber(m, FieldExceptionCostPct, verr),

		AvgInventoryValue:   optionalNumber(m, FieldAvgInventoryValue, verr),
		LogisticsPlannerFTE: optionalNumber(m, FieldLogisticsPlannerFTE, verr),
	}

	if in.Revenue < 0 {
		verr.add(FieldRevenue, "must not be negative")
	}
	checkScale(in, verr)

	if len(verr.Fields) > 0 {
		return roi.Input{}, verr
	}
	return in, nil
}

func requiredString(m map[string]interface{}, field string, verr *ValidationError) string {
	raw, ok := m[field]
	if !ok || raw == nil {
		verr.add(field, "is required")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		verr.add(field, "must be a string")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" || isPlaceholder(s) {
		verr.add(field, "is required")
		return ""
	}
	return s
}

func requiredNumber(m map[string]interface{}, field string, verr *ValidationError) float64 {
	raw, ok := m[field]
	if !ok || raw == nil {
		verr.add(field, "is required")
		return 0
	}
	if s, isStr := raw.(string); isStr && (strings.TrimSpace(s) == "" || isPlaceholder(s)) {
		verr.add(field, "is required")
		return 0
	}
	v, err := toFloat(raw)
	if err != nil {
		verr.add(field, "%v", err)
		return 0
	}
	return v
}

func optionalNumber(m map[string]interface{}, field string, verr *ValidationError) roi.Optional {
	raw, ok := m[field]
	if !ok || raw == nil {
		return roi.None()
	}
	if s, isStr := raw.(string); isStr && (strings.TrimSpace(s) == "" || isPlaceholder(s)) {
		return roi.None()
	}
	v, err := toFloat(raw)
	if err != nil {
		verr.add(field, "%v", err)
		return roi.None()
	}
	if v < 0 {
		verr.add(field, "must not be negative")
		return roi.None()
	}
	return roi.Some(v)
}

// checkScale rejects percentages whose share of revenue is not representable.
func checkScale(in roi.Input, verr *ValidationError) {
	shares := []struct {
		field string
		pct   float64
	}{
		{FieldCOGSPct, in.COGSPct},
		{FieldLogisticsCostPct, in.LogisticsCostPct},
		{FieldExceptionCostPct, in.ExceptionCostPct},
	}
	for _, s := range shares {
		if math.IsInf(in.Revenue*s.pct, 0) {
			verr.add(s.field, "times revenue is out of range")
		}
	}
}

// isPlaceholder matches the filler a model leaves in a template slot.
func isPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "...", "null", "none", "n/a", "na", "unknown":
		return true
	}
	return false
}

func toFloat(raw interface{}) (float64, error) {
	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("must be a number")
		}
		v = f
	case string:
		cleaned := strings.NewReplacer(",", "", "$", "", "_", "", " ", "").Replace(strings.TrimSpace(t))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("must be a number, got %q", t)
		}
		v = f
	default:
		return 0, fmt.Errorf("must be a number")
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return v, nil
}
