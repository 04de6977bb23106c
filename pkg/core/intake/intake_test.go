package intake

import (
	"errors"
	"strings"
	"testing"
)

const validBody = `{
	"company_name": "Acme Logistics",
	"industry": "Retail",
	"revenue": 10000000,
	"cogs_pct": 0.6,
	"logistics_cost_pct": 0.08,
	"exception_cost_pct": 0.03
}`

func TestDecode_Valid(t *testing.T) {
	in, err := Decode([]byte(validBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.CompanyName != "Acme Logistics" || in.Industry != "Retail" {
		t.Errorf("unexpected labels: %+v", in)
	}
	if in.Revenue != 10_000_000 || in.COGSPct != 0.6 {
		t.Errorf("unexpected numbers: %+v", in)
	}
	if in.AvgInventoryValue.IsSet() || in.LogisticsPlannerFTE.IsSet() {
		t.Error("optional fields should be absent")
	}
}

func TestDecode_OptionalFields(t *testing.T) {
	body := strings.Replace(validBody, `"exception_cost_pct": 0.03`,
		`"exception_cost_pct": 0.03, "avg_inventory_value": 0, "logistics_planner_fte": 0.3`, 1)

	in, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := in.AvgInventoryValue.Get(); !ok || v != 0 {
		t.Errorf("expected explicit zero inventory, got %v (set=%v)", v, ok)
	}
	if v, ok := in.LogisticsPlannerFTE.Get(); !ok || v != 0.3 {
		t.Errorf("expected FTE 0.3, got %v (set=%v)", v, ok)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{
			name:   "malformed json",
			body:   `{"company_name": `,
			fields: []string{"body"},
		},
		{
			name:   "not an object",
			body:   `null`,
			fields: []string{"body"},
		},
		{
			name:   "missing required fields",
			body:   `{"company_name": "Acme"}`,
			fields: []string{FieldIndustry, FieldRevenue, FieldCOGSPct, FieldLogisticsCostPct, FieldExceptionCostPct},
		},
		{
			name:   "unknown field",
			body:   strings.Replace(validBody, `"industry"`, `"sector": "x", "industry"`, 1),
			fields: []string{"sector"},
		},
		{
			name:   "non numeric",
			body:   strings.Replace(validBody, `10000000`, `"ten million"`, 1),
			fields: []string{FieldRevenue},
		},
		{
			name:   "negative revenue",
			body:   strings.Replace(validBody, `10000000`, `-5`, 1),
			fields: []string{FieldRevenue},
		},
		{
			name:   "wrong string type",
			body:   strings.Replace(validBody, `"Retail"`, `42`, 1),
			fields: []string{FieldIndustry},
		},
		{
			name:   "negative optional",
			body:   strings.Replace(validBody, `"exception_cost_pct": 0.03`, `"exception_cost_pct": 0.03, "logistics_planner_fte": -1`, 1),
			fields: []string{FieldLogisticsPlannerFTE},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			got := map[string]bool{}
			for _, f := range verr.Fields {
				got[f.Field] = true
			}
			for _, f := range tt.fields {
				if !got[f] {
					t.Errorf("expected error on %q, got %+v", f, verr.Fields)
				}
			}
		})
	}
}

func TestDecode_PercentagesNotClamped(t *testing.T) {
	body := strings.Replace(validBody, `"cogs_pct": 0.6`, `"cogs_pct": 1.4`, 1)
	body = strings.Replace(body, `"exception_cost_pct": 0.03`, `"exception_cost_pct": -0.02`, 1)

	in, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("out-of-range percentages must pass validation: %v", err)
	}
	if in.COGSPct != 1.4 || in.ExceptionCostPct != -0.02 {
		t.Errorf("percentages altered: %+v", in)
	}
}

func TestFromMap_Coercion(t *testing.T) {
	m := map[string]interface{}{
		"company_name":          "  Northwind  ",
		"industry":              "retail",
		"revenue":               "$25,000,000",
		"cogs_pct":              "0.55",
		"logistics_cost_pct":    0.07,
		"exception_cost_pct":    int64(0),
		"avg_inventory_value":   "...",
		"logistics_planner_fte": "",
		"notes":                 "ignored",
	}

	in, err := FromMap(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.CompanyName != "Northwind" {
		t.Errorf("expected trimmed company name, got %q", in.CompanyName)
	}
	if in.Revenue != 25_000_000 {
		t.Errorf("expected revenue 25,000,000, got %f", in.Revenue)
	}
	if in.COGSPct != 0.55 {
		t.Errorf("expected cogs 0.55, got %f", in.COGSPct)
	}
	if in.AvgInventoryValue.IsSet() || in.LogisticsPlannerFTE.IsSet() {
		t.Error("placeholder optional values should be absent")
	}
}

func TestFromMap_PlaceholderRequiredField(t *testing.T) {
	m := map[string]interface{}{
		"company_name":       "...",
		"industry":           "Retail",
		"revenue":            "...",
		"cogs_pct":           0.5,
		"logistics_cost_pct": 0.1,
		"exception_cost_pct": 0.02,
	}

	_, err := FromMap(m)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %+v", verr.Fields)
	}
	if !strings.Contains(verr.Error(), "revenue: is required") {
		t.Errorf("unexpected message: %s", verr.Error())
	}
}

func TestFromMap_RejectsNonFinite(t *testing.T) {
	m := map[string]interface{}{
		"company_name":       "Acme",
		"industry":           "Retail",
		"revenue":            "NaN",
		"cogs_pct":           "Inf",
		"logistics_cost_pct": 0.1,
		"exception_cost_pct": 0.02,
	}

	_, err := FromMap(m)
	if err == nil {
		t.Fatal("expected error for non-finite values")
	}
}

func TestDecode_RejectsRevenueShareOverflow(t *testing.T) {
	body := `{
		"company_name": "Acme",
		"industry": "Retail",
		"revenue": 1e308,
		"cogs_pct": 2,
		"logistics_cost_pct": 0.08,
		"exception_cost_pct": 0.03
	}`

	_, err := Decode([]byte(body))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != FieldCOGSPct {
		t.Errorf("expected only cogs_pct to be flagged, got %+v", verr.Fields)
	}
}
