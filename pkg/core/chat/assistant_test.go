package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"logistics_roi/pkg/core/benchmark"
	"logistics_roi/pkg/core/llm"
	"logistics_roi/pkg/core/report"
	"logistics_roi/pkg/core/roi"
)

type fakeExecutor struct {
	reply string
	err   error

	gotAgent  string
	gotPrompt string
}

func (f *fakeExecutor) ExecuteChat(_ context.Context, agentType string, _ []llm.Message, systemPrompt string) (string, error) {
	f.gotAgent = agentType
	f.gotPrompt = systemPrompt
	return f.reply, f.err
}

func newCalculator(t *testing.T) *roi.Calculator {
	t.Helper()
	def := benchmark.Profile{
		PlannerFTEPer100MRevenue:          2,
		ExceptionReductionPct:             0.25,
		LogisticsOptimizationPct:          0.15,
		InventoryReductionPct:             0.1,
		CarryingCostRate:                  0.2,
		PlannerProductivityImprovementPct: 0.1,
		PlannerFullyLoadedCost:            80000,
		AnnualPlatformCost:                50000,
		ImplementationCost:                30000,
	}
	retail := def
	retail.Industry = "Retail"

	table, err := benchmark.NewTable(def, []benchmark.Profile{retail})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return roi.NewCalculator(benchmark.NewResolver(table))
}

func fakeRender(input roi.Input, _ roi.Result) (*report.Report, error) {
	return &report.Report{ID: "r1", Filename: report.Filename(input.CompanyName), PDFBase64: "JVBERi0="}, nil
}

const payloadReply = `Great, calculating now.
ACTION:CALL_BACKEND
{
  "company_name": "Acme Logistics",
  "industry": "Retail",
  "revenue": 10000000,
  "cogs_pct": 0.6,
  "logistics_cost_pct": 0.08,
  "exception_cost_pct": 0.03,
  "avg_inventory_value": null,
  "logistics_planner_fte": null
}`

func userTurn(text string) []llm.Message {
	return []llm.Message{{Role: llm.RoleUser, Content: text}}
}

func TestHandleTurn_PlainReply(t *testing.T) {
	exec := &fakeExecutor{reply: "```markdown\nWhat is your annual **revenue**?\n```"}
	a := NewAssistant(exec, newCalculator(t), fakeRender)

	reply, err := a.HandleTurn(context.Background(), userTurn("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Metrics != nil || reply.PDFBase64 != nil {
		t.Error("no calculation expected")
	}
	if reply.Reply != "What is your annual **revenue**?" {
		t.Errorf("unexpected reply %q", reply.Reply)
	}
	if exec.gotAgent != AgentType || exec.gotPrompt != SystemPrompt {
		t.Error("assistant should use its own agent type and prompt")
	}
}

func TestHandleTurn_Payload(t *testing.T) {
	a := NewAssistant(&fakeExecutor{reply: payloadReply}, newCalculator(t), fakeRender)

	reply, err := a.HandleTurn(context.Background(), userTurn("yes, go ahead"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Metrics == nil {
		t.Fatal("expected metrics")
	}
	if reply.Metrics.ROIPercent != 266.25 {
		t.Errorf("expected ROI 266.25, got %v", reply.Metrics.ROIPercent)
	}
	expected := "Calculated ROI is 266.25% with payback in 0.0 months. A PDF report is available."
	if reply.Reply != expected {
		t.Errorf("expected %q, got %q", expected, reply.Reply)
	}
	if reply.Filename == nil || *reply.Filename != "ROI_Acme_Logistics.pdf" {
		t.Errorf("unexpected filename %v", reply.Filename)
	}
}

func TestHandleTurn_FallbackNoted(t *testing.T) {
	text := strings.Replace(payloadReply, `"Retail"`, `"Aerospace"`, 1)
	a := NewAssistant(&fakeExecutor{reply: text}, newCalculator(t), nil)

	reply, err := a.HandleTurn(context.Background(), userTurn("ok"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.Metrics.Benchmark.Fallback {
		t.Error("expected fallback benchmark")
	}
	if !strings.Contains(reply.Reply, `industry "Aerospace"`) {
		t.Errorf("fallback should be mentioned: %q", reply.Reply)
	}
	if reply.PDFBase64 != nil || strings.Contains(reply.Reply, "PDF") {
		t.Error("no PDF without a renderer")
	}
}

func TestHandleTurn_MissingKey(t *testing.T) {
	err := fmt.Errorf("mistral: %w", llm.ErrMissingAPIKey)
	a := NewAssistant(&fakeExecutor{err: err}, newCalculator(t), fakeRender)

	reply, herr := a.HandleTurn(context.Background(), userTurn(payloadReply))
	if herr != nil {
		t.Fatalf("unexpected error: %v", herr)
	}
	if reply.Metrics != nil {
		t.Error("missing key must not fall back to scanning the conversation")
	}
	if reply.Reply != err.Error() {
		t.Errorf("expected key message, got %q", reply.Reply)
	}
}

func TestHandleTurn_LLMErrorScansConversation(t *testing.T) {
	a := NewAssistant(&fakeExecutor{err: errors.New("upstream 503")}, newCalculator(t), fakeRender)

	reply, err := a.HandleTurn(context.Background(), userTurn(payloadReply))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Metrics == nil {
		t.Fatal("payload in the conversation should still compute")
	}

	reply, err = a.HandleTurn(context.Background(), userTurn("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Reply != "upstream 503" || reply.Metrics != nil {
		t.Errorf("expected error text reply, got %+v", reply)
	}

	// An earlier assistant turn carrying a payload is not the user's request.
	history := []llm.Message{
		{Role: llm.RoleAssistant, Content: payloadReply},
		{Role: llm.RoleUser, Content: "thanks"},
	}
	reply, err = a.HandleTurn(context.Background(), history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Metrics != nil {
		t.Error("assistant turns must not be scanned for a payload")
	}
}

func TestHandleTurn_OverflowingPayload(t *testing.T) {
	text := `ACTION:CALL_BACKEND
{"company_name": "Acme", "industry": "Retail", "revenue": 1.7e308, "cogs_pct": -1, "logistics_cost_pct": 0.08, "exception_cost_pct": 0.03}`
	a := NewAssistant(&fakeExecutor{reply: text}, newCalculator(t), fakeRender)

	reply, err := a.HandleTurn(context.Background(), userTurn("go"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Metrics != nil || reply.PDFBase64 != nil {
		t.Errorf("overflowing result must not be returned: %+v", reply)
	}
	if !strings.Contains(reply.Reply, "too large") {
		t.Errorf("unexpected reply %q", reply.Reply)
	}
}

func TestHandleTurn_IncompletePayload(t *testing.T) {
	text := `ACTION:CALL_BACKEND
{"company_name": "Acme", "industry": "Retail", "revenue": "...", "cogs_pct": 0.6, "logistics_cost_pct": 0.08, "exception_cost_pct": 0.03}`
	a := NewAssistant(&fakeExecutor{reply: text}, newCalculator(t), fakeRender)

	reply, err := a.HandleTurn(context.Background(), userTurn("ok"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Metrics != nil {
		t.Error("incomplete payload must not compute")
	}
	if len(reply.ValidationErrors) != 1 || reply.ValidationErrors[0].Field != "revenue" {
		t.Errorf("unexpected validation errors: %+v", reply.ValidationErrors)
	}
	if !strings.HasPrefix(reply.Reply, "I still need a few details") {
		t.Errorf("unexpected reply %q", reply.Reply)
	}
}

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"no marker", `{"revenue": 1}`, false},
		{"marker with json", "ACTION:CALL_BACKEND {\"revenue\": 1}", true},
		{"fenced and trailing comma", "ACTION:CALL_BACKEND\n{\"revenue\": 1,}", true},
		{"empty object", "ACTION:CALL_BACKEND {}", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractPayload(tt.text)
			if ok != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, ok)
			}
		})
	}
}

func TestSetSystemPrompt(t *testing.T) {
	exec := &fakeExecutor{reply: "ok"}
	a := NewAssistant(exec, newCalculator(t), nil)

	if err := a.SetSystemPrompt("be brief"); err == nil {
		t.Error("prompt without the action marker must be rejected")
	}
	custom := "Collect fields, then emit " + ActionMarker + " with JSON."
	if err := a.SetSystemPrompt(custom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.HandleTurn(context.Background(), userTurn("hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.gotPrompt != custom {
		t.Errorf("custom prompt not used: %q", exec.gotPrompt)
	}
}
