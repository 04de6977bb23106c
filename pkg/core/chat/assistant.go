// Package chat collects ROI inputs through a conversation with a language
// model and runs the calculation once the model signals it has every field.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"logistics_roi/pkg/core/intake"
	"logistics_roi/pkg/core/llm"
	"logistics_roi/pkg/core/report"
	"logistics_roi/pkg/core/roi"
	"logistics_roi/pkg/core/utils"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "chat").Logger()

// AgentType is the agent.Manager key for the assistant.
const AgentType = "roi_chat"

// PromptID is the prompt library entry that overrides SystemPrompt.
const PromptID = "chat.roi_intake"

// ActionMarker precedes the JSON payload once the model is ready to calculate.
const ActionMarker = "ACTION:CALL_BACKEND"

// SystemPrompt instructs the model which fields to gather and how to hand off.
const SystemPrompt = `You are a logistics platform ROI assistant.
Your job is to gather these fields from the conversation:
company_name, industry, revenue (USD), cogs_pct (decimal),
logistics_cost_pct (decimal), exception_cost_pct (decimal),
avg_inventory_value (optional), logistics_planner_fte (optional).
If revenue, logistics_cost_pct, or exception_cost_pct are missing or unclear,
ask a short, clear follow-up question instead of guessing.
When you have all required fields and the user has confirmed they are OK,
output this exact pattern:

ACTION:CALL_BACKEND
{
  "company_name": "...",
  "industry": "...",
  "revenue": ...,
  "cogs_pct": ...,
  "logistics_cost_pct": ...,
  "exception_cost_pct": ...,
  "avg_inventory_value": ...,
  "logistics_planner_fte": ...
}

Otherwise, just continue the conversation normally.`

var payloadPattern = regexp.MustCompile(`ACTION:CALL_BACKEND\s*(\{[\s\S]*?\})`)

// Executor sends a conversation to a model. *agent.Manager satisfies it.
type Executor interface {
	ExecuteChat(ctx context.Context, agentType string, messages []llm.Message, systemPrompt string) (string, error)
}

// ReportFunc renders a result into a downloadable report.
type ReportFunc func(input roi.Input, result roi.Result) (*report.Report, error)

// Reply is one assistant turn. Metrics and the PDF are set only when a
// calculation ran.
type Reply struct {
	Reply            string              `json:"reply"`
	Metrics          *roi.Result         `json:"metrics"`
	PDFBase64        *string             `json:"pdf_base64"`
	Filename         *string             `json:"filename"`
	ValidationErrors []intake.FieldError `json:"validation_errors,omitempty"`
}

// Assistant drives the extraction conversation.
type Assistant struct {
	agents       Executor
	calculator   *roi.Calculator
	render       ReportFunc
	systemPrompt string
}

// NewAssistant wires the assistant. render may be nil to skip PDF output.
func NewAssistant(agents Executor, calculator *roi.Calculator, render ReportFunc) *Assistant {
	return &Assistant{agents: agents, calculator: calculator, render: render, systemPrompt: SystemPrompt}
}

// SetSystemPrompt replaces the built-in prompt. The replacement must tell the
// model to emit ActionMarker, otherwise no turn could ever calculate.
// Call it before the assistant serves requests.
func (a *Assistant) SetSystemPrompt(p string) error {
	if !strings.Contains(p, ActionMarker) {
		return fmt.Errorf("system prompt does not mention %s", ActionMarker)
	}
	a.systemPrompt = p
	return nil
}

// HandleTurn sends the conversation to the model and, if the reply carries
// a complete payload, runs the calculation.
//
// When the model is unreachable for any reason other than a missing API key,
// the user's own messages are searched for a payload so a pasted request
// still computes.
func (a *Assistant) HandleTurn(ctx context.Context, messages []llm.Message) (*Reply, error) {
	modelText, err := a.agents.ExecuteChat(ctx, AgentType, messages, a.systemPrompt)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			logger.Warn().Err(err).Msg("[CHAT] LLM unavailable")
			return &Reply{Reply: err.Error()}, nil
		}

		logger.Warn().Err(err).Msg("[CHAT] LLM call failed, scanning conversation for payload")
		payload, ok := ExtractPayload(joinContents(messages))
		if !ok {
			return &Reply{Reply: err.Error()}, nil
		}
		return a.calculate(payload)
	}

	payload, ok := ExtractPayload(modelText)
	if !ok {
		return &Reply{Reply: utils.CleanMarkdown(modelText)}, nil
	}
	return a.calculate(payload)
}

func (a *Assistant) calculate(payload map[string]interface{}) (*Reply, error) {
	input, err := intake.FromMap(payload)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			return &Reply{
				Reply:            "I still need a few details before I can calculate: " + describeFields(verr.Fields) + ".",
				ValidationErrors: verr.Fields,
			}, nil
		}
		return nil, err
	}

	result := a.calculator.Run(input)
	if !result.Finite() {
		logger.Warn().Str("company", input.CompanyName).Msg("[CHAT] ROI result overflowed")
		return &Reply{Reply: "Those figures are too large to compute. Please check the revenue and percentages."}, nil
	}
	logger.Info().Str("company", input.CompanyName).Str("industry", input.Industry).
		Bool("benchmark_fallback", result.Benchmark.Fallback).
		Float64("roi_percent", result.ROIPercent).Msg("[CHAT] ROI calculated")

	reply := &Reply{Metrics: &result}
	text := result.Summary()
	if result.Benchmark.Fallback {
		text += fmt.Sprintf(" No benchmarks matched industry %q, so default benchmarks were used.", input.Industry)
	}

	if a.render != nil {
		rep, err := a.render(input, result)
		if err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
		reply.PDFBase64 = &rep.PDFBase64
		reply.Filename = &rep.Filename
		text += " A PDF report is available."
	}
	reply.Reply = text
	return reply, nil
}

// ExtractPayload finds the ACTION:CALL_BACKEND block in text and parses its
// JSON leniently. It reports false when there is no block or it cannot be parsed.
func ExtractPayload(text string) (map[string]interface{}, bool) {
	m := payloadPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	var payload map[string]interface{}
	if _, err := utils.SmartParse(m[1], &payload); err != nil || len(payload) == 0 {
		logger.Debug().Err(err).Msg("[CHAT] payload block found but not parseable")
		return nil, false
	}
	return payload, true
}

// joinContents concatenates the user turns only.
func joinContents(messages []llm.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n")
}

func describeFields(fields []intake.FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+" ("+f.Message+")")
	}
	return strings.Join(parts, ", ")
}
