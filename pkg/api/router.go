// Package api wires the HTTP handlers onto a gorilla/mux router.
package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"logistics_roi/pkg/api/chat"
	"logistics_roi/pkg/api/config"
	"logistics_roi/pkg/api/middleware"
	roiapi "logistics_roi/pkg/api/roi"
	"logistics_roi/pkg/core/agent"
	coreChat "logistics_roi/pkg/core/chat"
	"logistics_roi/pkg/core/prompt"
	"logistics_roi/pkg/core/report"
	"logistics_roi/pkg/core/roi"
)

// Deps are the services the router exposes.
type Deps struct {
	Calculator *roi.Calculator
	Agents     *agent.Manager
	// ChatLimiter throttles the chat endpoint; nil leaves it unthrottled.
	ChatLimiter *middleware.RateLimiter
	// Prompts may override the assistant's built-in system prompt.
	Prompts *prompt.Library
}

// NewRouter registers every route. Each route also accepts OPTIONS so the
// CORS middleware can answer preflight requests. It fails only when a
// configured prompt override is unusable.
func NewRouter(d Deps) (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(middleware.CORS)

	roiHandler := roiapi.NewHandler(d.Calculator)
	r.HandleFunc("/api/roi", roiHandler.HandleCompute).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/roi/report", roiHandler.HandleReport).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/roi/report.html", roiHandler.HandleReportHTML).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/benchmarks", roiHandler.HandleBenchmarks).Methods(http.MethodGet, http.MethodOptions)

	assistant := coreChat.NewAssistant(d.Agents, d.Calculator, report.Generate)
	if d.Prompts != nil {
		if p, ok := d.Prompts.SystemPrompt(coreChat.PromptID); ok {
			if err := assistant.SetSystemPrompt(p); err != nil {
				return nil, fmt.Errorf("prompt %s: %w", coreChat.PromptID, err)
			}
		}
	}
	var chatHandler http.Handler = http.HandlerFunc(chat.NewHandler(assistant).HandleChat)
	if d.ChatLimiter != nil {
		chatHandler = d.ChatLimiter.Handler(chatHandler)
	}
	r.Handle("/api/roi/chat", chatHandler).Methods(http.MethodPost, http.MethodOptions)

	configHandler := config.NewHandler(d.Agents)
	r.HandleFunc("/api/config", configHandler.HandleConfig).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/config/switch", configHandler.HandleSwitch).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r, nil
}
