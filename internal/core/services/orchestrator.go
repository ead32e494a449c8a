package services

import (
	"context"
	"fmt"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

// DefaultSystemPrompt instructs the model on when to search and how to
// answer. One search per query is also enforced structurally: the second
// model call never offers tools.
const DefaultSystemPrompt = `You are an AI assistant specialized in course materials and educational content, with tools for searching course content and retrieving course outlines.

Tool usage:
- Use search_course_content for questions about specific course content or detailed educational materials.
- Use get_course_outline for questions about a course's structure, lesson list, or links.
- One tool call per query maximum.
- If a search yields no results, state that clearly without offering alternatives.

Responses:
- Answer course-content questions from the tool results; answer general knowledge questions directly without tools.
- Be brief, concise and focused. Do not mention the search process or that you used a tool.`

// orchestration phases. The state machine is linear by construction:
// Idle -> awaitingFirstResponse -> (done | awaitingToolResult) -> done.
type phase int

const (
	phaseIdle phase = iota
	phaseAwaitingFirstResponse
	phaseAwaitingToolResult
	phaseDone
)

// Orchestrator drives the two-phase model interaction: send the query with
// tool declarations, execute any requested tools, resubmit the results
// with tools omitted, and return the final answer with its sources.
type Orchestrator struct {
	llm          driven.LLMClient
	registry     *ToolRegistry
	systemPrompt string
	maxTokens    int
	temperature  float64
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) OrchestratorOption {
	return func(o *Orchestrator) {
		if prompt != "" {
			o.systemPrompt = prompt
		}
	}
}

// WithMaxTokens sets the answer token cap.
func WithMaxTokens(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// NewOrchestrator creates an orchestrator over the given model client and
// tool registry.
func NewOrchestrator(llm driven.LLMClient, registry *ToolRegistry, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		llm:          llm,
		registry:     registry,
		systemPrompt: DefaultSystemPrompt,
		maxTokens:    800,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate answers one query. history, when non-empty, is folded into the
// system prompt. The returned sources belong to this call alone.
//
// Tool execution failures are recovered locally: the error text becomes
// the tool result so the model can explain the failure conversationally.
// Only a model-provider failure is fatal, and it is propagated unchanged.
func (o *Orchestrator) Generate(ctx context.Context, query, history string) (string, []domain.Source, error) {
	if o.llm == nil {
		return "", nil, domain.ErrLLMUnavailable
	}

	system := o.systemPrompt
	if history != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", o.systemPrompt, history)
	}

	messages := []driven.ChatMessage{{Role: "user", Text: query}}

	var (
		state   = phaseIdle
		answer  string
		sources []domain.Source
		resp    *driven.ChatResponse
		err     error
	)

	for state != phaseDone {
		switch state {
		case phaseIdle:
			logger.Section("Model Call 1")
			resp, err = o.llm.Send(ctx, driven.ChatRequest{
				System:    system,
				Messages:  messages,
				Tools:     o.registry.Definitions(),
				MaxTokens: o.maxTokens,
			})
			if err != nil {
				return "", nil, fmt.Errorf("model call: %w", err)
			}
			state = phaseAwaitingFirstResponse

		case phaseAwaitingFirstResponse:
			if resp.StopReason != driven.StopToolUse || len(resp.ToolCalls) == 0 {
				answer = resp.Text
				state = phaseDone
				break
			}
			logger.Debug("Model requested %d tool call(s)", len(resp.ToolCalls))

			results := make([]driven.ToolResult, 0, len(resp.ToolCalls))
			for _, call := range resp.ToolCalls {
				out, execErr := o.registry.Execute(ctx, call.Name, call.Input)
				if execErr != nil {
					logger.Warn("Tool %q failed: %v", call.Name, execErr)
					results = append(results, driven.ToolResult{
						CallID:  call.ID,
						Content: fmt.Sprintf("Tool execution error: %s", execErr),
						IsError: true,
					})
					continue
				}
				results = append(results, driven.ToolResult{CallID: call.ID, Content: out.Text})
				sources = append(sources, out.Sources...)
			}

			messages = append(messages,
				driven.ChatMessage{Role: "assistant", Text: resp.Text, ToolCalls: resp.ToolCalls},
				driven.ChatMessage{Role: "user", ToolResults: results},
			)
			state = phaseAwaitingToolResult

		case phaseAwaitingToolResult:
			// Tools are deliberately omitted: at most one search round per
			// query is a structural invariant, not a prompt convention.
			logger.Section("Model Call 2")
			resp, err = o.llm.Send(ctx, driven.ChatRequest{
				System:    system,
				Messages:  messages,
				MaxTokens: o.maxTokens,
			})
			if err != nil {
				return "", nil, fmt.Errorf("model call after tools: %w", err)
			}
			answer = resp.Text
			state = phaseDone
		}
	}

	return answer, sources, nil
}
