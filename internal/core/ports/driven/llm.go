package driven

import "context"

// Stop reasons reported by an LLM response. The orchestrator branches on
// these, so every adapter must map its provider's vocabulary onto them.
const (
	// StopEndTurn means the model produced a final text answer.
	StopEndTurn = "end_turn"

	// StopToolUse means the model is requesting one or more tool invocations
	// before it can answer.
	StopToolUse = "tool_use"
)

// LLMClient sends a conversation to a language model provider and returns
// its response. Retry and backoff policy is the adapter's concern, not the
// caller's.
//
// Implementations may include:
//   - Anthropic (Claude, Messages API)
//   - Ollama (local models, /api/chat)
type LLMClient interface {
	// Send submits the request and blocks until the provider responds.
	Send(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the provider is reachable without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatRequest is a provider-neutral model request.
type ChatRequest struct {
	// System is the system prompt, including any injected conversation
	// history.
	System string

	// Messages is the running transcript, oldest first.
	Messages []ChatMessage

	// Tools declares the capabilities the model may request. A nil slice
	// means tools are not offered on this call.
	Tools []ToolDefinition

	// MaxTokens caps the generated answer length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// ChatMessage is one entry in the transcript. Exactly one of the content
// fields is typically set: plain text, the model's tool calls, or the tool
// results being fed back.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string

	// Text is the plain message text.
	Text string

	// ToolCalls carries the model's tool-use blocks (assistant role only).
	ToolCalls []ToolCall

	// ToolResults carries synthetic tool-result blocks (user role only).
	ToolResults []ToolResult
}

// ToolDefinition declares a callable capability to the model.
type ToolDefinition struct {
	// Name is the tool identifier the model will call it by.
	Name string

	// Description tells the model when to use the tool.
	Description string

	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema map[string]any
}

// ToolCall is a model's structured request to invoke a tool.
type ToolCall struct {
	// ID is the provider-assigned call identifier; tool results must be
	// keyed by it.
	ID string

	// Name is the requested tool.
	Name string

	// Input holds the decoded tool arguments.
	Input map[string]any
}

// ToolResult is the outcome of executing one tool call.
type ToolResult struct {
	// CallID matches the ToolCall this result answers.
	CallID string

	// Content is the textual tool output, or the error text when IsError
	// is set.
	Content string

	// IsError marks a failed execution; the model sees the failure and may
	// explain it conversationally.
	IsError bool
}

// ChatResponse is a provider-neutral model response.
type ChatResponse struct {
	// Text is the concatenated text content of the response.
	Text string

	// ToolCalls lists the tool invocations the model requested, if any.
	ToolCalls []ToolCall

	// StopReason is StopEndTurn or StopToolUse.
	StopReason string
}
