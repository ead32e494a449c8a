package services

import (
	"context"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors can be assigned per text; unknown texts get the default vector.
type mockEmbeddingService struct {
	vectors    map[string][]float32
	defaultVec []float32
	embedErr   error
	batchErr   error
}

func newMockEmbedder() *mockEmbeddingService {
	return &mockEmbeddingService{
		vectors:    make(map[string][]float32),
		defaultVec: []float32{1, 0, 0},
	}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.defaultVec, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLM implements driven.LLMClient with a scripted response sequence.
type mockLLM struct {
	responses []*driven.ChatResponse
	errs      []error
	requests  []driven.ChatRequest
}

func (m *mockLLM) Send(_ context.Context, req driven.ChatRequest) (*driven.ChatResponse, error) {
	call := len(m.requests)
	m.requests = append(m.requests, req)
	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}
	if call < len(m.responses) {
		return m.responses[call], nil
	}
	return &driven.ChatResponse{Text: "out of script", StopReason: driven.StopEndTurn}, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockTool implements Tool with a fixed output or error.
type mockTool struct {
	name     string
	output   *ToolOutput
	execErr  error
	lastArgs map[string]any
	calls    int
}

func (t *mockTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        t.name,
		Description: "mock tool",
		InputSchema: map[string]any{"type": "object"},
	}
}

func (t *mockTool) Execute(_ context.Context, args map[string]any) (*ToolOutput, error) {
	t.calls++
	t.lastArgs = args
	if t.execErr != nil {
		return nil, t.execErr
	}
	return t.output, nil
}

// mockReader implements driven.TranscriptReader.
type mockReader struct {
	docs map[string]*domain.CourseDocument
	err  error
}

func (m *mockReader) Read(path string) (*domain.CourseDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[path], nil
}

// fixedSplitter returns each text as a preset number of equal parts.
type fixedSplitter struct {
	parts int
}

func (s fixedSplitter) Split(text string) []string {
	n := s.parts
	if n <= 0 {
		n = 1
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, text)
	}
	return out
}
