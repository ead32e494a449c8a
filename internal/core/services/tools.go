package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

// Tool is a capability the model may invoke. The registry is deliberately
// capability-agnostic: anything exposing a definition and an execute can be
// registered without touching the orchestrator.
type Tool interface {
	// Definition returns the schema handed verbatim to the model.
	Definition() driven.ToolDefinition

	// Execute runs the tool. The returned output carries the sources for
	// this specific call; sources are never shared between calls.
	Execute(ctx context.Context, args map[string]any) (*ToolOutput, error)
}

// ToolOutput is the per-call result of a tool execution.
type ToolOutput struct {
	// Text is the tool's result text, fed back to the model.
	Text string

	// Sources is the provenance for this call, in rank order.
	Sources []domain.Source
}

// ToolRegistry maps tool names to capabilities.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool under its declared name. Registering a second tool
// with the same name fails.
func (r *ToolRegistry) Register(tool Tool) error {
	name := tool.Definition().Name
	if name == "" {
		return fmt.Errorf("%w: tool definition has no name", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("tool %q: %w", name, domain.ErrAlreadyExists)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Definitions returns every registered tool schema, in registration order.
func (r *ToolRegistry) Definitions() []driven.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]driven.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches to the named tool. An unregistered name fails with
// domain.ErrUnknownTool; the caller decides whether that is fatal.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]any) (*ToolOutput, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrUnknownTool, name)
	}
	return tool.Execute(ctx, args)
}

// --- Course content search tool ---

// SearchToolName is the tool name the model calls to search course content.
const SearchToolName = "search_course_content"

// SearchTool exposes the retrieval engine as a model-callable tool.
type SearchTool struct {
	engine *RetrievalEngine
}

// NewSearchTool creates the course content search tool.
func NewSearchTool(engine *RetrievalEngine) *SearchTool {
	return &SearchTool{engine: engine}
}

// Definition returns the search tool schema.
func (t *SearchTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]any{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			"required": []any{"query"},
		},
	}
}

// Execute runs a search. A failed course resolution and an empty result
// are both surfaced as descriptive tool text, never as an error: the model
// sees the outcome and explains it to the user.
func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (*ToolOutput, error) {
	query, ok := stringArg(args, "query")
	if !ok || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search requires a query", domain.ErrInvalidInput)
	}

	courseHint, _ := stringArg(args, "course_name")
	lessonHint := intArg(args, "lesson_number")

	ev, err := t.engine.Search(ctx, query, courseHint, lessonHint)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return &ToolOutput{Text: fmt.Sprintf("No course found matching '%s'", courseHint)}, nil
		}
		return nil, err
	}

	if ev.Empty {
		var filterInfo strings.Builder
		if courseHint != "" {
			fmt.Fprintf(&filterInfo, " in course '%s'", courseHint)
		}
		if lessonHint != nil {
			fmt.Fprintf(&filterInfo, " in lesson %d", *lessonHint)
		}
		return &ToolOutput{Text: fmt.Sprintf("No relevant content found%s.", filterInfo.String())}, nil
	}

	return &ToolOutput{Text: ev.Rendered, Sources: ev.Sources}, nil
}

// --- Course outline tool ---

// OutlineToolName is the tool name the model calls for a course outline.
const OutlineToolName = "get_course_outline"

// OutlineTool returns a course's title, link, and full lesson list.
type OutlineTool struct {
	engine  *RetrievalEngine
	catalog driven.CatalogStore
}

// NewOutlineTool creates the course outline tool.
func NewOutlineTool(engine *RetrievalEngine, catalog driven.CatalogStore) *OutlineTool {
	return &OutlineTool{engine: engine, catalog: catalog}
}

// Definition returns the outline tool schema.
func (t *OutlineTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        OutlineToolName,
		Description: "Get the complete outline of a course including title, link, and all lessons with their numbers and titles",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title to get the outline for (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			"required": []any{"course_name"},
		},
	}
}

// Execute resolves the course name and formats its outline.
func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (*ToolOutput, error) {
	hint, ok := stringArg(args, "course_name")
	if !ok || strings.TrimSpace(hint) == "" {
		return nil, fmt.Errorf("%w: outline requires a course_name", domain.ErrInvalidInput)
	}

	title, err := t.engine.ResolveCourse(ctx, hint)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return &ToolOutput{Text: fmt.Sprintf("No course found matching '%s'", hint)}, nil
		}
		return nil, err
	}

	course, err := t.catalog.GetCourse(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("get course %q: %w", title, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", course.Link)
	}
	fmt.Fprintf(&b, "\nLessons (%d total):", len(course.Lessons))
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&b, "\n  Lesson %d: %s", lesson.Number, lesson.Title)
	}

	logger.Debug("Outline for %q: %d lessons", course.Title, len(course.Lessons))

	return &ToolOutput{
		Text:    b.String(),
		Sources: []domain.Source{{Text: course.Title, Link: course.Link}},
	}, nil
}

// --- argument helpers ---

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intArg reads an optional integer argument. JSON decoding yields float64,
// so both forms are accepted.
func intArg(args map[string]any, key string) *int {
	v, ok := args[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		i := n
		return &i
	default:
		return nil
	}
}
