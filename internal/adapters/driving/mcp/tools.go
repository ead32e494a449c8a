package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/services"
)

// SearchInput is the input schema for the content search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"what to search for in the course content"`
	CourseName   string `json:"course_name,omitempty" jsonschema:"course title to restrict the search to (partial names match)"`
	LessonNumber *int   `json:"lesson_number,omitempty" jsonschema:"lesson number to restrict the search to"`
}

// SearchOutput is the output schema for the content search tool.
type SearchOutput struct {
	Content        string          `json:"content"`
	Sources        []domain.Source `json:"sources,omitempty"`
	ResolvedCourse string          `json:"resolved_course,omitempty"`
}

// OutlineInput is the input schema for the course outline tool.
type OutlineInput struct {
	CourseName string `json:"course_name" jsonschema:"course title to fetch the outline for (partial names match)"`
}

// OutlineOutput is the output schema for the course outline tool.
type OutlineOutput struct {
	CourseTitle string          `json:"course_title"`
	CourseLink  string          `json:"course_link,omitempty"`
	Lessons     []OutlineLesson `json:"lessons"`
}

// OutlineLesson is one entry of a course outline.
type OutlineLesson struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.SearchToolName,
		Description: "Search ingested course transcripts for relevant content",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.OutlineToolName,
		Description: "Get the full lesson outline of a course",
	}, s.handleOutline)
}

// handleSearch handles the content search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	evidence, err := s.ports.Engine.Search(ctx, input.Query, input.CourseName, input.LessonNumber)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return nil, SearchOutput{
				Content: fmt.Sprintf("No course found matching '%s'", input.CourseName),
			}, nil
		}
		return nil, SearchOutput{}, err
	}

	if evidence.Empty {
		return nil, SearchOutput{
			Content:        "No relevant content found.",
			ResolvedCourse: evidence.ResolvedCourse,
		}, nil
	}

	return nil, SearchOutput{
		Content:        evidence.Rendered,
		Sources:        evidence.Sources,
		ResolvedCourse: evidence.ResolvedCourse,
	}, nil
}

// handleOutline handles the course outline tool invocation.
func (s *Server) handleOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OutlineInput,
) (*mcp.CallToolResult, OutlineOutput, error) {
	title, err := s.ports.Engine.ResolveCourse(ctx, input.CourseName)
	if err != nil {
		return nil, OutlineOutput{}, err
	}

	course, err := s.ports.Catalog.GetCourse(ctx, title)
	if err != nil {
		return nil, OutlineOutput{}, fmt.Errorf("getting course %q: %w", title, err)
	}

	output := OutlineOutput{
		CourseTitle: course.Title,
		CourseLink:  course.Link,
		Lessons:     make([]OutlineLesson, len(course.Lessons)),
	}
	for i, lesson := range course.Lessons {
		output.Lessons[i] = OutlineLesson{
			Number: lesson.Number,
			Title:  lesson.Title,
			Link:   lesson.Link,
		}
	}
	return nil, output, nil
}
