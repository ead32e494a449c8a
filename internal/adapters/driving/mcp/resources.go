package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for coursechat resources.
const uriScheme = "coursechat://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing ingested courses.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "courses",
		Name:        "courses",
		Description: "List of all ingested course titles",
		MIMEType:    "application/json",
	}, s.handleCoursesResource)

	// Template for individual course outlines.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "courses/{courseTitle}",
		Name:        "course-outline",
		Description: "Metadata and lesson list for a specific course",
		MIMEType:    "application/json",
	}, s.handleCourseResource)
}

// handleCoursesResource returns the list of ingested course titles.
func (s *Server) handleCoursesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	titles, err := s.ports.Catalog.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	data, err := json.MarshalIndent(titles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling courses: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleCourseResource returns the outline of a specific course.
func (s *Server) handleCourseResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	title := extractCourseTitle(req.Params.URI)
	if title == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	course, err := s.ports.Catalog.GetCourse(ctx, title)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling course: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCourseTitle extracts the title from a URI like coursechat://courses/{courseTitle}.
func extractCourseTitle(uri string) string {
	const prefix = uriScheme + "courses/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
