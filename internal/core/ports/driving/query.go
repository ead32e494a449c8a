package driving

import (
	"context"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
)

// Answer is the result of one end-to-end query.
type Answer struct {
	// Text is the final assistant answer.
	Text string

	// Sources lists the evidence behind the answer, in rank order. Empty
	// when the model answered without searching.
	Sources []domain.Source

	// SessionID identifies the conversation the exchange was recorded in.
	SessionID string
}

// CourseStats summarises the ingested corpus.
type CourseStats struct {
	TotalCourses int
	CourseTitles []string
}

// QueryService answers natural-language questions about the course corpus.
type QueryService interface {
	// Query runs one question through the model, searching course content
	// when the model asks for it. An empty sessionID starts a new session.
	Query(ctx context.Context, text, sessionID string) (*Answer, error)

	// CourseStats reports how many courses are ingested and their titles.
	CourseStats(ctx context.Context) (*CourseStats, error)

	// DeleteSession removes all conversation state for the session.
	DeleteSession(ctx context.Context, sessionID string) error
}
