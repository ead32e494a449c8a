package services

import (
	"context"
	"fmt"

	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driving"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.QueryService = (*RAGService)(nil)

// RAGService ties the orchestrator, session store and catalog together
// behind the query interface consumed by the CLI, TUI and MCP front ends.
type RAGService struct {
	orchestrator *Orchestrator
	sessions     driven.SessionStore
	catalog      driven.CatalogStore
}

// NewRAGService creates the query service.
func NewRAGService(orchestrator *Orchestrator, sessions driven.SessionStore, catalog driven.CatalogStore) *RAGService {
	return &RAGService{
		orchestrator: orchestrator,
		sessions:     sessions,
		catalog:      catalog,
	}
}

// Query answers one question. An empty sessionID starts a new session.
// The exchange is only recorded once a final answer exists, so a failed
// query leaves the session history unchanged.
func (s *RAGService) Query(ctx context.Context, text, sessionID string) (*driving.Answer, error) {
	logger.Section("Query")
	logger.Debug("Question: %q, session: %q", text, sessionID)

	if sessionID == "" {
		id, err := s.sessions.Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		sessionID = id
		logger.Debug("Created session %s", sessionID)
	}

	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	answer, sources, err := s.orchestrator.Generate(ctx, text, history)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.AddExchange(ctx, sessionID, text, answer); err != nil {
		return nil, fmt.Errorf("record exchange: %w", err)
	}

	return &driving.Answer{
		Text:      answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}

// CourseStats reports the number of ingested courses and their titles.
func (s *RAGService) CourseStats(ctx context.Context) (*driving.CourseStats, error) {
	titles, err := s.catalog.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return &driving.CourseStats{
		TotalCourses: len(titles),
		CourseTitles: titles,
	}, nil
}

// DeleteSession removes all conversation state for the session.
func (s *RAGService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
