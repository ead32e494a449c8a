package memory

import (
	"context"
	"sync"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// catalogEntry pairs a course with its name embedding.
type catalogEntry struct {
	course    domain.Course
	embedding []float32
}

// CatalogStore is an in-memory course catalog for fuzzy name resolution.
type CatalogStore struct {
	mu      sync.RWMutex
	entries map[string]catalogEntry
	order   []string
}

// NewCatalogStore creates an empty in-memory catalog.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{entries: make(map[string]catalogEntry)}
}

// AddCourse stores the course keyed by title, replacing any existing entry.
func (s *CatalogStore) AddCourse(_ context.Context, course domain.Course, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[course.Title]; !ok {
		s.order = append(s.order, course.Title)
	}
	s.entries[course.Title] = catalogEntry{course: course, embedding: embedding}
	return nil
}

// Resolve returns the title nearest to the given embedding. Every
// non-empty catalog resolves; only an empty one fails.
func (s *CatalogStore) Resolve(_ context.Context, embedding []float32) (string, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return "", 0, domain.ErrEmptyCatalog
	}

	best := ""
	bestDistance := 0.0
	for i, title := range s.order {
		d := CosineDistance(embedding, s.entries[title].embedding)
		if i == 0 || d < bestDistance {
			best = title
			bestDistance = d
		}
	}
	return best, bestDistance, nil
}

// GetCourse returns the full course record for an exact title.
func (s *CatalogStore) GetCourse(_ context.Context, title string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	course := entry.course
	return &course, nil
}

// ListTitles returns all course titles in insertion order.
func (s *CatalogStore) ListTitles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make([]string, len(s.order))
	copy(titles, s.order)
	return titles, nil
}

// DeleteCourse removes the catalog entry for the title.
func (s *CatalogStore) DeleteCourse(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[title]; !ok {
		return nil
	}
	delete(s.entries, title)
	for i, t := range s.order {
		if t == title {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close releases resources.
func (s *CatalogStore) Close() error {
	return nil
}
