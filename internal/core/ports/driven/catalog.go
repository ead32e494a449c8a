package driven

import (
	"context"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
)

// CatalogStore holds one entry per known course for fuzzy name resolution
// and outline lookups. Catalog entries are never returned as content.
type CatalogStore interface {
	// AddCourse stores the course and its name embedding, replacing any
	// existing entry with the same title.
	AddCourse(ctx context.Context, course domain.Course, embedding []float32) error

	// Resolve returns the title of the course whose name embedding is
	// nearest to the given one, plus the cosine distance. It fails with
	// domain.ErrEmptyCatalog only when the catalog holds no entries; any
	// non-empty catalog always resolves.
	Resolve(ctx context.Context, embedding []float32) (title string, distance float64, err error)

	// GetCourse returns the full course record, or domain.ErrNotFound.
	GetCourse(ctx context.Context, title string) (*domain.Course, error)

	// ListTitles returns all known course titles in insertion order.
	ListTitles(ctx context.Context) ([]string, error)

	// DeleteCourse removes the catalog entry. Used only for forced rebuilds.
	DeleteCourse(ctx context.Context, title string) error

	// Close releases resources.
	Close() error
}
