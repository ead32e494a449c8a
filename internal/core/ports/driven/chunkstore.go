package driven

import (
	"context"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
)

// ChunkStore holds content chunks with their embeddings and supports
// filtered nearest-neighbour retrieval. Writes happen only at ingestion
// time; queries never mutate the store.
type ChunkStore interface {
	// AddChunks appends chunks with their embeddings. Chunks and embeddings
	// are parallel slices and must have equal length.
	AddChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error

	// Query returns at most limit chunks matching the filter, ordered by
	// ascending cosine distance to the query embedding. Ties are broken by
	// insertion order. No matches yields an empty, non-nil slice.
	Query(ctx context.Context, embedding []float32, filter domain.SearchFilter, limit int) ([]domain.Hit, error)

	// DeleteCourse removes every chunk of the given course. Used only for
	// forced rebuilds.
	DeleteCourse(ctx context.Context, courseTitle string) error

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
