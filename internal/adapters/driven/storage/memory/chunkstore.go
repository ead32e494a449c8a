package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory chunk store using brute-force cosine
// distance. Chunks are kept in insertion order so equal-distance hits
// rank stably.
type ChunkStore struct {
	mu         sync.RWMutex
	chunks     []domain.Chunk
	embeddings [][]float32
}

// NewChunkStore creates an empty in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

// AddChunks appends chunks with their embeddings.
func (s *ChunkStore) AddChunks(_ context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	s.embeddings = append(s.embeddings, embeddings...)
	return nil
}

// Query scans all stored embeddings, keeps chunks matching the filter, and
// returns the limit nearest by cosine distance. No matches yields an
// empty, non-nil slice.
func (s *ChunkStore) Query(_ context.Context, embedding []float32, filter domain.SearchFilter, limit int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.Hit, 0, limit)
	for i := range s.chunks {
		if !filter.Matches(&s.chunks[i]) {
			continue
		}
		hits = append(hits, domain.Hit{
			Chunk:    s.chunks[i],
			Distance: CosineDistance(embedding, s.embeddings[i]),
		})
	}

	// Stable sort keeps insertion order for equal distances.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// DeleteCourse removes every chunk of the given course.
func (s *ChunkStore) DeleteCourse(_ context.Context, courseTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks := s.chunks[:0]
	embeddings := s.embeddings[:0]
	for i := range s.chunks {
		if s.chunks[i].CourseTitle == courseTitle {
			continue
		}
		chunks = append(chunks, s.chunks[i])
		embeddings = append(embeddings, s.embeddings[i])
	}
	s.chunks = chunks
	s.embeddings = embeddings
	return nil
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}

// CosineDistance returns 1 minus the cosine similarity of a and b.
// Zero-magnitude vectors are treated as maximally distant.
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
