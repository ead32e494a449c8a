package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// Ensure chunkStore implements the interface.
var _ driven.ChunkStore = (*chunkStore)(nil)

// chunkStore implements driven.ChunkStore over the shared SQLite handle.
type chunkStore struct {
	store *Store
}

// AddChunks inserts chunks with their embeddings in one transaction.
func (s *chunkStore) AddChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, course_title, lesson_number, chunk_index, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		var lesson any
		if c.LessonNumber != nil {
			lesson = *c.LessonNumber
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.CourseTitle, lesson, c.Index, c.Content, encodeEmbedding(embeddings[i])); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Query selects candidate rows by filter, ranks by cosine distance in Go,
// and returns the limit nearest. rowid order makes equal-distance ranking
// stable across runs.
func (s *chunkStore) Query(ctx context.Context, embedding []float32, filter domain.SearchFilter, limit int) ([]domain.Hit, error) {
	query := `SELECT course_title, lesson_number, chunk_index, content, embedding, id FROM chunks`
	var (
		conds []string
		args  []any
	)
	if filter.CourseTitle != "" {
		conds = append(conds, "course_title = ?")
		args = append(args, filter.CourseTitle)
	}
	if filter.LessonNumber != nil {
		conds = append(conds, "lesson_number = ?")
		args = append(args, *filter.LessonNumber)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY rowid"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	hits := []domain.Hit{}
	for rows.Next() {
		var (
			chunk  domain.Chunk
			lesson sql.NullInt64
			blob   []byte
		)
		if err := rows.Scan(&chunk.CourseTitle, &lesson, &chunk.Index, &chunk.Content, &blob, &chunk.ID); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if lesson.Valid {
			n := int(lesson.Int64)
			chunk.LessonNumber = &n
		}
		hits = append(hits, domain.Hit{
			Chunk:    chunk,
			Distance: cosineDistance(embedding, decodeEmbedding(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// DeleteCourse removes every chunk of the given course.
func (s *chunkStore) DeleteCourse(ctx context.Context, courseTitle string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE course_title = ?", courseTitle); err != nil {
		return fmt.Errorf("delete chunks for %q: %w", courseTitle, err)
	}
	return nil
}

// Count returns the total number of stored chunks.
func (s *chunkStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Close is a no-op; the shared store owns the connection.
func (s *chunkStore) Close() error {
	return nil
}
