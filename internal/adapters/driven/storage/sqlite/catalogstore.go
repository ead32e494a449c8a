package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// Ensure catalogStore implements the interface.
var _ driven.CatalogStore = (*catalogStore)(nil)

// catalogStore implements driven.CatalogStore over the shared SQLite handle.
type catalogStore struct {
	store *Store
}

// lessonRecord is the JSON shape lessons are persisted in.
type lessonRecord struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// AddCourse upserts the course and its name embedding.
func (s *catalogStore) AddCourse(ctx context.Context, course domain.Course, embedding []float32) error {
	records := make([]lessonRecord, len(course.Lessons))
	for i, l := range course.Lessons {
		records[i] = lessonRecord{Number: l.Number, Title: l.Title, Link: l.Link}
	}
	lessons, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal lessons: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO courses (title, link, instructor, lessons, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			link = excluded.link,
			instructor = excluded.instructor,
			lessons = excluded.lessons,
			embedding = excluded.embedding
	`, course.Title, course.Link, course.Instructor, string(lessons), encodeEmbedding(embedding))
	if err != nil {
		return fmt.Errorf("upsert course %q: %w", course.Title, err)
	}
	return nil
}

// Resolve scans all catalog embeddings and returns the nearest title.
func (s *catalogStore) Resolve(ctx context.Context, embedding []float32) (string, float64, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT title, embedding FROM courses ORDER BY rowid")
	if err != nil {
		return "", 0, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	best := ""
	bestDistance := 0.0
	found := false
	for rows.Next() {
		var (
			title string
			blob  []byte
		)
		if err := rows.Scan(&title, &blob); err != nil {
			return "", 0, fmt.Errorf("scan catalog entry: %w", err)
		}
		d := cosineDistance(embedding, decodeEmbedding(blob))
		if !found || d < bestDistance {
			best = title
			bestDistance = d
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return "", 0, fmt.Errorf("iterate catalog: %w", err)
	}
	if !found {
		return "", 0, domain.ErrEmptyCatalog
	}
	return best, bestDistance, nil
}

// GetCourse returns the full course record for an exact title.
func (s *catalogStore) GetCourse(ctx context.Context, title string) (*domain.Course, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT title, link, instructor, lessons FROM courses WHERE title = ?", title)

	var (
		course  domain.Course
		lessons string
	)
	if err := row.Scan(&course.Title, &course.Link, &course.Instructor, &lessons); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get course %q: %w", title, err)
	}

	var records []lessonRecord
	if err := json.Unmarshal([]byte(lessons), &records); err != nil {
		return nil, fmt.Errorf("unmarshal lessons for %q: %w", title, err)
	}
	course.Lessons = make([]domain.Lesson, len(records))
	for i, r := range records {
		course.Lessons[i] = domain.Lesson{Number: r.Number, Title: r.Title, Link: r.Link}
	}
	return &course, nil
}

// ListTitles returns all course titles in insertion order.
func (s *catalogStore) ListTitles(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT title FROM courses ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// DeleteCourse removes the catalog entry for the title.
func (s *catalogStore) DeleteCourse(ctx context.Context, title string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM courses WHERE title = ?", title); err != nil {
		return fmt.Errorf("delete course %q: %w", title, err)
	}
	return nil
}

// Close is a no-op; the shared store owns the connection.
func (s *catalogStore) Close() error {
	return nil
}
