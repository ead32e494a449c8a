package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driving"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// TextSplitter splits lesson text into retrieval-sized chunks.
type TextSplitter interface {
	Split(text string) []string
}

// IngestService loads parsed transcripts into the chunk store and catalog.
// Ingestion is keyed by course title: the same title is never ingested
// twice unless a rebuild is forced.
type IngestService struct {
	reader   driven.TranscriptReader
	splitter TextSplitter
	embedder driven.EmbeddingService
	chunks   driven.ChunkStore
	catalog  driven.CatalogStore
}

// NewIngestService creates an ingest service.
func NewIngestService(
	reader driven.TranscriptReader,
	splitter TextSplitter,
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
	catalog driven.CatalogStore,
) *IngestService {
	return &IngestService{
		reader:   reader,
		splitter: splitter,
		embedder: embedder,
		chunks:   chunks,
		catalog:  catalog,
	}
}

// IngestFile ingests one transcript. Re-ingesting an existing course title
// is a no-op unless force is set, in which case the course's chunks and
// catalog entry are deleted and rebuilt.
func (s *IngestService) IngestFile(ctx context.Context, path string, force bool) (*driving.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("File: %s, force: %t", path, force)

	doc, err := s.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	title := doc.Course.Title

	existing, err := s.catalog.GetCourse(ctx, title)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check catalog for %q: %w", title, err)
	}
	if existing != nil {
		if !force {
			logger.Info("Course %q already ingested, skipping", title)
			return &driving.IngestResult{CourseTitle: title, Skipped: true}, nil
		}
		logger.Info("Rebuilding course %q", title)
		if err := s.chunks.DeleteCourse(ctx, title); err != nil {
			return nil, fmt.Errorf("delete chunks for %q: %w", title, err)
		}
		if err := s.catalog.DeleteCourse(ctx, title); err != nil {
			return nil, fmt.Errorf("delete catalog entry for %q: %w", title, err)
		}
	}

	chunks := s.buildChunks(doc)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: transcript %s has no content", domain.ErrInvalidInput, path)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	if err := s.chunks.AddChunks(ctx, chunks, embeddings); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	nameEmbedding, err := s.embedder.Embed(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("embed course title: %w", err)
	}
	if err := s.catalog.AddCourse(ctx, doc.Course, nameEmbedding); err != nil {
		return nil, fmt.Errorf("store catalog entry: %w", err)
	}

	logger.Info("Ingested %q: %d chunks across %d lessons", title, len(chunks), len(doc.Course.Lessons))
	return &driving.IngestResult{CourseTitle: title, ChunkCount: len(chunks)}, nil
}

// IngestFolder ingests every .txt transcript in the folder, in name order.
// A failing file is logged and skipped; the rest of the folder still loads.
func (s *IngestService) IngestFolder(ctx context.Context, dir string, force bool) ([]driving.IngestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	results := make([]driving.IngestResult, 0, len(paths))
	for _, path := range paths {
		res, err := s.IngestFile(ctx, path, force)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// buildChunks splits each lesson and applies the context-enrichment
// prefixes. The first chunk of a lesson is prefixed "Lesson {n} content: ";
// later chunks get "Course {title} Lesson {n} content: " so repeated
// chunks in one lesson do not over-assert the course title to the
// embedding model while the first chunk anchors lesson identity. Chunk
// indexes are zero-based and monotonic across lessons.
func (s *IngestService) buildChunks(doc *domain.CourseDocument) []domain.Chunk {
	var chunks []domain.Chunk
	index := 0

	for i := range doc.Course.Lessons {
		lesson := doc.Course.Lessons[i]
		if i >= len(doc.LessonTexts) {
			break
		}
		parts := s.splitter.Split(doc.LessonTexts[i])

		for j, part := range parts {
			content := fmt.Sprintf("Course %s Lesson %d content: %s", doc.Course.Title, lesson.Number, part)
			if j == 0 {
				content = fmt.Sprintf("Lesson %d content: %s", lesson.Number, part)
			}

			num := lesson.Number
			chunks = append(chunks, domain.Chunk{
				ID:           uuid.New().String(),
				CourseTitle:  doc.Course.Title,
				LessonNumber: &num,
				Index:        index,
				Content:      content,
			})
			index++
		}
	}
	return chunks
}
