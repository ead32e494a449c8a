package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

// DefaultTopK is the default number of chunks a search returns.
const DefaultTopK = 5

// Evidence is the outcome of one search call: rendered model-ready text
// plus a parallel Source list, threaded back to the caller explicitly so
// concurrent queries can never observe each other's sources.
type Evidence struct {
	// Rendered is the labelled evidence text handed to the model.
	Rendered string

	// Sources has one entry per rendered block, in the same rank order.
	Sources []domain.Source

	// ResolvedCourse is the exact course title the hint resolved to, or
	// empty when no hint was given.
	ResolvedCourse string

	// Empty marks a valid search that matched nothing. Distinct from an
	// error: the caller surfaces it as "no relevant content found".
	Empty bool
}

// RetrievalEngine composes the catalog resolver and the chunk store into a
// single search operation: resolve a fuzzy course hint, build an exact
// filter, rank and trim chunks, and render them into evidence.
type RetrievalEngine struct {
	catalog  driven.CatalogStore
	chunks   driven.ChunkStore
	embedder driven.EmbeddingService
	topK     int
}

// NewRetrievalEngine creates a retrieval engine. topK <= 0 selects
// DefaultTopK.
func NewRetrievalEngine(
	catalog driven.CatalogStore,
	chunks driven.ChunkStore,
	embedder driven.EmbeddingService,
	topK int,
) *RetrievalEngine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalEngine{
		catalog:  catalog,
		chunks:   chunks,
		embedder: embedder,
		topK:     topK,
	}
}

// ResolveCourse resolves a fuzzy course-name hint to an exact course title
// via the catalog's name embeddings. Any non-empty catalog resolves: there
// is no similarity threshold, trading precision for recall since the
// filter only applies when the caller supplies a hint at all. It fails
// with domain.ErrCourseNotFound only when the catalog is empty.
func (e *RetrievalEngine) ResolveCourse(ctx context.Context, nameHint string) (string, error) {
	if e.embedder == nil {
		return "", domain.ErrEmbeddingUnavailable
	}

	embedding, err := e.embedder.Embed(ctx, nameHint)
	if err != nil {
		return "", fmt.Errorf("embed course hint: %w", err)
	}

	title, distance, err := e.catalog.Resolve(ctx, embedding)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCatalog) {
			return "", fmt.Errorf("%w matching '%s'", domain.ErrCourseNotFound, nameHint)
		}
		return "", fmt.Errorf("resolve course: %w", err)
	}

	logger.Debug("Resolved course hint %q -> %q (distance %.4f)", nameHint, title, distance)
	return title, nil
}

// Search runs the full retrieval pipeline for one query. A failed course
// resolution is terminal: no content search is attempted and the error is
// returned. Zero matches produce Evidence with Empty set, not an error.
func (e *RetrievalEngine) Search(ctx context.Context, query, courseHint string, lessonHint *int) (*Evidence, error) {
	logger.Section("Course Search")
	logger.Debug("Query: %q, course hint: %q, lesson hint: %v", query, courseHint, lessonHint)

	if e.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	ev := &Evidence{}

	// Step 1: resolve the course hint, if given. Terminal on failure.
	filter := domain.SearchFilter{LessonNumber: lessonHint}
	if courseHint != "" {
		title, err := e.ResolveCourse(ctx, courseHint)
		if err != nil {
			return nil, err
		}
		filter.CourseTitle = title
		ev.ResolvedCourse = title
	}

	// Step 2: embed the query and run the filtered nearest-neighbour scan.
	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := e.chunks.Query(ctx, embedding, filter, e.topK)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	logger.Debug("Chunk store returned %d hits", len(hits))

	if len(hits) == 0 {
		ev.Empty = true
		return ev, nil
	}

	// Step 3: render labelled blocks and the parallel Source sequence.
	ev.Rendered, ev.Sources = e.render(ctx, hits)
	return ev, nil
}

// render formats each hit as a labelled block and derives one Source per
// block, in the same order. Lesson links come from the course's catalog
// entry when resolvable, falling back to the course link.
func (e *RetrievalEngine) render(ctx context.Context, hits []domain.Hit) (string, []domain.Source) {
	blocks := make([]string, 0, len(hits))
	sources := make([]domain.Source, 0, len(hits))

	// One catalog lookup per distinct course in the results.
	courses := make(map[string]*domain.Course)

	for i := range hits {
		chunk := &hits[i].Chunk

		label := chunk.CourseTitle
		if chunk.LessonNumber != nil {
			label = fmt.Sprintf("%s - Lesson %d", chunk.CourseTitle, *chunk.LessonNumber)
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", label, chunk.Content))

		course, ok := courses[chunk.CourseTitle]
		if !ok {
			var err error
			course, err = e.catalog.GetCourse(ctx, chunk.CourseTitle)
			if err != nil {
				logger.Warn("Could not load catalog entry for %q: %v", chunk.CourseTitle, err)
				course = nil
			}
			courses[chunk.CourseTitle] = course
		}

		link := ""
		if course != nil {
			if chunk.LessonNumber != nil {
				link = course.LessonLink(*chunk.LessonNumber)
			}
			if link == "" {
				link = course.Link
			}
		}

		sources = append(sources, domain.Source{Text: label, Link: link})
	}

	return strings.Join(blocks, "\n\n"), sources
}
