package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/storage/memory"
	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// spyChunkStore records whether a query reached the chunk store.
type spyChunkStore struct {
	driven.ChunkStore
	queried bool
}

func (s *spyChunkStore) Query(ctx context.Context, embedding []float32, filter domain.SearchFilter, limit int) ([]domain.Hit, error) {
	s.queried = true
	return s.ChunkStore.Query(ctx, embedding, filter, limit)
}

func intPtr(n int) *int { return &n }

// seedCatalog adds two courses with orthogonal name embeddings.
func seedCatalog(t *testing.T, catalog driven.CatalogStore) {
	t.Helper()
	ctx := context.Background()

	mcp := domain.Course{
		Title:      "MCP Course",
		Link:       "https://example.com/mcp",
		Instructor: "Ada",
		Lessons: []domain.Lesson{
			{Number: 1, Title: "Intro", Link: "https://example.com/mcp/1"},
			{Number: 2, Title: "Servers"},
		},
	}
	python := domain.Course{
		Title: "Python Basics",
		Link:  "https://example.com/python",
		Lessons: []domain.Lesson{
			{Number: 1, Title: "Hello"},
		},
	}

	require.NoError(t, catalog.AddCourse(ctx, mcp, []float32{1, 0, 0}))
	require.NoError(t, catalog.AddCourse(ctx, python, []float32{0, 1, 0}))
}

func TestResolveCourse_NearestWins(t *testing.T) {
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog)

	embedder := newMockEmbedder()
	embedder.vectors["mcp"] = []float32{0.9, 0.1, 0}
	embedder.vectors["pythn"] = []float32{0.1, 0.9, 0}

	engine := NewRetrievalEngine(catalog, memory.NewChunkStore(), embedder, 0)

	title, err := engine.ResolveCourse(context.Background(), "mcp")
	require.NoError(t, err)
	assert.Equal(t, "MCP Course", title)

	// Misspelled hints still resolve to the nearest entry.
	title, err = engine.ResolveCourse(context.Background(), "pythn")
	require.NoError(t, err)
	assert.Equal(t, "Python Basics", title)
}

func TestResolveCourse_NoThreshold(t *testing.T) {
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog)

	embedder := newMockEmbedder()
	// A hint nothing like either course still resolves to something.
	embedder.vectors["underwater basket weaving"] = []float32{0, 0, 1}

	engine := NewRetrievalEngine(catalog, memory.NewChunkStore(), embedder, 0)

	title, err := engine.ResolveCourse(context.Background(), "underwater basket weaving")
	require.NoError(t, err)
	assert.NotEmpty(t, title)
}

func TestResolveCourse_EmptyCatalog(t *testing.T) {
	engine := NewRetrievalEngine(memory.NewCatalogStore(), memory.NewChunkStore(), newMockEmbedder(), 0)

	_, err := engine.ResolveCourse(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	assert.Contains(t, err.Error(), "anything")
}

func TestSearch_ResolutionFailureIsTerminal(t *testing.T) {
	spy := &spyChunkStore{ChunkStore: memory.NewChunkStore()}
	engine := NewRetrievalEngine(memory.NewCatalogStore(), spy, newMockEmbedder(), 0)

	_, err := engine.Search(context.Background(), "what is MCP?", "mcp", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	assert.False(t, spy.queried, "chunk store must not be queried after failed resolution")
}

func TestSearch_FiltersByResolvedCourseAndLesson(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog)
	chunks := memory.NewChunkStore()

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "a", CourseTitle: "MCP Course", LessonNumber: intPtr(1), Index: 0, Content: "mcp lesson one"},
		{ID: "b", CourseTitle: "MCP Course", LessonNumber: intPtr(2), Index: 1, Content: "mcp lesson two"},
		{ID: "c", CourseTitle: "Python Basics", LessonNumber: intPtr(1), Index: 0, Content: "python lesson one"},
	}, [][]float32{
		{1, 0, 0},
		{1, 0, 0},
		{1, 0, 0},
	}))

	embedder := newMockEmbedder()
	embedder.vectors["mcp"] = []float32{0.9, 0.1, 0}

	engine := NewRetrievalEngine(catalog, chunks, embedder, 0)

	ev, err := engine.Search(ctx, "servers", "mcp", intPtr(2))
	require.NoError(t, err)
	assert.False(t, ev.Empty)
	assert.Equal(t, "MCP Course", ev.ResolvedCourse)
	require.Len(t, ev.Sources, 1)
	assert.Equal(t, "MCP Course - Lesson 2", ev.Sources[0].Text)
	assert.Contains(t, ev.Rendered, "mcp lesson two")
	assert.NotContains(t, ev.Rendered, "python")
}

func TestSearch_EmptyResultIsNotError(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog)

	embedder := newMockEmbedder()
	embedder.vectors["mcp"] = []float32{0.9, 0.1, 0}

	engine := NewRetrievalEngine(catalog, memory.NewChunkStore(), embedder, 0)

	ev, err := engine.Search(ctx, "servers", "mcp", nil)
	require.NoError(t, err)
	assert.True(t, ev.Empty)
	assert.Empty(t, ev.Rendered)
	assert.Empty(t, ev.Sources)
}

func TestSearch_RenderedBlocksMatchSources(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog)
	chunks := memory.NewChunkStore()

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "a", CourseTitle: "MCP Course", LessonNumber: intPtr(1), Index: 0, Content: "first"},
		{ID: "b", CourseTitle: "MCP Course", LessonNumber: intPtr(2), Index: 1, Content: "second"},
	}, [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
	}))

	engine := NewRetrievalEngine(catalog, chunks, newMockEmbedder(), 0)

	ev, err := engine.Search(ctx, "anything", "", nil)
	require.NoError(t, err)

	// One source per block, same order, duplicates allowed.
	assert.Equal(t, "[MCP Course - Lesson 1]\nfirst\n\n[MCP Course - Lesson 2]\nsecond", ev.Rendered)
	require.Len(t, ev.Sources, 2)
	assert.Equal(t, "MCP Course - Lesson 1", ev.Sources[0].Text)
	assert.Equal(t, "MCP Course - Lesson 2", ev.Sources[1].Text)

	// Lesson 1 has its own link; lesson 2 falls back to the course link.
	assert.Equal(t, "https://example.com/mcp/1", ev.Sources[0].Link)
	assert.Equal(t, "https://example.com/mcp", ev.Sources[1].Link)
}

func TestSearch_TopKLimitsResults(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog)
	chunks := memory.NewChunkStore()

	var all []domain.Chunk
	var embs [][]float32
	for i := 0; i < 10; i++ {
		all = append(all, domain.Chunk{
			ID: string(rune('a' + i)), CourseTitle: "MCP Course",
			LessonNumber: intPtr(1), Index: i, Content: "chunk",
		})
		embs = append(embs, []float32{1, 0, 0})
	}
	require.NoError(t, chunks.AddChunks(ctx, all, embs))

	engine := NewRetrievalEngine(catalog, chunks, newMockEmbedder(), 3)

	ev, err := engine.Search(ctx, "anything", "", nil)
	require.NoError(t, err)
	assert.Len(t, ev.Sources, 3)
}
