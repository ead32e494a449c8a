package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(n int) *int { return &n }

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ChunkStore().AddChunks(context.Background(),
		[]domain.Chunk{{ID: "a", CourseTitle: "Go Deep", Index: 0, Content: "x"}},
		[][]float32{{1, 0}},
	))
	require.NoError(t, store.Close())

	// Reopening the same database re-runs migrate without data loss.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.ChunkStore().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestChunkStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "a", CourseTitle: "Go Deep", LessonNumber: intPtr(1), Index: 0, Content: "goroutines"},
		{ID: "b", CourseTitle: "Go Deep", LessonNumber: nil, Index: 1, Content: "untagged"},
	}, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}))

	hits, err := chunks.Query(ctx, []float32{1, 0, 0}, domain.SearchFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "goroutines", hits[0].Chunk.Content)
	require.NotNil(t, hits[0].Chunk.LessonNumber)
	assert.Equal(t, 1, *hits[0].Chunk.LessonNumber)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)

	assert.Equal(t, "b", hits[1].Chunk.ID)
	assert.Nil(t, hits[1].Chunk.LessonNumber, "NULL lesson_number round-trips as nil")
}

func TestChunkStore_QueryFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "a", CourseTitle: "Go Deep", LessonNumber: intPtr(1), Index: 0, Content: "one"},
		{ID: "b", CourseTitle: "Go Deep", LessonNumber: intPtr(2), Index: 1, Content: "two"},
		{ID: "c", CourseTitle: "Rust Fast", LessonNumber: intPtr(1), Index: 0, Content: "three"},
	}, [][]float32{
		{1, 0},
		{1, 0},
		{1, 0},
	}))

	hits, err := chunks.Query(ctx, []float32{1, 0},
		domain.SearchFilter{CourseTitle: "Go Deep", LessonNumber: intPtr(2)}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Chunk.ID)

	hits, err = chunks.Query(ctx, []float32{1, 0}, domain.SearchFilter{CourseTitle: "Rust Fast"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c", hits[0].Chunk.ID)
}

func TestChunkStore_EqualDistanceKeepsRowOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "first", CourseTitle: "Go Deep", Index: 0, Content: "x"},
		{ID: "second", CourseTitle: "Go Deep", Index: 1, Content: "y"},
	}, [][]float32{
		{1, 0},
		{1, 0},
	}))

	hits, err := chunks.Query(ctx, []float32{1, 0}, domain.SearchFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].Chunk.ID)
	assert.Equal(t, "second", hits[1].Chunk.ID)
}

func TestChunkStore_LimitAndEmptyResult(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	hits, err := chunks.Query(ctx, []float32{1, 0}, domain.SearchFilter{}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "a", CourseTitle: "Go Deep", Index: 0, Content: "x"},
		{ID: "b", CourseTitle: "Go Deep", Index: 1, Content: "y"},
		{ID: "c", CourseTitle: "Go Deep", Index: 2, Content: "z"},
	}, [][]float32{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
	}))

	hits, err = chunks.Query(ctx, []float32{1, 0}, domain.SearchFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "b", hits[1].Chunk.ID)
}

func TestChunkStore_MismatchedEmbeddings(t *testing.T) {
	store := newTestStore(t)

	err := store.ChunkStore().AddChunks(context.Background(),
		[]domain.Chunk{{ID: "a", CourseTitle: "Go Deep"}},
		[][]float32{},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunkStore_DeleteCourseAndCount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.AddChunks(ctx, []domain.Chunk{
		{ID: "a", CourseTitle: "Go Deep", Index: 0, Content: "x"},
		{ID: "b", CourseTitle: "Rust Fast", Index: 0, Content: "y"},
	}, [][]float32{
		{1, 0},
		{0, 1},
	}))

	require.NoError(t, chunks.DeleteCourse(ctx, "Go Deep"))

	n, err := chunks.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCatalogStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	catalog := store.CatalogStore()

	course := domain.Course{
		Title:      "Go Deep",
		Link:       "https://example.com/go",
		Instructor: "R. Pike",
		Lessons: []domain.Lesson{
			{Number: 1, Title: "Intro", Link: "https://example.com/go/1"},
			{Number: 2, Title: "Concurrency"},
		},
	}
	require.NoError(t, catalog.AddCourse(ctx, course, []float32{1, 0, 0}))

	got, err := catalog.GetCourse(ctx, "Go Deep")
	require.NoError(t, err)
	assert.Equal(t, course, *got)

	// Upsert replaces the record in place.
	course.Link = "https://example.com/go-v2"
	course.Lessons = course.Lessons[:1]
	require.NoError(t, catalog.AddCourse(ctx, course, []float32{0, 1, 0}))

	got, err = catalog.GetCourse(ctx, "Go Deep")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/go-v2", got.Link)
	assert.Len(t, got.Lessons, 1)

	titles, err := catalog.ListTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Deep"}, titles)
}

func TestCatalogStore_GetCourseNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CatalogStore().GetCourse(context.Background(), "Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_Resolve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	catalog := store.CatalogStore()

	_, _, err := catalog.Resolve(ctx, []float32{1, 0, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)

	require.NoError(t, catalog.AddCourse(ctx, domain.Course{Title: "Go Deep"}, []float32{1, 0, 0}))
	require.NoError(t, catalog.AddCourse(ctx, domain.Course{Title: "Rust Fast"}, []float32{0, 1, 0}))

	title, distance, err := catalog.Resolve(ctx, []float32{0.9, 0.1, 0})
	require.NoError(t, err)
	assert.Equal(t, "Go Deep", title)
	assert.GreaterOrEqual(t, distance, 0.0)
	assert.Less(t, distance, 1.0)
}

func TestCatalogStore_DeleteCourse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	catalog := store.CatalogStore()

	require.NoError(t, catalog.AddCourse(ctx, domain.Course{Title: "Go Deep"}, []float32{1}))
	require.NoError(t, catalog.DeleteCourse(ctx, "Go Deep"))
	require.NoError(t, catalog.DeleteCourse(ctx, "Go Deep"))

	titles, err := catalog.ListTitles(ctx)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestEncodeDecodeEmbedding(t *testing.T) {
	in := []float32{0.25, -1.5, 3.14159, 0}
	out := decodeEmbedding(encodeEmbedding(in))
	assert.Equal(t, in, out)

	assert.Empty(t, decodeEmbedding(encodeEmbedding(nil)))
}
