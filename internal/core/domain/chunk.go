package domain

// Chunk is the searchable unit of course content. Chunks are created at
// ingestion time, are immutable once stored, and are only removed when a
// course is rebuilt.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// CourseTitle is the owning course (exact title).
	CourseTitle string

	// LessonNumber is the owning lesson, or nil for course-level content.
	LessonNumber *int

	// Index is the zero-based position of the chunk within its course,
	// monotonic across lessons in ingestion order.
	Index int

	// Content is the chunk text, already context-enriched at ingestion.
	Content string
}
