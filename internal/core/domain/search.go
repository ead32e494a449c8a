package domain

// SearchFilter restricts a chunk query to exact metadata matches.
// Both fields are optional and independently combinable; the zero value
// matches the whole corpus.
type SearchFilter struct {
	// CourseTitle, when non-empty, matches only chunks of that course.
	CourseTitle string

	// LessonNumber, when non-nil, matches only chunks of that lesson.
	LessonNumber *int
}

// Matches reports whether the chunk satisfies the filter.
func (f SearchFilter) Matches(c *Chunk) bool {
	if f.CourseTitle != "" && c.CourseTitle != f.CourseTitle {
		return false
	}
	if f.LessonNumber != nil {
		if c.LessonNumber == nil || *c.LessonNumber != *f.LessonNumber {
			return false
		}
	}
	return true
}

// Hit is a single chunk-store match, ordered by ascending distance
// (most similar first).
type Hit struct {
	Chunk Chunk

	// Distance is the cosine distance between the query and the chunk
	// embedding (0 = identical direction).
	Distance float64
}

// Source identifies where an answer's evidence came from. Sources are
// ephemeral: they live for exactly one orchestration round and are shown
// to the end user alongside the answer.
type Source struct {
	// Text is the display label, e.g. "Building Towards Computer Use - Lesson 4".
	Text string `json:"text"`

	// Link is the lesson or course URL backing the label, if resolvable.
	Link string `json:"link,omitempty"`
}
