package domain

// Course represents one course in the corpus. The title is the identity:
// it is unique across the corpus and used as the primary key everywhere
// (chunk metadata, catalog entries, filters).
type Course struct {
	// Title is the exact, case-sensitive course title.
	Title string

	// Link is the course landing page URL, if known.
	Link string

	// Instructor is the course instructor name, if known.
	Instructor string

	// Lessons is the ordered lesson list for this course.
	Lessons []Lesson
}

// Lesson is a numbered unit within a course. Lessons never exist outside
// their owning course.
type Lesson struct {
	// Number is the lesson number, unique within the course.
	Number int

	// Title is the lesson title.
	Title string

	// Link is the lesson page URL, if known.
	Link string
}

// LessonLink returns the link for the given lesson number, or the empty
// string when the lesson is unknown or has no link.
func (c *Course) LessonLink(number int) string {
	for i := range c.Lessons {
		if c.Lessons[i].Number == number {
			return c.Lessons[i].Link
		}
	}
	return ""
}

// CourseDocument is a parsed transcript: course metadata plus the raw text
// of each lesson, as produced by the transcript reader.
type CourseDocument struct {
	Course Course

	// LessonTexts holds the raw transcript text per lesson, parallel to
	// Course.Lessons.
	LessonTexts []string
}
