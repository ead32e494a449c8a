package driven

import (
	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
)

// TranscriptReader parses a course transcript file into course metadata and
// per-lesson text. The core consumes this only as an ingestion batch
// producer; the file format is the adapter's concern.
type TranscriptReader interface {
	// Read parses the file at path into a CourseDocument.
	Read(path string) (*domain.CourseDocument, error)
}
