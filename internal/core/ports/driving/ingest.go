package driving

import "context"

// IngestResult reports the outcome of ingesting one transcript.
type IngestResult struct {
	// CourseTitle is the ingested course.
	CourseTitle string

	// ChunkCount is the number of chunks added. Zero when skipped.
	ChunkCount int

	// Skipped is true when the course already existed and no rebuild was
	// forced.
	Skipped bool
}

// IngestService loads course transcripts into the chunk store and catalog.
type IngestService interface {
	// IngestFile ingests a single transcript. Re-ingesting an existing
	// course title is a no-op unless force is set, in which case the
	// course's chunks and catalog entry are rebuilt.
	IngestFile(ctx context.Context, path string, force bool) (*IngestResult, error)

	// IngestFolder ingests every transcript file in the folder.
	IngestFolder(ctx context.Context, dir string, force bool) ([]IngestResult, error)
}
