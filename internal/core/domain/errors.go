package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCourseNotFound indicates a course-name hint could not be resolved.
	// Per the resolver contract this only happens on an empty catalog.
	ErrCourseNotFound = errors.New("no course found")

	// ErrEmptyCatalog indicates the course catalog holds no entries.
	ErrEmptyCatalog = errors.New("course catalog is empty")

	// ErrUnknownTool indicates a tool name that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the language model client is not configured.
	ErrLLMUnavailable = errors.New("LLM client unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Retrieval is impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
