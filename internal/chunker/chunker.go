// Package chunker provides a sentence-aware text splitter for transcript
// ingestion.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the default target number of characters per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// sentenceEnd matches sentence boundaries: terminal punctuation followed
// by whitespace.
var sentenceEnd = regexp.MustCompile(`(?s)(.*?[.!?])(?:\s+|$)`)

// Splitter splits text into overlapping chunks on sentence boundaries.
// Sentences are never cut mid-way; a single sentence longer than the
// chunk size becomes its own chunk.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split breaks text into chunks of up to the target size, accumulating
// whole sentences. Consecutive chunks share trailing sentences worth
// roughly the overlap size.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(collapseWhitespace(text))
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		var (
			size int
			j    = i
		)
		for j < len(sentences) {
			next := len(sentences[j])
			if size > 0 {
				next++ // joining space
			}
			if size+next > s.chunkSize && size > 0 {
				break
			}
			size += next
			j++
		}

		chunks = append(chunks, strings.Join(sentences[i:j], " "))
		if j >= len(sentences) {
			break
		}

		// Step back over trailing sentences worth up to the overlap.
		back := j
		overlapSize := 0
		for back > i+1 && overlapSize+len(sentences[back-1]) <= s.overlap {
			overlapSize += len(sentences[back-1]) + 1
			back--
		}
		i = back
	}

	return chunks
}

// splitSentences cuts text at terminal punctuation. Trailing text without
// terminal punctuation forms the final sentence.
func splitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := sentenceEnd.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		sentence := strings.TrimSpace(rest[loc[2]:loc[3]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		rest = rest[loc[1]:]
		if rest == "" {
			break
		}
	}
	if tail := strings.TrimSpace(rest); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// collapseWhitespace normalises runs of whitespace to single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
