// Package transcript parses course transcript files into course metadata
// and per-lesson text.
//
// The expected layout is a small header followed by lesson sections:
//
//	Course Title: Building RAG Applications
//	Course Link: https://example.com/course
//	Course Instructor: Ada Lovelace
//
//	Lesson 1: Introduction
//	Lesson Link: https://example.com/course/lesson-1
//	<lesson text...>
//
//	Lesson 2: ...
//
// Header fields other than the title are optional. A file without lesson
// markers yields a single untitled lesson holding the whole body.
package transcript

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TranscriptReader = (*Normaliser)(nil)

// lessonMarker matches section headers like "Lesson 3: Advanced Topics".
var lessonMarker = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// Normaliser handles the course transcript format.
type Normaliser struct{}

// New creates a new transcript normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Read parses the file at path into a CourseDocument.
func (n *Normaliser) Read(path string) (*domain.CourseDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	doc := &domain.CourseDocument{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		current   *domain.Lesson
		text      strings.Builder
		seenBody  bool
		linkNext  bool
	)

	flush := func() {
		if current == nil {
			// Discard preamble text between the header and the first
			// lesson marker.
			text.Reset()
			return
		}
		doc.Course.Lessons = append(doc.Course.Lessons, *current)
		doc.LessonTexts = append(doc.LessonTexts, strings.TrimSpace(text.String()))
		text.Reset()
		current = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Header fields only count before any lesson content.
		if current == nil && !seenBody {
			switch {
			case strings.HasPrefix(trimmed, "Course Title:"):
				doc.Course.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Title:"))
				continue
			case strings.HasPrefix(trimmed, "Course Link:"):
				doc.Course.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Link:"))
				continue
			case strings.HasPrefix(trimmed, "Course Instructor:"):
				doc.Course.Instructor = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Instructor:"))
				continue
			}
		}

		if m := lessonMarker.FindStringSubmatch(trimmed); m != nil {
			flush()
			number, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("parse lesson number %q: %w", m[1], err)
			}
			current = &domain.Lesson{Number: number, Title: strings.TrimSpace(m[2])}
			linkNext = true
			continue
		}

		// A "Lesson Link:" line directly after the marker belongs to the
		// lesson metadata, not its text.
		if linkNext && strings.HasPrefix(trimmed, "Lesson Link:") {
			current.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, "Lesson Link:"))
			linkNext = false
			continue
		}
		if trimmed != "" {
			linkNext = false
			seenBody = true
		}

		if current != nil {
			text.WriteString(line)
			text.WriteString("\n")
		} else if trimmed != "" {
			// Body text before any lesson marker: keep it for the
			// no-marker fallback below.
			text.WriteString(line)
			text.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	if current != nil {
		flush()
	} else if body := strings.TrimSpace(text.String()); body != "" && len(doc.Course.Lessons) == 0 {
		// No lesson markers at all: treat the whole body as one lesson.
		doc.Course.Lessons = append(doc.Course.Lessons, domain.Lesson{Number: 1, Title: doc.Course.Title})
		doc.LessonTexts = append(doc.LessonTexts, body)
	}

	if doc.Course.Title == "" {
		// Fall back to the file name, matching how untitled documents are
		// labelled elsewhere.
		base := filepath.Base(path)
		doc.Course.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if len(doc.Course.Lessons) == 0 {
		return nil, fmt.Errorf("%w: transcript %s has no lessons", domain.ErrInvalidInput, path)
	}
	return doc, nil
}
