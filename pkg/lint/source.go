package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Source is one SQL file held in memory as an ordered sequence of lines.
// File-wide analyses used by file checks are computed once and cached.
type Source struct {
	// Name is the display name, usually the file's base name.
	Name  string
	Lines []string

	triggerOnce sync.Once
	triggerHits []bool
}

// ReadSource reads the whole file at path.
func ReadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return NewSource(filepath.Base(path), string(data)), nil
}

// NewSource splits text into lines. "\r\n", "\r" and "\n" all end a line;
// a trailing line ending does not start another line.
func NewSource(name, text string) *Source {
	return &Source{Name: name, Lines: splitLines(text)}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Len returns the number of lines.
func (s *Source) Len() int { return len(s.Lines) }

// commitInTrigger reports whether the line at index closes a trigger with
// COMMIT or ROLLBACK. The whole file is walked once, on first use.
func (s *Source) commitInTrigger(index int) bool {
	s.triggerOnce.Do(func() {
		s.triggerHits = make([]bool, len(s.Lines))
		inTrigger := false
		for i, line := range s.Lines {
			switch {
			case containsWord(line, "TRIGGER"):
				inTrigger = true
			case inTrigger && containsWord(line, "COMMIT", "ROLLBACK"):
				s.triggerHits[i] = true
				inTrigger = false
			}
		}
	})
	return index >= 0 && index < len(s.triggerHits) && s.triggerHits[index]
}
