package lint

import (
	"regexp"
	"strings"
)

// wordRun matches a maximal run of word characters: Unicode letters, digits
// and underscore. Keyword and token checks compare whole runs, so a keyword
// glued to non-ASCII letters is not a separate word.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// containsWord reports whether line holds one of words as a whole word,
// ignoring case.
func containsWord(line string, words ...string) bool {
	for _, w := range wordRun.FindAllString(line, -1) {
		for _, want := range words {
			if strings.EqualFold(w, want) {
				return true
			}
		}
	}
	return false
}

// procedureComment fails when a PROCEDURE line is not directly preceded by a comment.
type procedureComment struct{}

func newProcedureComment(map[string]any) (any, error) {
	return procedureComment{}, nil
}

func (procedureComment) CheckFile(src *Source, index int) (string, bool) {
	if index <= 0 || index >= src.Len() {
		return "", false
	}
	if !containsWord(src.Lines[index], "PROCEDURE") {
		return "", false
	}
	prev := strings.TrimSpace(src.Lines[index-1])
	if strings.HasPrefix(prev, "--") || strings.HasPrefix(prev, "/*") {
		return "", false
	}
	return "Procedure declared without a comment above it", true
}

// commitInTrigger fails on the first COMMIT or ROLLBACK after each TRIGGER.
// The file walk is memoized on the Source.
type commitInTrigger struct{}

func newCommitInTrigger(map[string]any) (any, error) {
	return commitInTrigger{}, nil
}

func (commitInTrigger) CheckFile(src *Source, index int) (string, bool) {
	if src.commitInTrigger(index) {
		return "COMMIT/ROLLBACK inside a trigger is forbidden", true
	}
	return "", false
}
