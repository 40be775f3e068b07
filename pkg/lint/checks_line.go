package lint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// constantToken is applied to whole word runs.
var constantToken = regexp.MustCompile(`^C_[A-Za-z0-9_]+$`)

// lineLength fails when a line is longer than max characters.
type lineLength struct {
	max int
}

func newLineLength(raw map[string]any) (any, error) {
	p := LineLengthParams{MaxLength: DefaultMaxLineLength}
	if err := DecodeParams(raw, &p); err != nil {
		return nil, err
	}
	return &lineLength{max: p.MaxLength}, nil
}

func (c *lineLength) CheckLine(_ int, line string) (string, bool) {
	if utf8.RuneCountInString(line) > c.max {
		return fmt.Sprintf("Line length exceeds %d characters", c.max), true
	}
	return "", false
}

// variableNaming fails on the first captured variable name without an accepted prefix.
type variableNaming struct {
	pattern  *regexp.Regexp
	prefixes []string
}

func newVariableNaming(raw map[string]any) (any, error) {
	var p VariableNamingParams
	if err := DecodeParams(raw, &p); err != nil {
		return nil, err
	}
	re, err := compilePattern(p.Regex, false)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%w: regex needs a capturing group; group 1 is the variable name and later groups are ignored", ErrInvalidParam)
	}
	return &variableNaming{pattern: re, prefixes: p.Prefixes}, nil
}

func (c *variableNaming) CheckLine(_ int, line string) (string, bool) {
	for _, m := range c.pattern.FindAllStringSubmatch(line, -1) {
		name := m[1]
		if !hasAnyPrefix(strings.ToLower(name), c.prefixes) {
			return fmt.Sprintf("Variable '%s' does not follow the naming convention", name), true
		}
	}
	return "", false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// constantNaming fails on the first C_ token that does not match the pattern.
type constantNaming struct {
	pattern *regexp.Regexp
}

func newConstantNaming(raw map[string]any) (any, error) {
	var p ConstantNamingParams
	if err := DecodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Regex == "" {
		return nil, fmt.Errorf("%w: regex", ErrMissingParam)
	}
	// The token must match from its first character.
	re, err := compilePattern(`^(?:`+p.Regex+`)`, false)
	if err != nil {
		return nil, err
	}
	return &constantNaming{pattern: re}, nil
}

func (c *constantNaming) CheckLine(_ int, line string) (string, bool) {
	for _, name := range wordRun.FindAllString(line, -1) {
		if !constantToken.MatchString(name) {
			continue
		}
		if !c.pattern.MatchString(name) {
			return fmt.Sprintf("Constant '%s' does not follow the naming convention", name), true
		}
	}
	return "", false
}

// selectStar fails when the configured pattern matches anywhere on the line.
type selectStar struct {
	pattern *regexp.Regexp
}

func newSelectStar(raw map[string]any) (any, error) {
	var p SelectStarParams
	if err := DecodeParams(raw, &p); err != nil {
		return nil, err
	}
	re, err := compilePattern(p.Regex, p.IgnoreCase)
	if err != nil {
		return nil, err
	}
	return &selectStar{pattern: re}, nil
}

func (c *selectStar) CheckLine(_ int, line string) (string, bool) {
	if c.pattern.MatchString(line) {
		return "Use of SELECT * is bad practice", true
	}
	return "", false
}

// commentMinLength fails on single-line comments with too short a body.
type commentMinLength struct {
	min int
}

func newCommentMinLength(raw map[string]any) (any, error) {
	p := CommentMinLengthParams{MinLength: DefaultMinCommentLength}
	if err := DecodeParams(raw, &p); err != nil {
		return nil, err
	}
	return &commentMinLength{min: p.MinLength}, nil
}

func (c *commentMinLength) CheckLine(_ int, line string) (string, bool) {
	body, ok := commentBody(line)
	if !ok {
		return "", false
	}
	if utf8.RuneCountInString(body) < c.min {
		return fmt.Sprintf("Comment is too short: '%s'", body), true
	}
	return "", false
}

// commentBody extracts the trimmed text of a "--" comment or a one-line "/* */" comment.
func commentBody(line string) (string, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "--"):
		return strings.TrimSpace(line[2:]), true
	case strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/"):
		if len(line) < 4 {
			// "/*/" opens and closes on the same slash.
			return "", true
		}
		return strings.TrimSpace(line[2 : len(line)-2]), true
	default:
		return "", false
	}
}
