package lint

import (
	"fmt"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// Typed parameters, one struct per check. Keys not listed here are ignored.

// LineLengthParams configures line_length.
type LineLengthParams struct {
	MaxLength int `mapstructure:"max_length"`
}

// VariableNamingParams configures variable_naming.
type VariableNamingParams struct {
	Regex    string   `mapstructure:"regex"`
	Prefixes []string `mapstructure:"prefixes"`
}

// ConstantNamingParams configures constant_naming.
type ConstantNamingParams struct {
	Regex string `mapstructure:"regex"`
}

// SelectStarParams configures select_star.
type SelectStarParams struct {
	Regex      string `mapstructure:"regex"`
	IgnoreCase bool   `mapstructure:"ignore_case"`
}

// CommentMinLengthParams configures comment_min_length.
type CommentMinLengthParams struct {
	MinLength int `mapstructure:"min_length"`
}

// Defaults for optional parameters.
const (
	DefaultMaxLineLength    = 80
	DefaultMinCommentLength = 2
)

// DecodeParams decodes a raw parameter bag into out, which should already hold defaults.
// Scalars are converted leniently ("80" -> 80, "v_" -> ["v_"]); nil values keep the default.
func DecodeParams(raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	return nil
}

// compilePattern compiles a required regex parameter.
func compilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: regex", ErrMissingParam)
	}
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: regex: %v", ErrInvalidParam, err)
	}
	return re, nil
}
