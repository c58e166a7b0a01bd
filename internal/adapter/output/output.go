// Package output provides output formatters for settings.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record is one setting as presented to the user.
type Record struct {
	Key       string `json:"key" yaml:"key"`
	Value     any    `json:"value" yaml:"value"`
	Default   any    `json:"default" yaml:"default"`
	Stored    bool   `json:"stored" yaml:"stored"`
	Revision  string `json:"revision,omitempty" yaml:"revision,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Modified reports whether the value differs from the default.
func (r Record) Modified() bool {
	return FormatValue(r.Value) != FormatValue(r.Default)
}

// Formatter formats settings for output.
type Formatter interface {
	// Format writes formatted records to the writer.
	Format(w io.Writer, records []Record) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatKeys  FormatType = "keys"
)

// FormatTypes lists the supported formats.
var FormatTypes = []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatKeys}

// ParseFormat converts s to a FormatType.
func ParseFormat(s string) (FormatType, error) {
	for _, f := range FormatTypes {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q, must be one of: %v", s, FormatTypes)
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatKeys:
		return NewKeysFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template    string // Custom template for plain format
	ShowDefault bool   // Show the default next to modified values
	ShowTime    bool   // Show time since the last write
	ValueOnly   bool   // Print only the value (single setting mode)
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowDefault: true,
		ShowTime:    true,
	}
}

// FormatValue renders a setting value for display. Strings are printed
// bare, everything else as compact JSON.
func FormatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return string(data)
}
