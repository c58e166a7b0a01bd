package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats settings as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes settings as a JSON array, or the bare value in value-only
// mode.
func (f *JSONFormatter) Format(w io.Writer, records []Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.ValueOnly && len(records) == 1 {
		return encoder.Encode(records[0].Value)
	}
	return encoder.Encode(records)
}
