package output

import (
	"fmt"
	"io"
)

// KeysFormatter outputs just the setting keys, one per line.
// Useful for shell completion and scripting.
type KeysFormatter struct{}

// NewKeysFormatter creates a new keys formatter.
func NewKeysFormatter() *KeysFormatter {
	return &KeysFormatter{}
}

// Format writes setting keys to the writer, one per line.
func (f *KeysFormatter) Format(w io.Writer, records []Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.Key); err != nil {
			return err
		}
	}
	return nil
}
