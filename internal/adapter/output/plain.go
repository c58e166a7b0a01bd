package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats settings as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes settings as plain text, one per line.
func (f *PlainFormatter) Format(w io.Writer, records []Record) error {
	for _, r := range records {
		if err := f.formatRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}

// templateData is passed to custom templates.
type templateData struct {
	Record
	Modified     bool
	RelativeTime string
}

// formatRecord formats a single setting.
func (f *PlainFormatter) formatRecord(w io.Writer, r Record) error {
	if f.template != nil {
		data := templateData{
			Record:       r,
			Modified:     r.Modified(),
			RelativeTime: relativeTime(r.UpdatedAt),
		}
		if err := f.template.Execute(w, data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	if f.opts.ValueOnly {
		_, err := fmt.Fprintln(w, FormatValue(r.Value))
		return err
	}

	var sb strings.Builder
	sb.WriteString(r.Key)
	sb.WriteString(" = ")
	sb.WriteString(FormatValue(r.Value))

	if f.opts.ShowDefault && r.Modified() {
		sb.WriteString(fmt.Sprintf(" (default %s)", FormatValue(r.Default)))
	}
	if f.opts.ShowTime && r.UpdatedAt != 0 {
		sb.WriteString(fmt.Sprintf(" [%s]", relativeTime(r.UpdatedAt)))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"reltime": relativeTime,
		"value":   FormatValue,
	}
}

// relativeTime formats a Unix timestamp relative to now.
func relativeTime(timestamp int64) string {
	if timestamp == 0 {
		return "never"
	}
	return humanize.Time(time.Unix(timestamp, 0))
}
