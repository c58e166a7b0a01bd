package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats settings as a YAML mapping of key to value.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes settings as YAML. Keys keep the order of records.
func (f *YAMLFormatter) Format(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()

	if f.opts.ValueOnly && len(records) == 1 {
		return enc.Encode(records[0].Value)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range records {
		var value yaml.Node
		if err := value.Encode(r.Value); err != nil {
			return err
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Key},
			&value,
		)
	}
	return enc.Encode(doc)
}
