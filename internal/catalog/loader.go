package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"bemestar/internal/model"
)

//go:embed questionnaire.yaml
var defaultQuestionnaire []byte

// DefaultID is the id reported by the embedded questionnaire.
const DefaultID = "default"

// fileDocument is the YAML shape: a questionnaire plus free-form "x-" keys
// that only exist to hold anchors.
type fileDocument struct {
	model.Questionnaire `yaml:",inline"`
	Scales              map[string]yaml.Node `yaml:"x-scales,omitempty"`
}

// Default builds the embedded school well-being questionnaire.
func Default() (*Catalog, error) {
	c, err := LoadYAML(bytes.NewReader(defaultQuestionnaire))
	if err != nil {
		return nil, err
	}
	if c.id == "" {
		c.id = DefaultID
	}
	return c, nil
}

// LoadFile reads a YAML questionnaire from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return c, nil
}

// LoadYAML decodes and validates a YAML questionnaire.
func LoadYAML(r io.Reader) (*Catalog, error) {
	doc, err := DecodeYAML(r)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// DecodeYAML decodes a YAML questionnaire without validating it.
func DecodeYAML(r io.Reader) (model.Questionnaire, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return model.Questionnaire{}, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return doc.Questionnaire, nil
}
