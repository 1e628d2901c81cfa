// Package yamlmarshaller implements marshaller.Marshaller with sigs.k8s.io/yaml,
// so models are encoded through their json tags.
package yamlmarshaller

import (
	"fmt"

	"github.com/kagenti/kagenti-installer/pkg/io/marshaller"
	"sigs.k8s.io/yaml"
)

// Marshaller marshals YAML through the json tags of T.
type Marshaller[T any] struct{}

var _ marshaller.Marshaller[struct{}] = (*Marshaller[struct{}])(nil)

// NewMarshaller creates a new YAML marshaller.
func NewMarshaller[T any]() *Marshaller[T] {
	return &Marshaller[T]{}
}

// Marshal serializes the model into YAML.
func (m *Marshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return string(data), nil
}

// Unmarshal deserializes YAML into model.
func (m *Marshaller[T]) Unmarshal(data []byte, model *T) error {
	err := yaml.Unmarshal(data, model)
	if err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

// UnmarshalString deserializes a YAML string into model.
func (m *Marshaller[T]) UnmarshalString(data string, model *T) error {
	return m.Unmarshal([]byte(data), model)
}
