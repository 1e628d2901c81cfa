//go:build ignore

// gen_schema.go generates a JSON schema from the Installation config types and
// writes it to kagenti-installation.schema.json.
//
// Usage:
//
//	go run gen_schema.go [output-path]
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o600
)

// componentRequired are the fields every entry of spec.components must set.
var componentRequired = []string{"name", "namespace", "reference"}

func main() {
	if err := run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    customTypeMapper,
	}
	schema := reflector.Reflect(&v1alpha1.Installation{})

	customizeSchema(schema)

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	outputPath := "kagenti-installation.schema.json"
	if len(args) > 1 {
		outputPath = args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		return fmt.Errorf("create directory for %s: %w", outputPath, err)
	}

	if err := os.WriteFile(outputPath, schemaJSON, filePermissions); err != nil {
		return fmt.Errorf("write schema to %s: %w", outputPath, err)
	}

	fmt.Printf("gen_schema: wrote %s (%d bytes)\n", outputPath, len(schemaJSON))

	return nil
}

// customizeSchema applies all schema customizations.
func customizeSchema(schema *jsonschema.Schema) {
	schema.ID = ""
	schema.Title = "Kagenti Installation"
	schema.Description = "JSON schema for kagenti-installer configuration (kagenti.yaml)"

	walkSchema(schema, func(s *jsonschema.Schema) {
		// Everything is optional and defaulted, except what is restored below.
		s.Required = nil
	})

	schema.Required = []string{"spec"}

	if schema.Properties == nil {
		return
	}

	if p, ok := schema.Properties.Get("kind"); ok && p != nil {
		p.Enum = []any{v1alpha1.Kind}
	}

	if p, ok := schema.Properties.Get("apiVersion"); ok && p != nil {
		p.Enum = []any{v1alpha1.APIVersion}
	}

	spec, ok := schema.Properties.Get("spec")
	if !ok || spec == nil || spec.Properties == nil {
		return
	}

	if components, ok := spec.Properties.Get("components"); ok && components != nil && components.Items != nil {
		components.Items.Required = componentRequired
	}
}

// walkSchema traverses the schema tree and calls fn on each node.
func walkSchema(schema *jsonschema.Schema, fn func(*jsonschema.Schema)) {
	if schema == nil {
		return
	}

	fn(schema)

	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			walkSchema(pair.Value, fn)
		}
	}

	if schema.Items != nil {
		walkSchema(schema.Items, fn)
	}

	if schema.AdditionalProperties != nil {
		walkSchema(schema.AdditionalProperties, fn)
	}
}

// customTypeMapper maps enum types implementing EnumValuer to string enums and
// durations to duration strings.
func customTypeMapper(t reflect.Type) *jsonschema.Schema {
	enumValuerType := reflect.TypeFor[v1alpha1.EnumValuer]()

	if reflect.PointerTo(t).Implements(enumValuerType) {
		values := reflect.New(t).Interface().(v1alpha1.EnumValuer).ValidValues()

		enumVals := make([]any, len(values))
		for i, v := range values {
			enumVals[i] = v
		}

		return &jsonschema.Schema{Type: "string", Enum: enumVals}
	}

	if t == reflect.TypeFor[metav1.Duration]() {
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$",
		}
	}

	return nil
}
