package taskfile

import (
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource string

var documentSchema = jsonschema.MustCompileString("taskfile/schema.json", schemaSource)

// validateShape checks the raw YAML tree against the embedded document
// schema. This catches shape problems (wrong types, unknown task fields)
// before any semantic validation runs.
//
// Decoding into a plain map also rejects duplicate mapping keys, so a
// taskfile declaring the same task name twice fails here.
func validateShape(data []byte) error {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return invalidf("yaml: %v", err)
	}
	if err := documentSchema.Validate(normalizeForSchema(tree)); err != nil {
		return invalidf("schema: %v", err)
	}
	return nil
}

// normalizeForSchema converts yaml.v3 decoding artifacts into the value
// shapes the schema validator expects (string-keyed maps throughout).
func normalizeForSchema(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeForSchema(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key, ok := k.(string)
			if !ok {
				continue
			}
			out[key] = normalizeForSchema(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeForSchema(val)
		}
		return out
	default:
		return v
	}
}
