// Package validation checks dataset rows against a JSON Schema: the
// embedded canonical submission schema by default, or a user-supplied one.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/schemas"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// submissionSchema is the compiled canonical submission schema.
var submissionSchema *jsonschema.Schema

func init() {
	submissionSchema = mustCompileSchema(schemas.SubmissionSchemaJSON, "submission.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// SubmissionSchema returns the compiled embedded schema.
func SubmissionSchema() *jsonschema.Schema {
	return submissionSchema
}

// CompileFile compiles a user-supplied JSON Schema file.
func CompileFile(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var schemaDoc any
	if err := json.Unmarshal(data, &schemaDoc); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path, schemaDoc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	sch, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}
	return sch, nil
}

// ValidateRows validates each row against the schema and returns error
// messages keyed by row index. An empty map means every row conformed.
func ValidateRows(sch *jsonschema.Schema, rows []dataset.Row) (map[int][]string, error) {
	if sch == nil {
		sch = submissionSchema
	}

	failures := make(map[int][]string)
	for i, row := range rows {
		instance, err := normalizeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if errs := validateAgainstSchema(sch, instance); len(errs) > 0 {
			failures[i] = errs
		}
	}
	return failures, nil
}

// normalizeRow round-trips a row through JSON so parquet-native values
// (time.Time, []byte) take the shape the schema describes: RFC 3339
// strings and base64 strings.
func normalizeRow(row dataset.Row) (any, error) {
	data, err := json.Marshal(map[string]any(row))
	if err != nil {
		return nil, fmt.Errorf("marshaling row: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("unmarshaling row: %w", err)
	}
	return instance, nil
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
