package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemaCacheMu sync.Mutex
	schemaCache   = make(map[string]*jsonschema.Schema)
)

// ValidateJSON validates the JSON document at docPath against the schema at
// schemaPath. Unreadable files and schemas that fail to compile are errors.
func ValidateJSON(docPath, schemaPath string) (*Result, error) {
	schema, err := loadCompiledSchema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", schemaPath, err)
	}

	f, err := os.Open(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", docPath, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return invalid(docPath, schemaPath, Problem{Message: "malformed JSON: " + err.Error()}), nil
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		msg := "malformed JSON: trailing content after the top-level value"
		if err != nil {
			msg = "malformed JSON: " + err.Error()
		}
		return invalid(docPath, schemaPath, Problem{Message: msg}), nil
	}

	err = schema.Validate(v)
	if err == nil {
		return &Result{Document: docPath, Schema: schemaPath, Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("failed to validate %s: %w", docPath, err)
	}
	return invalid(docPath, schemaPath, flatten(ve)...), nil
}

// flatten keeps the leaves of the error tree; inner nodes only say that
// some subschema failed.
func flatten(ve *jsonschema.ValidationError) []Problem {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []Problem{{Location: loc, Message: ve.Message}}
	}
	var out []Problem
	for _, c := range ve.Causes {
		out = append(out, flatten(c)...)
	}
	return out
}

func loadCompiledSchema(schemaPath string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	if cached, ok := schemaCache[abs]; ok {
		schemaCacheMu.Unlock()
		return cached, nil
	}
	schemaCacheMu.Unlock()

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	schemaCache[abs] = compiled
	schemaCacheMu.Unlock()
	return compiled, nil
}
