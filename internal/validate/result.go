// Package validate checks JSON documents against JSON Schema and XML
// documents against XSD.
package validate

import (
	"fmt"
	"strings"
)

// Problem is one reason a document failed validation. Location is the JSON
// pointer of the offending value; libxml2 folds the location into Message.
type Problem struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

// Result is the outcome of validating one document. A document that could not
// be parsed at all is reported here too, not as an error.
type Result struct {
	Document string    `json:"document"`
	Schema   string    `json:"schema"`
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems,omitempty"`
}

func (p Problem) String() string {
	if p.Location == "" {
		return p.Message
	}
	return p.Location + ": " + p.Message
}

// Summary renders the result the way the CLI prints it.
func (r *Result) Summary() string {
	if r.Valid {
		return fmt.Sprintf("✅ %s is valid according to %s", r.Document, r.Schema)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "❌ %s is invalid according to %s", r.Document, r.Schema)
	for _, p := range r.Problems {
		sb.WriteString("\n  - " + p.String())
	}
	return sb.String()
}

func invalid(doc, schema string, problems ...Problem) *Result {
	return &Result{Document: doc, Schema: schema, Problems: problems}
}
