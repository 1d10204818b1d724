package validate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lestrrat-go/libxml2"
	"github.com/lestrrat-go/libxml2/xsd"
)

// ValidateXML validates the XML document at docPath against the XSD at
// xsdPath. A document that is not well-formed XML is an invalid result; an
// unreadable file or an XSD that does not parse is an error.
func ValidateXML(docPath, xsdPath string) (*Result, error) {
	if _, err := os.Stat(xsdPath); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", xsdPath, err)
	}
	// Parsing from the file gives libxml2 a base URI for relative xs:include/xs:import.
	schema, err := xsd.ParseFromFile(xsdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", xsdPath, err)
	}
	defer schema.Free()

	rawDoc, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", docPath, err)
	}
	doc, err := libxml2.Parse(rawDoc)
	if err != nil {
		return invalid(docPath, xsdPath, Problem{Message: "malformed XML: " + strings.TrimSpace(err.Error())}), nil
	}
	defer doc.Free()

	err = schema.Validate(doc)
	if err == nil {
		return &Result{Document: docPath, Schema: xsdPath, Valid: true}, nil
	}

	var sve xsd.SchemaValidationError
	if !errors.As(err, &sve) {
		return invalid(docPath, xsdPath, Problem{Message: strings.TrimSpace(err.Error())}), nil
	}
	problems := make([]Problem, 0, len(sve.Errors()))
	for _, e := range sve.Errors() {
		problems = append(problems, Problem{Message: strings.TrimSpace(e.Error())})
	}
	if len(problems) == 0 {
		problems = append(problems, Problem{Message: strings.TrimSpace(err.Error())})
	}
	return invalid(docPath, xsdPath, problems...), nil
}
