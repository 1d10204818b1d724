package main

import (
	"fmt"
	"log"
	"os"

	"housekeeper/internal/validate"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate documents against JSON Schema or XSD",
}

func init() {
	validateCmd.AddCommand(validateJSONCmd)
	validateCmd.AddCommand(validateXMLCmd)
}

var validateJSONCmd = &cobra.Command{
	Use:   "json <document> <schema>",
	Short: "Validate a JSON document against a JSON Schema",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		res, err := validate.ValidateJSON(args[0], cfg.SchemaPath(args[1]))
		report(res, err)
	},
}

var validateXMLCmd = &cobra.Command{
	Use:   "xml <document> <xsd>",
	Short: "Validate an XML document against an XSD",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		res, err := validate.ValidateXML(args[0], cfg.SchemaPath(args[1]))
		report(res, err)
	},
}

// report exits 1 for invalid documents so the command can gate scripts.
func report(res *validate.Result, err error) {
	if err != nil {
		log.Fatalf("⚠️  Validation could not run: %v", err)
	}
	fmt.Println(res.Summary())
	if !res.Valid {
		os.Exit(1)
	}
}
