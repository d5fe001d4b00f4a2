// phoenix is a small CLI around the adaptive parsing cascade: it reads
// messy LLM output from a file or stdin, a schema definition from a flag,
// an env default, or a JSON/YAML file, and prints the validated record.
//
// Usage:
//
//	phoenix parse --schema '{"order_number": "int", "status": "str"}' reply.txt
//	cat reply.txt | phoenix parse --schema-file schema.yaml -
//	phoenix examples
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"

	"github.com/shalyhinpavel/phoenix/core/parser"
	"github.com/shalyhinpavel/phoenix/core/schema"
	"github.com/shalyhinpavel/phoenix/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "phoenix",
		Short:         "Extract schema-conforming records from messy LLM output",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd(), newExamplesCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var (
		schemaDef  string
		schemaFile string
		html       bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a file (or stdin) against a schema definition",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaDef, schemaFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, "schema error:", err)
				return err
			}
			raw, err := readInput(args)
			if err != nil {
				fmt.Fprintln(os.Stderr, "input error:", err)
				return err
			}

			var opts []parser.Option
			if html {
				opts = append(opts, parser.WithHTMLConversion())
			}
			record, err := parser.New(opts...).Parse(raw, s)
			if err != nil {
				reportFailure(err)
				return err
			}
			fmt.Println(utils.JSONToString(record, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaDef, "schema", os.Getenv("PHOENIX_SCHEMA"),
		`schema definition as a JSON object, e.g. '{"name": "str", "age": "int"}' (default $PHOENIX_SCHEMA)`)
	cmd.Flags().StringVar(&schemaFile, "schema-file", "",
		"path to a JSON or YAML schema definition file (overrides --schema)")
	cmd.Flags().BoolVar(&html, "html", false,
		"convert HTML-looking input to markdown before parsing")
	return cmd
}

func loadSchema(definition, file string) (*schema.Schema, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			return schema.FromYAML(data)
		default:
			return schema.FromJSON(data)
		}
	}
	if definition == "" {
		return nil, fmt.Errorf("no schema given: use --schema, --schema-file, or PHOENIX_SCHEMA")
	}
	return schema.FromJSON([]byte(definition))
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// reportFailure prints a ParsingError with its diagnostic context; any
// other error is logged as-is.
func reportFailure(err error) {
	var perr *parser.ParsingError
	if !errors.As(err, &perr) {
		slog.Error("parse failed", "error", err)
		return
	}
	fmt.Fprintln(os.Stderr, "parse failed:", perr.Message)
	for key, value := range perr.Context {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", key, value)
	}
}

// newExamplesCmd runs the canonical demo inputs through the cascade, one
// per failure mode the parser recovers from.
func newExamplesCmd() *cobra.Command {
	type example struct {
		title  string
		raw    string
		schema string
	}
	examples := []example{
		{
			title:  "fenced JSON with surrounding prose",
			raw:    "Here is the response from the LLM:\n\n```json\n{\n  \"product_name\": \"Phoenix v1.4\",\n  \"version\": 1.4,\n  \"is_released\": true\n}\n```\n\nAll done.",
			schema: `{"product_name": "str", "version": "float", "is_released": "bool"}`,
		},
		{
			title:  "comment that breaks JSON",
			raw:    "{\n\"user\": \"Alice\",\n\"login_attempts\": 3,\n\"last_login_at\": \"2025-08-07\", // A comment that breaks JSON\n}",
			schema: `{"user": "str", "login_attempts": "int", "last_login_at": "str"}`,
		},
		{
			title:  "plain prose profile",
			raw:    `User profile data received. name: Bob, age: 30 years old, id: "user-123",`,
			schema: `{"name": "str", "age": "int", "id": "str"}`,
		},
		{
			title:  "truncated JSON missing a brace and quotes",
			raw:    "Here is some really messy output, missing a brace and quotes. \n{\"city\": \"New York, \n\"population\": 8400000",
			schema: `{"city": "str", "population": "int"}`,
		},
		{
			title:  "order summary in prose",
			raw:    `Order number 42. Status: "in_progress". Amount: 199.99.`,
			schema: `{"order_number": "int", "status": "str", "amount": "float"}`,
		},
	}

	return &cobra.Command{
		Use:   "examples",
		Short: "Run the canonical demo inputs through the parser",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := parser.New()
			for _, ex := range examples {
				fmt.Printf("--- %s\n", ex.title)
				s, err := schema.FromJSON([]byte(ex.schema))
				if err != nil {
					return err
				}
				record, err := p.Parse(ex.raw, s)
				if err != nil {
					reportFailure(err)
					continue
				}
				fmt.Println(utils.JSONToString(record, true))
			}
			return nil
		},
	}
}
