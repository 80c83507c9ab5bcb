// Package main provides the CLI entrypoint for column-mapper.
//
// column-mapper maps spreadsheet column headers onto OSCAL fields:
//   - validate checks a rule file (catalog plus overrides)
//   - resolve runs override resolution for individual column names
//   - plan maps whole documents and reports what needs review
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
