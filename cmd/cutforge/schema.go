package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
)

// printSchema emits the JSON schema of the project file so editors can
// validate their exports against what this binary accepts.
func printSchema() {
	schema := jsonschema.Reflect(&Project{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
