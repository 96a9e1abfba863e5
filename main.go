//go:build !desktop

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Without the desktop tag the binding runs headless: the script is read
// from the file named on the command line, or stdin, and the result the
// frontend would receive is printed as JSON.
func main() {
	var (
		src []byte
		err error
	)
	if len(os.Args) > 1 {
		src, err = os.ReadFile(os.Args[1])
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := NewApp().Evaluate(string(src))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
