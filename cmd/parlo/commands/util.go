package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/itchyny/gojq"

	"github.com/parlo-app/parlo/go/pkg/state"
)

// openState opens the badger database at the configured state directory.
func openState() (*state.DB, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.StateDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := state.Open(state.Options{Dir: dir, Logger: newLogger()})
	if err != nil {
		return nil, fmt.Errorf("open state at %s: %w", dir, err)
	}
	return db, nil
}

// printJSON writes v as indented JSON, either to stdout or to the named
// file when output is non-empty.
func printJSON(w io.Writer, v any, output string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", output)
	return nil
}

// runQuery runs a jq expression over v and prints each result as one JSON
// line, the way the jq CLI does.
func runQuery(w io.Writer, expr string, v any) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}

	// gojq operates on plain JSON values, not structs.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	iter := query.Run(input)
	for {
		out, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := out.(error); ok {
			return fmt.Errorf("jq: %w", err)
		}
		line, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode jq result: %w", err)
		}
		fmt.Fprintln(w, string(line))
	}
}
