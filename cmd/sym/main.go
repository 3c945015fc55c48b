// Command sym is the reference CLI for the SYM data format: it parses,
// resolves, and prints a .sym document (or a JSON/YAML/TOML document
// being converted through the same value model), per spec.md §6 and
// SPEC_FULL.md §6.3.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Konfuzian/symbolic-language/symconv"
	"github.com/Konfuzian/symbolic-language/symload"
	"github.com/Konfuzian/symbolic-language/symvalue"

	sym "github.com/Konfuzian/symbolic-language"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		asJSON     bool
		fromJSON   bool
		fromYAML   bool
		fromTOML   bool
		noColor    bool
		importRoot string
	)

	rootCmd := &cobra.Command{
		Use:           "sym [file]",
		Short:         "Parse and resolve a SYM document",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			if err := checkExclusive(fromJSON, fromYAML, fromTOML); err != nil {
				cmd.SilenceUsage = false
				return err
			}

			reader, closeFunc, err := getInputReader(path)
			if err != nil {
				return err
			}
			defer func() { _ = closeFunc() }()

			source, err := io.ReadAll(reader)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			val, err := decode(source, path, fromJSON, fromYAML, fromTOML, importRoot)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			return printValue(cmd.OutOrStdout(), val, asJSON)
		},
	}

	rootCmd.Flags().BoolVar(&asJSON, "json", false, "emit the generic JSON-like view of the resolved value")
	rootCmd.Flags().BoolVar(&fromJSON, "from-json", false, "treat the input as JSON instead of SYM")
	rootCmd.Flags().BoolVar(&fromYAML, "from-yaml", false, "treat the input as YAML instead of SYM")
	rootCmd.Flags().BoolVar(&fromTOML, "from-toml", false, "treat the input as TOML instead of SYM")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored error output")
	rootCmd.Flags().StringVar(&importRoot, "root", "", "sandbox @import resolution to this directory")

	if err := rootCmd.Execute(); err != nil {
		formatError(os.Stderr, err, shouldUseColor(noColor))
		return 1
	}
	return 0
}

func checkExclusive(fromJSON, fromYAML, fromTOML bool) error {
	n := 0
	for _, b := range []bool{fromJSON, fromYAML, fromTOML} {
		if b {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("at most one of --from-json, --from-yaml, --from-toml may be given")
	}
	return nil
}

func decode(source []byte, path string, fromJSON, fromYAML, fromTOML bool, importRoot string) (symvalue.Value, error) {
	switch {
	case fromJSON:
		return symconv.FromJSON(source)
	case fromYAML:
		return symconv.FromYAML(source)
	case fromTOML:
		return symconv.FromTOML(source)
	default:
		loader, err := resolveLoader(path, importRoot)
		if err != nil {
			return nil, err
		}
		return sym.ParseDocument(source, path, loader)
	}
}

func resolveLoader(path, importRoot string) (sym.Loader, error) {
	if importRoot == "" {
		return symload.NewFSLoader(), nil
	}
	return symload.WithRoot(importRoot)
}

func printValue(w io.Writer, val symvalue.Value, asJSON bool) error {
	if !asJSON {
		fmt.Fprintf(w, "%v\n", symvalue.ToJSON(val))
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(symvalue.ToJSON(val))
}

// getInputReader handles the two input modes spec.md §6 names: explicit
// stdin via "-", or a named file.
func getInputReader(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, f.Close, nil
}
