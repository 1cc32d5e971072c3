// ceceo-check: Syntax checker for ceceo source files.
//
// Validates the reader grammar: balanced brackets, string termination,
// number ranges, hash literals and quote placement. Nothing is evaluated.
//
// Usage:
//
//	ceceo-check FILE [FILE...]
//	ceceo-check --dir DIR
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TGMM/ceceo-llvm/internal/parser"
)

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path         string
	err          error
	expectsError bool
}

// checkFile parses a source file and reports its first syntax error.
// Conformance directives (; EXPECTED:, ; ARGS:) are comments to the reader;
// an EXPECTED line starting with "Error:" marks the file as an error test.
func checkFile(path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{path: path, err: fmt.Errorf("read error: %w", err)}
	}

	expectsError := false
	for _, line := range strings.Split(string(content), "\n") {
		if rest, ok := strings.CutPrefix(line, "; EXPECTED:"); ok {
			if strings.HasPrefix(strings.TrimSpace(rest), "Error:") {
				expectsError = true
			}
		}
	}

	_, err = parser.ParseString(string(content))
	return checkResult{path: path, err: err, expectsError: expectsError}
}

// findSourceFiles recursively finds all .scm files under dir.
func findSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".scm") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func check(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: ceceo-check [--dir DIR] FILE [FILE...]")
		return 1
	}

	var files []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--dir" {
			if i+1 >= len(args) {
				fmt.Fprintln(stderr, "Error: --dir requires an argument")
				return 1
			}
			i++
			found, err := findSourceFiles(args[i])
			if err != nil {
				fmt.Fprintf(stderr, "Error scanning directory %s: %v\n", args[i], err)
				return 1
			}
			files = append(files, found...)
		} else {
			files = append(files, args[i])
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(stderr, "No .scm files found")
		return 1
	}

	passed := 0
	failed := 0
	expectedErr := 0

	for _, f := range files {
		result := checkFile(f)

		switch {
		case result.expectsError:
			// Runtime errors are not syntax errors, so both outcomes pass.
			expectedErr++
			if result.err != nil {
				fmt.Fprintf(stdout, "OK   %s (expected error, %v)\n", f, result.err)
			} else {
				fmt.Fprintf(stdout, "OK   %s (expected error, syntax accepted)\n", f)
			}
		case result.err != nil:
			failed++
			fmt.Fprintf(stdout, "FAIL %s\n", f)
			fmt.Fprintf(stdout, "     %v\n", result.err)
		default:
			passed++
			fmt.Fprintf(stdout, "OK   %s\n", f)
		}
	}

	fmt.Fprintf(stdout, "\n--- Summary ---\n")
	fmt.Fprintf(stdout, "Passed:          %d\n", passed)
	fmt.Fprintf(stdout, "Expected errors: %d\n", expectedErr)
	fmt.Fprintf(stdout, "Failed:          %d\n", failed)
	fmt.Fprintf(stdout, "Total:           %d\n", len(files))

	if failed > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(check(os.Args[1:], os.Stdout, os.Stderr))
}
