// Command ceceo is the ceceo interpreter CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/TGMM/ceceo-llvm/internal/eval"
	"github.com/TGMM/ceceo-llvm/pkg/ceceo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ceceo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ceceo [flags] [file]")
		fs.PrintDefaults()
	}

	var (
		debug     = fs.Bool("debug", false, "Trace evaluation to stderr")
		evalStr   = fs.String("e", "", "Evaluate ceceo expression")
		dbPath    = fs.String("db", "", "SQLite database path (empty keeps definitions in memory)")
		keepGoing = fs.Bool("keep-going", false, "Continue after a failing top-level form")
		dump      = fs.Bool("dump", false, "Print the parsed forms and exit")
		asJSON    = fs.Bool("json", false, "Print the parsed forms as JSON and exit")
		maxDepth  = fs.Int("max-depth", eval.DefaultMaxDepth, "Maximum evaluation depth")
		noStdlib  = fs.Bool("no-stdlib", false, "Disable standard library prelude")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	file := fs.Arg(0)

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := []ceceo.Option{
		ceceo.WithOutput(stdout),
		ceceo.WithLogger(logger),
		ceceo.WithMaxDepth(*maxDepth),
	}
	if *dbPath != "" {
		opts = append(opts, ceceo.WithSQLiteStore(*dbPath))
	}
	if *noStdlib {
		opts = append(opts, ceceo.WithNoStdlib())
	}
	if *keepGoing {
		opts = append(opts, ceceo.WithContinueOnError())
	}

	runtime, err := ceceo.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer runtime.Close()

	if *dump || *asJSON {
		src, err := readSource(*evalStr, file, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := printForms(runtime, src, *asJSON, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// Step 1: evaluate the file, only display writes output
	if file != "" {
		if _, err := runtime.EvalFile(file); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	// Step 2: -e prints its result
	if *evalStr != "" {
		result, err := runtime.Eval(*evalStr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if result != "" {
			fmt.Fprintln(stdout, result)
		}
		return 0
	}
	if file != "" {
		return 0
	}

	// Step 3: piped input is a program, a terminal gets the REPL
	if !term.IsTerminal(int(stdin.Fd())) {
		if _, err := runtime.EvalReader(stdin); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := runREPL(runtime, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readSource picks the program text for -dump and -json.
func readSource(evalStr, file string, stdin io.Reader) (string, error) {
	switch {
	case evalStr != "":
		return evalStr, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func printForms(runtime *ceceo.Runtime, src string, asJSON bool, w io.Writer) error {
	if asJSON {
		data, err := runtime.Visualize(src, true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	forms, err := runtime.Parse(src)
	if err != nil {
		return err
	}
	for _, form := range forms {
		if _, err := fmt.Fprintln(w, form.String()); err != nil {
			return err
		}
	}
	return nil
}
