package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/TGMM/ceceo-llvm/internal/eval"
	"github.com/TGMM/ceceo-llvm/pkg/ceceo"
)

const (
	prompt       = "ceceo> "
	continuation = "   ... "
	historyFile  = ".ceceo_history"
)

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "ceceo REPL (Ctrl+D to exit, :help for commands)")
	fmt.Fprintln(w)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  :defs   list global definitions")
	fmt.Fprintln(w, "  :help   show this message")
	fmt.Fprintln(w, "  :quit   leave the REPL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins: "+strings.Join(eval.Builtins(), " "))
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func runREPL(runtime *ceceo.Runtime, stdout, stderr io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetWordCompleter(completer(runtime))

	hist := historyPath()
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if hist == "" {
			return
		}
		if f, err := os.Create(hist); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	printBanner(stdout)

	var pending strings.Builder
	for {
		p := prompt
		if pending.Len() > 0 {
			p = continuation
		}

		input, err := line.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(stdout)
			return nil
		}
		if err != nil {
			return err
		}

		if pending.Len() == 0 {
			switch strings.TrimSpace(input) {
			case "":
				continue
			case ":quit", ":q":
				return nil
			case ":help":
				printHelp(stdout)
				continue
			case ":defs":
				printDefinitions(runtime, stdout)
				continue
			}
		}

		pending.WriteString(input)
		pending.WriteString("\n")

		result, err := runtime.Eval(pending.String())
		if errors.Is(err, ceceo.ErrIncomplete) {
			continue
		}
		line.AppendHistory(strings.ReplaceAll(strings.TrimSpace(pending.String()), "\n", " "))
		pending.Reset()

		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(stdout, result)
		}
	}
}

// printDefinitions lists global definitions with their source. Builtins
// are dispatched first, so a definition named after one is never called.
func printDefinitions(runtime *ceceo.Runtime, w io.Writer) {
	for _, name := range runtime.Definitions() {
		src, _ := runtime.Definition(name)
		if eval.IsBuiltin(name) {
			fmt.Fprintf(w, "%s = %s (shadowed by builtin)\n", name, src)
			continue
		}
		fmt.Fprintf(w, "%s = %s\n", name, src)
	}
}

// completer completes the word under the cursor against builtins and
// current definitions.
func completer(runtime *ceceo.Runtime) liner.WordCompleter {
	return func(input string, pos int) (string, []string, string) {
		runes := []rune(input)
		if pos > len(runes) {
			pos = len(runes)
		}
		start := pos
		for start > 0 && !isWordBreak(runes[start-1]) {
			start--
		}
		head, word, tail := string(runes[:start]), string(runes[start:pos]), string(runes[pos:])
		return head, complete(word, runtime.Definitions()), tail
	}
}

func complete(word string, defs []string) []string {
	if word == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, name := range append(eval.Builtins(), defs...) {
		if strings.HasPrefix(name, word) && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func isWordBreak(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '(', ')', '[', ']', '{', '}', '\'', '"':
		return true
	}
	return false
}
