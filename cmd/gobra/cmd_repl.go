package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/format"
	"github.com/dhamidi/gobra/parser"
)

const (
	historyFile = ".gobra_history"
	promptMain  = "gobra> "
	promptCont  = "...    "
	replBanner  = "Gobra parser REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	replHelp    = `
REPL commands:
  :help                 Show this help
  :quit / :exit         Exit the REPL
  :entry <rule>         Parse input as file, expr, stmt or type
  :format <name>        Print trees as sexpr, tree, tree+pos or json
  :tokens <code>        Print the tokens of code
  :load <file>          Parse a file with the current settings
`
)

func newReplCmd() *cobra.Command {
	var entryName string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse Gobra snippets interactively",
		Long: `Start an interactive session that parses each input and prints its tree.

Input spanning several lines is read until it forms a complete unit for the
current entry rule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRepl(cmd.OutOrStdout(), entryName, outputFormat)
			if err != nil {
				return err
			}
			return r.run()
		},
	}

	cmd.Flags().StringVarP(&entryName, "entry", "e", "stmt", "entry rule (file, expr, stmt, type)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (sexpr, tree, tree+pos, json)")

	return cmd
}

type repl struct {
	out    io.Writer
	entry  parser.Entry
	format string
	enc    format.Encoder
}

func newRepl(out io.Writer, entryName, outputFormat string) (*repl, error) {
	r := &repl{out: out}
	if err := r.setEntry(entryName); err != nil {
		return nil, err
	}
	if err := r.setFormat(outputFormat); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *repl) setEntry(name string) error {
	entry, err := parseEntry(name)
	if err != nil {
		return err
	}
	r.entry = entry
	return nil
}

func (r *repl) setFormat(name string) error {
	enc, err := format.ForName(name, r.out)
	if err != nil {
		return err
	}
	r.format = name
	r.enc = enc
	return nil
}

// complete reports whether src is ready to be parsed, or needs another line.
func (r *repl) complete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return true
	}
	return parser.New(r.entry, strings.NewReader(src)).IsComplete()
}

func (r *repl) eval(src, file string) {
	node, err := parser.New(r.entry, strings.NewReader(src), parser.WithFile(file)).Finish()
	if err != nil {
		printSyntaxErrors(r.out, err)
		return
	}
	if err := r.enc.Encode(node); err != nil {
		fmt.Fprintf(r.out, "encode: %v\n", err)
	}
}

// command runs a ":" command and reports whether the session should end.
func (r *repl) command(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(r.out, replHelp)

	case ":quit", ":exit":
		return true

	case ":entry":
		if rest == "" {
			fmt.Fprintf(r.out, "entry: %s\n", r.entry)
			return false
		}
		if err := r.setEntry(rest); err != nil {
			fmt.Fprintln(r.out, err)
		}

	case ":format":
		if rest == "" {
			fmt.Fprintf(r.out, "format: %s\n", r.format)
			return false
		}
		if err := r.setFormat(rest); err != nil {
			fmt.Fprintln(r.out, err)
		}

	case ":tokens":
		for _, tok := range parser.Tokenize([]byte(rest), "<repl>") {
			fmt.Fprintf(r.out, "%s\t%q\n", tok.Kind, tok.Literal)
		}

	case ":load":
		if rest == "" {
			fmt.Fprintln(r.out, "usage: :load <file>")
			return false
		}
		src, err := os.ReadFile(rest)
		if err != nil {
			fmt.Fprintf(r.out, "cannot read %s: %v\n", rest, err)
			return false
		}
		r.eval(string(src), rest)

	default:
		fmt.Fprintf(r.out, "unknown command %s (try :help)\n", fields[0])
	}
	return false
}

func (r *repl) run() error {
	histPath := historyFile
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Fprintln(r.out, replBanner)
	for {
		code, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.out)
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(code)

		if strings.HasPrefix(trimmed, ":") {
			if r.command(trimmed) {
				break
			}
			continue
		}
		r.eval(code, "<repl>")
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// read collects lines until they form a complete unit. It returns false at
// end of input.
func (r *repl) read(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || r.complete(src) {
			return src, true
		}
	}
}
