package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/format"
	"github.com/dhamidi/gobra/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var entryName string
	var lexer string
	var maxErrors int

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Gobra file and print its syntax tree",
		Long: `Parse a Gobra source file, or standard input, and print the syntax tree.

With --entry the input is parsed as a single expression, statement or type
instead of a whole file. Syntax errors are printed to standard error, or as
a JSON array when --format is json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := parseEntry(entryName)
			if err != nil {
				return err
			}
			enc, err := format.ForName(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			data, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var opts []parser.Option
			if maxErrors > 0 {
				opts = append(opts, parser.WithMaxErrors(maxErrors))
			}
			p, err := newParser(entry, data, name, lexer, opts...)
			if err != nil {
				return err
			}

			node, err := p.Finish()
			if err != nil {
				var errs parser.ErrorList
				if !errors.As(err, &errs) {
					return fmt.Errorf("parse %s: %w", name, err)
				}
				if outputFormat == "json" {
					text, jerr := format.ErrorsJSON(errs)
					if jerr != nil {
						return fmt.Errorf("encode errors: %w", jerr)
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(text))
				} else {
					printSyntaxErrors(cmd.ErrOrStderr(), errs)
				}
				return fmt.Errorf("parse %s: %d syntax error(s)", name, len(errs))
			}

			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "sexpr", "output format (sexpr, tree, tree+pos, json)")
	cmd.Flags().StringVarP(&entryName, "entry", "e", "file", "entry rule (file, expr, stmt, type)")
	cmd.Flags().StringVar(&lexer, "lexer", "builtin", "lexer (builtin, grammar)")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 0, "stop after this many syntax errors (0 for the default)")

	return cmd
}
