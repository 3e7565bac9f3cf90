package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/parser"
)

func newTokensCmd() *cobra.Command {
	var lexer string
	var all bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a Gobra file",
		Long: `Print one token per line as position, kind and literal.

Semicolons inserted at line breaks print as "newline". Whitespace and
comments are only printed with --all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			toks, err := tokenize(data, name, lexer)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, tok := range toks {
				switch tok.Kind {
				case parser.TokenWhitespace, parser.TokenComment, parser.TokenLineComment:
					if !all {
						continue
					}
				}
				kind := tok.Kind.String()
				if tok.Implicit {
					kind = "newline"
				}
				fmt.Fprintf(w, "%d:%d\t%s\t%q\n", tok.Span.Start.Line, tok.Span.Start.Column, kind, tok.Literal)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lexer, "lexer", "builtin", "lexer (builtin, grammar)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include whitespace and comments")

	return cmd
}
