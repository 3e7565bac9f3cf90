package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/grammar"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Work with the reference EBNF grammar",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarPrintCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Verify an EBNF grammar",
		Long: `Check that a grammar in EBNF is well formed and that every production
is defined and reachable from the start production. Without a file the
built-in Gobra grammar is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := grammar.FileName
			data := grammar.Source()
			if len(args) > 0 {
				var err error
				data, name, err = readInput(cmd, args)
				if err != nil {
					return err
				}
			}

			g, err := grammar.Check(name, bytes.NewReader(data), start)
			if err != nil {
				errs := grammar.Errors(err)
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
				}
				return fmt.Errorf("%s: %d problems", name, len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions OK\n", name, len(g))
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", grammar.Start, "start production")

	return cmd
}

func newGrammarPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the built-in Gobra grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(grammar.Source())
			return err
		},
	}
}
