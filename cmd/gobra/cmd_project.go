package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/project"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [dir]",
		Short: "Show project structure",
		Long:  `Display the Gobra packages below a directory in dependency order.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			proj, err := project.LoadFrom(dir)
			if err != nil {
				return err
			}
			printProject(cmd.OutOrStdout(), proj)
			return nil
		},
	}

	return cmd
}

func printProject(w io.Writer, proj *project.Project) {
	fmt.Fprintf(w, "Root:       %s\n", proj.RootDir)
	if proj.Config.Path != "" {
		fmt.Fprintf(w, "Config:     %s\n", proj.Config.Path)
	}
	fmt.Fprintf(w, "Extensions: %v\n", proj.Config.Extensions)
	fmt.Fprintf(w, "\nPackages:\n")

	for _, pkg := range proj.PackagesInOrder() {
		name := pkg.Name
		if name == "" {
			name = "?"
		}
		fmt.Fprintf(w, "  %s (%s)\n", name, pkg.Dir)
		fmt.Fprintf(w, "    files: %d\n", len(pkg.Files))
		for _, imp := range pkg.Imports {
			fmt.Fprintf(w, "    import %q\n", imp)
		}
	}
}
