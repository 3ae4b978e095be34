package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/accord/packages/pairspec"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List the accordances declared in spec files",
	Long: `List all accordances declared in .accord.yaml files.

Examples:
  accord list orders.accord.yaml
  accord list ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectSpecFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .accord.yaml files found")
	}

	for _, file := range files {
		f, err := pairspec.LoadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for i := range f.Accordances {
			a := &f.Accordances[i]
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%d rules)\n", a.Name, len(a.Fields))

			var traits []string
			if a.NilCheck {
				traits = append(traits, "nil_check")
			}
			if a.MatchRest {
				traits = append(traits, "match_rest")
			}
			if a.IgnoreCase {
				traits = append(traits, "ignore_case")
			}
			if len(traits) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "    flags: %s\n", strings.Join(traits, ", "))
			}
		}
	}

	return nil
}
