package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/accord/packages/pairspec"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate accordance spec files for errors",
	Long: `Validate accordance spec files without running them.

Examples:
  accord validate orders.accord.yaml
  accord validate ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectSpecFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .accord.yaml files found")
	}

	hasErrors := false
	for _, file := range files {
		f, err := pairspec.LoadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}

		if errs := pairspec.Validate(f); len(errs) > 0 {
			for _, verr := range errs {
				fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, verr)
			}
			hasErrors = true
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
	}

	if hasErrors {
		os.Exit(ExitSpecError)
	}

	return nil
}
