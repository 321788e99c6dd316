package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veil-io/veil/internal/operator"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "List the built-in operator catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, span := tracer.Start(cmd.Context(), "operators")
		defer span.End()

		catalog := operator.NewCatalog()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Anonymizers:")
		for _, name := range catalog.Anonymizers() {
			op, err := catalog.Anonymizer(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-8s (%s)\n", name, op.Kind())
		}

		fmt.Fprintln(out, "Deanonymizers:")
		for _, name := range catalog.Deanonymizers() {
			op, err := catalog.Deanonymizer(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-8s (%s)\n", name, op.Kind())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(operatorsCmd)
}
