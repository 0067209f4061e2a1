package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List the distinct places in the cutoff table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, p := range env.Table.Places() {
			fmt.Fprintln(os.Stdout, p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(placesCmd)
}
