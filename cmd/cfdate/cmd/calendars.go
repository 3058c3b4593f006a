package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List supported calendars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		kinds, err := conn.Calendars(cmd.Context())
		if err != nil {
			return err
		}
		for _, k := range kinds {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarsCmd)
}
