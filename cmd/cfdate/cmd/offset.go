package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blockberries/cfdate/config"
)

var offsetCmd = &cobra.Command{
	Use:   "offset DATE",
	Short: "Convert a date back to an offset",
	Long: `Print the number of resolution units from the epoch to DATE.

Examples:
  cfdate offset "1970-11-01" --calendar 360_day --resolution days`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := unitFromFlags(cmd)
		if err != nil {
			return err
		}
		date, err := config.ParseEpoch(unit.Calendar, args[0])
		if err != nil {
			return err
		}

		conn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		v, err := conn.Offset(cmd.Context(), date, unit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
		return nil
	},
}

func init() {
	unitFlags(offsetCmd)
	rootCmd.AddCommand(offsetCmd)
}
