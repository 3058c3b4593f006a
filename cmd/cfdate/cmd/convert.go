package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockberries/cfdate/types"
)

var (
	convertShape   string
	convertMask    string
	convertRFC3339 bool
)

var convertCmd = &cobra.Command{
	Use:   "convert VALUE...",
	Short: "Convert offsets to dates",
	Long: `Convert numeric offsets to calendar dates rounded to the nearest second.

Examples:
  cfdate convert 0 86399.5 --calendar noleap
  cfdate convert 1 2 3 4 5 6 --shape 2,3 --resolution hours
  cfdate convert 10 20 30 --mask 1 --resolution days --epoch 2000-01-01
  cfdate convert 1e9 --rfc3339`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := unitFromFlags(cmd)
		if err != nil {
			return err
		}
		values, err := buildArray(args, convertShape, convertMask)
		if err != nil {
			return err
		}

		conn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		res, err := conn.Convert(cmd.Context(), values, unit)
		if err != nil {
			return err
		}
		for _, line := range formatResult(res, convertRFC3339) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertShape, "shape", "", "comma-separated dimensions, e.g. 2,3")
	convertCmd.Flags().StringVar(&convertMask, "mask", "", "comma-separated flat indices to mask")
	convertCmd.Flags().BoolVar(&convertRFC3339, "rfc3339", false, "print Gregorian-compatible dates as RFC 3339 UTC timestamps")
	unitFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

// buildArray parses the positional values into an array. A single
// value without --shape becomes a scalar.
func buildArray(args []string, shape, mask string) (types.Array, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return types.Array{}, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}

	var arr types.Array
	switch {
	case shape != "":
		dims, err := parseInts(shape)
		if err != nil {
			return types.Array{}, fmt.Errorf("--shape: %w", err)
		}
		if arr, err = types.Reshape(dims, values); err != nil {
			return types.Array{}, err
		}
	case len(values) == 1:
		arr = types.Scalar(values[0])
	default:
		arr = types.Vector(values...)
	}

	if mask != "" {
		idx, err := parseInts(mask)
		if err != nil {
			return types.Array{}, fmt.Errorf("--mask: %w", err)
		}
		for _, i := range idx {
			if i < 0 || i >= arr.Len() {
				return types.Array{}, fmt.Errorf("--mask: index %d out of range [0, %d)", i, arr.Len())
			}
			arr.Data[i] = types.Missing
		}
	}
	return arr, nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// formatResult renders one line per element in row-major order.
// Shaped results are prefixed with the element's index. With rfc3339,
// dates that have a time.Time equivalent print as RFC 3339; others
// keep the calendar form.
func formatResult(res types.Result, rfc3339 bool) []string {
	lines := make([]string, len(res.Data))
	for i, d := range res.Data {
		s := "--"
		if d.Valid {
			s = formatDate(d.Date, rfc3339)
		}
		if !res.IsScalar() {
			s = fmt.Sprintf("%v\t%s", unflatten(i, res.Shape), s)
		}
		lines[i] = s
	}
	return lines
}

func formatDate(d types.Date, rfc3339 bool) string {
	if rfc3339 {
		if t, err := d.Time(); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return d.String()
}

func unflatten(flat int, shape []int) []int {
	idx := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] == 0 {
			continue
		}
		idx[i] = flat % shape[i]
		flat /= shape[i]
	}
	return idx
}
