package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/batch"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// rangeCmd prints an inclusive integer range.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rangeCmd = &cobra.Command{
	Use:    "range <start> <end>",
	Short:  "Print the integers from start to end inclusive",
	Args:   cobra.ExactArgs(2),
	Hidden: true,
	RunE:   runRange,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(rangeCmd)
}

func runRange(_ *cobra.Command, args []string) error {
	bounds := make([]int, 2)
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return beaconerr.WithDetails(beaconerr.ErrInvalidInput, map[string]string{"value": arg})
		}
		bounds[i] = n
	}

	nums, err := batch.Range(bounds[0], bounds[1])
	if err != nil {
		return err
	}
	lines := make([]string, len(nums))
	for i, n := range nums {
		lines[i] = strconv.Itoa(n)
	}
	return formatter.Lines(lines, nums)
}
