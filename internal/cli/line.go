package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLineCommand(a *app) *cobra.Command {
	var number bool

	cmd := &cobra.Command{
		Use:   "line FILE START [END]",
		Short: "Print a line or a range of lines",
		Long: `Print lines START through END (1-based, inclusive) without their
terminators. END defaults to START and is clamped to the last line.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBuffer(cmd, args[0])
			if err != nil {
				return err
			}

			start, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid start line %q: %w", args[1], err)
			}
			end := start
			if len(args) == 3 {
				if end, err = strconv.Atoi(args[2]); err != nil {
					return fmt.Errorf("invalid end line %q: %w", args[2], err)
				}
			}
			count := b.LineCount()
			if start < 1 || start > count {
				return fmt.Errorf("line %d out of range: %s has %d lines", start, args[0], count)
			}
			if end < start {
				return fmt.Errorf("end line %d before start line %d", end, start)
			}
			end = min(end, count)

			styles := a.styles(cmd)
			out := cmd.OutOrStdout()
			for n := start; n <= end; n++ {
				if number {
					fmt.Fprintf(out, "%s ", styles.LineNo.Render(fmt.Sprintf("%6d", n)))
				}
				fmt.Fprintln(out, b.LineText(n))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&number, "number", "n", false, "prefix each line with its number")
	return cmd
}
