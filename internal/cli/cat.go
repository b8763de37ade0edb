package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/piecetree/internal/engine/buffer"
)

func newCatCommand(a *app) *cobra.Command {
	var eol string

	cmd := &cobra.Command{
		Use:   "cat FILE",
		Short: "Print a file through the piece tree",
		Long: `Load FILE and write it back out, byte order mark included. Line
breaks are normalized according to the configuration, or converted with
--eol. UTF-16 input is written as UTF-8.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBuffer(cmd, args[0])
			if err != nil {
				return err
			}
			if eol != "" {
				le, err := buffer.ParseLineEnding(eol)
				if err != nil {
					return err
				}
				if err := b.SetLineEnding(le); err != nil {
					return err
				}
			}
			_, err = b.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&eol, "eol", "", "convert line breaks: lf or crlf")
	return cmd
}
