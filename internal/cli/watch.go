package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/piecetree/internal/logging"
	"github.com/dshills/piecetree/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reload a file whenever it changes",
		Long: `Load FILE, print a one-line summary, then reload it after every change
on disk and print how the line and byte counts moved. Stops on interrupt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			styles := a.styles(cmd)

			prev, err := a.statFile(ctx, cmd, path)
			if err != nil {
				return err
			}
			printSummary(out, styles, prev, nil)

			return watch.File(ctx, path, func(ev watch.Event) {
				a.logger.Debug("file changed", logging.FieldFile, path, "op", ev.Op)
				st, err := a.statFile(ctx, cmd, path)
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintf(out, "%s: %s\n", styles.Heading.Render(path), styles.Dim.Render("removed"))
					return
				}
				if err != nil {
					a.logger.Error("reload failed", logging.FieldFile, path, logging.FieldError, err)
					return
				}
				printSummary(out, styles, st, &prev)
				prev = st
			}, watch.WithDelay(delay))
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", watch.DefaultDelay, "quiet period before reloading")
	return cmd
}

func printSummary(w io.Writer, styles *Styles, st fileStats, prev *fileStats) {
	fmt.Fprintf(w, "%s: %d lines, %d bytes, %s", styles.Heading.Render(st.Path), st.Lines, st.Bytes, st.EOL)
	if prev != nil {
		fmt.Fprint(w, styles.Dim.Render(fmt.Sprintf(" (%+d lines, %+d bytes)", st.Lines-prev.Lines, st.Bytes-prev.Bytes)))
	}
	fmt.Fprintln(w)
}
