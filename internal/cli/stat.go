package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/piecetree/internal/engine/piecetree"
	"github.com/dshills/piecetree/internal/logging"
)

// firstLineLimit bounds the first-line preview in stat output.
const firstLineLimit = 60

type fileStats struct {
	Path      string
	Encoding  string
	Bytes     int
	Lines     int
	Pieces    int
	EOL       string
	BOM       bool
	ASCII     bool
	RTL       bool
	Unusual   bool
	FirstLine string
}

func newStatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat FILE...",
		Short: "Print size, line and encoding statistics",
		Long: `Load each file and print its byte and line counts, line ending, byte
order mark, encoding and content flags. Files are loaded concurrently.
Use "-" to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]fileStats, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					st, err := a.statFile(ctx, cmd, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = st
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			styles := a.styles(cmd)
			for _, st := range results {
				printStats(cmd.OutOrStdout(), styles, st)
			}
			return nil
		},
	}
}

// statFile loads path into a tree directly, so the builder's content
// flags are available alongside the tree's counts.
func (a *app) statFile(ctx context.Context, cmd *cobra.Command, path string) (fileStats, error) {
	if err := ctx.Err(); err != nil {
		return fileStats{}, err
	}
	src, err := openSource(cmd, path)
	if err != nil {
		return fileStats{}, err
	}
	defer src.close()

	builder := piecetree.NewBuilder()
	if _, err := builder.ReadFrom(src.r); err != nil {
		return fileStats{}, err
	}
	f := builder.Finish(a.cfg.NormalizeEOL)
	t := f.Create(a.cfg.LineEnding().Sequence())
	if a.cfg.DebugChecks {
		if err := t.AssertIntegrity(); err != nil {
			return fileStats{}, err
		}
	}

	a.logger.Debug("file loaded",
		logging.FieldFile, path,
		logging.FieldLength, t.Length(),
		logging.FieldPieces, t.PieceCount(),
	)

	return fileStats{
		Path:      path,
		Encoding:  src.encoding,
		Bytes:     t.Length(),
		Lines:     t.LineCount(),
		Pieces:    t.PieceCount(),
		EOL:       eolName(t.EOL()),
		BOM:       f.BOM() != "",
		ASCII:     f.IsBasicASCII(),
		RTL:       f.ContainsRTL(),
		Unusual:   f.ContainsUnusualLineTerminators(),
		FirstLine: f.FirstLineText(firstLineLimit),
	}, nil
}

func printStats(w io.Writer, styles *Styles, st fileStats) {
	fmt.Fprintln(w, styles.Heading.Render(st.Path))
	row := func(key, value string) {
		fmt.Fprintf(w, "  %s %s\n", styles.Key.Render(fmt.Sprintf("%-10s", key)), value)
	}
	row("encoding", st.Encoding)
	row("bytes", fmt.Sprint(st.Bytes))
	row("lines", fmt.Sprint(st.Lines))
	row("eol", st.EOL)
	row("bom", yesNo(st.BOM))
	row("pieces", fmt.Sprint(st.Pieces))
	row("ascii", yesNo(st.ASCII))
	row("rtl", yesNo(st.RTL))
	row("unusual", yesNo(st.Unusual))
	row("first", fmt.Sprintf("%q", st.FirstLine))
}

func eolName(eol string) string {
	if eol == piecetree.CRLF {
		return "crlf"
	}
	return "lf"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
