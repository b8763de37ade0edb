package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/piecetree/internal/engine/piecetree"
	"github.com/dshills/piecetree/internal/logging"
)

func newFindCommand(a *app) *cobra.Command {
	var (
		isRegex   bool
		matchCase bool
		wholeWord bool
		groups    bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "find PATTERN FILE",
		Short: "Search a file",
		Long: `Print every match of PATTERN in FILE as FILE:LINE:COLUMN followed by
the line, with the match highlighted on a terminal. Columns are 1-based
bytes. Patterns containing a line break (or \n, \r, \W in regex mode)
may match across lines.

Exits with status 1 when nothing matches.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, path := args[0], args[1]
			b, err := a.loadBuffer(cmd, path)
			if err != nil {
				return err
			}

			params := a.cfg.SearchParams(pattern, isRegex, matchCase, wholeWord)
			end := b.PositionAt(b.Len())
			whole := piecetree.NewRange(piecetree.Position{Line: 1, Column: 1}, end)

			matches, err := b.FindMatches(params, whole, groups, limit)
			if err != nil {
				return err
			}
			a.logger.Debug("search finished",
				logging.FieldFile, path,
				logging.FieldPattern, pattern,
				logging.FieldMatches, len(matches),
			)
			if len(matches) == 0 {
				return ErrNoMatches
			}

			styles := a.styles(cmd)
			out := cmd.OutOrStdout()
			for _, m := range matches {
				printMatch(out, styles, path, b.LineText(m.Range.Start.Line), m)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&isRegex, "regex", "r", false, "treat PATTERN as a regular expression")
	cmd.Flags().BoolVarP(&matchCase, "case", "c", false, "match case")
	cmd.Flags().BoolVarP(&wholeWord, "word", "w", false, "match whole words only")
	cmd.Flags().BoolVarP(&groups, "groups", "g", false, "print capture groups")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "stop after this many matches (0 uses the configured limit)")

	return cmd
}

func printMatch(w io.Writer, styles *Styles, path, line string, m piecetree.FindMatch) {
	start, end := m.Range.Start, m.Range.End
	to := end.Column - 1
	if end.Line != start.Line {
		to = len(line)
	}

	loc := fmt.Sprintf("%s:%d:%d:", path, start.Line, start.Column)
	fmt.Fprintf(w, "%s %s", styles.LineNo.Render(loc), highlight(styles, line, start.Column-1, to))
	if extra := end.Line - start.Line; extra > 0 {
		fmt.Fprint(w, styles.Dim.Render(fmt.Sprintf(" (+%d lines)", extra)))
	}
	fmt.Fprintln(w)

	if len(m.Matches) > 1 {
		for i, g := range m.Matches[1:] {
			fmt.Fprintf(w, "    %s %q\n", styles.Dim.Render(fmt.Sprintf("$%d", i+1)), g)
		}
	}
}

// highlight renders line[from:to] in the match style.
func highlight(styles *Styles, line string, from, to int) string {
	if !styles.Color {
		return line
	}
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	return line[:from] + styles.Match.Render(line[from:to]) + line[to:]
}
