package history

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/app"
	"recorder-whisper/internal/app/converter/export"
	"recorder-whisper/internal/app/repository"
)

var query string
var listLimit int
var listOffset int
var width int

func init() {
	listCmd.Flags().StringVarP(&query, "query", "q", "", "only rows whose URL or transcript contains this text")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "rows to show")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "rows to skip")
	listCmd.Flags().IntVarP(&width, "width", "w", 60, "truncate transcripts to this many characters (0 for no limit)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent history rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := cmdutil.SignalContext()
		defer stop()

		store, cleanup, err := app.InitializeHistoryStore(ctx, cmdutil.Config())
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := store.Load(ctx)
		if err != nil {
			return err
		}
		page, total := repository.Filter(records, query, listOffset, listLimit)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tAUDIO URL\tTRANSCRIPTION")
		for _, r := range page {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Timestamp.Format(export.TimestampLayout), r.AudioURL, truncate(r.Transcription, width))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows\n", len(page), total)
		return nil
	},
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
