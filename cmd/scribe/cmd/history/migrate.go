package history

import (
	"fmt"

	"github.com/spf13/cobra"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/app"
	"recorder-whisper/internal/app/repository/migrate"
	"recorder-whisper/internal/config"
)

var toBackend string
var toPath string
var toDSN string
var checkpoint string

func init() {
	migrateCmd.Flags().StringVar(&toBackend, "to", config.HistorySQLite, "target backend: csv, sqlite or postgres")
	migrateCmd.Flags().StringVar(&toPath, "to-path", "", "target file for csv or sqlite")
	migrateCmd.Flags().StringVar(&toDSN, "to-dsn", "", "target DSN for postgres")
	migrateCmd.Flags().StringVar(&checkpoint, "checkpoint", "", "file recording the last copied row, for resumable runs")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the configured history into another backend",
	Long: `Copy the configured history into another backend

- Rows are appended in their original order
- Rows with an empty transcript are dropped
- With --checkpoint an interrupted run resumes where it stopped`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cmdutil.Config()
		target := *cfg
		target.History = config.HistoryConfig{
			Backend:     toBackend,
			CSVPath:     cfg.History.CSVPath,
			SQLitePath:  cfg.History.SQLitePath,
			PostgresDSN: toDSN,
			Lock:        config.LockNone,
		}
		switch toBackend {
		case config.HistoryCSV:
			if toPath != "" {
				target.History.CSVPath = toPath
			}
		case config.HistorySQLite:
			if toPath != "" {
				target.History.SQLitePath = toPath
			}
		case config.HistoryPostgres:
			if toDSN == "" {
				return fmt.Errorf("--to-dsn is required for the postgres backend")
			}
		default:
			return fmt.Errorf("unsupported target backend %q", toBackend)
		}
		if sameStore(cfg.History, target.History) {
			return fmt.Errorf("source and target history are the same")
		}

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		from, cleanupFrom, err := app.InitializeHistoryStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanupFrom()

		to, cleanupTo, err := app.InitializeHistoryStore(ctx, &target)
		if err != nil {
			return err
		}
		defer cleanupTo()

		result, err := migrate.Copy(ctx, from, to, checkpoint, cmdutil.Logger())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %d rows, skipped %d empty\n", result.Copied, result.Skipped)
		return nil
	},
}

func sameStore(a, b config.HistoryConfig) bool {
	if a.Backend != b.Backend {
		return false
	}
	switch a.Backend {
	case config.HistoryCSV:
		return a.CSVPath == b.CSVPath
	case config.HistorySQLite:
		return a.SQLitePath == b.SQLitePath
	default:
		return a.PostgresDSN == b.PostgresDSN
	}
}
