package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/api/v1/services"
	"recorder-whisper/internal/app"
	"recorder-whisper/internal/app/util/files"
)

var format string
var outputFilePath string

func init() {
	exportCmd.Flags().StringVarP(&format, "format", "f", "", "csv, xlsx or json (default from the output extension)")
	exportCmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "set output file path")

	exportCmd.MarkFlagRequired("output")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole history to csv, excel or json",
	RunE: func(cmd *cobra.Command, args []string) error {
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outputFilePath)), ".")
		}
		switch format {
		case services.FormatCSV, services.FormatXLSX, services.FormatJSON:
		default:
			return fmt.Errorf("unsupported export format %q: use csv, xlsx or json", format)
		}

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		store, cleanup, err := app.InitializeHistoryStore(ctx, cmdutil.Config())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := files.EnsureDir(filepath.Dir(outputFilePath)); err != nil {
			return err
		}
		f, err := os.Create(outputFilePath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputFilePath, err)
		}

		err = services.NewHistoryService(store).ExportHistory(ctx, format, f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(outputFilePath)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
