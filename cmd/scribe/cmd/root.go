package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/cmd/scribe/cmd/history"
	"recorder-whisper/cmd/scribe/cmd/providers"
	"recorder-whisper/cmd/scribe/cmd/serve"
	"recorder-whisper/cmd/scribe/cmd/transcribe"
	"recorder-whisper/cmd/scribe/cmd/version"
	"recorder-whisper/cmd/scribe/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Record or upload audio and turn it into text",
	Long: `Record or upload audio and turn it into text.

- serve runs the recorder page, the JSON API and /metrics
- transcribe runs the same pipeline over local files, optionally through Temporal
- history lists, exports and migrates the transcription history`,
	TraverseChildren: true,
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.Setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Teardown()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(providers.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&cmdutil.ConfigPath, "config", "c", "", "config file (default $SCRIBE_CONFIG, then built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&cmdutil.Verbose, "verbose", "V", false, "verbose output")
}
