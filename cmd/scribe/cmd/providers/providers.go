package providers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/app/api/provider"
	"recorder-whisper/internal/app/audio"
)

var providerName string

// Cmd represents the providers command
var Cmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect and try the speech-to-text providers",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		current := cmdutil.Config().Transcription.Provider
		for _, name := range provider.ListRegisteredProviders() {
			marker := " "
			if name == current {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <audio file>",
	Short: "Transcribe one file with a provider without touching the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cmdutil.Config()
		name := cfg.Transcription.Provider
		if providerName != "" {
			name = providerName
		}

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("audio file not found: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Audio file: %s (%.2f MB)\n", filepath.Base(path), float64(info.Size())/(1024*1024))

		transcriber, err := provider.Create(name, cfg.Transcription.Language, cfg.Transcription.Settings)
		if err != nil {
			return err
		}

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		prober := audio.NewProber(cfg.Converter.FFprobePath)
		if seconds, err := prober.Duration(ctx, path); err == nil {
			fmt.Fprintf(out, "Duration: %ds\n", seconds)
		}

		wavPath, cleanup, err := audio.EnsureWav(ctx, prober, audio.NewFFmpegConverter(cfg.Converter.FFmpegPath), path, os.TempDir())
		if err != nil {
			return err
		}
		defer cleanup()
		if wavPath != path {
			fmt.Fprintf(out, "Converted to 16kHz mono WAV: %s\n", wavPath)
		}
		path = wavPath

		start := time.Now()
		text, err := transcriber.Transcript(ctx, path)
		if err != nil {
			return fmt.Errorf("%s failed after %v: %w", name, time.Since(start).Round(time.Millisecond), err)
		}
		fmt.Fprintf(out, "Provider %s finished in %v\n", name, time.Since(start).Round(time.Millisecond))
		if text == "" {
			fmt.Fprintln(out, "No speech detected")
			return nil
		}
		fmt.Fprintln(out, text)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&providerName, "provider", "p", "", "provider to use instead of transcription.provider")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(checkCmd)
}
