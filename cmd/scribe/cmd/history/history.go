package history

import (
	"github.com/spf13/cobra"
)

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List, export or migrate the transcription history",
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(migrateCmd)
}
