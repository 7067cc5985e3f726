package cmd

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/tui"
)

// monitorCmd opens the live monitor TUI for a session
var monitorCmd = &cobra.Command{
	Use:   "monitor [session]",
	Short: "Watch a session's screen live",
	Long: `Open a view-only live monitor showing the session's screen buffer.

Rotinas run in their own rotinactl process, so this monitor cannot pause or
stop them; use 'run --monitor' to execute a rotina with the interactive
monitor attached.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]

		client, err := ConnectToSession(session)
		if err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer client.Close()

		model := tui.NewModel(session, client, nil)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			logging.UserError("Monitor failed: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
