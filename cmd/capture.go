package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/prompt"
)

var captureToClipboard bool // --clipboard

// captureCmd reads a screen region selected by two operator clicks
var captureCmd = &cobra.Command{
	Use:   "capture [session]",
	Short: "Capture a screen region selected by two clicks",
	Long: `Capture a rectangular screen region. The operator clicks two opposite
corners in the terminal window; the text between them is printed, or copied
to the clipboard with --clipboard.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]

		client, err := ConnectToSession(session)
		if err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer client.Close()

		auto := automation.New(automation.Config{
			Terminal:  client,
			Prompter:  prompt.NewConsole(),
			Clipboard: automation.SystemClipboard{},
			Session:   session,
		})

		capture, err := auto.ReadScreenRegion(context.Background())
		if err != nil {
			logging.UserError("Capture failed: %v", err)
			os.Exit(1)
		}
		if capture == nil {
			logging.UserWarn("Capture abandoned")
			os.Exit(1)
		}

		if captureToClipboard {
			if err := (automation.SystemClipboard{}).WriteAll(capture.Text); err != nil {
				logging.UserError("Clipboard write failed: %v", err)
				os.Exit(1)
			}
			logging.Success("Captured region copied to clipboard")
			return
		}
		fmt.Println(capture.Text)
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().BoolVar(&captureToClipboard, "clipboard", false, "copy the captured text to the clipboard")
}
