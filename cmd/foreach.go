package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/prompt"
)

var foreachKey string // --key enter

// foreachCmd types every line of a file into the session
var foreachCmd = &cobra.Command{
	Use:   "foreach [session] [file]",
	Short: "Type each line of a file into the session",
	Long: `Type each non-empty line of a file into the session, following every
line with the given key (enter by default). Blank lines are skipped and
the rotina state is checked between lines, so the batch can be paused or
stopped from the monitor.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]
		file := args[1]

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

		ctx := context.Background()
		if err := auto.Rotina().Begin(file); err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer auto.Rotina().Finish()

		err = auto.ForEachLine(ctx, file, func(ctx context.Context, line string) error {
			if err := auto.Type(ctx, line, true); err != nil {
				return err
			}
			return auto.PressKey(ctx, foreachKey)
		})
		if err != nil {
			logging.UserError("Batch failed: %v", err)
			os.Exit(1)
		}
		logging.Success("Batch completed")
	},
}

func init() {
	rootCmd.AddCommand(foreachCmd)

	foreachCmd.Flags().StringVar(&foreachKey, "key", "enter", "key sent after each line")
}
