package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/prompt"
)

// copyCmd copies screen content to the system clipboard
var copyCmd = &cobra.Command{
	Use:   "copy [session] [args...]",
	Short: "Copy screen content to the clipboard",
	Long: `Copy screen content to the system clipboard.

The numeric arguments select the region, matching the <copy> directive:
  (none)            full screen, right-trimmed
  line              one line
  line col          one line from a column to the end
  r1 c1 r2 c2       a rectangular block

Examples:
  rotinactl copy caixa1
  rotinactl copy caixa1 5
  rotinactl copy caixa1 5 20
  rotinactl copy caixa1 2 10 8 40`,
	Args: cobra.RangeArgs(1, 5),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]

		var copyArgs []int
		for _, raw := range args[1:] {
			n, err := strconv.Atoi(raw)
			if err != nil {
				logging.UserError("Invalid copy argument '%s': %v", raw, err)
				os.Exit(1)
			}
			copyArgs = append(copyArgs, n)
		}

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

		if err := auto.Copy(context.Background(), copyArgs...); err != nil {
			logging.UserError("Copy failed: %v", err)
			os.Exit(1)
		}
		logging.Success("Copied to clipboard")
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
