package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/prompt"
	"github.com/rmacedo/rotinactl/internal/term"
)

// keysCmd sends named keys to a session, or lists the supported names
var keysCmd = &cobra.Command{
	Use:   "keys [session] [key...]",
	Short: "Send named keys to a session",
	Long: `Send one or more named keys to a terminal session.

Without arguments the supported key names are listed.

Examples:
  rotinactl keys
  rotinactl keys caixa1 enter
  rotinactl keys caixa1 f3 tab enter
  rotinactl keys caixa1 ctrl+c`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			names := term.KeyNames()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			fmt.Println("ctrl+a .. ctrl+z")
			return
		}

		if len(args) < 2 {
			logging.UserError("Usage: rotinactl keys [session] [key...]")
			os.Exit(1)
		}
		session := args[0]

		client, err := ConnectToSession(session)
		if err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer client.Close()

		auto := automation.New(automation.Config{
			Terminal: client,
			Prompter: prompt.NewConsole(),
			Session:  session,
		})

		ctx := context.Background()
		for _, key := range args[1:] {
			if _, ok := term.KeySequence(key); !ok {
				logging.UserError("Unknown key '%s'", key)
				os.Exit(1)
			}
			if err := auto.PressKey(ctx, key); err != nil {
				logging.UserError("Failed to send key '%s': %v", key, err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
