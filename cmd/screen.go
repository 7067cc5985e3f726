package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/screen"
)

var (
	screenLine   int   // --line 5
	screenBlock  []int // --block 2 10 8 40
	screenFields bool  // --fields
)

// screenCmd prints the current screen buffer of a session
var screenCmd = &cobra.Command{
	Use:   "screen [session]",
	Short: "Read the session's screen buffer",
	Long: `Read the session's screen buffer and print it as text.

Examples:
  # Full screen
  rotinactl screen caixa1

  # A single line (1-based)
  rotinactl screen caixa1 --line 5

  # A rectangular block: rowStart rowEnd colStart colEnd
  rotinactl screen caixa1 --block 2 8 10 40

  # Only the digitable input fields
  rotinactl screen caixa1 --fields`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]

		client, err := ConnectToSession(session)
		if err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer client.Close()

		reader := screen.NewReader(client)

		switch {
		case screenFields:
			fmt.Println(reader.FieldsText())

		case screenLine > 0:
			text, err := reader.LineText(screenLine)
			if err != nil {
				logging.UserError("%v", err)
				os.Exit(1)
			}
			fmt.Println(text)

		case len(screenBlock) > 0:
			if len(screenBlock) != 4 {
				logging.UserError("--block needs exactly 4 values: rowStart rowEnd colStart colEnd")
				os.Exit(1)
			}
			fmt.Println(reader.BlockText(screenBlock[0], screenBlock[1], screenBlock[2], screenBlock[3]))

		default:
			fmt.Println(reader.FullScreenText())
		}
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().IntVar(&screenLine, "line", 0, "read a single line (1-based)")
	screenCmd.Flags().IntSliceVar(&screenBlock, "block", nil, "read a block: rowStart,rowEnd,colStart,colEnd")
	screenCmd.Flags().BoolVar(&screenFields, "fields", false, "read only the digitable input fields")
}
