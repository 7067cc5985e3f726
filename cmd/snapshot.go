package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/render"
)

var snapshotOutput string // --output screen.ppm

// snapshotCmd saves the session's screen buffer as a PPM image
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [session]",
	Short: "Save the screen buffer as a PPM image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]

		client, err := ConnectToSession(session)
		if err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer client.Close()

		err = logging.LogOperation("snapshot", session, func() error {
			return render.SaveSnapshot(snapshotOutput, client)
		})
		if err != nil {
			logging.UserError("Snapshot failed: %v", err)
			os.Exit(1)
		}
		logging.Success("Snapshot written to %s", snapshotOutput)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "screen.ppm", "output file")
}
