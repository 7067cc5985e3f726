package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// These variables are set during the build using ldflags
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildTime    = "unknown"
)

var versionShort bool

// formattedBuildTime returns the build time in a readable format
func formattedBuildTime() string {
	if buildTime == "unknown" {
		return buildTime
	}
	if t, err := time.Parse(time.RFC3339, buildTime); err == nil {
		return t.Format("2006-01-02 15:04:05 MST")
	}
	return buildTime
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(buildVersion)
			return
		}

		white := color.New(color.FgWhite)
		white.Printf("Version: ")
		color.New(color.FgCyan, color.Bold).Printf("%s\n", buildVersion)

		white.Printf("Built:   ")
		color.New(color.FgYellow).Printf("%s\n", formattedBuildTime())

		white.Printf("Commit:  ")
		color.New(color.FgGreen).Printf("%s\n", buildCommit)

		white.Printf("OS/Arch: ")
		color.New(color.FgMagenta).Printf("%s/%s\n", runtime.GOOS, runtime.GOARCH)

		white.Printf("Go:      ")
		color.New(color.FgRed).Printf("%s\n", runtime.Version())
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "n", false, "Print only version number")
	rootCmd.AddCommand(versionCmd)
}
