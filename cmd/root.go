package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/term"
)

var (
	cfgFile      string
	logLevel     string
	socketPath   string
	profilesPath string
	bannersPath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rotinactl",
	Short: "Rotinactl automates text-terminal sessions",
	Long: `Rotinactl attaches to a character-grid terminal session and drives it
programmatically: it reads the screen buffer, waits for text to appear,
types, presses keys, clicks, and runs user-authored rotina scripts with
pause, resume and stop control.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel == "" {
			logLevel = "info"
		}
		logging.InitWithLevel(logLevel)

		logging.Debug("Logging initialized", "level", logLevel)
		logging.Debug("Using socket path", "path", GetSocketPath())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rotinactl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&socketPath, "socket", "s", "", "terminal bridge socket path")
	rootCmd.PersistentFlags().StringVar(&profilesPath, "profiles", "", "profile store file (default is $HOME/.rotinactl-profiles.json)")
	rootCmd.PersistentFlags().StringVar(&bannersPath, "banners", "", "banner table file (yaml)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
	viper.BindPFlag("profiles", rootCmd.PersistentFlags().Lookup("profiles"))
	viper.BindPFlag("banners", rootCmd.PersistentFlags().Lookup("banners"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("ROTINA")
	viper.AutomaticEnv()

	viper.SetDefault("log_level", "info")
	viper.SetDefault("socket", "")
	viper.SetDefault("profiles", "")
	viper.SetDefault("banners", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath("/etc/rotinactl")

		viper.SetConfigType("yaml")
		viper.SetConfigName(".rotinactl")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
		// no config file is fine, defaults and env vars apply
	}

	if logLevel == "" {
		logLevel = viper.GetString("log_level")
	}
	socketPath = viper.GetString("socket")
	profilesPath = viper.GetString("profiles")
	bannersPath = viper.GetString("banners")
}

// GetSocketPath returns the bridge socket path from flag, env var or config
func GetSocketPath() string {
	if socketPath != "" {
		return socketPath
	}
	return viper.GetString("socket")
}

// GetProfilesPath returns the profile store path, defaulting under $HOME
func GetProfilesPath() string {
	if profilesPath != "" {
		return profilesPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".rotinactl-profiles.json")
	}
	return ".rotinactl-profiles.json"
}

// GetBannersPath returns the banner table path, empty when unset
func GetBannersPath() string {
	return bannersPath
}

// ConnectToSession attaches to the terminal bridge for the given session id
func ConnectToSession(session string) (*term.Client, error) {
	socket := GetSocketPath()
	if socket == "" {
		return nil, fmt.Errorf("no terminal bridge socket configured (use --socket or ROTINA_SOCKET)")
	}

	var client *term.Client
	err := logging.LogOperation("bridge_connect", session, func() error {
		client = term.NewClient(session, socket)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("error attaching to session %s: %w", session, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
