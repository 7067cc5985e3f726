package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/login"
	"github.com/rmacedo/rotinactl/internal/profile"
	"github.com/rmacedo/rotinactl/internal/prompt"
)

var (
	loginToken     string // --token eyJ...
	loginTokenFile string // --token-file /run/session.jwt
	loginForce     bool   // --force-prompt
	loginWatch     bool   // --watch
)

// loginCmd runs the screen-driven login flow for a session
var loginCmd = &cobra.Command{
	Use:   "login [session]",
	Short: "Run the automated login flow",
	Long: `Watch the session for a login screen and run the automated login flow:
decode the portal session token, prompt for the application and credentials
(or quick-login with a saved password), fill the fields and confirm the
success banner. With --watch the flow keeps monitoring after a login, so
expired-password screens and re-logins are handled too.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]

		client, err := ConnectToSession(session)
		if err != nil {
			logging.UserError("%v", err)
			os.Exit(1)
		}
		defer client.Close()

		console := prompt.NewConsole()
		auto := automation.New(automation.Config{
			Terminal:  client,
			Prompter:  console,
			Clipboard: automation.SystemClipboard{},
			Session:   session,
		})

		banners := login.DefaultBanners()
		if path := GetBannersPath(); path != "" {
			loaded, err := login.LoadBanners(path)
			if err != nil {
				logging.UserWarn("Banner table not loaded, using defaults: %v", err)
			} else {
				banners = loaded
			}
		}

		controller := login.NewController(login.Config{
			Automator:   auto,
			Profiles:    profile.NewStore(GetProfilesPath()),
			Prompter:    console,
			Tokens:      tokenSource(),
			Banners:     banners,
			ForcePrompt: loginForce,
			Session:     session,
		})

		ctx := context.Background()
		if loginWatch {
			if err := controller.Run(ctx); err != nil {
				logging.UserError("Login monitor stopped: %v", err)
				os.Exit(1)
			}
			return
		}

		updates, unsubscribe := client.Updates()
		defer unsubscribe()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for controller.State() != login.LoggedIn {
			select {
			case <-updates:
			case <-ticker.C:
			}
			if err := controller.HandleLoginScreen(ctx); err != nil {
				logging.UserError("Login flow failed: %v", err)
				os.Exit(1)
			}
		}
	},
}

// loginForgetCmd drops a user's cached credentials
var loginForgetCmd = &cobra.Command{
	Use:   "forget [user-id]",
	Short: "Forget a user's cached credentials",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := profile.NewStore(GetProfilesPath())
		if err := store.Forget(args[0]); err != nil {
			logging.UserError("Failed to forget credentials: %v", err)
			os.Exit(1)
		}
		logging.Success("Credentials for %s forgotten", args[0])
	},
}

// tokenSource builds the session-token source from the flags: a literal
// token, a file re-read on every attempt, or the ROTINA_TOKEN variable.
func tokenSource() login.TokenSource {
	if loginToken != "" {
		return func() (string, error) { return loginToken, nil }
	}
	if loginTokenFile != "" {
		return func() (string, error) {
			data, err := os.ReadFile(loginTokenFile)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(data)), nil
		}
	}
	return func() (string, error) {
		return os.Getenv("ROTINA_TOKEN"), nil
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.AddCommand(loginForgetCmd)

	loginCmd.Flags().StringVar(&loginToken, "token", "", "portal session token")
	loginCmd.Flags().StringVar(&loginTokenFile, "token-file", "", "file holding the portal session token")
	loginCmd.Flags().BoolVar(&loginForce, "force-prompt", false, "always prompt even when a saved password exists")
	loginCmd.Flags().BoolVar(&loginWatch, "watch", false, "keep monitoring after a successful login")
}
