// Package login implements the screen-driven login flow state machine: it
// watches the terminal for login and password-change screens, runs the
// multi-step credential entry, caches per-user credentials, and hands the
// session over to the operator when automation cannot proceed.
package login

import (
	"context"
	"fmt"
	"time"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/match"
	"github.com/rmacedo/rotinactl/internal/profile"
)

// State is the login flow state
type State int

const (
	// LoggedOut is the resting state: no flow in progress
	LoggedOut State = iota
	// FlowActive means the automatic flow has started (token acquisition)
	FlowActive
	// AwaitingSystemSelection means the selection modal is with the operator
	AwaitingSystemSelection
	// SubmittingCredentials means fields are being filled and submitted
	SubmittingCredentials
	// LoggedIn means a success banner was confirmed
	LoggedIn
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case FlowActive:
		return "flow_active"
	case AwaitingSystemSelection:
		return "awaiting_system_selection"
	case SubmittingCredentials:
		return "submitting_credentials"
	case LoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Selection is the operator's answer to the system-selection modal
type Selection struct {
	Application string
	User        string
	Pass        string

	// Save persists the credentials for quick-login on success
	Save bool
}

// CredentialPrompter presents the system-selection and password modals.
// quickLogin is true when an enabled cached password allows one-click entry.
// ok=false means the operator dismissed the modal to log in manually.
type CredentialPrompter interface {
	SelectSystem(defaults Selection, quickLogin bool) (Selection, bool)
}

// Messenger is the opaque bridge to the background process, used for cache
// refreshes and cross-module sync after a login.
type Messenger interface {
	Send(action string, payload any)
}

// FieldLabels are the screen labels of the credential fields
type FieldLabels struct {
	Application string
	User        string
	Password    string
}

// DefaultFieldLabels returns the stock host application's field labels
func DefaultFieldLabels() FieldLabels {
	return FieldLabels{Application: "Aplicacao", User: "Usuario", Password: "Senha"}
}

// Config assembles a Controller
type Config struct {
	Automator *automation.Automator
	Profiles  *profile.Store
	Prompter  CredentialPrompter
	Tokens    TokenSource
	Messenger Messenger

	Banners Banners
	Labels  FieldLabels

	// BannerTimeout bounds the wait for the success banner after submitting
	// credentials (default 10s)
	BannerTimeout time.Duration

	// TokenRetries and TokenRetryInterval tune the session-token poll
	TokenRetries       int
	TokenRetryInterval time.Duration

	// ForcePrompt always shows the password modal even when a cached
	// quick-login is available
	ForcePrompt bool

	// OnLoggedIn runs after a confirmed login (menu rebuild, post-login
	// navigation)
	OnLoggedIn func()

	Session string
}

// Controller is the login flow state machine. It is the sole writer of the
// profile store.
type Controller struct {
	auto     *automation.Automator
	profiles *profile.Store
	prompt   CredentialPrompter
	tokens   TokenSource
	bridge   Messenger

	banners Banners
	labels  FieldLabels

	bannerTimeout time.Duration
	tokenRetries  int
	tokenInterval time.Duration

	forcePrompt bool
	onLoggedIn  func()

	state           State
	manualTakeover  bool
	handlingExpired bool
	claims          *TokenClaims

	log *logging.ContextualLogger
}

// NewController creates a login flow controller
func NewController(cfg Config) *Controller {
	banners := cfg.Banners
	if len(banners.LoginScreen) == 0 {
		banners = DefaultBanners()
	}
	labels := cfg.Labels
	if labels.Application == "" {
		labels = DefaultFieldLabels()
	}
	bannerTimeout := cfg.BannerTimeout
	if bannerTimeout <= 0 {
		bannerTimeout = constants.GetTimeout("login")
	}
	retries := cfg.TokenRetries
	if retries <= 0 {
		retries = constants.TokenRetryCount
	}
	interval := cfg.TokenRetryInterval
	if interval <= 0 {
		interval = constants.TokenRetryInterval
	}
	return &Controller{
		auto:          cfg.Automator,
		profiles:      cfg.Profiles,
		prompt:        cfg.Prompter,
		tokens:        cfg.Tokens,
		bridge:        cfg.Messenger,
		banners:       banners,
		labels:        labels,
		bannerTimeout: bannerTimeout,
		tokenRetries:  retries,
		tokenInterval: interval,
		forcePrompt:   cfg.ForcePrompt,
		onLoggedIn:    cfg.OnLoggedIn,
		state:         LoggedOut,
		log:           logging.NewContextualLogger(cfg.Session, "login"),
	}
}

// State returns the current flow state
func (c *Controller) State() State {
	return c.state
}

// ManualTakeover reports whether monitoring is paused for a manual login
func (c *Controller) ManualTakeover() bool {
	return c.manualTakeover
}

// screenHas checks whether every banner in the list appears on screen
func (c *Controller) screenHas(banners []string) bool {
	if len(banners) == 0 {
		return false
	}
	text := c.auto.Reader().FullScreenText()
	ok, err := match.Match(banners, text, match.Options{})
	return err == nil && ok
}

// HandleLoginScreen is the detection step, invoked on every screen-update
// tick. Checks run in priority order: manual-takeover recovery first, then
// the expired-password branch, then the automatic flow trigger.
func (c *Controller) HandleLoginScreen(ctx context.Context) error {
	// (a) paused for manual login: watch for the success banner only
	if c.manualTakeover {
		if c.screenHas(c.banners.LoginSucceeded) {
			c.log.Info("Manual login detected, restoring automation")
			c.manualTakeover = false
			c.handlingExpired = false
			c.state = LoggedIn
			c.auto.Rotina().Resume()
		}
		return nil
	}

	// (b) expired password demands a human; hand the session over
	if c.screenHas(c.banners.PasswordExpired) && !c.handlingExpired {
		return c.handleExpiredPassword(ctx)
	}

	// (c) a fresh login screen starts the automatic flow
	if c.state != LoggedOut {
		return nil
	}
	if !c.screenHas(c.banners.LoginScreen) || c.screenHas(c.banners.PasswordChangeScreen) {
		return nil
	}
	return c.startFlow(ctx)
}

// handleExpiredPassword pauses monitoring and best-effort pre-fills the
// visible fields with the cached credentials so the operator only has to
// choose the new password. The stale password is dropped from the cache and
// auto-login is disabled; monitoring stays paused until the operator
// finishes the change.
func (c *Controller) handleExpiredPassword(ctx context.Context) error {
	c.log.Warn("Password expired banner detected, pausing for manual change")
	c.handlingExpired = true
	c.manualTakeover = true

	// the pause comes after the pre-fill: the positioning primitives run the
	// rotina state check themselves and block while it is paused
	if c.claims != nil {
		if p, ok, err := c.profiles.Get(c.claims.UserID); err == nil && ok && p.User != "" {
			// best effort: positioning failures leave the fields to the human
			if err := c.auto.PositionAt(ctx, c.labels.User, automation.PositionOptions{}); err == nil {
				_ = c.auto.Type(ctx, p.User, true)
			}
			if p.Pass != "" {
				if err := c.auto.PositionAt(ctx, c.labels.Password, automation.PositionOptions{}); err == nil {
					_ = c.auto.Type(ctx, p.Pass, false)
				}
			}
		}

		if err := c.profiles.ClearPassword(c.claims.UserID); err != nil {
			c.log.Error("Failed to clear expired password", "error", err)
		}
	}

	c.auto.Rotina().RequestPause()
	return nil
}

// startFlow acquires and decodes the session token, then presents the
// system-selection modal. Token failures abort the flow with a notification
// instead of an error.
func (c *Controller) startFlow(ctx context.Context) error {
	c.state = FlowActive
	c.log.Info("Login screen detected, starting automatic flow")

	cookie, err := waitForToken(c.tokens, c.tokenRetries, c.tokenInterval)
	if err != nil {
		c.log.Error("Session token unavailable", "error", err)
		logging.UserError("Could not read the portal session; reload the page and try again")
		if c.bridge != nil {
			c.bridge.Send("reloadPage", nil)
		}
		c.state = LoggedOut
		return nil
	}

	claims, err := DecodeSessionToken(cookie)
	if err != nil {
		c.log.Error("Session token rejected", "error", err)
		logging.UserError("Portal session could not be decoded; reload the page and try again")
		c.state = LoggedOut
		return nil
	}
	c.claims = claims
	c.log.Info("Session token decoded", "user", claims.UserID, "unit", claims.UnitCode)

	return c.presentSelection(ctx)
}

// presentSelection shows the system-selection modal, offering cached
// quick-login when an enabled saved password exists.
func (c *Controller) presentSelection(ctx context.Context) error {
	c.state = AwaitingSystemSelection

	defaults := Selection{}
	quickLogin := false
	if p, ok, err := c.profiles.Get(c.claims.UserID); err == nil && ok {
		defaults.User = p.User
		if p.AutoLogin && p.Pass != "" && !c.forcePrompt {
			defaults.Pass = p.Pass
			defaults.Save = true
			quickLogin = true
		}
	}

	sel, ok := c.prompt.SelectSystem(defaults, quickLogin)
	if !ok {
		// operator takes over; watch for the success banner only
		c.log.Info("Operator chose manual login")
		c.manualTakeover = true
		c.state = LoggedOut
		c.auto.Rotina().RequestPause()
		return nil
	}

	return c.HandleSystemSelection(ctx, sel)
}

// HandleSystemSelection fills and submits the credential fields, then waits
// for the success banner. An incorrect-password banner clears the cached
// password and re-opens the selection modal with the quick-login suppressed;
// any other failure surfaces a notification and resumes passive monitoring.
func (c *Controller) HandleSystemSelection(ctx context.Context, sel Selection) error {
	c.state = SubmittingCredentials

	if err := c.fillCredentials(ctx, sel); err != nil {
		return c.submissionFailed(ctx, err)
	}
	if err := c.auto.PressKey(ctx, "enter"); err != nil {
		return c.submissionFailed(ctx, err)
	}

	found, err := c.auto.WaitForCondition(ctx, c.banners.LoginSucceeded, automation.WaitOptions{
		Timeout:        c.bannerTimeout,
		RaiseOnTimeout: true,
	})
	if err != nil || !found {
		if err == nil {
			err = fmt.Errorf("login confirmation banner never appeared")
		}
		return c.submissionFailed(ctx, err)
	}

	return c.loginSucceeded(sel)
}

// fillCredentials positions and types the three credential fields in order.
// Position failures fail immediately with a field-specific message; the
// password is typed without verification so it never echoes into a scan.
func (c *Controller) fillCredentials(ctx context.Context, sel Selection) error {
	if err := c.auto.PositionAt(ctx, c.labels.Application, automation.PositionOptions{}); err != nil {
		return fmt.Errorf("could not reach the %s field: %w", c.labels.Application, err)
	}
	if err := c.auto.Type(ctx, sel.Application, true); err != nil {
		return err
	}

	if err := c.auto.PositionAt(ctx, c.labels.User, automation.PositionOptions{}); err != nil {
		return fmt.Errorf("could not reach the %s field: %w", c.labels.User, err)
	}
	if err := c.auto.Type(ctx, sel.User, true); err != nil {
		return err
	}

	if err := c.auto.PositionAt(ctx, c.labels.Password, automation.PositionOptions{}); err != nil {
		return fmt.Errorf("could not reach the %s field: %w", c.labels.Password, err)
	}
	return c.auto.Type(ctx, sel.Pass, false)
}

// submissionFailed resolves a failed submission: an incorrect-password
// banner funnels the operator back into selection with the bad password
// dropped; anything else resumes passive monitoring.
func (c *Controller) submissionFailed(ctx context.Context, cause error) error {
	if c.screenHas(c.banners.PasswordIncorrect) {
		c.log.Warn("Incorrect password banner detected, clearing cached password")
		if err := c.profiles.ClearPassword(c.claims.UserID); err != nil {
			c.log.Error("Failed to clear cached password", "error", err)
		}
		c.forcePrompt = true
		return c.presentSelection(ctx)
	}

	c.log.Error("Credential submission failed", "error", cause)
	logging.UserError("Login failed: %v", cause)
	c.state = LoggedOut
	return nil
}

// loginSucceeded finalizes the flow: state, credential persistence, cache
// refresh and post-login hooks.
func (c *Controller) loginSucceeded(sel Selection) error {
	c.state = LoggedIn
	c.forcePrompt = false
	logging.Success("Login completed for %s", sel.User)

	if sel.Save {
		err := c.profiles.Update(c.claims.UserID, func(p *profile.Profile) {
			p.User = sel.User
			p.Pass = sel.Pass
			p.AutoLogin = true
			p.AutoLoginPreference = true
			p.TokenData = map[string]any{
				"name": c.claims.Name,
				"rank": c.claims.Rank,
				"unit": c.claims.UnitCode,
			}
		})
		if err != nil {
			c.log.Error("Failed to persist credentials", "error", err)
		}
	}

	if c.bridge != nil {
		c.bridge.Send("refreshRotinaCache", map[string]string{"user": c.claims.UserID})
	}
	if c.onLoggedIn != nil {
		c.onLoggedIn()
	}
	return nil
}

// Run drives the detection step from the screen-update stream plus a slow
// fallback tick, until the context is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	events, unsubscribe := c.auto.Terminal().Updates()
	defer unsubscribe()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-events:
			if err := c.HandleLoginScreen(ctx); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.HandleLoginScreen(ctx); err != nil {
				return err
			}
		}
	}
}
