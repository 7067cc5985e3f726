package cmd

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/prompt"
	"github.com/rmacedo/rotinactl/internal/script"
	"github.com/rmacedo/rotinactl/internal/tui"
)

var (
	runVars      []string // --var key=value
	runEnvFile   string   // --env-file production.env
	runDryRun    bool     // --dry-run
	runTimeout   string   // --timeout 300s
	runStepDelay string   // --step-delay 500ms
	runMonitor   bool     // --monitor
)

// runCmd executes a rotina script against a terminal session
var runCmd = &cobra.Command{
	Use:   "run [session] [script-file]",
	Short: "Execute a rotina script",
	Long: `Execute a rotina script against a terminal session.

Script Format:
  # Variables (bash-style)
  USER=${USER:-admin}

  # Plain lines are typed into the terminal and verified on screen
  $USER

  # Directives drive keys, waits and positioning
  <enter>
  <watch "Login efetuado com sucesso" 10>
  <position "Usuario" after>
  <click 5 20>
  <copy 2 10>
  <wait 2>
  <exit 0>

Examples:
  # Execute a script
  rotinactl run caixa1 consulta.rotina

  # Override variables
  rotinactl run caixa1 consulta.rotina --var USER=admin

  # Load variables from file
  rotinactl run caixa1 consulta.rotina --env-file production.env

  # Validate without touching the terminal
  rotinactl run caixa1 consulta.rotina --dry-run`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		session := args[0]
		scriptFile := args[1]

		logger := logging.NewContextualLogger(session, "run")
		timer := logging.StartTimer("rotina_execution", session)

		logger.Info("Run command started",
			"script_file", scriptFile,
			"dry_run", runDryRun,
			"variables", runVars,
			"env_file", runEnvFile,
			"timeout", runTimeout)

		content, err := os.ReadFile(scriptFile)
		if err != nil {
			logger.Error("Failed to read script file", "file", scriptFile, "error", err)
			timer.StopWithError(err, map[string]any{"stage": "file_read"})
			logging.UserError("Failed to read script file: %v", err)
			os.Exit(1)
		}

		timeout, err := time.ParseDuration(runTimeout)
		if err != nil {
			logging.UserError("Invalid timeout format '%s': %v", runTimeout, err)
			os.Exit(1)
		}
		stepDelay, err := time.ParseDuration(runStepDelay)
		if err != nil {
			logging.UserError("Invalid step delay format '%s': %v", runStepDelay, err)
			os.Exit(1)
		}

		variables := script.NewVariableExpander(nil, nil, nil)
		variables.LoadFromEnvironment()
		if runEnvFile != "" {
			if err := variables.LoadFromFile(runEnvFile); err != nil {
				logging.UserError("Failed to load environment file: %v", err)
				os.Exit(1)
			}
		}
		if err := variables.SetOverrides(runVars); err != nil {
			logging.UserError("Invalid variable override: %v", err)
			os.Exit(1)
		}

		parser := script.NewParser(variables)
		parsed, err := parser.ParseScript(string(content))
		if err != nil {
			logger.Error("Script parsing failed", "error", err)
			timer.StopWithError(err, map[string]any{"stage": "script_parsing"})
			logging.UserError("Script parsing failed: %v", err)
			os.Exit(1)
		}
		parsed.Metadata.Filename = scriptFile

		logger.Info("Script parsed",
			"total_lines", parsed.Metadata.TotalLines,
			"text_lines", parsed.Metadata.TextLines,
			"directive_lines", parsed.Metadata.DirectiveLines,
			"variable_lines", parsed.Metadata.VariableLines)

		execContext := &script.ExecutionContext{
			Session:   session,
			Variables: variables,
			StartTime: time.Now(),
			Timeout:   timeout,
			DryRun:    runDryRun,
		}

		if !runDryRun {
			client, err := ConnectToSession(session)
			if err != nil {
				timer.StopWithError(err, map[string]any{"stage": "bridge_connect"})
				logging.UserError("%v", err)
				os.Exit(1)
			}
			defer client.Close()

			execContext.Automator = automation.New(automation.Config{
				Terminal:  client,
				Prompter:  prompt.NewConsole(),
				Clipboard: automation.SystemClipboard{},
				StepDelay: stepDelay,
				Session:   session,
			})
		}

		executor := script.NewExecutor(execContext)
		executor.SetParser(parser)

		var monitor *tea.Program
		if !runDryRun {
			ctrl := execContext.Automator.Rotina()
			if err := ctrl.Begin(scriptFile); err != nil {
				logging.UserError("%v", err)
				os.Exit(1)
			}
			defer ctrl.Finish()

			if runMonitor {
				// the monitor shares the run's controller, so its pause,
				// resume and stop keys act on this execution
				model := tui.NewModel(session, execContext.Automator.Terminal(), ctrl)
				monitor = tea.NewProgram(model, tea.WithAltScreen())
				go func() {
					if _, err := monitor.Run(); err != nil {
						logger.Error("Monitor stopped", "error", err)
					}
				}()
			}
		}

		result, err := executor.Execute(context.Background(), parsed)
		if monitor != nil {
			monitor.Quit()
			monitor.Wait()
		}
		if err != nil {
			timer.StopWithError(err, map[string]any{"stage": "execution"})
			logging.UserError("Execution failed: %v", err)
			os.Exit(1)
		}

		timer.Stop()
		switch {
		case result.Cancelled:
			logging.UserWarn("Rotina cancelled after %d lines (%v)", result.LinesExecuted, result.Duration)
			os.Exit(2)
		case !result.Success:
			logging.UserError("Rotina failed: %s", result.Error)
			if result.ExitCode != 0 {
				os.Exit(result.ExitCode)
			}
			os.Exit(1)
		default:
			logging.Success("Rotina completed: %d lines in %v", result.LinesExecuted, result.Duration)
			os.Exit(result.ExitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayVar(&runVars, "var", nil, "variable override (key=value, repeatable)")
	runCmd.Flags().StringVar(&runEnvFile, "env-file", "", "load variables from file (KEY=VALUE lines)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "validate the script without executing it")
	runCmd.Flags().StringVar(&runTimeout, "timeout", "300s", "overall execution timeout")
	runCmd.Flags().StringVar(&runStepDelay, "step-delay", "500ms", "delay between scripted actions")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false, "show the interactive monitor while the rotina runs")
}
