package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rmacedo/rotinactl/internal/automation"
	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/rotina"
)

// Execute runs a parsed script line by line. Cancellation through the rotina
// controller stops the run between lines and inside blocking waits; the
// result records it separately from a failure.
func (e *Executor) Execute(ctx context.Context, script *Script) (*ExecutionResult, error) {
	startTime := time.Now()
	result := &ExecutionResult{
		Success:   true,
		Variables: make(map[string]string),
	}

	logger := logging.NewContextualLogger(e.context.Session, "rotina_execution")
	logger.Info("Starting rotina execution",
		"total_lines", len(script.Lines),
		"dry_run", e.context.DryRun,
		"timeout", e.context.Timeout)

	if e.context.DryRun {
		return e.executeDryRun(script, result, startTime)
	}

	auto := e.context.Automator
	for i, line := range script.Lines {
		e.context.CurrentLine = i + 1

		if e.context.Timeout > 0 && time.Since(startTime) > e.context.Timeout {
			result.Success = false
			result.Error = fmt.Sprintf("rotina timed out after %v", e.context.Timeout)
			break
		}

		if line.Type == EmptyLine || line.Type == CommentLine {
			continue
		}

		logger.Debug("Executing line",
			"line_number", line.LineNumber,
			"type", line.Type.String(),
			"content", line.Content)

		if err := e.executeLine(ctx, auto, line, logger); err != nil {
			var exit *ExitError
			if errors.As(err, &exit) {
				result.ExitCode = exit.Code
				result.Success = exit.Code == 0
				if exit.Code != 0 {
					result.Error = fmt.Sprintf("line %d: exit %d", line.LineNumber, exit.Code)
				}
				result.LinesExecuted++
				break
			}
			if rotina.IsCancelled(err) {
				result.Success = false
				result.Cancelled = true
				result.Error = err.Error()
				logger.Info("Rotina cancelled", "line_number", line.LineNumber)
				break
			}

			result.Success = false
			result.Error = fmt.Sprintf("line %d: %s", line.LineNumber, err.Error())
			logger.Error("Line execution failed", "line_number", line.LineNumber, "error", err)
			break
		}

		result.LinesExecuted++
	}

	result.Duration = time.Since(startTime)
	result.Variables = e.context.Variables.GetAllVariables()

	logger.Info("Rotina execution completed",
		"success", result.Success,
		"lines_executed", result.LinesExecuted,
		"duration", result.Duration,
		"exit_code", result.ExitCode)

	return result, nil
}

// executeDryRun validates the script without touching the terminal
func (e *Executor) executeDryRun(script *Script, result *ExecutionResult, startTime time.Time) (*ExecutionResult, error) {
	logger := logging.NewContextualLogger(e.context.Session, "rotina_dry_run")
	logger.Info("Dry run: validating script structure")

	validation := e.parser.ValidateScript(script)
	if len(validation.Errors) > 0 {
		result.Success = false
		result.Error = fmt.Sprintf("script validation failed with %d errors", len(validation.Errors))
		for _, verr := range validation.Errors {
			logger.Error("Validation error",
				"line_number", verr.LineNumber,
				"message", verr.Message,
				"suggestion", verr.Suggestion)
		}
	}
	for _, warning := range validation.Warnings {
		logger.Warn("Validation warning",
			"line_number", warning.LineNumber,
			"message", warning.Message,
			"suggestion", warning.Suggestion)
	}

	for _, line := range script.Lines {
		if line.Type != EmptyLine && line.Type != CommentLine {
			result.LinesExecuted++
		}
	}

	result.Duration = time.Since(startTime)
	result.Variables = e.context.Variables.GetAllVariables()

	logger.Info("Dry run completed",
		"valid", validation.Valid,
		"lines_validated", result.LinesExecuted,
		"variables_used", len(validation.Variables),
		"directives_found", len(validation.Directives))

	return result, nil
}

// executeLine dispatches one parsed line
func (e *Executor) executeLine(ctx context.Context, auto *automation.Automator, line ParsedLine, logger *logging.ContextualLogger) error {
	switch line.Type {
	case TextLine:
		return e.executeTextLine(ctx, auto, line, logger)
	case VariableLine:
		return e.executeVariableLine(line, logger)
	case DirectiveLine:
		return e.executeDirectiveLine(ctx, auto, line, logger)
	default:
		logger.Debug("Skipping line", "type", line.Type.String())
		return nil
	}
}

// executeTextLine types the line into the terminal, verifying the echo
func (e *Executor) executeTextLine(ctx context.Context, auto *automation.Automator, line ParsedLine, logger *logging.ContextualLogger) error {
	text := line.ExpandedText
	if text == "" {
		return nil
	}

	logger.Debug("Typing text", "length", len(text))
	if err := auto.Type(ctx, text, true); err != nil {
		return fmt.Errorf("failed to type text: %w", err)
	}
	return nil
}

func (e *Executor) executeVariableLine(line ParsedLine, logger *logging.ContextualLogger) error {
	if line.Variables == nil {
		return fmt.Errorf("variable line missing variable data")
	}
	for name, value := range line.Variables {
		e.context.Variables.Set(name, value)
		logger.Debug("Set variable", "name", name)
	}
	return nil
}

func (e *Executor) executeDirectiveLine(ctx context.Context, auto *automation.Automator, line ParsedLine, logger *logging.ContextualLogger) error {
	if line.Directive == nil {
		return fmt.Errorf("directive line missing directive data")
	}

	directive := line.Directive
	logger.Debug("Executing directive",
		"type", directive.Type.String(),
		"command", directive.Command)

	switch directive.Type {
	case KeySequence:
		return auto.PressKey(ctx, directive.KeyName)

	case Watch:
		found, err := auto.WaitForCondition(ctx, directive.SearchText, automation.WaitOptions{
			Timeout:        directive.Timeout,
			RaiseOnTimeout: true,
		})
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("watch timeout: text %q not found within %v", directive.SearchText, directive.Timeout)
		}
		logger.Info("Watch condition satisfied", "text", directive.SearchText)
		return nil

	case WaitDelay:
		return auto.Sleep(ctx, directive.Timeout)

	case Position:
		return auto.PositionAt(ctx, directive.Label, automation.PositionOptions{
			Direction: automation.Direction(directive.Direction),
			Offset:    directive.Offset,
		})

	case Click:
		return auto.Click(ctx, directive.Row, directive.Col)

	case Copy:
		return auto.Copy(ctx, directive.CopyArgs...)

	case Exit:
		logger.Info("Rotina exit requested", "exit_code", directive.ExitCode)
		return &ExitError{Code: directive.ExitCode}

	default:
		return fmt.Errorf("unsupported directive type: %s", directive.Type.String())
	}
}

// DefaultTimeout is the execution timeout applied when none is configured
func DefaultTimeout() time.Duration {
	return constants.GetTimeout("rotina")
}
