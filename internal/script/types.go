// Package script implements the rotina script format: plain text lines are
// typed into the terminal, angle-bracket directives drive keys, waits,
// positioning, clicks and clipboard copies, and bash-style variables
// parameterize both.
package script

import (
	"time"

	"github.com/rmacedo/rotinactl/internal/automation"
)

// LineType classifies a script line
type LineType int

const (
	TextLine     LineType = iota // typed into the terminal (most common)
	VariableLine                 // USER=value, USER=${USER:-default}
	DirectiveLine                // <enter>, <watch "text" 30s>
	CommentLine                  // lines starting with #
	EmptyLine                    // empty or whitespace-only
)

// String returns a human-readable representation of the LineType
func (lt LineType) String() string {
	switch lt {
	case TextLine:
		return "text"
	case VariableLine:
		return "variable"
	case DirectiveLine:
		return "directive"
	case CommentLine:
		return "comment"
	case EmptyLine:
		return "empty"
	default:
		return "unknown"
	}
}

// DirectiveType identifies a script directive
type DirectiveType int

const (
	KeySequence DirectiveType = iota // <enter>, <tab>, <ctrl+c>
	Watch                           // <watch "text" 30s>
	WaitDelay                       // <wait 5s>
	Position                        // <position "Usuario" after 1>
	Click                           // <click 5 10>
	Copy                            // <copy>, <copy 5>, <copy 2 10 8 40>
	Exit                            // <exit 1>
)

// String returns a human-readable representation of the DirectiveType
func (dt DirectiveType) String() string {
	switch dt {
	case KeySequence:
		return "key_sequence"
	case Watch:
		return "watch"
	case WaitDelay:
		return "wait"
	case Position:
		return "position"
	case Click:
		return "click"
	case Copy:
		return "copy"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Directive is a parsed script directive
type Directive struct {
	Type       DirectiveType `json:"type"`
	Command    string        `json:"command"` // raw directive text
	SearchText string        `json:"search_text,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty"`
	ExitCode   int           `json:"exit_code,omitempty"`
	KeyName    string        `json:"key_name,omitempty"`

	// Position fields
	Label     string `json:"label,omitempty"`
	Direction string `json:"direction,omitempty"`
	Offset    int    `json:"offset,omitempty"`

	// Click coordinates (1-based)
	Row int `json:"row,omitempty"`
	Col int `json:"col,omitempty"`

	// Copy arguments, passed through verbatim
	CopyArgs []int `json:"copy_args,omitempty"`
}

// ParsedLine is a single classified line of a script file
type ParsedLine struct {
	Type         LineType          `json:"type"`
	LineNumber   int               `json:"line_number"`
	OriginalText string            `json:"original_text"`
	Content      string            `json:"content"`
	Variables    map[string]string `json:"variables,omitempty"`
	Directive    *Directive        `json:"directive,omitempty"`
	ExpandedText string            `json:"expanded_text"`
}

// Script is a complete parsed rotina script
type Script struct {
	Lines     []ParsedLine      `json:"lines"`
	Variables map[string]string `json:"variables"`
	Metadata  ScriptMetadata    `json:"metadata"`
}

// ScriptMetadata describes a parsed script
type ScriptMetadata struct {
	Filename       string    `json:"filename"`
	TotalLines     int       `json:"total_lines"`
	TextLines      int       `json:"text_lines"`
	DirectiveLines int       `json:"directive_lines"`
	VariableLines  int       `json:"variable_lines"`
	ParsedAt       time.Time `json:"parsed_at"`
	Variables      []string  `json:"variables"`
}

// ExecutionContext holds the runtime context for a script run
type ExecutionContext struct {
	Automator   *automation.Automator `json:"-"`
	Session     string                `json:"session"`
	Variables   *VariableExpander     `json:"-"`
	CurrentLine int                   `json:"current_line"`
	StartTime   time.Time             `json:"start_time"`
	Timeout     time.Duration         `json:"timeout"`
	DryRun      bool                  `json:"dry_run"`
}

// Parser classifies and parses script lines
type Parser struct {
	variables   *VariableExpander
	currentLine int
}

// NewParser creates a script parser
func NewParser(variables *VariableExpander) *Parser {
	return &Parser{variables: variables}
}

// Executor runs parsed scripts against an Automator
type Executor struct {
	context *ExecutionContext
	parser  *Parser
}

// NewExecutor creates a script executor
func NewExecutor(context *ExecutionContext) *Executor {
	return &Executor{context: context}
}

// SetParser sets the parser used for dry-run validation
func (e *Executor) SetParser(parser *Parser) {
	e.parser = parser
}

// ExecutionResult summarizes a script run
type ExecutionResult struct {
	Success       bool              `json:"success"`
	LinesExecuted int               `json:"lines_executed"`
	Duration      time.Duration     `json:"duration"`
	ExitCode      int               `json:"exit_code"`
	Cancelled     bool              `json:"cancelled"`
	Error         string            `json:"error,omitempty"`
	Variables     map[string]string `json:"final_variables"`
}

// ValidationResult reports script validation findings
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Errors     []ValidationError `json:"errors,omitempty"`
	Warnings   []ValidationError `json:"warnings,omitempty"`
	Variables  []string          `json:"variables"`
	Directives []string          `json:"directives"`
}

// ValidationError is a single validation error or warning
type ValidationError struct {
	LineNumber int    `json:"line_number"`
	Type       string `json:"type"` // "error" or "warning"
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ExitError carries an <exit n> directive's code out of the run loop
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "script exit requested"
}
