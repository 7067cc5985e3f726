package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rmacedo/rotinactl/internal/term"
)

// Line classification patterns
var (
	commentRegex   = regexp.MustCompile(`^\s*#`)
	emptyLineRegex = regexp.MustCompile(`^\s*$`)
	directiveRegex = regexp.MustCompile(`^<(.+)>$`)

	// Directive content patterns
	watchRegex    = regexp.MustCompile(`^watch\s+"([^"]+)"\s+(\d+)s?$`)
	waitRegex     = regexp.MustCompile(`^wait\s+(\d+)s?$`)
	exitRegex     = regexp.MustCompile(`^exit\s+(\d+)$`)
	positionRegex = regexp.MustCompile(`^position\s+"([^"]+)"(?:\s+(before|after|above|below))?(?:\s+(\d+))?$`)
	clickRegex    = regexp.MustCompile(`^click\s+(\d+)\s+(\d+)$`)
	copyRegex     = regexp.MustCompile(`^copy((?:\s+\d+)*)$`)
)

// ParseScript parses a complete script file
func (p *Parser) ParseScript(content string) (*Script, error) {
	lines := strings.Split(content, "\n")
	script := &Script{
		Variables: make(map[string]string),
		Lines:     make([]ParsedLine, 0, len(lines)),
	}
	script.Metadata.TotalLines = len(lines)
	script.Metadata.ParsedAt = time.Now()

	for i, line := range lines {
		p.currentLine = i + 1

		parsed, err := p.ParseLine(line, i+1)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		switch parsed.Type {
		case TextLine:
			script.Metadata.TextLines++
		case DirectiveLine:
			script.Metadata.DirectiveLines++
		case VariableLine:
			script.Metadata.VariableLines++
		}

		if parsed.Type == VariableLine {
			for name, value := range parsed.Variables {
				script.Variables[name] = value
				p.variables.Set(name, value)
			}
		}

		script.Lines = append(script.Lines, parsed)
	}

	script.Metadata.Variables = p.collectVariables(script)
	return script, nil
}

// ParseLine classifies and parses a single line
func (p *Parser) ParseLine(line string, lineNumber int) (ParsedLine, error) {
	trimmed := strings.TrimSpace(line)
	parsed := ParsedLine{
		LineNumber:   lineNumber,
		OriginalText: line,
		Content:      trimmed,
	}
	parsed.Type = p.classifyLine(trimmed)

	switch parsed.Type {
	case VariableLine:
		if err := p.parseVariableLine(&parsed); err != nil {
			return parsed, err
		}

	case DirectiveLine:
		if err := p.parseDirectiveLine(&parsed); err != nil {
			return parsed, err
		}

	case TextLine:
		expanded, err := p.variables.Expand(trimmed)
		if err != nil {
			return parsed, fmt.Errorf("variable expansion failed: %w", err)
		}
		parsed.ExpandedText = expanded

	case CommentLine, EmptyLine:
		parsed.ExpandedText = trimmed
	}

	return parsed, nil
}

// classifyLine determines the type of a script line
func (p *Parser) classifyLine(line string) LineType {
	if emptyLineRegex.MatchString(line) {
		return EmptyLine
	}
	if commentRegex.MatchString(line) {
		return CommentLine
	}
	if assignmentPattern.MatchString(line) {
		return VariableLine
	}
	if directiveRegex.MatchString(line) {
		return DirectiveLine
	}
	return TextLine
}

func (p *Parser) parseVariableLine(parsed *ParsedLine) error {
	name, value, ok := p.variables.ParseAssignment(parsed.Content)
	if !ok {
		return fmt.Errorf("invalid variable assignment: %s", parsed.Content)
	}
	parsed.Variables = map[string]string{name: value}
	parsed.ExpandedText = fmt.Sprintf("%s=%s", name, value)
	return nil
}

func (p *Parser) parseDirectiveLine(parsed *ParsedLine) error {
	matches := directiveRegex.FindStringSubmatch(parsed.Content)
	if len(matches) < 2 {
		return fmt.Errorf("invalid directive format: %s", parsed.Content)
	}

	content := strings.TrimSpace(matches[1])
	directive := &Directive{Command: content}
	if err := p.parseDirectiveContent(directive, content); err != nil {
		return fmt.Errorf("failed to parse directive: %w", err)
	}

	// expand variables inside search texts and labels
	if directive.SearchText != "" {
		expanded, err := p.variables.Expand(directive.SearchText)
		if err != nil {
			return fmt.Errorf("variable expansion in directive failed: %w", err)
		}
		directive.SearchText = expanded
	}
	if directive.Label != "" {
		expanded, err := p.variables.Expand(directive.Label)
		if err != nil {
			return fmt.Errorf("variable expansion in directive failed: %w", err)
		}
		directive.Label = expanded
	}

	parsed.Directive = directive
	parsed.ExpandedText = fmt.Sprintf("<%s>", directive.Command)
	return nil
}

// parseDirectiveContent dispatches on the directive's shape
func (p *Parser) parseDirectiveContent(directive *Directive, content string) error {
	if _, ok := term.KeySequence(content); ok {
		directive.Type = KeySequence
		directive.KeyName = content
		return nil
	}

	if m := watchRegex.FindStringSubmatch(content); m != nil {
		directive.Type = Watch
		directive.SearchText = m[1]
		seconds, err := strconv.Atoi(m[2])
		if err != nil {
			return fmt.Errorf("invalid watch timeout: %s", m[2])
		}
		directive.Timeout = time.Duration(seconds) * time.Second
		return nil
	}

	if m := waitRegex.FindStringSubmatch(content); m != nil {
		directive.Type = WaitDelay
		seconds, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("invalid wait duration: %s", m[1])
		}
		directive.Timeout = time.Duration(seconds) * time.Second
		return nil
	}

	if m := exitRegex.FindStringSubmatch(content); m != nil {
		directive.Type = Exit
		code, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("invalid exit code: %s", m[1])
		}
		directive.ExitCode = code
		return nil
	}

	if m := positionRegex.FindStringSubmatch(content); m != nil {
		directive.Type = Position
		directive.Label = m[1]
		directive.Direction = m[2]
		if directive.Direction == "" {
			directive.Direction = "after"
		}
		if m[3] != "" {
			offset, err := strconv.Atoi(m[3])
			if err != nil {
				return fmt.Errorf("invalid position offset: %s", m[3])
			}
			directive.Offset = offset
		}
		return nil
	}

	if m := clickRegex.FindStringSubmatch(content); m != nil {
		directive.Type = Click
		row, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("invalid click row: %s", m[1])
		}
		col, err := strconv.Atoi(m[2])
		if err != nil {
			return fmt.Errorf("invalid click column: %s", m[2])
		}
		directive.Row = row
		directive.Col = col
		return nil
	}

	if m := copyRegex.FindStringSubmatch(content); m != nil {
		directive.Type = Copy
		for _, field := range strings.Fields(m[1]) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return fmt.Errorf("invalid copy argument: %s", field)
			}
			directive.CopyArgs = append(directive.CopyArgs, n)
		}
		return nil
	}

	return fmt.Errorf("unknown directive: %s", content)
}

// collectVariables extracts every variable name the script references
func (p *Parser) collectVariables(script *Script) []string {
	seen := make(map[string]bool)
	var names []string

	record := func(text string) {
		for _, v := range UsedVariables(text) {
			if !seen[v] {
				names = append(names, v)
				seen[v] = true
			}
		}
	}

	for _, line := range script.Lines {
		record(line.OriginalText)
		if line.Directive != nil {
			record(line.Directive.SearchText)
			record(line.Directive.Label)
		}
	}
	return names
}

// ValidateScript checks a parsed script for structural problems and
// undefined variables.
func (p *Parser) ValidateScript(script *Script) ValidationResult {
	result := ValidationResult{
		Valid:     true,
		Variables: script.Metadata.Variables,
	}

	directiveSet := make(map[string]bool)
	for _, line := range script.Lines {
		if line.Directive != nil {
			name := line.Directive.Type.String()
			if !directiveSet[name] {
				result.Directives = append(result.Directives, name)
				directiveSet[name] = true
			}
		}

		if line.Type == DirectiveLine && line.Directive == nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				LineNumber: line.LineNumber,
				Type:       "error",
				Message:    "Directive line missing directive data",
				Suggestion: "Check directive syntax",
			})
		}

		for _, varName := range UsedVariables(line.OriginalText) {
			if _, ok := p.variables.Get(varName); !ok {
				result.Warnings = append(result.Warnings, ValidationError{
					LineNumber: line.LineNumber,
					Type:       "warning",
					Message:    fmt.Sprintf("Variable '%s' is not defined", varName),
					Suggestion: fmt.Sprintf("Define '%s' or set it via --var %s=value", varName, varName),
				})
			}
		}
	}

	return result
}
