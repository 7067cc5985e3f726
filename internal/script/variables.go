package script

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Bash-compatible expansion patterns
var (
	// $VAR or ${VAR}; numeric names allowed for positional parameters
	simpleVarPattern = regexp.MustCompile(`\$([A-Za-z0-9_][A-Za-z0-9_]*)|\$\{([A-Za-z0-9_][A-Za-z0-9_]*)\}`)

	// ${VAR:-default} - use default if VAR is unset or empty
	defaultPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_][A-Za-z0-9_]*):-(.*?)\}`)

	// ${VAR:=default} - set VAR to default if unset or empty, then use value
	assignDefaultPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_][A-Za-z0-9_]*):=([^}]*)\}`)

	// ${VAR:+value} - use value if VAR is set and non-empty
	conditionalPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_][A-Za-z0-9_]*):\+([^}]*)\}`)

	// VAR=value; assignments must not start with a digit
	assignmentPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

	variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// VariableExpander performs bash-style variable expansion with the
// precedence overrides > script variables > environment.
type VariableExpander struct {
	environment map[string]string
	variables   map[string]string
	overrides   map[string]string
}

// NewVariableExpander creates an expander from the given variable sources
func NewVariableExpander(env, vars, overrides map[string]string) *VariableExpander {
	return &VariableExpander{
		environment: env,
		variables:   vars,
		overrides:   overrides,
	}
}

// Get retrieves a variable, honoring source precedence
func (ve *VariableExpander) Get(name string) (string, bool) {
	if value, ok := ve.overrides[name]; ok {
		return value, true
	}
	if value, ok := ve.variables[name]; ok {
		return value, true
	}
	if value, ok := ve.environment[name]; ok {
		return value, true
	}
	return "", false
}

// Set stores a script-level variable
func (ve *VariableExpander) Set(name, value string) {
	if ve.variables == nil {
		ve.variables = make(map[string]string)
	}
	ve.variables[name] = value
}

// Expand substitutes variable references in text. Undefined variables expand
// to the empty string, matching bash.
func (ve *VariableExpander) Expand(text string) (string, error) {
	// shield escaped dollars from the passes below
	result := strings.ReplaceAll(text, `\$`, "\x00")

	result = conditionalPattern.ReplaceAllStringFunc(result, func(match string) string {
		m := conditionalPattern.FindStringSubmatch(match)
		if value, ok := ve.Get(m[1]); ok && value != "" {
			return ve.expandValue(m[2])
		}
		return ""
	})

	result = assignDefaultPattern.ReplaceAllStringFunc(result, func(match string) string {
		m := assignDefaultPattern.FindStringSubmatch(match)
		if value, ok := ve.Get(m[1]); ok && value != "" {
			return value
		}
		expanded := ve.expandValue(m[2])
		ve.Set(m[1], expanded)
		return expanded
	})

	result = defaultPattern.ReplaceAllStringFunc(result, func(match string) string {
		m := defaultPattern.FindStringSubmatch(match)
		if value, ok := ve.Get(m[1]); ok && value != "" {
			return value
		}
		return ve.expandValue(m[2])
	})

	result = simpleVarPattern.ReplaceAllStringFunc(result, func(match string) string {
		m := simpleVarPattern.FindStringSubmatch(match)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if value, ok := ve.Get(name); ok {
			return value
		}
		return ""
	})

	return strings.ReplaceAll(result, "\x00", "$"), nil
}

// expandValue expands nested references inside a default or fallback value
func (ve *VariableExpander) expandValue(value string) string {
	expanded, err := ve.Expand(value)
	if err != nil {
		return value
	}
	return expanded
}

// ParseAssignment splits a VAR=value line, expanding the value in the
// current variable context.
func (ve *VariableExpander) ParseAssignment(line string) (name, value string, isAssignment bool) {
	m := assignmentPattern.FindStringSubmatch(strings.TrimSpace(line))
	if len(m) < 3 {
		return "", "", false
	}
	expanded, err := ve.Expand(m[2])
	if err != nil {
		expanded = m[2]
	}
	return m[1], expanded, true
}

// LoadFromEnvironment imports the process environment
func (ve *VariableExpander) LoadFromEnvironment() {
	if ve.environment == nil {
		ve.environment = make(map[string]string)
	}
	for _, env := range os.Environ() {
		if name, value, ok := strings.Cut(env, "="); ok {
			ve.environment[name] = value
		}
	}
}

// LoadFromFile imports KEY=VALUE lines from a file, skipping blanks and
// comments.
func (ve *VariableExpander) LoadFromFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read variable file %s: %w", filename, err)
	}

	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := ve.ParseAssignment(line)
		if !ok {
			return fmt.Errorf("invalid assignment on line %d: %s", i+1, line)
		}
		ve.Set(name, value)
	}
	return nil
}

// SetOverrides installs key=value command-line overrides
func (ve *VariableExpander) SetOverrides(overrides []string) error {
	if ve.overrides == nil {
		ve.overrides = make(map[string]string)
	}
	for _, override := range overrides {
		name, value, ok := strings.Cut(override, "=")
		if !ok {
			return fmt.Errorf("invalid variable override format: %s (expected key=value)", override)
		}
		name = strings.TrimSpace(name)
		if !variableNamePattern.MatchString(name) {
			return fmt.Errorf("invalid variable name: %s", name)
		}
		ve.overrides[name] = strings.TrimSpace(value)
	}
	return nil
}

// GetAllVariables merges every source with override precedence applied
func (ve *VariableExpander) GetAllVariables() map[string]string {
	result := make(map[string]string)
	for k, v := range ve.environment {
		result[k] = v
	}
	for k, v := range ve.variables {
		result[k] = v
	}
	for k, v := range ve.overrides {
		result[k] = v
	}
	return result
}

// UsedVariables lists the variable names referenced in text
func UsedVariables(text string) []string {
	var variables []string
	seen := make(map[string]bool)
	record := func(name string) {
		if name != "" && !seen[name] {
			variables = append(variables, name)
			seen[name] = true
		}
	}

	for _, m := range simpleVarPattern.FindAllStringSubmatch(text, -1) {
		record(m[1])
		record(m[2])
	}
	for _, pattern := range []*regexp.Regexp{defaultPattern, assignDefaultPattern, conditionalPattern} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			record(m[1])
		}
	}
	return variables
}
