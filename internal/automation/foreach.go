package automation

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ForEachLine reads a file and invokes step for every non-blank trimmed line
// sequentially, re-checking the rotina state before each iteration. Errors
// propagated from a step are wrapped with the originating filename.
func (a *Automator) ForEachLine(ctx context.Context, filename string, step func(ctx context.Context, line string) error) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if err := a.rotina.Check(ctx); err != nil {
			return err
		}
		if err := step(ctx, line); err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
	}
	return nil
}
