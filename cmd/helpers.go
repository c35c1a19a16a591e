package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	// Only read if stdin is explicitly a pipe (not a terminal, not a socket)
	if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// confirmDelete asks before a permanent delete unless --force was given.
func confirmDelete(cmd *cobra.Command, what string) error {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Permanently delete %s?", what)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil || !ok {
		return fmt.Errorf("cancelled")
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339. An empty string yields nil so
// callers can clear a date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
}

// dateFlag returns the parsed value of a date flag and whether it was set.
func dateFlag(cmd *cobra.Command, name string) (*time.Time, bool, error) {
	if !cmd.Flags().Changed(name) {
		return nil, false, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	t, err := parseDate(raw)
	if err != nil {
		return nil, false, fmt.Errorf("--%s: %w", name, err)
	}
	return t, true, nil
}

// stringFlag returns a pointer to the flag value when it was set.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
