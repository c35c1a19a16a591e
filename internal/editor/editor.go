// Package editor hands a file to the user's editor and waits for it to exit.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// argv splits $VISUAL or $EDITOR on whitespace so values such as
// "code --wait" work. Falls back to vi.
func argv() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// Command builds the editor invocation for path, attached to the terminal.
func Command(path string) *exec.Cmd {
	args := argv()
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func Open(path string) error {
	cmd := Command(path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", strings.Join(cmd.Args[:len(cmd.Args)-1], " "), err)
	}
	return nil
}
