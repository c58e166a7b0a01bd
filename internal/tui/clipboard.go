package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard command available")

// clipboardCommands are tried in order when none is configured.
var clipboardCommands = []string{
	"wl-copy",
	"xclip -selection clipboard",
	"xsel --clipboard --input",
}

// copyText pipes text into the clipboard command.
func copyText(text, configured string) error {
	args := strings.Fields(detectClipboardCommand(configured))
	if len(args) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// detectClipboardCommand returns configured, or the first known clipboard
// command found on PATH.
func detectClipboardCommand(configured string) string {
	if configured != "" {
		return configured
	}
	for _, candidate := range clipboardCommands {
		name, _, _ := strings.Cut(candidate, " ")
		if _, err := exec.LookPath(name); err == nil {
			return candidate
		}
	}
	return ""
}
