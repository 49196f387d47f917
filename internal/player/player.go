// Package player launches the external media player on a stream URL.
package player

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Play spawns the configured player and blocks until it exits. The player's
// stdio is inherited so its own UI and key handling work normally.
func Play(player, streamURL, title string) error {
	if player == "" {
		player = "mpv"
	}
	if _, err := exec.LookPath(player); err != nil {
		return fmt.Errorf("player %q not found in PATH: %w", player, err)
	}

	cmd := buildCommand(player, streamURL, title)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", player, err)
	}
	return nil
}

// buildCommand picks per-player flags for the window title; unknown players
// just get the URL.
func buildCommand(player, streamURL, title string) *exec.Cmd {
	switch {
	case strings.Contains(player, "mpv"):
		return exec.Command(player, "--title="+title, "--force-media-title="+title, streamURL)
	case strings.Contains(player, "vlc"):
		return exec.Command(player, "--meta-title", title, streamURL)
	case strings.Contains(player, "ffplay"):
		return exec.Command(player, "-window_title", title, streamURL)
	default:
		return exec.Command(player, streamURL)
	}
}
