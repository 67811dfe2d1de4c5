package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// errNoFzf is returned when fzf is not installed or disabled.
var errNoFzf = errors.New("fzf not available")

// fzfAvailable reports whether fzf is on PATH. UPSCALE_NO_FZF=1 disables it.
func fzfAvailable() bool {
	if os.Getenv("UPSCALE_NO_FZF") == "1" {
		return false
	}
	_, err := exec.LookPath("fzf")
	return err == nil
}

// previewCommand picks an fzf --preview command for the detected terminal.
// {} is replaced by fzf with the highlighted line.
func previewCommand() string {
	const chafa = "chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	switch {
	case isKitty():
		return `printf "\x1b_Ga=d\x1b\\"; kitty +kitten icat --silent {} 2>/dev/null || ` + chafa
	case isInlineImageCapable():
		return "imgcat {} 2>/dev/null || " + chafa
	case isSixelCapable():
		return "img2sixel {} 2>/dev/null || " + chafa
	}
	return chafa
}

// selectWithFzf runs fzf over lines and returns the selected line. dir is
// the working directory, so file previews resolve relative names.
func selectWithFzf(lines []string, prompt, dir string, preview bool) (string, error) {
	if !fzfAvailable() {
		return "", errNoFzf
	}
	args := []string{"--height", "100%", "--border", "--ansi", "--prompt=" + prompt + "> "}
	if preview {
		args = append(args, "--preview="+previewCommand(), "--preview-window=right:60%")
	}
	cmd := exec.Command("fzf", args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	cmd.Stderr = os.Stderr
	var out bytes.Buffer
	cmd.Stdout = &out

	err := cmd.Run()
	if preview {
		clearKittyImages(os.Stdout)
	}
	if err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}
	sel := strings.TrimSpace(out.String())
	if sel == "" {
		return "", errCancelled
	}
	return sel, nil
}

// clearKittyImages deletes images left behind by the previewer. Terminals
// without the kitty protocol ignore the sequence.
func clearKittyImages(w io.Writer) {
	fmt.Fprint(w, "\x1b_Ga=d\x1b\\")
}
