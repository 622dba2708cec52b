// Package detector picks the output mode from the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for a run.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI shows an interactive terminal UI.
	ModeTUI
	// ModeLinear prints colored, target-prefixed progress lines.
	ModeLinear
	// ModePlain prints the linear output without ANSI escapes.
	ModePlain
	// ModeQuiet prints only the output of failed targets.
	ModeQuiet
)

// String returns the mode name as accepted by --output-mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	case ModePlain:
		return "plain"
	case ModeQuiet:
		return "quiet"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode.
// Interactive terminals get the TUI, CI logs get colored lines and output redirected
// anywhere else is plain.
func DetectEnvironment() OutputMode {
	return detect(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) OutputMode {
	switch {
	case ci == "true" || ci == "1":
		return ModeLinear
	case isTTY:
		return ModeTUI
	default:
		return ModePlain
	}
}

// ResolveMode applies the user's --output-mode flag to the detected mode.
// userFlag should be one of "auto", "tui", "linear", "plain", "quiet", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	case "plain":
		return ModePlain
	case "quiet":
		return ModeQuiet
	default:
		return autoDetected
	}
}
