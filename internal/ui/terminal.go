package ui

import (
	"os"

	"github.com/muesli/termenv"
)

// ShouldUseColor decides whether styled output is appropriate, honoring
// the conventional environment switches in precedence order:
//
//  1. NO_COLOR set (any value, even empty) disables color
//  2. CLICOLOR=0 disables color
//  3. CLICOLOR_FORCE set enables color even without a TTY
//  4. otherwise: color only when stdout is a color-capable terminal
func ShouldUseColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, set := os.LookupEnv("CLICOLOR_FORCE"); set {
		return true
	}
	return termenv.ColorProfile() != termenv.Ascii
}
