package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Package status colors
	Installed       = color.New(color.FgGreen)
	UpdateAvailable = color.New(color.FgYellow)
	Available       = color.New(color.FgBlue)

	// Message colors
	Success  = color.New(color.FgGreen)
	Warning  = color.New(color.FgYellow)
	Error    = color.New(color.FgRed)
	Progress = color.New(color.FgBlue)
	Info     = color.New(color.FgCyan)
	Dim      = color.New(color.Faint)

	// Structural colors
	Header  = color.New(color.FgWhite, color.Bold)
	Package = color.New(color.FgBlue, color.Bold)
)

// Status names used by FormatStatus and StatusColor
const (
	StatusInstalled       = "installed"
	StatusUpdateAvailable = "update available"
	StatusAvailable       = "available"
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// StatusColor returns the appropriate color for a package status
func StatusColor(status string) *color.Color {
	switch status {
	case StatusInstalled:
		return Installed
	case StatusUpdateAvailable:
		return UpdateAvailable
	case StatusAvailable:
		return Available
	default:
		return color.New(color.Reset)
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf(format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// Sprintf returns a colored string without printing
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}

// Sprint returns a colored string without printing
func Sprint(c *color.Color, a ...interface{}) string {
	return c.Sprint(a...)
}

// FormatStatus renders the bracketed status shown next to a package in
// listings, e.g. "[installed 1.0]" or "[installed 1.0, update available 1.1]".
func FormatStatus(status, installedVersion, indexVersion string) string {
	c := StatusColor(status)
	switch status {
	case StatusInstalled:
		return c.Sprintf("[installed %s]", installedVersion)
	case StatusUpdateAvailable:
		return c.Sprintf("[installed %s, update available %s]", installedVersion, indexVersion)
	default:
		return c.Sprintf("[available %s]", indexVersion)
	}
}

// FormatPackage formats a package name with color
func FormatPackage(name, version string) string {
	if version != "" {
		return Package.Sprintf("%s@%s", name, version)
	}
	return Package.Sprint(name)
}

// Box prints a boxed message
func Box(title, content string) {
	fmt.Println()
	Header.Println("┌─ " + title + " ─")
	fmt.Println("│")
	fmt.Println("│  " + content)
	fmt.Println("│")
	Header.Println("└────────────────")
	fmt.Println()
}
