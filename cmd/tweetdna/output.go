package main

import (
	"fmt"
	"os"
)

// ANSI codes for terminal output. Everything status-like goes to stderr so
// draft and persona JSON on stdout stays pipeable.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func stderrLine(color, prefix, format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(color, prefix+fmt.Sprintf(format, args...)))
}

// printStep announces a pipeline stage (import, profile, generate).
func printStep(format string, args ...any) {
	stderrLine(colorCyan, "→ ", format, args...)
}

func printSuccess(format string, args ...any) {
	stderrLine(colorGreen, "✓ ", format, args...)
}

// printWarning reports degraded-but-continuing conditions: invalid records,
// suppression patterns, review violations.
func printWarning(format string, args ...any) {
	stderrLine(colorYellow, "⚠ ", format, args...)
}

// printStatus renders an indented "label: value" detail line under a step.
func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "  %s %s\n", colorize(colorBold, label+":"), val)
}
