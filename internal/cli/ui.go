package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	styleSuccess = color.New(color.FgGreen)
	styleError   = color.New(color.FgRed)
	styleWarning = color.New(color.FgYellow)
	styleDim     = color.New(color.Faint)
	styleValue   = color.New(color.FgCyan)
	styleBold    = color.New(color.Bold)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// printSuccess prints a success line to stderr.
func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleSuccess.Sprint(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a warning line to stderr.
func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleWarning.Sprint(iconWarning)+" "+styleWarning.Sprintf(format, args...))
}

// printFile prints an output file line to stderr.
func printFile(path string) {
	fmt.Fprintln(os.Stderr, "  "+styleDim.Sprint(iconArrow)+" "+styleValue.Sprint(path))
}

// printKeyValue prints a labeled value to stderr.
func printKeyValue(key, value string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", styleDim.Sprintf("%-14s", key), styleValue.Sprint(value))
}

// printStats prints a node/edge count line to stderr.
func printStats(label string, nodes, edges int) {
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		styleDim.Sprintf("%-14s", label),
		styleDim.Sprintf("%d nodes · %d edges", nodes, edges))
}

// printCycle prints one cycle as an arrow chain to stderr.
func printCycle(cycle []string) {
	chain := strings.Join(cycle, " "+iconArrow+" ")
	fmt.Fprintln(os.Stderr, "  "+styleError.Sprint(chain+" "+iconArrow+" "+cycle[0]))
}

// printHeading prints a bold section heading to stderr.
func printHeading(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleBold.Sprintf(format, args...))
}
