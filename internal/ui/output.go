package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// out receives everything printed by the helpers below.
var out io.Writer = os.Stdout

// SetOutput redirects the output helpers and returns a function restoring
// the previous writer.
func SetOutput(w io.Writer) func() {
	prev := out
	out = w
	return func() { out = prev }
}

// Title prints a styled header
func Title(text string) {
	fmt.Fprintln(out, TitleStyle.Render(text))
}

// Success prints a success message with a checkmark
func Success(text string) {
	fmt.Fprintln(out, SuccessStyle.Render("✓ "+text))
}

// Warning prints a warning message
func Warning(text string) {
	fmt.Fprintln(out, WarningStyle.Render("! "+text))
}

// Dim prints secondary text, indented
func Dim(text string) {
	fmt.Fprintln(out, DimStyle.Render("  "+text))
}

// Command prints a CLI command
func Command(text string) {
	fmt.Fprintln(out, CommandStyle.Render(text))
}

// Line prints an empty line
func Line() {
	fmt.Fprintln(out)
}

// Print prints plain text
func Print(text string) {
	fmt.Fprintln(out, text)
}

// Indent returns text with two spaces of indentation per level
func Indent(text string, level int) string {
	return strings.Repeat("  ", level) + text
}

func RenderDim(text string) string {
	return DimStyle.Render(text)
}
