package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"anydl/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = [...]struct {
	tag   string
	color text.Color
}{
	statusInfo:  {"INFO", text.FgBlue},
	statusOK:    {"OK", text.FgGreen},
	statusWarn:  {"WARN", text.FgYellow},
	statusError: {"ERROR", text.FgRed},
}

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

// renderStatusLine formats "  Label:  [TAG] message", coloured by kind.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	tag := "[" + style.tag + "]"
	if message != "" {
		tag += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", tag)
	if colorize {
		return style.color.Sprint(line)
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("─", text.StringWidthWithoutEscSequences(title))
	if colorize {
		heading := text.Colors{text.Bold, text.FgBlue}
		return []string{heading.Sprint(title), text.FgBlue.Sprint(rule)}
	}
	return []string{title, rule}
}

// shouldColorize reports whether writer is a terminal and NO_COLOR is unset.
func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// preflightLines renders check results, ending with a summary of failures.
// Cookie state other than "valid" is shown as a warning since it only
// affects some sites.
func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results)+1)
	failed := make([]string, 0)
	for _, result := range results {
		detail := strings.TrimSpace(result.Detail)
		kind := statusOK
		switch {
		case !result.Passed:
			kind = statusError
			failed = append(failed, result.Name)
		case result.Name == "Cookies" && !strings.HasPrefix(detail, "valid"):
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(result.Name, kind, detail, colorize))
	}
	if len(failed) > 0 {
		lines = append(lines, renderStatusLine("Problems", statusWarn, strings.Join(failed, ", "), colorize))
	}
	return lines
}
