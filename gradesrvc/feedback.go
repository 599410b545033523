package gradesrvc

import (
	"fmt"
	"strings"
)

const (
	feedbackSnippetLen = 80
	diagnosticsMaxLen  = 512
)

// mismatchFeedback describes the first differing output line. For
// bugfix and fill labs the expected side is withheld so the feedback
// never leaks the solution.
func mismatchFeedback(expected, actual []byte, hideExpected bool) string {
	expLines := strings.Split(string(trimTrailingNewline(expected)), "\n")
	actLines := strings.Split(string(trimTrailingNewline(actual)), "\n")

	line := 0
	for line < len(expLines) && line < len(actLines) {
		if expLines[line] != actLines[line] {
			break
		}
		line++
	}

	var expLine, actLine string
	if line < len(expLines) {
		expLine = expLines[line]
	}
	if line < len(actLines) {
		actLine = actLines[line]
	}

	if hideExpected {
		return fmt.Sprintf("output mismatch at line %d: got %q",
			line+1, truncateStr(actLine, feedbackSnippetLen))
	}
	return fmt.Sprintf("output mismatch at line %d: expected %q, got %q",
		line+1,
		truncateStr(expLine, feedbackSnippetLen),
		truncateStr(actLine, feedbackSnippetLen))
}

func crashFeedback(exitCode int, stderr []byte) string {
	firstLine := string(stderr)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)
	if firstLine == "" {
		return fmt.Sprintf("process exited with code %d", exitCode)
	}
	return fmt.Sprintf("process exited with code %d: %s",
		exitCode, truncateStr(firstLine, feedbackSnippetLen))
}

func buildFailedFeedback(diagnostics string) string {
	diag := strings.TrimSpace(diagnostics)
	if diag == "" {
		return "build failed"
	}
	return "build failed: " + truncateStr(diag, diagnosticsMaxLen)
}

func toolchainMissingFeedback(language, binary string) string {
	return fmt.Sprintf("toolchain for %s is not installed (missing %s)", language, binary)
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
