package parser

import "strings"

const DefaultLogLines = 15

// TailLogs returns the last max non-blank lines of output, trimmed and in
// their original order. A non-positive max falls back to DefaultLogLines.
func TailLogs(output string, max int) []string {
	if max <= 0 {
		max = DefaultLogLines
	}

	logs := []string{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		logs = append(logs, line)
	}

	if len(logs) > max {
		logs = logs[len(logs)-max:]
	}
	return logs
}
