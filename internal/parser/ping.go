package parser

import "strings"

// PingSucceeded is a text heuristic over `scion ping` output: any reply
// line or a zero-loss summary counts as success.
func PingSucceeded(output string) bool {
	return strings.Contains(output, "0% packet loss") || strings.Contains(output, "bytes from")
}
