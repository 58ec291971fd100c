// Package parser turns the free-text output of docker and the scion CLI
// into response values. Everything here is pure: no processes, no I/O.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sagoresarker/scion-visualizer/internal/models"
)

const (
	hopsMarker     = "Hops:"
	hopSeparator   = "~~"
	noPathFound    = "no path found"
	aliveMarker    = "alive"
	NoPathsMessage = "No paths found"
)

var pathLineRegex = regexp.MustCompile(`\[(\d+)\].*Hops:\s*\[(.*?)\]`)

// ParsePaths extracts one PathEntry per `[id] ... Hops: [...]` line.
// Lines without "Hops:" or that do not match the pattern are skipped.
func ParsePaths(output string) []models.PathEntry {
	paths := []models.PathEntry{}

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, hopsMarker) {
			continue
		}

		match := pathLineRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		hopText := match[2]
		status := models.PathStatusUnknown
		if strings.Contains(line, aliveMarker) {
			status = models.PathStatusAlive
		}

		paths = append(paths, models.PathEntry{
			ID:     id,
			Hops:   strings.Count(hopText, hopSeparator) + 1,
			Route:  strings.TrimSpace(hopText),
			Status: status,
		})
	}

	return paths
}

// NoPathFound reports whether a failed showpaths run told us there is
// simply no path, as opposed to some other failure.
func NoPathFound(succeeded bool, output string) bool {
	return !succeeded && strings.Contains(strings.ToLower(output), noPathFound)
}
