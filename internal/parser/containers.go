package parser

import (
	"encoding/json"
	"strings"

	"github.com/sagoresarker/scion-visualizer/internal/models"
)

const unknown = "unknown"

// ParseContainers reads `docker compose ps --format json` output. Newer
// compose releases print one object per line, older ones a single array;
// both are accepted. Lines that are not JSON objects are reported by their
// raw text with an unknown status.
func ParseContainers(output string) []models.Container {
	containers := []models.Container{}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &obj); err == nil && obj != nil {
			containers = append(containers, containerFromFields(obj))
			continue
		}

		var arr []map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &arr); err == nil && arr != nil && !hasNil(arr) {
			for _, item := range arr {
				containers = append(containers, containerFromFields(item))
			}
			continue
		}

		containers = append(containers, models.Container{Name: line, Status: unknown})
	}

	return containers
}

func containerFromFields(fields map[string]json.RawMessage) models.Container {
	return models.Container{
		Name:   stringField(fields, "Name"),
		Status: stringField(fields, "Status"),
		State:  stringField(fields, "State"),
	}
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return unknown
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func hasNil(items []map[string]json.RawMessage) bool {
	for _, item := range items {
		if item == nil {
			return true
		}
	}
	return false
}
