package models

// PathEntry is one path line reported by `scion showpaths`.
type PathEntry struct {
	ID     int    `json:"id"`
	Hops   int    `json:"hops"`
	Route  string `json:"route"`
	Status string `json:"status"`
}

const (
	PathStatusAlive   = "alive"
	PathStatusUnknown = "unknown"
)

type PathsResponse struct {
	Paths   []PathEntry `json:"paths"`
	Message string      `json:"message,omitempty"`
}

// Container is a single row of `docker compose ps` output. State is left
// empty when the row could not be decoded.
type Container struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	State  string `json:"state,omitempty"`
}

type StatusResponse struct {
	Containers []Container `json:"containers"`
}

type PingResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

type LogsResponse struct {
	Logs []string `json:"logs"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
