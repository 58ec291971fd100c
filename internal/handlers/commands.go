package handlers

import (
	"fmt"
	"strings"

	"github.com/sagoresarker/scion-visualizer/internal/config"
)

// Commands builds the shell command lines the dashboard runs. Values come
// from trusted configuration, except the resolved ping address, which is
// validated before it gets here.
type Commands struct {
	Container        string
	Sciond           string
	PathsDestination string
	PingCount        int
	LogTail          int
	LogKeywords      []string
	LogMaxLines      int
}

func CommandsFromConfig(cfg *config.Config) Commands {
	return Commands{
		Container:        cfg.SCION.Container,
		Sciond:           cfg.SCION.Sciond,
		PathsDestination: cfg.SCION.PathsDestination,
		PingCount:        cfg.SCION.PingCount,
		LogTail:          cfg.Logs.Tail,
		LogKeywords:      cfg.Logs.Keywords,
		LogMaxLines:      cfg.Logs.MaxLines,
	}
}

func (c Commands) Status() string {
	return "docker compose ps --format json"
}

func (c Commands) Paths() string {
	return fmt.Sprintf("docker exec %s scion showpaths %s --sciond %s 2>&1",
		c.Container, c.PathsDestination, c.Sciond)
}

func (c Commands) Ping(target string) string {
	return fmt.Sprintf("docker exec %s scion ping %s -c %d --sciond %s 2>&1",
		c.Container, target, c.PingCount, c.Sciond)
}

func (c Commands) Logs() string {
	return fmt.Sprintf(`docker compose logs --tail=%d 2>&1 | grep -E "(%s)" | head -%d`,
		c.LogTail, strings.Join(c.LogKeywords, "|"), c.LogMaxLines)
}
