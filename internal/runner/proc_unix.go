//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the shell as the leader of a new process group and
// makes context cancellation kill the whole group, so pipelines such as
// `docker compose logs | grep | head` do not outlive the timeout.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
