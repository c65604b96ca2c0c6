//go:build unix

package esptool

import (
	"os/exec"
	"syscall"
)

// setupProcess starts the tool in its own process group so cancelling
// also kills a wrapper's children.
func setupProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
