//go:build windows

package esptool

import (
	"os/exec"
	"strconv"
	"syscall"
)

const createNoWindow = 0x08000000

func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}

// setupProcess keeps a console window from flashing up when the GUI starts
// esptool, and kills the whole process tree on cancel. The pip launcher
// esptool.exe runs python.exe as a child.
func setupProcess(cmd *exec.Cmd) {
	hideWindow(cmd)
	cmd.Cancel = func() error {
		kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		hideWindow(kill)
		if err := kill.Run(); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
