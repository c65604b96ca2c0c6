//go:build !unix && !windows

package esptool

import "os/exec"

func setupProcess(cmd *exec.Cmd) {}
