//go:build !linux

package executor

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup only kills the direct child outside Linux.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
