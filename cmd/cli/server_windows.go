//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// DETACHED_PROCESS, not exported by syscall
const detachedProcess = 0x00000008

// setSysProcAttr starts the server without a console, in its own process group
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcess,
		HideWindow:    true,
	}
}
