//go:build !windows

package procpool

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configurePlatform puts the child in its own process group on Unix, so the
// group-kill in killProcessGroup (used by Pool.InterruptAll) reaches the
// child's own children without chasing them down individually — the same isolation concern the
// teacher addresses with syscall.Credential in client/compile-locally.go,
// generalized here to process-group placement rather than uid/gid drop
// since this core runs single-user builds, not a multi-tenant daemon.
func configurePlatform(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends sig to the entire process group led by pid. Used
// by the CLI's interrupt handler to tear down an in-flight build wave
// cleanly instead of leaving orphaned compiler children behind.
func killProcessGroup(pid int, sig syscall.Signal) error {
	return unix.Kill(-pid, sig)
}
