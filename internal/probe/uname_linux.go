//go:build linux

package probe

import "golang.org/x/sys/unix"

// unameMachine returns the kernel-reported machine string (e.g. x86_64).
func unameMachine() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}
