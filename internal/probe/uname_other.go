//go:build !linux

package probe

import "errors"

func unameMachine() (string, error) {
	return "", errors.New("uname not supported on this platform")
}
