//go:build !linux

package scheduler

import "errors"

func setThreadPriority(p Priority) error {
	return errors.New("scheduler: thread priority not supported on this platform")
}
