//go:build linux

package scheduler

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Nice values requested for each priority. Raising priority needs
// CAP_SYS_NICE; lowering it always succeeds.
const (
	niceHigh = -10
	niceLow  = 10
)

func setThreadPriority(p Priority) error {
	nice := 0
	switch p {
	case PriorityHigh:
		nice = niceHigh
	case PriorityLow:
		nice = niceLow
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice); err != nil {
		return fmt.Errorf("setpriority %d: %w", nice, err)
	}
	return nil
}
