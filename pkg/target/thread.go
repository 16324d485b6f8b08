package target

import (
	"golang.org/x/sys/unix"
)

// Thread 线程信息
type Thread struct {
	Tid     int              // thread ID
	Status  unix.WaitStatus  // wait status
	Process *DebuggedProcess // process this thread belongs to
}
