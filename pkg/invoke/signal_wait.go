//go:build unix || windows

package invoke

import (
	"os"
	"syscall"
)

func terminatingSignal(ps *os.ProcessState) os.Signal {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ws.Signal()
	}
	return nil
}
