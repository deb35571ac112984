//go:build !unix && !windows

package invoke

import "os"

func terminatingSignal(*os.ProcessState) os.Signal { return nil }
