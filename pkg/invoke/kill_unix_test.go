//go:build unix

package invoke

import (
	"os"
	"syscall"
	"testing"

	"progbuild/go/pkg/builderr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func killSelf() {
	syscall.Kill(os.Getpid(), syscall.SIGKILL)
}

func TestRunReportsTerminatingSignal(t *testing.T) {
	inv, _, _ := newTestInvoker()

	outcome, err := inv.Run(helperCommand(t, "kill"))
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.CompilationFailure))
	assert.False(t, outcome.Succeeded)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Equal(t, syscall.SIGKILL, outcome.Signal)
	assert.Equal(t, "terminated by signal killed", outcome.String())
}
