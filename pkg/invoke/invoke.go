package invoke

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"progbuild/go/pkg/builderr"
	"progbuild/go/pkg/compose"
	"progbuild/go/pkg/logbowl"
)

const op = "invoke"

// ExitOutcome describes how the child process ended. Signal is nil unless
// the child was terminated by one.
type ExitOutcome struct {
	Succeeded bool
	ExitCode  int
	Signal    os.Signal
}

func (o ExitOutcome) String() string {
	switch {
	case o.Succeeded:
		return "exit status 0"
	case o.Signal != nil:
		return fmt.Sprintf("terminated by signal %v", o.Signal)
	default:
		return fmt.Sprintf("exit status %d", o.ExitCode)
	}
}

// Invoker runs a composed command as a direct child process: no shell sits
// between us and the compiler. Output is streamed through unmodified.
type Invoker struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logbowl.Logger
}

// New returns an Invoker wired to the process's own standard streams.
func New(log logbowl.Logger) *Invoker {
	return &Invoker{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Run blocks until the child exits. A child that could not be started yields
// a SpawnFailure; one that ran and did not exit 0 yields a
// CompilationFailure alongside its outcome. There are no retries.
func (inv *Invoker) Run(cmd compose.Command) (ExitOutcome, error) {
	failed := ExitOutcome{ExitCode: -1}
	if cmd.Len() == 0 {
		return failed, builderr.Errorf(builderr.SpawnFailure, op, "empty command")
	}

	args := cmd.Args()
	c := exec.Command(args[0], args[1:]...)
	c.Dir = inv.Dir
	c.Stdin = inv.Stdin
	c.Stdout = inv.Stdout
	c.Stderr = inv.Stderr

	// The child shares our process group, so a terminal interrupt reaches it
	// directly. Swallow ours and report whatever the child decides to do.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	inv.Log.Debug("invoke", "spawn", "progress", "Starting compiler", "path", args[0], "args", len(args)-1, "dir", inv.Dir)
	if err := c.Start(); err != nil {
		inv.Log.Error("invoke", "spawn", "failure", "Could not start compiler", "path", args[0], "error", err)
		return failed, builderr.New(builderr.SpawnFailure, op, err)
	}

	waitErr := c.Wait()
	outcome := outcomeOf(c.ProcessState)

	select {
	case <-interrupts:
		inv.Log.Warn("invoke", "interrupt", "warning", "Interrupted while the compiler was running", "outcome", outcome.String())
	default:
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// The child ran but its output could not be copied, so the
			// build is not trusted whatever the exit status says.
			outcome.Succeeded = false
			inv.Log.Error("invoke", "wait", "failure", "Lost compiler output", "outcome", outcome.String(), "error", waitErr)
			return outcome, builderr.New(builderr.CompilationFailure, op, waitErr)
		}
	}
	if !outcome.Succeeded {
		inv.Log.Debug("invoke", "wait", "failure", "Compiler exited unsuccessfully", "outcome", outcome.String())
		return outcome, builderr.Errorf(builderr.CompilationFailure, op, "%s %s", args[0], outcome)
	}
	inv.Log.Debug("invoke", "wait", "success", "Compiler exited cleanly")
	return outcome, nil
}

func outcomeOf(ps *os.ProcessState) ExitOutcome {
	if ps == nil {
		return ExitOutcome{ExitCode: -1}
	}
	return ExitOutcome{
		Succeeded: ps.Success(),
		ExitCode:  ps.ExitCode(),
		Signal:    terminatingSignal(ps),
	}
}
