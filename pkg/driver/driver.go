package driver

import (
	"fmt"
	"io"

	"progbuild/go/pkg/builderr"
	"progbuild/go/pkg/compose"
	"progbuild/go/pkg/invoke"
	"progbuild/go/pkg/logbowl"
	"progbuild/go/pkg/platform"
	"progbuild/go/pkg/profile"
)

// State is a step of a single build run.
type State int

const (
	Idle State = iota
	Composing
	Invoking
	Succeeded
	Failed
)

var stateNames = [...]string{"idle", "composing", "invoking", "succeeded", "failed"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool { return s == Succeeded || s == Failed }

// Runner executes a composed command; *invoke.Invoker is the real one.
type Runner interface {
	Run(cmd compose.Command) (invoke.ExitOutcome, error)
}

// Driver sequences detection, profile lookup, composition and invocation.
type Driver struct {
	Detect  func() platform.Key
	Lookup  func(platform.Key) profile.BuildProfile
	Common  compose.CommonConfig
	Invoker Runner

	// Out receives the banner and, for dry runs, the composed command.
	// Nil suppresses both.
	Out    io.Writer
	Log    logbowl.Logger
	DryRun bool
}

// New returns a Driver using host detection and the built-in profiles.
func New(common compose.CommonConfig, inv Runner, out io.Writer, log logbowl.Logger) *Driver {
	return &Driver{
		Detect:  platform.Detect,
		Lookup:  profile.Lookup,
		Common:  common,
		Invoker: inv,
		Out:     out,
		Log:     log,
	}
}

// Result is the terminal state of a run and everything observed on the way.
type Result struct {
	State    State
	Platform platform.Key
	Command  compose.Command
	Outcome  invoke.ExitOutcome
	Err      error
}

// ExitCode is the process exit code for the run: 0 on success, 1 otherwise,
// whatever code the compiler itself returned.
func (r Result) ExitCode() int {
	if r.State == Succeeded {
		return 0
	}
	return 1
}

type run struct {
	log logbowl.Logger
	res Result
}

func (r *run) transition(to State) {
	r.log.Debug("system", "execute", "progress", "Build state change", "from", r.res.State.String(), "to", to.String())
	r.res.State = to
}

func (r *run) fail(err error) Result {
	r.res.Err = err
	r.transition(Failed)
	return r.res
}

// Run performs one build and returns once the compiler has exited (or the
// build failed earlier). It never retries.
func (d *Driver) Run() Result {
	r := &run{log: d.Log}

	detect := d.Detect
	if detect == nil {
		detect = platform.Detect
	}
	lookup := d.Lookup
	if lookup == nil {
		lookup = profile.Lookup
	}

	r.transition(Composing)
	r.res.Platform = detect()
	d.Log.Info("platform", "detect", "info", "Detected build platform", "platform", r.res.Platform.String())
	if d.Out != nil {
		if err := WriteBanner(d.Out, r.res.Platform); err != nil {
			return r.fail(fmt.Errorf("writing banner: %w", err))
		}
	}

	p := lookup(r.res.Platform)
	if !p.Supported {
		d.Log.Error("profile", "lookup", "failure", "No build profile for this platform", "platform", r.res.Platform.String())
	}
	cmd, err := compose.Compose(d.Common, p)
	if err != nil {
		d.Log.Error("compose", "compose", "failure", "Could not compose compiler command", "error", err)
		return r.fail(err)
	}
	r.res.Command = cmd
	d.Log.Debug("compose", "compose", "success", "Composed compiler command", "command", cmd.String())

	if d.DryRun {
		if d.Out != nil {
			if err := WriteCommand(d.Out, cmd.String()); err != nil {
				return r.fail(fmt.Errorf("writing command: %w", err))
			}
		}
		d.Log.Info("compose", "finish", "skip", "Dry run, compiler not started")
		r.transition(Succeeded)
		return r.res
	}

	if d.Invoker == nil {
		return r.fail(builderr.Errorf(builderr.SpawnFailure, "driver", "no invoker configured"))
	}
	r.transition(Invoking)
	outcome, err := d.Invoker.Run(cmd)
	r.res.Outcome = outcome
	if err != nil {
		d.Log.Error("compiler", "finish", "failure", "Build failed", "kind", builderr.KindOf(err).String(), "error", err)
		return r.fail(err)
	}
	d.Log.Info("compiler", "finish", "success", "Build succeeded", "output", p.OutputName(d.Common.BaseExecutableName))
	r.transition(Succeeded)
	return r.res
}
