// Package orchestrator drives the lifecycle of one compose project.
//
// An Orchestrator owns an Environment, the point-in-time view of the
// project's containers, and re-queries the runtime after every action that
// changes it. Operations follow the same shape: query, guard, mutate,
// re-query.
//
// # State machine
//
//	Stopped  --start-->   Running
//	Running  --stop-->    Stopped
//	Running  --restart--> Running
//
// An environment with only some of its containers up is partially running
// and is treated as running by every guard.
//
// # Errors
//
// Guard errors (ErrAlreadyStarted, ErrEnvironmentStopped) are benign and
// recognised with IsBenign. Fatal errors (ErrStartFailed, ErrStopFailed,
// ErrPullFailed, ErrServiceNotFound) end the operation without rollback.
// Problems in the best-effort steps that follow a successful start (port
// blocks, proxy, post-start hooks) never fail the operation; they are
// collected into a Report.
//
// # Usage
//
//	orch, err := orchestrator.New(orchestrator.Config{
//	    Environment: cfg,
//	    Runtime:     rt,
//	    Proxy:       sidecar.NewProxy(rt, cfg.Proxy),
//	    PortBlocker: portblock.NewApplier(rt),
//	    Hooks:       hooks.NewRunner(cfg.HookDir(), cfg.ProjectDir, cfg.Hooks.Shell, runner),
//	})
//	snap, err := orch.Start(ctx, orchestrator.StartOptions{WithProxy: true})
package orchestrator
