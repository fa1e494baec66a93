package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"dockctl/internal/containerizer"
	"dockctl/internal/portblock"
	"dockctl/pkg/logging"
)

// StartOptions configures Start. An empty Target starts the whole project.
type StartOptions struct {
	Target    string
	Pull      bool
	Build     bool
	Recreate  bool
	WithProxy bool
}

// StopOptions configures Stop.
type StopOptions struct {
	Target    string
	WithProxy bool
}

// RestartOptions configures Restart.
type RestartOptions struct {
	Target    string
	Pull      bool
	Build     bool
	Recreate  bool
	WithProxy bool
}

func services(target string) []string {
	if target == "" {
		return nil
	}
	return []string{target}
}

// Start brings the project, or only Target, up and runs the post-start steps.
func (o *Orchestrator) Start(ctx context.Context, opts StartOptions) (*Snapshot, error) {
	if err := o.refresh(ctx); err != nil {
		return nil, err
	}

	if opts.Target == "" {
		if o.env.RunningCount > 0 {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyStarted, o.env.ProjectName)
		}
	} else if o.serviceRunning(opts.Target) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyStarted, opts.Target)
	}

	if opts.Pull {
		logging.Info("Orchestrator", "Pulling images for %s", o.env.ProjectName)
		code, err := o.runtime.PullImages(ctx, containerizer.PullOptions{Services: services(opts.Target)})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPullFailed, err)
		}
		if code != 0 {
			return nil, fmt.Errorf("%w: compose pull exited with code %d", ErrPullFailed, code)
		}
	}

	if opts.Build {
		logging.Info("Orchestrator", "Building images for %s", o.env.ProjectName)
		code, err := o.runtime.BuildImages(ctx, containerizer.BuildOptions{Services: services(opts.Target)})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
		}
		if code != 0 {
			return nil, fmt.Errorf("%w: compose build exited with code %d", ErrBuildFailed, code)
		}
	}

	logging.Info("Orchestrator", "Starting %s", o.describe(opts.Target))
	code, err := o.runtime.StartEnvironment(ctx, containerizer.UpOptions{
		Services:      services(opts.Target),
		ForceRecreate: opts.Recreate,
		RemoveOrphans: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartFailed, err)
	}
	if code != 0 {
		logging.Warn("Orchestrator", "compose up exited with code %d", code)
	}

	if err := o.refresh(ctx); err != nil {
		return nil, err
	}
	if o.env.RunningCount == 0 {
		return nil, fmt.Errorf("%w: no container is running after compose up", ErrStartFailed)
	}
	if opts.Target != "" && !o.serviceRunning(opts.Target) {
		return nil, fmt.Errorf("%w: %s is not running after compose up", ErrStartFailed, opts.Target)
	}

	var report Report
	o.applyPortBlocks(ctx, opts.Target, &report)
	if opts.WithProxy {
		o.startProxy(ctx, &report)
	}
	o.runHooks(ctx, opts.Target, &report)

	return o.snapshot(ctx, report), nil
}

// Stop stops the project, or only Target. WithProxy removes the proxy as
// well, even if the stop check failed.
func (o *Orchestrator) Stop(ctx context.Context, opts StopOptions) (Report, error) {
	var report Report
	if err := o.refresh(ctx); err != nil {
		return report, err
	}
	if o.env.RunningCount == 0 {
		return report, fmt.Errorf("%w: %s", ErrEnvironmentStopped, o.env.ProjectName)
	}

	logging.Info("Orchestrator", "Stopping %s", o.describe(opts.Target))
	stopErr := o.stopContainers(ctx, opts.Target)

	if opts.WithProxy && o.proxy != nil {
		if err := o.proxy.Stop(ctx); err != nil {
			report.addIssue(IssueProxy, "", err)
		}
	}
	return report, stopErr
}

func (o *Orchestrator) stopContainers(ctx context.Context, target string) error {
	code, err := o.runtime.StopEnvironment(ctx, containerizer.StopOptions{Services: services(target)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStopFailed, err)
	}
	if code != 0 {
		logging.Warn("Orchestrator", "compose stop exited with code %d", code)
	}

	if err := o.refresh(ctx); err != nil {
		return err
	}
	if target == "" && o.env.RunningCount > 0 {
		return fmt.Errorf("%w: %d containers still running", ErrStopFailed, o.env.RunningCount)
	}
	return nil
}

// Restart stops what runs and starts again. With a Target only that
// service is stopped, and only when it runs. From a stopped environment
// Restart is exactly Start.
func (o *Orchestrator) Restart(ctx context.Context, opts RestartOptions) (*Snapshot, error) {
	if err := o.refresh(ctx); err != nil {
		return nil, err
	}

	var stopReport Report
	needsStop := o.env.RunningCount > 0
	if opts.Target != "" {
		needsStop = o.serviceRunning(opts.Target)
	}
	if needsStop {
		var err error
		stopReport, err = o.Stop(ctx, StopOptions{Target: opts.Target})
		if err != nil && !errors.Is(err, ErrEnvironmentStopped) {
			return nil, err
		}
	}

	snap, err := o.Start(ctx, StartOptions{
		Target:    opts.Target,
		Pull:      opts.Pull,
		Build:     opts.Build,
		Recreate:  opts.Recreate,
		WithProxy: opts.WithProxy,
	})
	if err != nil {
		return nil, err
	}
	merged := stopReport
	merged.merge(snap.Report)
	snap.Report = merged
	return snap, nil
}

func (o *Orchestrator) describe(target string) string {
	if target == "" {
		return "project " + o.env.ProjectName
	}
	return fmt.Sprintf("service %s of %s", target, o.env.ProjectName)
}

func (o *Orchestrator) applyPortBlocks(ctx context.Context, target string, report *Report) {
	if o.blocker == nil || len(o.cfg.NetworkBlock) == 0 {
		return
	}

	rules := o.cfg.NetworkBlock
	if target != "" {
		rules = nil
		for _, r := range o.cfg.NetworkBlock {
			if r.Container == target {
				rules = append(rules, r)
			}
		}
	}
	if len(rules) == 0 {
		return
	}

	for _, res := range o.blocker.Apply(ctx, rules, o.env.ProjectName, portblock.Resolver(o.lookup)) {
		if res.Err != nil {
			report.addIssue(IssuePortBlock, res.Rule.Container, res.Err)
		} else if res.Message != "" {
			report.note("%s", res.Message)
		}
	}
}

func (o *Orchestrator) startProxy(ctx context.Context, report *Report) {
	if o.proxy == nil {
		return
	}
	if err := o.proxy.Start(ctx, o.cfg.NetworkName()); err != nil {
		report.addIssue(IssueProxy, o.cfg.NetworkName(), err)
	}
}

func (o *Orchestrator) runHooks(ctx context.Context, target string, report *Report) {
	if o.hooks == nil {
		return
	}
	names := services(target)
	if target == "" {
		names = o.cfg.EnabledServices()
	}
	if target == "" && len(o.cfg.Services) == 0 {
		names = o.composeNames()
	}
	for _, res := range o.hooks.Run(ctx, names, o.lookup) {
		if res.Err != nil {
			report.addIssue(IssueHook, res.Service, res.Err)
		}
	}
}
