package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"dockctl/pkg/logging"
)

var errNoDNS = errors.New("dns resolver is not configured")

// StartDNS runs the resolver sidecar attached to the project network.
func (o *Orchestrator) StartDNS(ctx context.Context) error {
	if o.dns == nil {
		return errNoDNS
	}
	if err := o.refresh(ctx); err != nil {
		return err
	}
	if o.env.RunningCount == 0 {
		return fmt.Errorf("%w: start it before the dns resolver", ErrEnvironmentStopped)
	}

	running, err := o.dns.Running(ctx)
	if err != nil {
		return err
	}
	if running {
		return ErrDNSAlreadyRunning
	}

	logging.Info("Orchestrator", "Starting dns resolver for %s", o.env.ProjectName)
	return o.dns.Start(ctx, o.cfg.NetworkName())
}

// StopDNS removes the resolver sidecar.
func (o *Orchestrator) StopDNS(ctx context.Context) error {
	if o.dns == nil {
		return errNoDNS
	}
	running, err := o.dns.Running(ctx)
	if err != nil {
		return err
	}
	if !running {
		return ErrDNSNotRunning
	}
	return o.dns.Stop(ctx)
}
