// Package portblock installs outgoing port blocks inside project containers,
// e.g. to stop a PHP container from talking to real SMTP servers.
package portblock

import (
	"context"
	"errors"
	"fmt"

	"dockctl/internal/config"
	"dockctl/internal/containerizer"
	"dockctl/pkg/logging"
)

// ErrTargetNotFound is returned for a rule whose container is not part of
// the current snapshot.
var ErrTargetNotFound = errors.New("target container not found")

// Blocker is the part of the runtime the applier needs.
type Blocker interface {
	BlockPorts(ctx context.Context, container string, ports []int, project string) (string, error)
}

// Resolver maps a compose service name to its container in the snapshot.
type Resolver func(composeName string) (containerizer.ContainerInfo, bool)

// Result is the outcome of one rule.
type Result struct {
	Rule    config.PortBlockRule
	Message string
	Err     error
}

// Applier applies port-block rules one by one.
type Applier struct {
	runtime Blocker
}

// NewApplier creates an Applier.
func NewApplier(runtime Blocker) *Applier {
	return &Applier{runtime: runtime}
}

// Apply processes every rule independently and returns one result per rule,
// in rule order. A failing rule never prevents the following ones.
func (a *Applier) Apply(ctx context.Context, rules []config.PortBlockRule, project string, resolve Resolver) []Result {
	results := make([]Result, 0, len(rules))
	for _, rule := range rules {
		res := Result{Rule: rule}

		info, ok := resolve(rule.Container)
		if !ok || !info.Running() {
			res.Err = fmt.Errorf("%w: %s", ErrTargetNotFound, rule.Container)
			logging.Debug("PortBlock", "Skipping %s: %v", rule, res.Err)
			results = append(results, res)
			continue
		}

		msg, err := a.runtime.BlockPorts(ctx, info.RuntimeName, rule.Ports, project)
		if err != nil {
			res.Err = fmt.Errorf("failed to apply %s: %w", rule, err)
			logging.Debug("PortBlock", "%v", res.Err)
		} else {
			res.Message = msg
			logging.Debug("PortBlock", "%s", msg)
		}
		results = append(results, res)
	}
	return results
}
