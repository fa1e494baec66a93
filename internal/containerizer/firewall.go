package containerizer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dockctl/pkg/logging"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
)

// BlockPorts installs iptables rules inside the container that reject
// outgoing TCP connections to the given ports. Traffic to the project's own
// networks stays allowed. Rules are deleted before being added so repeated
// calls do not stack duplicates.
func (d *DockerRuntime) BlockPorts(ctx context.Context, name string, ports []int, project string) (string, error) {
	if len(ports) == 0 {
		return "", nil
	}

	res, err := d.execOutput(ctx, name, "root", "sh", "-c", "command -v iptables")
	if err != nil {
		return "", fmt.Errorf("failed to exec in %s: %w", name, err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%w: %s", ErrNoIptables, name)
	}

	subnets, err := d.projectSubnets(ctx, project)
	if err != nil {
		return "", err
	}
	for _, subnet := range subnets {
		d.dropRule(ctx, name, "OUTPUT", "-d", subnet, "-j", "ACCEPT")
		if err := d.iptables(ctx, name, "-I", "OUTPUT", "1", "-d", subnet, "-j", "ACCEPT"); err != nil {
			return "", fmt.Errorf("failed to allow subnet %s in %s: %w", subnet, name, err)
		}
	}

	blocked := make([]string, 0, len(ports))
	for _, p := range ports {
		port := strconv.Itoa(p)
		d.dropRule(ctx, name, "OUTPUT", "-p", "tcp", "--dport", port, "-j", "REJECT")
		if err := d.iptables(ctx, name, "-A", "OUTPUT", "-p", "tcp", "--dport", port, "-j", "REJECT"); err != nil {
			return "", fmt.Errorf("failed to block port %d in %s: %w", p, name, err)
		}
		blocked = append(blocked, port)
	}

	return fmt.Sprintf("Blocked ports %s on container %s", strings.Join(blocked, ", "), name), nil
}

func (d *DockerRuntime) iptables(ctx context.Context, name string, args ...string) error {
	res, err := d.execOutput(ctx, name, "root", append([]string{"iptables"}, args...)...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("iptables exited with code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// dropRule deletes a rule so it can be re-added once. Deleting a rule that
// is not there yet fails, which is expected on the first start.
func (d *DockerRuntime) dropRule(ctx context.Context, name, chain string, rule ...string) {
	if err := d.iptables(ctx, name, append([]string{"-D", chain}, rule...)...); err != nil {
		logging.Debug("Containerizer", "No previous rule to delete in %s: %v", name, err)
	}
}

// projectSubnets returns the subnets of every network compose created for
// the project.
func (d *DockerRuntime) projectSubnets(ctx context.Context, project string) ([]string, error) {
	networks, err := d.api.NetworkList(ctx, types.NetworkListOptions{
		Filters: filters.NewArgs(filters.Arg("label", labelComposeProject+"="+project)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list networks of %s: %w", project, err)
	}

	var subnets []string
	for _, n := range networks {
		for _, c := range n.IPAM.Config {
			if c.Subnet != "" {
				subnets = append(subnets, c.Subnet)
			}
		}
	}
	logging.Debug("Containerizer", "Project %s subnets: %v", project, subnets)
	return subnets, nil
}
