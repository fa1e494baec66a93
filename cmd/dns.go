package cmd

import (
	"fmt"

	"dockctl/internal/color"

	"github.com/spf13/cobra"
)

// dnsCmd groups the DNS resolver commands
var dnsCmd = &cobra.Command{
	Use:   "dns",
	Short: "Manage the DNS resolver",
	Long: `Manage the DNS resolver sidecar. While it runs, containers are
reachable from the host by their container name.`,
}

var dnsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the DNS resolver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.orch.StartDNS(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.Success("DNS resolver started"))
		return nil
	},
}

var dnsStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the DNS resolver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.orch.StopDNS(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.Success("DNS resolver stopped"))
		return nil
	},
}

func init() {
	dnsCmd.AddCommand(dnsStartCmd)
	dnsCmd.AddCommand(dnsStopCmd)
	rootCmd.AddCommand(dnsCmd)
}
