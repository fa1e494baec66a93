package cmd

import (
	"dockctl/internal/cli"

	"github.com/spf13/cobra"
)

var (
	statusOutputFormat   string
	servicesOutputFormat string
)

// statusCmd shows the running containers
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running containers",
	Long: `Show the running containers of the project with their IP, or their
host name when the DNS resolver runs, their ports, image and docker ID.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// servicesCmd lists the URLs of the running services
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the URLs of the running services",
	Long: `List the running services that have a display name and a URL in
dockctl.yml, with the URL to reach them and any extra port they expose.`,
	Args: cobra.NoArgs,
	RunE: runServices,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	servicesCmd.Flags().StringVarP(&servicesOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(servicesCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(statusOutputFormat)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.orch.Status(cmd.Context())
	if err != nil {
		return err
	}
	return cli.NewPrinter(cmd.OutOrStdout(), format).PrintStatus(snap)
}

func runServices(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(servicesOutputFormat)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.orch.Status(cmd.Context())
	if err != nil {
		return err
	}
	return cli.NewPrinter(cmd.OutOrStdout(), format).PrintServiceURLs(s.orch.ServiceURLs(snap))
}
