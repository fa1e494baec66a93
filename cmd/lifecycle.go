package cmd

import (
	"fmt"

	"dockctl/internal/cli"
	"dockctl/internal/color"
	"dockctl/internal/config"
	"dockctl/internal/orchestrator"

	"github.com/spf13/cobra"
)

var (
	startPull     bool
	startBuild    bool
	startRecreate bool
	startNoProxy  bool

	stopNoProxy bool

	restartPull     bool
	restartBuild    bool
	restartRecreate bool
	restartNoProxy  bool
)

// startCmd starts the project or one of its services
var startCmd = &cobra.Command{
	Use:   "start [service]",
	Short: "Start the environment",
	Long: `Start every container of the project, or only the given service.
With --build the images of services that have a build section are built
first.

After the containers are up dockctl applies the configured port blocks,
starts the reverse proxy when it is enabled and runs the post-start
script of each service (services/<name>.sh) if there is one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

// stopCmd stops the project or one of its services
var stopCmd = &cobra.Command{
	Use:   "stop [service]",
	Short: "Stop the environment",
	Long: `Stop every container of the project, or only the given service.

Stopping the whole project also removes the reverse proxy unless
--no-proxy is given. Stopping a single service leaves it running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

// restartCmd restarts the project or one of its services
var restartCmd = &cobra.Command{
	Use:   "restart [service]",
	Short: "Restart the environment",
	Long: `Stop what runs and start it again. A stopped environment is simply
started.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestart,
}

func init() {
	startCmd.Flags().BoolVarP(&startPull, "pull", "p", false, "pull images before starting")
	startCmd.Flags().BoolVarP(&startBuild, "build", "b", false, "build images before starting")
	startCmd.Flags().BoolVarP(&startRecreate, "recreate", "r", false, "recreate containers even if their configuration did not change")
	startCmd.Flags().BoolVar(&startNoProxy, "no-proxy", false, "do not start the reverse proxy")

	stopCmd.Flags().BoolVar(&stopNoProxy, "no-proxy", false, "leave the reverse proxy running")

	restartCmd.Flags().BoolVarP(&restartPull, "pull", "p", false, "pull images before starting")
	restartCmd.Flags().BoolVarP(&restartBuild, "build", "b", false, "build images before starting")
	restartCmd.Flags().BoolVarP(&restartRecreate, "recreate", "r", false, "recreate containers even if their configuration did not change")
	restartCmd.Flags().BoolVar(&restartNoProxy, "no-proxy", false, "do not start the reverse proxy")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
}

func target(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runStart(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.orch.Start(cmd.Context(), orchestrator.StartOptions{
		Target:    target(args),
		Pull:      startPull,
		Build:     startBuild,
		Recreate:  startRecreate,
		WithProxy: s.cfg.Proxy.Enabled && !startNoProxy,
	})
	if err != nil {
		return err
	}
	return printStarted(cmd, s, snap)
}

func runRestart(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.orch.Restart(cmd.Context(), orchestrator.RestartOptions{
		Target:    target(args),
		Pull:      restartPull,
		Build:     restartBuild,
		Recreate:  restartRecreate,
		WithProxy: s.cfg.Proxy.Enabled && !restartNoProxy,
	})
	if err != nil {
		return err
	}
	return printStarted(cmd, s, snap)
}

func printStarted(cmd *cobra.Command, s *session, snap *orchestrator.Snapshot) error {
	p := cli.NewPrinter(cmd.OutOrStdout(), cli.OutputFormatTable)
	p.PrintReport(snap.Report)
	fmt.Fprintln(cmd.OutOrStdout(), color.Success(fmt.Sprintf("%s is running (%d/%d containers)",
		snap.Project, snap.State.Running, snap.State.Declared)))
	return p.PrintServiceURLs(s.orch.ServiceURLs(snap))
}

func runStop(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.orch.Stop(cmd.Context(), stopOptions(s.cfg, args, stopNoProxy))
	cli.NewPrinter(cmd.OutOrStdout(), cli.OutputFormatTable).PrintReport(report)
	if err != nil {
		return err
	}

	what := s.cfg.ProjectName
	if t := target(args); t != "" {
		what = t
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.Success(what+" stopped"))
	return nil
}

// stopOptions removes the proxy only when the whole project is stopped.
func stopOptions(cfg *config.EnvironmentConfig, args []string, noProxy bool) orchestrator.StopOptions {
	t := target(args)
	return orchestrator.StopOptions{
		Target:    t,
		WithProxy: cfg.Proxy.Enabled && !noProxy && t == "",
	}
}
