package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"dockctl/internal/color"
	"dockctl/internal/orchestrator"
	"dockctl/pkg/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dockctl",
	Short: "Drive a local docker compose development environment",
	Long: `dockctl brings the containers of a docker compose project up and down,
reports their IPs, ports and URLs, and wires the helpers a development
environment needs: a reverse proxy, a DNS resolver, outgoing port blocks
and per-service post-start scripts.

The project is described by a dockctl.yml file, looked up from the current
directory upwards unless --config is given.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. guard errors, failed starts)
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logging.LevelInfo
		if verbose || debug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
		logging.SetTraceCommands(debug)
		color.Initialize(lipgloss.HasDarkBackground())
		return nil
	},
}

// exitCodeError carries the exit code of a command run inside a container.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.code)
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dockctl version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(handleError(err))
}

// handleError prints err the way its class requires and returns the exit code.
func handleError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	if orchestrator.IsBenign(err) {
		fmt.Fprintln(os.Stderr, color.Info(err.Error()))
		return 0
	}
	fmt.Fprintln(os.Stderr, color.Error(err.Error()))
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "project file (default is dockctl.yml in the current or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "show debug logs and every external command")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
