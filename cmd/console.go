package cmd

import (
	"fmt"
	"os"

	"dockctl/internal/orchestrator"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	consoleUser string
	execUser    string
)

// consoleCmd opens a shell in a service
var consoleCmd = &cobra.Command{
	Use:   "console <service>",
	Short: "Open a shell in a running service",
	Long: `Open an interactive shell (bash when the image has it, sh otherwise)
in the container of a running service.`,
	Args: cobra.ExactArgs(1),
	RunE: runConsole,
}

// execCmd runs a command in a service
var execCmd = &cobra.Command{
	Use:   "exec <service> -- <command> [args...]",
	Short: "Run a command in a running service",
	Long: `Run a command in the container of a running service.

The command runs in the directory that mirrors your position inside the
project, under the configured exec.workdirBase (default /var):

  cd ~/src/shop/www && dockctl exec php -- php -v   # runs in /var/www`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExec,
}

func init() {
	consoleCmd.Flags().StringVarP(&consoleUser, "user", "u", "", "user to open the shell as (default from exec.user)")
	execCmd.Flags().StringVarP(&execUser, "user", "u", "", "user to run the command as (default from exec.user)")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(execCmd)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func exitCode(code int, err error) error {
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	return exitCode(s.orch.Console(cmd.Context(), orchestrator.ConsoleOptions{
		Service: args[0],
		User:    consoleUser,
		TTY:     stdinIsTerminal(),
	}))
}

func runExec(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	return exitCode(s.orch.Exec(cmd.Context(), orchestrator.ExecOptions{
		Service: args[0],
		User:    execUser,
		TTY:     stdinIsTerminal(),
		Args:    args[1:],
		Cwd:     cwd,
	}))
}
