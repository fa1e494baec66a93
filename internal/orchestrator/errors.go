package orchestrator

import "errors"

var (
	// ErrAlreadyStarted is returned by Start when the environment, or the
	// targeted service, already runs.
	ErrAlreadyStarted = errors.New("environment is already started")
	// ErrEnvironmentStopped is returned when an operation needs running
	// containers and there are none.
	ErrEnvironmentStopped = errors.New("environment is stopped")
	// ErrDNSAlreadyRunning is returned by StartDNS when the resolver runs.
	ErrDNSAlreadyRunning = errors.New("dns resolver is already running")
	// ErrDNSNotRunning is returned by StopDNS when there is nothing to stop.
	ErrDNSNotRunning = errors.New("dns resolver is not running")

	ErrStartFailed     = errors.New("environment failed to start")
	ErrStopFailed      = errors.New("environment failed to stop")
	ErrPullFailed      = errors.New("failed to pull images")
	ErrBuildFailed     = errors.New("failed to build images")
	ErrServiceNotFound = errors.New("service not found or not running")
)

// IsBenign reports whether err is a guard that should be shown as
// information and not fail the command.
func IsBenign(err error) bool {
	return errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrEnvironmentStopped) ||
		errors.Is(err, ErrDNSAlreadyRunning) ||
		errors.Is(err, ErrDNSNotRunning)
}
