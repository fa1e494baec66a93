package orchestrator

import (
	"fmt"

	"dockctl/pkg/logging"
)

// IssueKind names the step a non-fatal problem came from.
type IssueKind string

const (
	IssuePortBlock IssueKind = "port-block"
	IssueProxy     IssueKind = "proxy"
	IssueHook      IssueKind = "hook"
	IssueDNS       IssueKind = "dns"
)

// Issue is a problem that did not fail the operation.
type Issue struct {
	Kind    IssueKind `json:"kind" yaml:"kind"`
	Subject string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Err     error     `json:"-" yaml:"-"`
}

func (i Issue) String() string {
	if i.Subject == "" {
		return fmt.Sprintf("%s: %v", i.Kind, i.Err)
	}
	return fmt.Sprintf("%s %s: %v", i.Kind, i.Subject, i.Err)
}

// Report collects the non-fatal outcome of an operation in the order it
// happened.
type Report struct {
	Issues []Issue
	Notes  []string
}

func (r *Report) addIssue(kind IssueKind, subject string, err error) {
	issue := Issue{Kind: kind, Subject: subject, Err: err}
	logging.Debug("Orchestrator", "Non-fatal issue: %s", issue)
	r.Issues = append(r.Issues, issue)
}

func (r *Report) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *Report) merge(other Report) {
	r.Issues = append(r.Issues, other.Issues...)
	r.Notes = append(r.Notes, other.Notes...)
}
