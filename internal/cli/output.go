// Package cli renders orchestrator results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dockctl/internal/color"
	"dockctl/internal/containerizer"
	"dockctl/internal/orchestrator"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// urlLabelWidth is the display width the "For <service>" label is padded to.
const urlLabelWidth = 40

// Printer writes results in one format.
type Printer struct {
	out    io.Writer
	format OutputFormat
}

// NewPrinter creates a Printer.
func NewPrinter(out io.Writer, format OutputFormat) *Printer {
	return &Printer{out: out, format: format}
}

// ServiceStatus is one row of the status output.
type ServiceStatus struct {
	Service string   `json:"service" yaml:"service"`
	Address string   `json:"address" yaml:"address"`
	Ports   []string `json:"ports" yaml:"ports"`
	Image   string   `json:"image" yaml:"image"`
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
}

// StatusView is the serialisable form of a snapshot.
type StatusView struct {
	Project    string                    `json:"project" yaml:"project"`
	State      orchestrator.RunningState `json:"state" yaml:"state"`
	DNSRunning bool                      `json:"dnsRunning" yaml:"dnsRunning"`
	Services   []ServiceStatus           `json:"services" yaml:"services"`
}

// NewStatusView lists the running containers of a snapshot. With the dns
// resolver up the address is the container name instead of its IP.
func NewStatusView(snap *orchestrator.Snapshot) StatusView {
	view := StatusView{Project: snap.Project, State: snap.State, DNSRunning: snap.DNSRunning}
	for _, name := range snap.ServiceNames() {
		c := snap.Services[name]
		if !c.Running() {
			continue
		}
		view.Services = append(view.Services, ServiceStatus{
			Service: name,
			Address: address(c, snap.DNSRunning),
			Ports:   c.Ports,
			Image:   c.Image,
			ID:      c.ShortID(),
			Name:    c.RuntimeName,
		})
	}
	return view
}

func address(c containerizer.ContainerInfo, dns bool) string {
	if dns {
		return c.RuntimeName
	}
	return c.IP
}

// PrintStatus writes the status of a snapshot.
func (p *Printer) PrintStatus(snap *orchestrator.Snapshot) error {
	view := NewStatusView(snap)
	switch p.format {
	case OutputFormatJSON:
		return p.writeJSON(view)
	case OutputFormatYAML:
		return p.writeYAML(view)
	case OutputFormatTable, "":
		p.statusTable(view)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", p.format)
	}
}

func (p *Printer) statusTable(view StatusView) {
	addrHeader := "IP"
	if view.DNSRunning {
		addrHeader = "HOSTNAME"
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	headers := table.Row{}
	for _, h := range []string{"SERVICE", addrHeader, "PORTS", "IMAGE", "DOCKER ID", "DOCKER NAME"} {
		headers = append(headers, text.FgHiCyan.Sprint(h))
	}
	t.AppendHeader(headers)

	for _, s := range view.Services {
		t.AppendRow(table.Row{
			text.FgGreen.Sprint(s.Service),
			s.Address,
			strings.Join(s.Ports, ", "),
			s.Image,
			s.ID,
			s.Name,
		})
	}
	t.SetCaption("%s: %d/%d running", view.Project, view.State.Running, view.State.Declared)
	t.Render()
}

// PrintServiceURLs writes one line per browsable service.
func (p *Printer) PrintServiceURLs(urls []orchestrator.ServiceURL) error {
	switch p.format {
	case OutputFormatJSON:
		return p.writeJSON(urls)
	case OutputFormatYAML:
		return p.writeYAML(urls)
	}

	if len(urls) == 0 {
		fmt.Fprintln(p.out, color.MutedStyle.Render("No service with a URL is running"))
		return nil
	}
	fmt.Fprintln(p.out, color.HeaderStyle.Render("Services URLs:"))
	for _, u := range urls {
		label := "  - For " + u.DisplayName
		fmt.Fprintf(p.out, "%s : %s\n", color.HighlightStyle.Render(runewidth.FillRight(label, urlLabelWidth)), u.URL)
		if len(u.ExtraPorts) > 0 {
			fmt.Fprintf(p.out, "    (In your containers use the host %q and port(s) %s)\n", u.Service, joinPorts(u.ExtraPorts))
		}
	}
	fmt.Fprintln(p.out)
	return nil
}

func joinPorts(ports []int) string {
	s := make([]string, len(ports))
	for i, p := range ports {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ", ")
}

// PrintReport writes notes and non-fatal issues collected by an operation.
func (p *Printer) PrintReport(report orchestrator.Report) {
	for _, n := range report.Notes {
		fmt.Fprintln(p.out, color.Info(n))
	}
	for _, i := range report.Issues {
		fmt.Fprintln(p.out, color.Warning(i.String()))
	}
}

func (p *Printer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (p *Printer) writeYAML(v interface{}) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	return enc.Close()
}
