// Copyright 2025 Pentora Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/vulntor/portsniff/pkg/discovery"
	"github.com/vulntor/portsniff/pkg/scanner"
)

// OutputMode defines the output format for CLI commands
type OutputMode string

const (
	// ModeText prints the plain "<port> is open" listing
	ModeText OutputMode = "text"
	// ModeJSON outputs data as JSON
	ModeJSON OutputMode = "json"
	// ModeYAML outputs data as YAML
	ModeYAML OutputMode = "yaml"
	// ModeTable outputs data as ASCII table
	ModeTable OutputMode = "table"
)

// Formatter provides consistent output formatting across CLI commands
type Formatter interface {
	// Mode returns the active output mode
	Mode() OutputMode

	// PrintReport renders a scan report to stdout
	PrintReport(report *scanner.Report) error

	// PrintDiscovery renders a liveness check result to stdout
	PrintDiscovery(result discovery.Result) error

	// PrintJSON outputs data as JSON to stdout
	PrintJSON(data any) error

	// PrintYAML outputs data as YAML to stdout
	PrintYAML(data any) error

	// PrintTable outputs data as ASCII table to stdout
	PrintTable(headers []string, rows [][]string) error

	// PrintSummary outputs a summary message to stderr (unless quiet mode)
	PrintSummary(message string) error

	// PrintError outputs an error to stderr (or JSON to stdout in JSON mode)
	PrintError(err error) error

	// PrintTotalFailureSummary outputs a failed operation with suggestions
	PrintTotalFailureSummary(operation string, err error, errorCode string) error
}

// formatter implements the Formatter interface
type formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New creates a new Formatter
func New(stdout, stderr io.Writer, mode OutputMode, quiet, color bool) Formatter {
	return &formatter{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		quiet:  quiet,
		color:  color,
	}
}

func (f *formatter) Mode() OutputMode {
	return f.mode
}

// PrintReport writes the report in the active mode. Text mode prints a blank
// separator line followed by one "<port> is open" line per open port.
func (f *formatter) PrintReport(report *scanner.Report) error {
	switch f.mode {
	case ModeJSON:
		return f.PrintJSON(report)
	case ModeYAML:
		return f.PrintYAML(report)
	case ModeTable:
		if err := f.printReportHeader(report); err != nil {
			return err
		}
		rows := make([][]string, 0, len(report.OpenPorts))
		for _, p := range report.OpenPorts {
			rows = append(rows, []string{fmt.Sprintf("%d", p), "open"})
		}
		return f.PrintTable([]string{"port", "state"}, rows)
	default:
		var sb strings.Builder
		sb.WriteString("\n")
		for _, line := range report.Lines() {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		_, err := io.WriteString(f.stdout, sb.String())
		return err
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// printReportHeader writes the scan metadata block shown above the table.
func (f *formatter) printReportHeader(report *scanner.Report) error {
	title := fmt.Sprintf("Scan %s", report.Address)
	meta := []string{
		fmt.Sprintf("id:        %s", report.ID),
		fmt.Sprintf("ports:     %d-%d", report.StartPort, report.EndPort),
		fmt.Sprintf("attempted: %d", report.Attempted),
		fmt.Sprintf("open:      %d", len(report.OpenPorts)),
		fmt.Sprintf("duration:  %s", report.Duration),
	}
	if report.Canceled {
		meta = append(meta, "status:    canceled (partial results)")
	}

	body := strings.Join(meta, "\n")
	if f.color {
		title = titleStyle.Render(title)
		body = metaStyle.Render(body)
	}

	_, err := fmt.Fprintf(f.stdout, "%s\n%s\n\n", title, body)
	return err
}

// PrintDiscovery writes the result of a liveness check.
func (f *formatter) PrintDiscovery(result discovery.Result) error {
	switch f.mode {
	case ModeJSON:
		return f.PrintJSON(result)
	case ModeYAML:
		return f.PrintYAML(result)
	case ModeTable:
		return f.PrintTable(
			[]string{"address", "alive", "sent", "received", "avg rtt"},
			[][]string{{
				result.Address,
				fmt.Sprintf("%t", result.Alive),
				fmt.Sprintf("%d", result.PacketsSent),
				fmt.Sprintf("%d", result.PacketsRecv),
				result.AvgRtt.String(),
			}},
		)
	default:
		state := "unreachable"
		if result.Alive {
			state = "alive"
		}
		_, err := fmt.Fprintf(f.stdout, "%s is %s\n", result.Address, state)
		return err
	}
}

// PrintJSON outputs data as JSON to stdout
func (f *formatter) PrintJSON(data any) error {
	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML outputs data as YAML to stdout
func (f *formatter) PrintYAML(data any) error {
	enc := yaml.NewEncoder(f.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// PrintTable outputs data as ASCII table to stdout
func (f *formatter) PrintTable(headers []string, rows [][]string) error {
	if f.mode == ModeJSON || f.mode == ModeYAML {
		// Structured modes get the table as a list of records
		items := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			items = append(items, item)
		}
		if f.mode == ModeYAML {
			return f.PrintYAML(items)
		}
		return f.PrintJSON(items)
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	headerLine := make([]string, len(headers))
	for i, h := range headers {
		headerLine[i] = strings.ToUpper(h)
		if f.color {
			headerLine[i] = color.New(color.Bold).Sprint(headerLine[i])
		}
	}
	if _, err := fmt.Fprintln(w, strings.Join(headerLine, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

// PrintSummary outputs a summary message to stderr (unless quiet mode).
// Stdout carries only scan output.
func (f *formatter) PrintSummary(message string) error {
	if f.quiet {
		return nil
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stderr, message)
		return err
	}

	_, err := fmt.Fprintln(f.stderr, message)
	return err
}

// PrintError outputs an error to stderr (or JSON to stdout in JSON mode)
func (f *formatter) PrintError(err error) error {
	if err == nil {
		return nil
	}

	if f.mode == ModeJSON {
		return f.PrintJSON(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	var writeErr error
	if f.color {
		_, writeErr = color.New(color.FgRed).Fprintf(f.stderr, "Error: %v\n", err)
	} else {
		_, writeErr = fmt.Fprintf(f.stderr, "Error: %v\n", err)
	}

	return writeErr
}

// ValidateMode checks if the output mode is valid. It accepts exactly the
// spellings ParseMode recognises; empty means text.
func ValidateMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "text", "json", "yaml", "yml", "table":
		return nil
	default:
		return fmt.Errorf("invalid output mode: %s (must be 'text', 'json', 'yaml' or 'table')", mode)
	}
}

// ParseMode converts a string to OutputMode
func ParseMode(mode string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	case "table":
		return ModeTable
	default:
		return ModeText
	}
}
