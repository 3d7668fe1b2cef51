// Copyright 2025 Pentora Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// PrintTotalFailureSummary prints a failed operation with suggestions.
// Example output:
//
//	✗ Failed to scan: invalid start port: 0 (must be between 1 and 65535)
//
//	💡 Suggestions:
//	  → Start between 1 and 65535:  portsniff -s 1 -e 1024
func (f *formatter) PrintTotalFailureSummary(operation string, err error, errorCode string) error {
	if f.quiet {
		return nil
	}

	if f.mode == ModeJSON {
		return f.PrintJSON(map[string]any{
			"success":    false,
			"operation":  operation,
			"error":      err.Error(),
			"error_code": errorCode,
		})
	}

	var sb strings.Builder

	errorMsg := fmt.Sprintf("✗ Failed to %s: %v", operation, err)
	if f.color {
		sb.WriteString(color.RedString("%s\n", errorMsg))
	} else {
		sb.WriteString(errorMsg + "\n")
	}

	suggestions := GetSuggestions(errorCode, operation)
	if len(suggestions) > 0 {
		sb.WriteString("\n💡 Suggestions:\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("  → %s\n", s))
		}
	}

	_, writeErr := f.stderr.Write([]byte(sb.String()))
	return writeErr
}

// GetSuggestions returns actionable hints based on error code and operation
func GetSuggestions(errorCode string, operation string) []string {
	suggestions := []string{}

	switch errorCode {
	case "INVALID_ADDRESS":
		suggestions = append(suggestions,
			"Pass an IPv4 or IPv6 literal:  portsniff -a 192.168.1.10",
			"Check the host first:          portsniff discover <address>",
		)

	case "INVALID_START_PORT":
		suggestions = append(suggestions,
			"Start between 1 and 65535:  portsniff -s 1 -e 1024",
		)

	case "INVALID_END_PORT":
		suggestions = append(suggestions,
			"The end port is exclusive and at most 65535:  portsniff -e 65535",
		)

	case "INVALID_CONCURRENCY":
		suggestions = append(suggestions,
			"Allow at least one attempt in flight:  portsniff -k 500",
		)

	case "INVALID_ARGUMENT":
		suggestions = append(suggestions,
			fmt.Sprintf("See usage:  portsniff %s --help", helpTarget(operation)),
		)

	case "SCAN_CANCELED":
		suggestions = append(suggestions,
			"Ports found before the interruption were printed above",
			"Bound each dial to finish sooner:  portsniff --timeout 500ms",
		)

	case "SCAN_FAILURE":
		suggestions = append(suggestions,
			fmt.Sprintf("Re-run with debug logs:  portsniff %s -vv", helpTarget(operation)),
		)

	case "INVALID_HOST":
		suggestions = append(suggestions,
			"Pass an IPv4 or IPv6 literal:  portsniff discover 192.168.1.10",
		)

	case "PING_FAILURE":
		suggestions = append(suggestions,
			"Allow unprivileged ICMP:  sudo sysctl -w net.ipv4.ping_group_range=\"0 2147483647\"",
			"Or run as root with:      portsniff discover <address> --privileged",
		)
	}

	return suggestions
}

// helpTarget maps an operation to the subcommand that implements it.
func helpTarget(operation string) string {
	if operation == "scan" {
		return ""
	}
	return operation
}

// reportedError marks an error that was already rendered to the user.
type reportedError struct {
	error
}

func (e *reportedError) Unwrap() error {
	return e.error
}

// Reported marks err as already printed so main only sets the exit code.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{error: err}
}

// IsReported reports whether err was marked with Reported.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
