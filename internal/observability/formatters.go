// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jordan/restaurant-collector/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintLocationResult outputs a human-readable summary of one location pass.
func (p *Printer) PrintLocationResult(result pipeline.LocationResult) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Location: %s\n", result.Location))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", result.Status))

	if result.Status == pipeline.StatusFetchFailed {
		if result.Err != nil {
			sb.WriteString(fmt.Sprintf("Error:    %v", result.Err))
		}
		p.printBox("COLLECTION PASS", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Written:  %d   Skipped: %d   Failed: %d\n",
		result.Batch.Written, result.Batch.Skipped, result.Batch.Failed))

	if len(result.Batch.Restaurants) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Batch.Restaurants), maxItemsToShow)
		for i := 0; i < count; i++ {
			r := result.Batch.Restaurants[i]
			sb.WriteString(fmt.Sprintf("• %s", r.Name))
			if r.MainCuisine != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", r.MainCuisine))
			}
			if r.Rating != nil {
				sb.WriteString(fmt.Sprintf(" %.1f", *r.Rating))
			}
			sb.WriteString("\n")
		}
		if len(result.Batch.Restaurants) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Batch.Restaurants)-maxItemsToShow))
		}
	}

	p.printBox("COLLECTION PASS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecordErrors outputs the listings that could not be stored.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRecordErrors(errs []pipeline.RecordError) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO LISTING FAILURES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d failed listings:\n\n", len(errs)))

	for i, e := range errs {
		name := e.Name
		if name == "" {
			name = "(unnamed)"
		}
		detail := e.Err.Error()
		if len(detail) > 45 {
			detail = detail[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", name))
		sb.WriteString(fmt.Sprintf("  %s\n", detail))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LISTING FAILURES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs aggregate counts across a whole pass.
func (p *Printer) PrintRunSummary(results []pipeline.LocationResult) {
	if len(results) == 0 {
		return
	}

	var written, skipped, failed, fetchFailures int
	for _, res := range results {
		written += res.Batch.Written
		skipped += res.Batch.Skipped
		failed += res.Batch.Failed
		if res.Status == pipeline.StatusFetchFailed {
			fetchFailures++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Locations:      %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("Written:        %d\n", written))
	sb.WriteString(fmt.Sprintf("Skipped:        %d\n", skipped))
	sb.WriteString(fmt.Sprintf("Failed:         %d\n", failed))
	sb.WriteString(fmt.Sprintf("Fetch failures: %d", fetchFailures))

	p.printBox("RUN SUMMARY", sb.String())
}
