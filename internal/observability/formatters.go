// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-studio/internal/overlay"
	"github.com/jonathan/resume-studio/internal/types"
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

// PrintAnalysis outputs a human-readable summary of the job-fit analysis.
func (p *Printer) PrintAnalysis(analysis *types.JobAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	if analysis.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", analysis.CompanyName))
	}
	if analysis.RoleTitle != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", analysis.RoleTitle))
	}
	sb.WriteString(fmt.Sprintf("Score:    %.0f/100\n", analysis.MatchScore))
	if analysis.MatchSummary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", analysis.MatchSummary))
	}

	writeTruncatedList(&sb, "Key Requirements", analysis.KeyRequirements, maxItemsToShow)
	writeTruncatedList(&sb, "Strengths", analysis.Strengths, 3)
	writeTruncatedList(&sb, "Gaps", analysis.Gaps, 3)

	p.printBox("JOB FIT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcomes outputs a per-artifact summary of the last generation run.
func (p *Printer) PrintOutcomes(states map[types.ArtifactKind]overlay.State) {
	if len(states) == 0 {
		return
	}

	var sb strings.Builder
	for _, kind := range types.AllKinds() {
		st, ok := states[kind]
		if !ok || !st.HasGenerated {
			continue
		}
		name := strings.ReplaceAll(string(kind), "_", " ")
		if st.Success {
			sb.WriteString(fmt.Sprintf("✓ %-16s %d chars\n", name, len(st.EditedText)))
		} else {
			msg := st.ErrorMessage
			if len(msg) > 32 {
				msg = msg[:29] + "..."
			}
			sb.WriteString(fmt.Sprintf("⚠ %-16s %s\n", name, msg))
		}
	}
	if sb.Len() == 0 {
		return
	}

	p.printBox("GENERATION OUTCOMES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSessionSummary outputs the provider configuration, spend and status line.
func (p *Printer) PrintSessionSummary(provider, model, costDisplay, statusLine string) {
	var sb strings.Builder
	if provider != "" {
		sb.WriteString(fmt.Sprintf("Provider: %s\n", provider))
	}
	if model != "" {
		sb.WriteString(fmt.Sprintf("Model:    %s\n", model))
	}
	sb.WriteString(fmt.Sprintf("Spend:    %s\n", costDisplay))
	if statusLine != "" {
		sb.WriteString(fmt.Sprintf("Status:   %s\n", statusLine))
	}

	p.printBox("SESSION", strings.TrimSuffix(sb.String(), "\n"))
}

func writeTruncatedList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		item := items[i]
		if len(item) > 50 {
			item = item[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}
