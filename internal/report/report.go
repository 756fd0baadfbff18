// Package report compares analysis scores and exports workflow artifacts.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/resume-refiner/internal/score"
)

// Export file names.
const (
	AnalysisReportFile        = "resume-analysis-report.md"
	RefinedResumeFile         = "refined-resume.md"
	RefinedAnalysisReportFile = "refined-analysis-report.md"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	deltaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// Comparison holds the scores of the original and the latest refined report.
type Comparison struct {
	Original score.Score
	Refined  score.Score
	// Refined mirrors Original when no refined report exists yet.
	HasRefined bool
}

// Compare extracts both scores. An empty refined report falls back to the
// original one.
func Compare(original, refined string) Comparison {
	c := Comparison{Original: score.Extract(original)}
	if strings.TrimSpace(refined) == "" {
		c.Refined = c.Original
		return c
	}

	c.Refined = score.Extract(refined)
	c.HasRefined = true
	return c
}

// Improvement is the score change from the original to the refined report.
func (c Comparison) Improvement() int {
	return c.Refined.Value - c.Original.Value
}

// Render formats the comparison for the terminal.
func Render(c Comparison) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Score comparison"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Original: %s\n", tierStyle(c.Original.Tier).Render(c.Original.String()))

	if !c.HasRefined {
		b.WriteString(mutedStyle.Render("  Refined:  not refined yet"))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  Refined:  %s\n", tierStyle(c.Refined.Tier).Render(c.Refined.String()))
	fmt.Fprintf(&b, "  Change:   %s\n", deltaStyle.Render(fmt.Sprintf("%+d points", c.Improvement())))

	return b.String()
}

func tierStyle(t score.Tier) lipgloss.Style {
	switch t {
	case score.TierHigh:
		return highStyle
	case score.TierMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

// Save writes content to dir/name, creating dir when needed, and returns the
// written path.
func Save(dir, name, content string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid export file name %q", name)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("nothing to export to %s", name)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
