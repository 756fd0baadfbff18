// Package prompts renders the instruction templates sent to the text-generation service.
// Templates are Markdown files embedded at compile time.
package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var templateFiles embed.FS

// Name identifies an embedded template.
type Name string

const (
	// AnalysisSystem is the system instruction describing the analysis framework.
	AnalysisSystem Name = "analysis_system"
	// Analysis is the user prompt carrying the résumé and job description.
	Analysis       Name = "analysis"
	JobKeywords    Name = "job_keywords"
	ResumeKeywords Name = "resume_keywords"
	Refinement     Name = "refinement"
)

// Placeholder names understood by the embedded templates.
const (
	VarJobDescription = "JOB_DESCRIPTION"
	VarResume         = "RESUME"
	VarJobKeywords    = "JOB_KEYWORDS"
	VarResumeKeywords = "RESUME_KEYWORDS"
	VarAnalysisReport = "ANALYSIS_REPORT"
)

// Get returns the embedded template with the given name.
func Get(name Name) (string, error) {
	data, err := templateFiles.ReadFile("templates/" + string(name) + ".md")
	if err != nil {
		return "", fmt.Errorf("read prompt template %s: %w", name, err)
	}

	template := strings.TrimSpace(string(data))
	if template == "" {
		return "", fmt.Errorf("prompt template %s is empty", name)
	}

	return template, nil
}
