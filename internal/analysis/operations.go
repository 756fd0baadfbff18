package analysis

import (
	"github.com/spigell/resume-refiner/internal/ai"
	"github.com/spigell/resume-refiner/internal/prompts"
)

// Operation names one of the analysis operations.
type Operation string

const (
	OpExtractJobKeywords    Operation = "extract_job_keywords"
	OpExtractResumeKeywords Operation = "extract_resume_keywords"
	OpAnalyzeResume         Operation = "analyze_resume"
	OpRefineResume          Operation = "refine_resume"
)

type params struct {
	tier        ai.Tier
	temperature float32
	maxTokens   int32
	system      prompts.Name
	template    prompts.Name
	failure     string
}

var operations = map[Operation]params{
	OpExtractJobKeywords: {
		tier:        ai.TierFast,
		temperature: 0.1,
		maxTokens:   4096,
		template:    prompts.JobKeywords,
		failure:     "Failed to extract job keywords. Please check your API key and try again.",
	},
	OpExtractResumeKeywords: {
		tier:        ai.TierFast,
		temperature: 0.1,
		maxTokens:   4096,
		template:    prompts.ResumeKeywords,
		failure:     "Failed to extract resume keywords. Please check your API key and try again.",
	},
	OpAnalyzeResume: {
		tier:        ai.TierPro,
		temperature: 0.7,
		maxTokens:   8192,
		system:      prompts.AnalysisSystem,
		template:    prompts.Analysis,
		failure:     "Failed to analyze résumé. Please check your API key and try again.",
	},
	OpRefineResume: {
		tier:        ai.TierPro,
		temperature: 0.3,
		maxTokens:   8192,
		template:    prompts.Refinement,
		failure:     "Failed to refine resume. Please check your API key and try again.",
	},
}

// FailureMessage is the user-facing message reported when op fails.
func (op Operation) FailureMessage() string {
	if p, ok := operations[op]; ok {
		return p.failure
	}
	return "Operation failed. Please check your API key and try again."
}
