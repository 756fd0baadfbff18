package refinement

// Step identifies a position in the refinement state machine.
type Step int

const (
	StepIdle Step = iota
	StepJobKeywords
	StepResumeKeywords
	StepRefine
	StepAnalyze
	StepComplete
)

// TotalSteps is the number of generation steps in a first pass.
const TotalSteps = 4

var stepNames = map[Step]string{
	StepIdle:           "idle",
	StepJobKeywords:    "job_keywords",
	StepResumeKeywords: "resume_keywords",
	StepRefine:         "refine",
	StepAnalyze:        "analyze",
	StepComplete:       "complete",
}

var stepDescriptions = map[Step]string{
	StepJobKeywords:    "Extracting job keywords...",
	StepResumeKeywords: "Extracting resume keywords...",
	StepRefine:         "Refining resume content...",
	StepAnalyze:        "Analyzing refined resume...",
	StepComplete:       "Refinement complete!",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Description is the progress text shown while the step runs.
func (s Step) Description() string {
	return stepDescriptions[s]
}

// Pass tells a first refinement from a "refine again" iteration.
type Pass string

const (
	PassFirst Pass = "first"
	PassAgain Pass = "again"
)

// Progress is reported on entering each step and on completion. It is
// advisory; a nil ProgressFunc is allowed.
type Progress struct {
	Pass  Pass
	Step  Step
	Total int
}

// Percent returns the share of the pass already done, 0..100.
func (p Progress) Percent() int {
	if p.Step >= StepComplete || p.Total <= 0 {
		return 100
	}
	return int(p.Step-1) * 100 / p.Total
}

type ProgressFunc func(Progress)
