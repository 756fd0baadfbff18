// Package refinement sequences the analysis operations into the résumé
// refinement workflow and writes their results into the session.
package refinement

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/spigell/resume-refiner/internal/analysis"
	"github.com/spigell/resume-refiner/internal/logger"
	"github.com/spigell/resume-refiner/internal/session"
	"github.com/spigell/resume-refiner/internal/validation"
)

var (
	// ErrBusy is returned when a pass is started while another one runs.
	ErrBusy = errors.New("a refinement is already in progress")
	// ErrSequenceAborted matches a StepError raised after earlier steps of
	// the same pass had already been written to the session.
	ErrSequenceAborted = errors.New("refinement sequence aborted")
)

const (
	missingRefinementData = "Missing required data for refinement"
	missingAnalysisData   = "Missing required data for analysis"
)

// Operations is the subset of the analyzer the orchestrator drives.
type Operations interface {
	ExtractJobKeywords(ctx context.Context, jobDescription, credential string) (string, error)
	ExtractResumeKeywords(ctx context.Context, resumeText, credential string) (string, error)
	AnalyzeResume(ctx context.Context, resumeText, jobDescription, credential string) (string, error)
	RefineResume(ctx context.Context, in analysis.RefineInput, credential string) (string, error)
}

// StepError reports the step that failed and the steps of the pass that
// completed before it.
type StepError struct {
	Step      Step
	Completed []Step
	Err       error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func (e *StepError) Is(target error) bool {
	return target == ErrSequenceAborted && len(e.Completed) > 0
}

type step struct {
	id  Step
	run func(ctx context.Context, s *session.Session) error
}

// Orchestrator runs at most one pass at a time.
type Orchestrator struct {
	ops    Operations
	logger *zap.Logger
	busy   *semaphore.Weighted
}

func New(ops Operations, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Orchestrator{
		ops:    ops,
		logger: log,
		busy:   semaphore.NewWeighted(1),
	}
}

// Analyze produces the original fit analysis report. Any refinement derived
// from a previous report is discarded.
func (o *Orchestrator) Analyze(ctx context.Context, s *session.Session) error {
	if !o.busy.TryAcquire(1) {
		return ErrBusy
	}
	defer o.busy.Release(1)

	if !s.ReadyForAnalysis() {
		return validation.New("session", validation.KindMissingData, missingAnalysisData)
	}

	log := o.logger.With(logger.SessionFields(s.ID.String(), "analyze")...)
	log.Info("starting fit analysis")

	report, err := o.ops.AnalyzeResume(ctx, s.ResumeText, s.JobDescription, s.Credential)
	if err != nil {
		log.Warn("fit analysis failed", zap.Error(err))
		return err
	}

	s.SetAnalysisReport(report)
	log.Info("fit analysis completed")

	return nil
}

// Refine runs a first pass when no refined résumé exists yet, otherwise a
// "refine again" pass.
func (o *Orchestrator) Refine(ctx context.Context, s *session.Session, progress ProgressFunc) error {
	if s.HasRefinement() {
		return o.RefineAgain(ctx, s, progress)
	}
	return o.FirstPass(ctx, s, progress)
}

// FirstPass extracts both keyword sets, refines the original résumé and
// analyzes the result.
func (o *Orchestrator) FirstPass(ctx context.Context, s *session.Session, progress ProgressFunc) error {
	if !o.busy.TryAcquire(1) {
		return ErrBusy
	}
	defer o.busy.Release(1)

	if !s.ReadyForRefinement() {
		return validation.New("session", validation.KindMissingData, missingRefinementData)
	}

	steps := []step{
		{id: StepJobKeywords, run: o.jobKeywords},
		{id: StepResumeKeywords, run: o.resumeKeywords},
		{id: StepRefine, run: o.refine(func(s *session.Session) (string, string) {
			return s.ResumeText, s.AnalysisReport
		})},
		{id: StepAnalyze, run: o.analyze},
	}

	return o.run(ctx, s, PassFirst, steps, progress)
}

// RefineAgain refines the latest refined résumé against the latest report,
// reusing the stored keywords.
func (o *Orchestrator) RefineAgain(ctx context.Context, s *session.Session, progress ProgressFunc) error {
	if !o.busy.TryAcquire(1) {
		return ErrBusy
	}
	defer o.busy.Release(1)

	if !s.ReadyForRefinement() || !s.HasRefinement() || s.JobKeywords == "" || s.ResumeKeywords == "" {
		return validation.New("session", validation.KindMissingData, missingRefinementData)
	}

	steps := []step{
		{id: StepRefine, run: o.refine(func(s *session.Session) (string, string) {
			return s.RefinedResume, s.CurrentReport()
		})},
		{id: StepAnalyze, run: o.analyze},
	}

	return o.run(ctx, s, PassAgain, steps, progress)
}

func (o *Orchestrator) run(ctx context.Context, s *session.Session, pass Pass, steps []step, progress ProgressFunc) error {
	log := o.logger.With(logger.SessionFields(s.ID.String(), "refine")...).With(zap.String("pass", string(pass)))
	notify := func(id Step) {
		if progress != nil {
			progress(Progress{Pass: pass, Step: id, Total: TotalSteps})
		}
	}

	completed := make([]Step, 0, len(steps))
	for _, st := range steps {
		notify(st.id)

		if err := st.run(ctx, s); err != nil {
			log.Warn("refinement step failed",
				zap.Int(logger.FieldRefinementStep, int(st.id)),
				zap.String("name", st.id.String()),
				zap.Int("completed", len(completed)),
				zap.Error(err),
			)
			return &StepError{Step: st.id, Completed: completed, Err: err}
		}

		completed = append(completed, st.id)
		log.Info("refinement step",
			zap.Int(logger.FieldRefinementStep, int(st.id)),
			zap.String("name", st.id.String()),
			zap.Int("total", TotalSteps),
		)
	}

	notify(StepComplete)
	log.Info("refinement completed", zap.Int("steps", len(completed)))

	return nil
}

func (o *Orchestrator) jobKeywords(ctx context.Context, s *session.Session) error {
	keywords, err := o.ops.ExtractJobKeywords(ctx, s.JobDescription, s.Credential)
	if err != nil {
		return err
	}
	return s.SetJobKeywords(keywords)
}

func (o *Orchestrator) resumeKeywords(ctx context.Context, s *session.Session) error {
	keywords, err := o.ops.ExtractResumeKeywords(ctx, s.ResumeText, s.Credential)
	if err != nil {
		return err
	}
	return s.SetResumeKeywords(keywords)
}

// refine builds the refinement step; source picks the résumé and report the
// step rewrites from.
func (o *Orchestrator) refine(source func(s *session.Session) (resume, report string)) func(context.Context, *session.Session) error {
	return func(ctx context.Context, s *session.Session) error {
		resume, report := source(s)
		refined, err := o.ops.RefineResume(ctx, analysis.RefineInput{
			Resume:         resume,
			JobDescription: s.JobDescription,
			JobKeywords:    s.JobKeywords,
			ResumeKeywords: s.ResumeKeywords,
			AnalysisReport: report,
		}, s.Credential)
		if err != nil {
			return err
		}
		return s.SetRefinedResume(refined)
	}
}

func (o *Orchestrator) analyze(ctx context.Context, s *session.Session) error {
	report, err := o.ops.AnalyzeResume(ctx, s.RefinedResume, s.JobDescription, s.Credential)
	if err != nil {
		return err
	}
	return s.SetRefinedAnalysisReport(report)
}
