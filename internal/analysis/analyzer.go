// Package analysis implements the résumé operations built on the generation
// client: keyword extraction, fit analysis and refinement.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-refiner/internal/ai"
	"github.com/spigell/resume-refiner/internal/logger"
	"github.com/spigell/resume-refiner/internal/prompts"
	"github.com/spigell/resume-refiner/internal/utils"
)

const defaultMaxLogLength = 200

// Connector returns the generator bound to a credential.
type Connector interface {
	Generator(ctx context.Context, credential string) (ai.Generator, error)
}

// Error is returned by every operation. Its message is safe to show to the
// user; the underlying generation failure is available through Unwrap.
type Error struct {
	Op      Operation
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RefineInput carries the artifacts a refinement is generated from.
type RefineInput struct {
	Resume         string
	JobDescription string
	JobKeywords    string
	ResumeKeywords string
	AnalysisReport string
}

type Analyzer struct {
	connector Connector
	logger    *zap.Logger
	maxLogLen int
}

func New(connector Connector, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		connector: connector,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// ExtractJobKeywords lists the keywords a recruiter would look for in the job description.
func (a *Analyzer) ExtractJobKeywords(ctx context.Context, jobDescription, credential string) (string, error) {
	return a.run(ctx, OpExtractJobKeywords, credential, map[string]string{
		prompts.VarJobDescription: jobDescription,
	})
}

// ExtractResumeKeywords lists the keywords describing the candidate.
func (a *Analyzer) ExtractResumeKeywords(ctx context.Context, resumeText, credential string) (string, error) {
	return a.run(ctx, OpExtractResumeKeywords, credential, map[string]string{
		prompts.VarResume: resumeText,
	})
}

// AnalyzeResume produces the Markdown fit analysis report, including the overall score marker.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText, jobDescription, credential string) (string, error) {
	return a.run(ctx, OpAnalyzeResume, credential, map[string]string{
		prompts.VarResume:         resumeText,
		prompts.VarJobDescription: jobDescription,
	})
}

// RefineResume rewrites the résumé using the keywords and the analysis report.
func (a *Analyzer) RefineResume(ctx context.Context, in RefineInput, credential string) (string, error) {
	return a.run(ctx, OpRefineResume, credential, map[string]string{
		prompts.VarResume:         in.Resume,
		prompts.VarJobDescription: in.JobDescription,
		prompts.VarJobKeywords:    in.JobKeywords,
		prompts.VarResumeKeywords: in.ResumeKeywords,
		prompts.VarAnalysisReport: in.AnalysisReport,
	})
}

func (a *Analyzer) run(ctx context.Context, op Operation, credential string, vars map[string]string) (string, error) {
	p, ok := operations[op]
	if !ok {
		return "", &Error{Op: op, Message: op.FailureMessage(), Err: fmt.Errorf("unknown operation %q", op)}
	}

	log := a.logger.With(
		zap.String(logger.FieldOperation, string(op)),
		zap.String(logger.FieldCredential, utils.Fingerprint(credential)),
	)

	req, err := buildRequest(p, vars)
	if err != nil {
		return "", a.fail(log, op, err)
	}

	log.Debug("generation request",
		zap.Int("prompt_length", utf8.RuneCountInString(req.Prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(req.Prompt, a.maxLogLen)),
	)

	generator, err := a.connector.Generator(ctx, credential)
	if err != nil {
		return "", a.fail(log, op, ai.NewGenerationError("create client", err))
	}

	text, err := generator.Generate(ctx, req)
	if err != nil {
		return "", a.fail(log, op, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", a.fail(log, op, ai.NewGenerationError("empty output", ai.ErrEmptyResponse))
	}

	log.Debug("generation response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, a.maxLogLen)),
	)

	return text, nil
}

func buildRequest(p params, vars map[string]string) (ai.Request, error) {
	template, err := prompts.Get(p.template)
	if err != nil {
		return ai.Request{}, err
	}

	req := ai.Request{
		Tier:            p.tier,
		Prompt:          prompts.Render(template, vars),
		Temperature:     p.temperature,
		MaxOutputTokens: p.maxTokens,
	}

	if p.system != "" {
		system, err := prompts.Get(p.system)
		if err != nil {
			return ai.Request{}, err
		}
		req.SystemInstruction = system
	}

	return req, nil
}

func (a *Analyzer) fail(log *zap.Logger, op Operation, err error) error {
	fields := []zap.Field{zap.Error(err)}

	var genErr *ai.GenerationError
	if errors.As(err, &genErr) {
		fields = append(fields, zap.String("reason", genErr.Reason))
		if genErr.Err != nil {
			fields = append(fields, zap.NamedError("cause", genErr.Err))
		}
	}

	log.Error("analysis operation failed", fields...)

	return &Error{Op: op, Message: op.FailureMessage(), Err: err}
}
