package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-refiner/internal/ai"
	"github.com/spigell/resume-refiner/internal/ai/gemini"
	"github.com/spigell/resume-refiner/internal/analysis"
	"github.com/spigell/resume-refiner/internal/logger"
	"github.com/spigell/resume-refiner/internal/refinement"
	"github.com/spigell/resume-refiner/internal/report"
	"github.com/spigell/resume-refiner/internal/secrets"
	"github.com/spigell/resume-refiner/internal/session"
	"github.com/spigell/resume-refiner/internal/validation"
)

// workflow ties one session to the orchestrator driving it.
type workflow struct {
	config       *Config
	logger       *zap.Logger
	session      *session.Session
	orchestrator *refinement.Orchestrator
	in           *bufio.Reader
	out          io.Writer
}

func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting with config",
		zap.String("output_dir", config.OutputDir),
		zap.String("fast_model", config.AI.Gemini.Models.Fast),
		zap.String("pro_model", config.AI.Gemini.Models.Pro),
		zap.Duration("request_timeout", config.AI.Gemini.RequestTimeout),
	)

	return config, logger
}

func newWorkflow(config *Config, log *zap.Logger, in io.Reader, out io.Writer) *workflow {
	cfg := config.AI.Gemini

	connector := gemini.NewConnector(gemini.Options{
		Models: map[ai.Tier]string{
			ai.TierFast: cfg.Models.Fast,
			ai.TierPro:  cfg.Models.Pro,
		},
		RequestTimeout: cfg.RequestTimeout,
	}, log)

	analyzer := analysis.New(connector, log, cfg.MaxLogLength)
	s := session.New()

	return &workflow{
		config:       config,
		logger:       log.With(zap.String(logger.FieldSession, s.ID.String())),
		session:      s,
		orchestrator: refinement.New(analyzer, log),
		in:           bufio.NewReader(in),
		out:          out,
	}
}

// resolveCredential reads the credential from the config, the environment or
// the key file. secrets.ErrNotConfigured is returned when none is set.
func resolveCredential(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
	})
}

func (w *workflow) analyze(ctx context.Context) error {
	fmt.Fprintln(w.out, "Analyzing resume against the job description...")
	return w.orchestrator.Analyze(ctx, w.session)
}

func (w *workflow) refine(ctx context.Context) error {
	return w.orchestrator.Refine(ctx, w.session, w.progress)
}

func (w *workflow) progress(p refinement.Progress) {
	fmt.Fprintf(w.out, "[%3d%%] %s\n", p.Percent(), p.Step.Description())
}

func (w *workflow) comparison() string {
	return report.Render(report.Compare(w.session.AnalysisReport, w.session.RefinedAnalysisReport))
}

// save exports every artifact the session holds.
func (w *workflow) save() ([]string, error) {
	artifacts := []struct {
		name    string
		content string
	}{
		{report.AnalysisReportFile, w.session.AnalysisReport},
		{report.RefinedResumeFile, w.session.RefinedResume},
		{report.RefinedAnalysisReportFile, w.session.RefinedAnalysisReport},
	}

	saved := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if a.content == "" {
			continue
		}

		path, err := report.Save(w.config.OutputDir, a.name, a.content)
		if err != nil {
			return saved, err
		}
		saved = append(saved, path)
		w.logger.Info("saved artifact", zap.String("path", path))
	}

	return saved, nil
}

// userMessage returns the text to show for errors the user can act on. The
// second value is false for errors that should stop the program.
func userMessage(err error) (string, bool) {
	if verr, ok := validation.As(err); ok {
		return verr.Message, true
	}

	var stepErr *refinement.StepError
	if errors.As(err, &stepErr) {
		msg := stepErr.Error()
		if errors.Is(err, refinement.ErrSequenceAborted) {
			msg += " Completed steps were kept; you can retry the refinement."
		}
		return msg, true
	}

	var opErr *analysis.Error
	if errors.As(err, &opErr) {
		return opErr.Message, true
	}

	if errors.Is(err, refinement.ErrBusy) {
		return "A refinement is already running. Please wait for it to finish.", true
	}

	return "", false
}
