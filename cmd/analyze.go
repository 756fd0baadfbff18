package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-refiner/internal/input"
	"github.com/spigell/resume-refiner/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:          "analyze",
	Short:        "Analyze a résumé against a job description and optionally refine it",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to a plain-text résumé")
	analyzeCmd.Flags().StringP("job", "J", "", "path to a plain-text job description")
	analyzeCmd.Flags().IntP("refine", "n", 0, "number of refinement passes to run after the analysis")
	analyzeCmd.Flags().StringP("output-dir", "o", "", "directory for the exported Markdown files")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("job")

	viper.BindPFlag("output-dir", analyzeCmd.Flags().Lookup("output-dir"))
}

func analyze(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config, logger := setup()
	defer logger.Sync()

	passes, _ := cmd.Flags().GetInt("refine")
	if passes < 0 {
		return fmt.Errorf("--refine must not be negative, got %d", passes)
	}

	w := newWorkflow(config, logger, cmd.InOrStdin(), cmd.OutOrStdout())

	credential, err := resolveCredential(config)
	if err != nil {
		return fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")

	if err := fillSession(w.session, credential, resumePath, jobPath); err != nil {
		return err
	}

	logger.Info("starting the resume-refiner", zap.String("version", version), zap.Int("passes", passes))

	if err := w.analyze(ctx); err != nil {
		return presentable(err)
	}
	fmt.Fprintln(w.out, w.session.AnalysisReport)

	for i := 0; i < passes; i++ {
		if err := w.refine(ctx); err != nil {
			// Keep what the earlier passes produced.
			if _, saveErr := w.save(); saveErr != nil {
				logger.Warn("saving partial results", zap.Error(saveErr))
			}
			return presentable(err)
		}
	}

	if passes > 0 {
		fmt.Fprintln(w.out, w.session.RefinedResume)
	}
	fmt.Fprintln(w.out, w.comparison())

	saved, err := w.save()
	if err != nil {
		return err
	}
	for _, path := range saved {
		fmt.Fprintf(w.out, "saved %s\n", path)
	}

	return nil
}

func fillSession(s *session.Session, credential, resumePath, jobPath string) error {
	if err := s.SetCredential(credential); err != nil {
		return err
	}

	resume, err := loadText(resumePath)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if err := s.SetResume(resume); err != nil {
		return err
	}

	job, err := loadText(jobPath)
	if err != nil {
		return fmt.Errorf("job description: %w", err)
	}
	return s.SetJobDescription(job)
}

func loadText(path string) (string, error) {
	f, err := input.ReadFile(path)
	if err != nil {
		return "", err
	}
	return input.Load(f)
}

// presentable replaces errors the user can act on with their message alone.
func presentable(err error) error {
	if msg, ok := userMessage(err); ok {
		return errors.New(msg)
	}
	return err
}
