package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-refiner/internal/secrets"
	"github.com/spigell/resume-refiner/internal/session"
)

const (
	PromptRefine      = "Refine resume"
	PromptRefineAgain = "Refine again"
	PromptScores      = "Show scores"
	PromptReport      = "Show analysis report"
	PromptResume      = "Show refined resume"
	PromptSave        = "Save results"
	PromptStartOver   = "Start over"
	PromptExit        = "Exit"

	PromptRetry     = "Retry analysis"
	PromptChangeKey = "Change API key"
	PromptReenter   = "Re-enter resume and job description"

	PromptFromFile = "Load from file"
	PromptPaste    = "Paste text"

	pasteTerminator = "."
)

var errExit = errors.New("exit requested")

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run the interactive analysis and refinement workflow",
	Run: func(cmd *cobra.Command, _ []string) {
		runSession(cmd)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config, logger := setup()
	defer logger.Sync()

	logger.Info("starting the resume-refiner", zap.String("version", version))

	w := newWorkflow(config, logger, cmd.InOrStdin(), cmd.OutOrStdout())

	collect := true
	for {
		if collect {
			if err := collectInputs(w); err != nil {
				if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) {
					return
				}
				logger.Fatal("collecting inputs", zap.Error(err))
			}
			collect = false
		}

		if !w.step(w.analyze(ctx)) {
			recovery := promptui.Select{
				Label: "Analysis failed. What next?",
				Items: []string{PromptRetry, PromptChangeKey, PromptReenter, PromptExit},
			}

			_, action, err := recovery.Run()
			if err == nil {
				collect, err = handleAnalysisFailure(w, action, askCredential)
			}
			if err != nil {
				if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) {
					logger.Info("exiting", zap.String("reason", "requested by user"))
					return
				}
				logger.Fatal("exiting", zap.Error(err))
			}
			continue
		}
		fmt.Fprintln(w.out, w.session.AnalysisReport)

		err := menu(ctx, w)
		switch {
		case err == nil:
			// start over
			w.session.Reset()
			collect = true
			logger.Info("starting over", zap.String("session_id", w.session.ID.String()))
		case errors.Is(err, errExit), errors.Is(err, promptui.ErrInterrupt):
			logger.Info("exiting", zap.String("reason", "requested by user"))
			return
		default:
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// handleAnalysisFailure acts on the choice made after a failed analysis. The
// session keeps its inputs; the returned flag asks for the résumé and the job
// description to be collected again.
func handleAnalysisFailure(w *workflow, action string, askKey func(*session.Session) error) (bool, error) {
	switch action {
	case PromptRetry:
		return false, nil
	case PromptChangeKey:
		return false, askKey(w.session)
	case PromptReenter:
		return true, nil
	case PromptExit:
		return false, errExit
	default:
		return false, fmt.Errorf("invalid action: %s", action)
	}
}

// step prints a user-facing error and reports whether the workflow may go on.
func (w *workflow) step(err error) bool {
	if err == nil {
		return true
	}

	msg, ok := userMessage(err)
	if !ok {
		w.logger.Error("unexpected failure", zap.Error(err))
		msg = "Something went wrong. Please try again."
	}
	fmt.Fprintln(w.out, msg)

	return false
}

// collectInputs asks for the résumé and the job description. The credential
// is resolved only when the session has none, so a key entered by hand is not
// replaced by the configured one.
func collectInputs(w *workflow) error {
	if w.session.Credential != "" {
		return askInputs(w)
	}

	credential, err := resolveCredential(w.config)
	switch {
	case err == nil:
		if err := w.session.SetCredential(credential); err != nil {
			w.step(err)
			if err := askCredential(w.session); err != nil {
				return err
			}
		}
	case errors.Is(err, secrets.ErrNotConfigured):
		if err := askCredential(w.session); err != nil {
			return err
		}
	default:
		return err
	}

	return askInputs(w)
}

func askInputs(w *workflow) error {
	if err := askText(w, "resume", w.session.SetResume); err != nil {
		return err
	}

	return askText(w, "job description", w.session.SetJobDescription)
}

func askCredential(s *session.Session) error {
	prompt := promptui.Prompt{
		Label:    "Gemini API key",
		Mask:     '*',
		Validate: session.ValidateCredential,
	}

	key, err := prompt.Run()
	if err != nil {
		return err
	}

	return s.SetCredential(key)
}

// askText repeats until set accepts the text loaded from a file or pasted.
func askText(w *workflow, what string, set func(string) error) error {
	for {
		source := promptui.Select{
			Label: fmt.Sprintf("How do you want to provide the %s?", what),
			Items: []string{PromptFromFile, PromptPaste, PromptExit},
		}

		_, choice, err := source.Run()
		if err != nil {
			return err
		}

		var text string
		switch choice {
		case PromptExit:
			return errExit
		case PromptFromFile:
			path, err := (&promptui.Prompt{Label: "Path to a .txt file"}).Run()
			if err != nil {
				return err
			}
			text, err = loadText(strings.TrimSpace(path))
			if !w.step(err) {
				continue
			}
		case PromptPaste:
			text, err = readPasted(w, what)
			if err != nil {
				return err
			}
		}

		if w.step(set(text)) {
			return nil
		}
	}
}

// readPasted reads lines from the workflow input until the terminator line
// or EOF. The reader is shared between calls so nothing read ahead is lost.
func readPasted(w *workflow, what string) (string, error) {
	fmt.Fprintf(w.out, "Paste the %s and finish with a line containing only %q:\n", what, pasteTerminator)

	var lines []string
	for {
		line, err := w.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read pasted %s: %w", what, err)
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == pasteTerminator {
			break
		}
		if err != nil {
			if line != "" {
				lines = append(lines, line)
			}
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

// menu runs the post-analysis loop. A nil error means "start over".
func menu(ctx context.Context, w *workflow) error {
	for {
		refineLabel := PromptRefine
		items := []string{PromptReport}
		if w.session.HasRefinement() {
			refineLabel = PromptRefineAgain
			items = append(items, PromptResume)
		}
		items = append([]string{refineLabel}, append(items, PromptScores, PromptSave, PromptStartOver, PromptExit)...)

		selector := promptui.Select{
			Label: "What next?",
			Items: items,
			Size:  len(items),
		}

		_, action, err := selector.Run()
		if err != nil {
			return err
		}

		if err := handleAction(ctx, w, action); err != nil {
			return err
		}
		if action == PromptStartOver {
			return nil
		}
	}
}

func handleAction(ctx context.Context, w *workflow, action string) error {
	switch action {
	case PromptRefine, PromptRefineAgain:
		if w.step(w.refine(ctx)) {
			fmt.Fprintln(w.out, w.session.RefinedResume)
			fmt.Fprintln(w.out, w.comparison())
		}
		return nil
	case PromptReport:
		fmt.Fprintln(w.out, w.session.CurrentReport())
		return nil
	case PromptResume:
		fmt.Fprintln(w.out, w.session.RefinedResume)
		return nil
	case PromptScores:
		fmt.Fprintln(w.out, w.comparison())
		return nil
	case PromptSave:
		saved, err := w.save()
		if err != nil {
			return fmt.Errorf("save results: %w", err)
		}
		for _, path := range saved {
			fmt.Fprintf(w.out, "saved %s\n", path)
		}
		return nil
	case PromptStartOver:
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
