package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-refiner/internal/analysis"
	"github.com/spigell/resume-refiner/internal/refinement"
	"github.com/spigell/resume-refiner/internal/report"
	"github.com/spigell/resume-refiner/internal/secrets"
	"github.com/spigell/resume-refiner/internal/validation"
)

func TestGetConfigDefaultsAndOverrides(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("ai.gemini.request-timeout", nil)
		viper.Set("ai.gemini.models.fast", nil)
	})

	config, err := getConfig()
	require.NoError(t, err)
	assert.Equal(t, ".", config.OutputDir)
	assert.Equal(t, "gemini-2.5-flash", config.AI.Gemini.Models.Fast)
	assert.Equal(t, "gemini-2.5-pro", config.AI.Gemini.Models.Pro)
	assert.Equal(t, 3*time.Minute, config.AI.Gemini.RequestTimeout)
	assert.Equal(t, 200, config.AI.Gemini.MaxLogLength)

	viper.Set("ai.gemini.request-timeout", "90s")
	viper.Set("ai.gemini.models.fast", "gemini-2.5-flash-lite")

	config, err = getConfig()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, config.AI.Gemini.RequestTimeout)
	assert.Equal(t, "gemini-2.5-flash-lite", config.AI.Gemini.Models.Fast)
}

func TestResolveCredential(t *testing.T) {
	config := &Config{AI: &AIConfig{Gemini: &GeminiConfig{}}}

	_, err := resolveCredential(config)
	assert.ErrorIs(t, err, secrets.ErrNotConfigured)

	file := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(file, []byte("AIzaFromFile\n"), 0o600))
	config.AI.Gemini.APIKey = "AIzaInline"
	config.AI.Gemini.APIKeyFile = file

	key, err := resolveCredential(config)
	require.NoError(t, err)
	assert.Equal(t, "AIzaFromFile", key)
}

func TestUserMessage(t *testing.T) {
	opErr := &analysis.Error{Op: analysis.OpRefineResume, Message: "Failed to refine résumé.", Err: errors.New("503")}

	cases := []struct {
		name string
		err  error
		want string
		ok   bool
	}{
		{name: "validation", err: validation.New("resume", validation.KindTooShort, "too short"), want: "too short", ok: true},
		{name: "operation", err: opErr, want: "Failed to refine résumé.", ok: true},
		{
			name: "aborted sequence",
			err:  &refinement.StepError{Step: refinement.StepRefine, Completed: []refinement.Step{refinement.StepJobKeywords}, Err: opErr},
			want: "Failed to refine résumé. Completed steps were kept; you can retry the refinement.",
			ok:   true,
		},
		{name: "first step", err: &refinement.StepError{Step: refinement.StepJobKeywords, Err: opErr}, want: "Failed to refine résumé.", ok: true},
		{name: "busy", err: refinement.ErrBusy, want: "A refinement is already running. Please wait for it to finish.", ok: true},
		{name: "internal", err: errors.New("boom"), ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := userMessage(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWorkflowSaveSkipsMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	config := &Config{
		OutputDir: dir,
		AI:        &AIConfig{Gemini: &GeminiConfig{Models: &ModelsConfig{}}},
	}

	w := newWorkflow(config, zap.NewNop(), &bytes.Buffer{}, &bytes.Buffer{})
	w.session.SetAnalysisReport("**OVERALL SCORE: 64/100**")

	saved, err := w.save()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, report.AnalysisReportFile)}, saved)

	require.NoError(t, w.session.SetRefinedResume("# Refined"))
	saved, err = w.save()
	require.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.Contains(t, w.comparison(), "64/100 (Medium)")
}
