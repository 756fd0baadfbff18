// Package session holds the artifacts accumulated by one workflow run.
package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/resume-refiner/internal/validation"
)

const (
	CredentialPrefix     = "AIza"
	MinResumeLength      = 100
	MinJobDescriptionLen = 50
)

// ErrNoAnalysis is returned when a refinement artifact is written before the
// original analysis report exists.
var ErrNoAnalysis = errors.New("original analysis report is missing")

// Session is the mutable record of one workflow instance. It lives for the
// lifetime of the process and is never persisted. It is not safe for
// concurrent writers; the refinement orchestrator serializes passes.
type Session struct {
	ID uuid.UUID

	Credential     string
	ResumeText     string
	JobDescription string
	AnalysisReport string

	JobKeywords           string
	ResumeKeywords        string
	RefinedResume         string
	RefinedAnalysisReport string
}

// New returns an empty session.
func New() *Session {
	return &Session{ID: uuid.New()}
}

type credentialInput struct {
	Credential string `validate:"required,startswith=AIza"`
}

type resumeInput struct {
	Resume string `validate:"required,min=100"`
}

type jobDescriptionInput struct {
	JobDescription string `validate:"required,min=50"`
}

var inputMessages = validation.Messages{
	"Credential.required":     "Please enter your Gemini API key",
	"Credential.startswith":   `Please enter a valid Gemini API key (starts with "` + CredentialPrefix + `")`,
	"Resume.required":         "Please enter your resume text or upload a file",
	"Resume.min":              "Resume text seems too short. Please provide more details.",
	"JobDescription.required": "Please enter the job description or upload a file",
	"JobDescription.min":      "Job description seems too short. Please provide more details.",
}

// ValidateCredential checks an API credential without storing it.
func ValidateCredential(key string) error {
	return validation.Struct(credentialInput{Credential: strings.TrimSpace(key)}, inputMessages)
}

// ValidateResume checks résumé text without storing it.
func ValidateResume(text string) error {
	return validation.Struct(resumeInput{Resume: strings.TrimSpace(text)}, inputMessages)
}

// ValidateJobDescription checks job description text without storing it.
func ValidateJobDescription(text string) error {
	return validation.Struct(jobDescriptionInput{JobDescription: strings.TrimSpace(text)}, inputMessages)
}

// SetCredential validates and stores the API credential.
func (s *Session) SetCredential(key string) error {
	if err := ValidateCredential(key); err != nil {
		return err
	}
	s.Credential = strings.TrimSpace(key)
	return nil
}

// SetResume validates and stores the original résumé text.
func (s *Session) SetResume(text string) error {
	if err := ValidateResume(text); err != nil {
		return err
	}
	s.ResumeText = strings.TrimSpace(text)
	return nil
}

// SetJobDescription validates and stores the job description.
func (s *Session) SetJobDescription(text string) error {
	if err := ValidateJobDescription(text); err != nil {
		return err
	}
	s.JobDescription = strings.TrimSpace(text)
	return nil
}

// SetAnalysisReport stores a fresh original report. Refinement artifacts
// derived from a previous report no longer apply and are cleared.
func (s *Session) SetAnalysisReport(report string) {
	s.AnalysisReport = report
	s.clearRefinement()
}

func (s *Session) SetJobKeywords(keywords string) error {
	return s.setRefinementField(&s.JobKeywords, keywords)
}

func (s *Session) SetResumeKeywords(keywords string) error {
	return s.setRefinementField(&s.ResumeKeywords, keywords)
}

func (s *Session) SetRefinedResume(resume string) error {
	return s.setRefinementField(&s.RefinedResume, resume)
}

func (s *Session) SetRefinedAnalysisReport(report string) error {
	return s.setRefinementField(&s.RefinedAnalysisReport, report)
}

func (s *Session) setRefinementField(field *string, value string) error {
	if s.AnalysisReport == "" {
		return ErrNoAnalysis
	}
	*field = value
	return nil
}

// ReadyForAnalysis reports whether the inputs needed for the fit analysis are present.
func (s *Session) ReadyForAnalysis() bool {
	return s.Credential != "" && s.ResumeText != "" && s.JobDescription != ""
}

// ReadyForRefinement reports whether a refinement pass can start.
func (s *Session) ReadyForRefinement() bool {
	return s.ReadyForAnalysis() && s.AnalysisReport != ""
}

// HasRefinement reports whether a refined résumé exists, i.e. whether the
// next pass is a "refine again" pass.
func (s *Session) HasRefinement() bool {
	return s.RefinedResume != ""
}

// CurrentReport returns the latest analysis report: the refined one when
// present, otherwise the original.
func (s *Session) CurrentReport() string {
	if s.RefinedAnalysisReport != "" {
		return s.RefinedAnalysisReport
	}
	return s.AnalysisReport
}

// Reset clears every field and starts a new session identity.
func (s *Session) Reset() {
	*s = Session{ID: uuid.New()}
}

func (s *Session) clearRefinement() {
	s.JobKeywords = ""
	s.ResumeKeywords = ""
	s.RefinedResume = ""
	s.RefinedAnalysisReport = ""
}
