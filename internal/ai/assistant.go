package ai

import (
	"context"
	"errors"
	"strings"
)

// Tier selects a class of model. Keyword extraction runs on the fast tier,
// analysis and refinement on the pro tier.
type Tier string

const (
	TierFast Tier = "fast"
	TierPro  Tier = "pro"
)

// Request is a single text-generation call. Temperature and MaxOutputTokens
// are forwarded to the provider as-is.
type Request struct {
	Tier              Tier
	SystemInstruction string
	Prompt            string
	Temperature       float32
	MaxOutputTokens   int32
}

// Generator produces text for a request. Implementations make exactly one
// attempt per call and report every failure as *GenerationError.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var (
	ErrEmptyPrompt   = errors.New("prompt must not be empty")
	ErrEmptyResponse = errors.New("empty response")
)

const credentialHint = "check your credential and try again"

// GenerationError is the normalized failure of a generation call.
type GenerationError struct {
	Reason string
	Err    error
}

// NewGenerationError wraps err with a short reason.
func NewGenerationError(reason string, err error) *GenerationError {
	return &GenerationError{Reason: strings.TrimSpace(reason), Err: err}
}

func (e *GenerationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "request failed"
	}
	return "generation failed: " + reason + "; " + credentialHint
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
