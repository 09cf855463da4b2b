// Package analysis turns raw resume text into a structured profile via one
// gateway call with a strict output contract and a deterministic fallback.
package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

const parseTemperature = 0.2

// Analyzer extracts structured resume profiles
type Analyzer struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer over the given completer
func NewAnalyzer(completer llm.Completer, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{completer: completer, logger: logger}
}

// ParseResumeDetailed extracts a ResumeProfile from resume text. It rejects
// empty input with a *ValidationError before any provider call; every other
// failure (provider chain exhausted, unparseable or non-conforming model
// output) degrades to the fallback profile so downstream components never
// see a nil profile.
func (a *Analyzer) ParseResumeDetailed(ctx context.Context, resumeText string) (*types.ResumeProfile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &ValidationError{Field: "resume_text", Message: "resume text is required"}
	}

	prompt := prompts.Format(prompts.MustGet("analysis.json", "parse-resume"), map[string]string{
		"ResumeText": resumeText,
	})

	responseText, err := a.completer.GenerateCompletion(ctx, llm.CompletionRequest{
		Prompt:        prompt,
		SystemMessage: prompts.MustGet("analysis.json", "parse-resume-system"),
		Temperature:   parseTemperature,
		MaxTokens:     3000,
	})
	if err != nil {
		a.logger.Warn("resume analysis degraded to fallback profile", zap.Error(err))
		return FallbackProfile(), nil
	}

	profile, err := parseProfileResponse(responseText)
	if err != nil {
		a.logger.Warn("resume analysis output rejected, using fallback profile", zap.Error(err))
		return FallbackProfile(), nil
	}

	return profile, nil
}

// parseProfileResponse normalizes, schema-validates, and unmarshals the
// model output.
func parseProfileResponse(responseText string) (*types.ResumeProfile, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	if err := schemas.ValidateJSONString(profileSchema, cleaned); err != nil {
		return nil, err
	}

	var profile types.ResumeProfile
	if err := json.Unmarshal([]byte(cleaned), &profile); err != nil {
		return nil, err
	}

	profile.Normalize()
	return &profile, nil
}

// FallbackProfile is the minimal-but-valid profile returned when extraction
// is impossible. Every collection is present and empty so downstream
// string-building needs no nil-checks.
func FallbackProfile() *types.ResumeProfile {
	profile := &types.ResumeProfile{
		Overall: "Professional with relevant experience. Detailed analysis unavailable.",
	}
	profile.Normalize()
	return profile
}
