// Package scoring produces per-question feedback and the aggregate
// interview summary.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	scoreTemperature = 0.6
	minScore         = 0
	maxScore         = 10
)

// neutralFeedback is the deterministic fallback so the interview can always
// complete even with every provider down.
func neutralFeedback() types.QuestionFeedback {
	return types.QuestionFeedback{
		Score: 7,
		Strengths: []string{
			"Engaged with the question directly",
			"Communicated in a clear, structured way",
		},
		Improvements: []string{
			"Add more concrete examples from your own experience",
			"Quantify outcomes where possible",
		},
		Comment: "A reasonable answer overall. Adding specific examples and measurable results would make it stronger.",
	}
}

// Scorer scores per-question transcripts and aggregates interviews
type Scorer struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewScorer creates a scorer over the given completer
func NewScorer(completer llm.Completer, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{completer: completer, logger: logger}
}

// AnalyzeConversation scores the full transcript for one question on
// completeness, specificity, technical depth, communication, and
// problem-solving. Never fails: any provider or parse error yields the
// neutral fallback feedback.
func (s *Scorer) AnalyzeConversation(ctx context.Context, question string, history []types.Exchange, jobRole string, level types.ExperienceLevel) types.QuestionFeedback {
	prompt := prompts.Format(prompts.MustGet("interview.json", "analyze-conversation"), map[string]string{
		"JobRole":         jobRole,
		"ExperienceLevel": string(level),
		"Question":        question,
		"Transcript":      renderTranscript(history),
	})

	responseText, err := s.completer.GenerateCompletion(ctx, llm.CompletionRequest{
		Prompt:        prompt,
		SystemMessage: prompts.MustGet("interview.json", "analyze-conversation-system"),
		Temperature:   scoreTemperature,
		MaxTokens:     600,
	})
	if err != nil {
		s.logger.Warn("conversation analysis degraded to neutral feedback", zap.Error(err))
		return neutralFeedback()
	}

	feedback, err := parseFeedback(responseText)
	if err != nil {
		s.logger.Warn("conversation analysis output rejected, using neutral feedback", zap.Error(err))
		return neutralFeedback()
	}

	return feedback
}

func renderTranscript(history []types.Exchange) string {
	if len(history) == 0 {
		return "(no answer recorded)"
	}
	var sb strings.Builder
	for _, ex := range history {
		sb.WriteString(fmt.Sprintf("Interviewer: %s\nCandidate: %s\n", ex.Question, ex.Answer))
	}
	return strings.TrimSpace(sb.String())
}

func parseFeedback(responseText string) (types.QuestionFeedback, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	var feedback types.QuestionFeedback
	if err := json.Unmarshal([]byte(cleaned), &feedback); err != nil {
		return types.QuestionFeedback{}, fmt.Errorf("failed to parse feedback: %w", err)
	}

	if feedback.Score < minScore {
		feedback.Score = minScore
	}
	if feedback.Score > maxScore {
		feedback.Score = maxScore
	}
	if feedback.Strengths == nil {
		feedback.Strengths = []string{}
	}
	if feedback.Improvements == nil {
		feedback.Improvements = []string{}
	}
	if strings.TrimSpace(feedback.Comment) == "" {
		return types.QuestionFeedback{}, fmt.Errorf("feedback missing comment")
	}
	return feedback, nil
}
