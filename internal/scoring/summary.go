package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	summaryMaxTokens = 800
	summaryTopItems  = 5
)

var (
	genericStrengths = []string{
		"Maintained engagement throughout the interview",
		"Communicated ideas clearly",
		"Showed willingness to discuss past work in detail",
	}
	genericImprovements = []string{
		"Provide more specific, quantified examples",
		"Structure answers around situation, action, and result",
		"Go deeper on technical trade-offs",
	}
)

// OverallScore computes the arithmetic mean of every question that has
// feedback, rounded to one decimal. Questions without feedback are excluded
// from both numerator and denominator; zero scored questions yields 0.
func OverallScore(questions []types.QuestionState) float64 {
	var sum, count int
	for _, q := range questions {
		if q.Feedback == nil {
			continue
		}
		sum += q.Feedback.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}

// SummarizeInterview aggregates per-question feedback into the interview
// summary. The holistic narrative comes from one provider call seeded with
// every per-question result; on failure the summary is assembled
// deterministically from the per-question feedback itself.
func (s *Scorer) SummarizeInterview(ctx context.Context, questions []types.QuestionState, jobRole string, level types.ExperienceLevel) types.InterviewSummary {
	overall := OverallScore(questions)

	prompt := prompts.Format(prompts.MustGet("interview.json", "summarize-interview"), map[string]string{
		"JobRole":         jobRole,
		"ExperienceLevel": string(level),
		"QuestionResults": renderQuestionResults(questions),
		"OverallScore":    fmt.Sprintf("%.1f", overall),
	})

	responseText, err := s.completer.GenerateCompletion(ctx, llm.CompletionRequest{
		Prompt:        prompt,
		SystemMessage: prompts.MustGet("interview.json", "summarize-interview-system"),
		Temperature:   scoreTemperature,
		MaxTokens:     summaryMaxTokens,
	})
	if err != nil {
		s.logger.Warn("interview summary degraded to aggregate fallback", zap.Error(err))
		return fallbackSummary(questions, overall)
	}

	summary, err := parseSummary(responseText, overall)
	if err != nil {
		s.logger.Warn("interview summary output rejected, using aggregate fallback", zap.Error(err))
		return fallbackSummary(questions, overall)
	}

	return summary
}

func renderQuestionResults(questions []types.QuestionState) string {
	var sb strings.Builder
	for _, q := range questions {
		if q.Feedback == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("Q%d: %s\n  Score: %d/10\n", q.Question.ID+1, q.Question.Question, q.Feedback.Score))
		if len(q.Feedback.Strengths) > 0 {
			sb.WriteString("  Strengths: " + strings.Join(q.Feedback.Strengths, "; ") + "\n")
		}
		if len(q.Feedback.Improvements) > 0 {
			sb.WriteString("  Improvements: " + strings.Join(q.Feedback.Improvements, "; ") + "\n")
		}
	}
	if sb.Len() == 0 {
		return "(no scored questions)"
	}
	return strings.TrimSpace(sb.String())
}

func parseSummary(responseText string, overall float64) (types.InterviewSummary, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	var raw struct {
		Strengths         []string `json:"strengths"`
		Improvements      []string `json:"improvements"`
		OverallAssessment string   `json:"overall_assessment"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return types.InterviewSummary{}, fmt.Errorf("failed to parse summary: %w", err)
	}
	if strings.TrimSpace(raw.OverallAssessment) == "" {
		return types.InterviewSummary{}, fmt.Errorf("summary missing assessment")
	}
	if raw.Strengths == nil {
		raw.Strengths = []string{}
	}
	if raw.Improvements == nil {
		raw.Improvements = []string{}
	}

	return types.InterviewSummary{
		OverallScore:      overall,
		Strengths:         raw.Strengths,
		Improvements:      raw.Improvements,
		OverallAssessment: raw.OverallAssessment,
	}, nil
}

// fallbackSummary assembles the summary from per-question feedback alone:
// de-duplicated unions capped at 5 (or fixed generics when empty) and a
// templated narrative keyed off the overall score.
func fallbackSummary(questions []types.QuestionState, overall float64) types.InterviewSummary {
	strengths := dedupeTop(collect(questions, func(f *types.QuestionFeedback) []string { return f.Strengths }), summaryTopItems)
	improvements := dedupeTop(collect(questions, func(f *types.QuestionFeedback) []string { return f.Improvements }), summaryTopItems)

	if len(strengths) == 0 {
		strengths = append([]string{}, genericStrengths...)
	}
	if len(improvements) == 0 {
		improvements = append([]string{}, genericImprovements...)
	}

	return types.InterviewSummary{
		OverallScore:      overall,
		Strengths:         strengths,
		Improvements:      improvements,
		OverallAssessment: fallbackNarrative(overall, strengths[0], improvements[0]),
	}
}

// fallbackNarrative builds the deterministic closing sentence. The
// adjective thresholds (8 excellent, 6 good, else satisfactory) and the
// lower-cased first strength/improvement are part of the product contract.
func fallbackNarrative(overall float64, firstStrength, firstImprovement string) string {
	adjective := "satisfactory"
	switch {
	case overall >= 8:
		adjective = "excellent"
	case overall >= 6:
		adjective = "good"
	}
	return fmt.Sprintf("Overall, this was a %s interview performance. In particular, %s. To improve further, focus on this: %s.",
		adjective, strings.ToLower(firstStrength), strings.ToLower(firstImprovement))
}

func collect(questions []types.QuestionState, pick func(*types.QuestionFeedback) []string) []string {
	var all []string
	for _, q := range questions {
		if q.Feedback == nil {
			continue
		}
		all = append(all, pick(q.Feedback)...)
	}
	return all
}

func dedupeTop(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, limit)
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
		if len(result) == limit {
			break
		}
	}
	return result
}
