// Package followup decides whether an interview answer warrants a
// clarifying follow-up question, bounded to two per original question.
package followup

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
	followUpTemperature = 0.7

	// maxFollowUps bounds the probes per question. The decision for a
	// question that already has this many follow-up exchanges short-circuits
	// without a provider call.
	maxFollowUps = 2

	exhaustedReason = "Sufficient depth achieved"

	// Heuristic fallback questions, used when the model path is unavailable
	elaborateQuestion = "Could you elaborate on that with a specific example?"
	challengeQuestion = "What was the most challenging aspect of that, and what did you learn from it?"

	shortAnswerWordLimit = 30
)

// connectives signal a reasoned answer in the heuristic fallback
var connectives = []string{"because", "since", "so", "therefore", "however", "although"}

// Params carries one follow-up decision request
type Params struct {
	OriginalQuestion    string
	UserAnswer          string
	ConversationHistory []types.Exchange
	ProfileContext      string
	JobRole             string
}

// Engine decides on follow-up probes
type Engine struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewEngine creates an engine over the given completer
func NewEngine(completer llm.Completer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{completer: completer, logger: logger}
}

// GenerateFollowUp returns the follow-up decision for the latest answer.
// With two or more prior follow-up exchanges the question is exhausted and
// the decision is deterministic with no provider contact. Otherwise one
// provider call is made; on failure the word-count/connective heuristic
// decides instead.
func (e *Engine) GenerateFollowUp(ctx context.Context, params Params) types.FollowUpDecision {
	if len(params.ConversationHistory) >= maxFollowUps {
		return types.FollowUpDecision{
			HasFollowUp: false,
			Reason:      exhaustedReason,
		}
	}

	prompt := prompts.Format(prompts.MustGet("interview.json", "follow-up"), map[string]string{
		"JobRole":          params.JobRole,
		"OriginalQuestion": params.OriginalQuestion,
		"PriorExchanges":   renderPriorExchanges(params.ConversationHistory),
		"UserAnswer":       params.UserAnswer + "\n",
		"ProfileContext":   params.ProfileContext,
	})

	responseText, err := e.completer.GenerateCompletion(ctx, llm.CompletionRequest{
		Prompt:        prompt,
		SystemMessage: prompts.MustGet("interview.json", "follow-up-system"),
		Temperature:   followUpTemperature,
		MaxTokens:     300,
	})
	if err != nil {
		e.logger.Warn("follow-up decision degraded to heuristic", zap.Error(err))
		return heuristicDecision(params)
	}

	decision, err := parseDecision(responseText)
	if err != nil {
		e.logger.Warn("follow-up decision output rejected, using heuristic", zap.Error(err))
		return heuristicDecision(params)
	}

	return decision
}

func renderPriorExchanges(history []types.Exchange) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Earlier follow-up exchanges:\n")
	for _, ex := range history {
		sb.WriteString(fmt.Sprintf("Q: %s\nA: %s\n", ex.Question, ex.Answer))
	}
	sb.WriteString("\n")
	return sb.String()
}

func parseDecision(responseText string) (types.FollowUpDecision, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	var raw struct {
		HasFollowUp      bool    `json:"has_follow_up"`
		FollowUpQuestion *string `json:"follow_up_question"`
		Reason           string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return types.FollowUpDecision{}, fmt.Errorf("failed to parse decision: %w", err)
	}

	decision := types.FollowUpDecision{
		HasFollowUp: raw.HasFollowUp,
		Reason:      raw.Reason,
	}
	if raw.HasFollowUp {
		if raw.FollowUpQuestion == nil || strings.TrimSpace(*raw.FollowUpQuestion) == "" {
			return types.FollowUpDecision{}, fmt.Errorf("decision claims a follow-up but provides none")
		}
		decision.FollowUpQuestion = strings.TrimSpace(*raw.FollowUpQuestion)
	}
	return decision, nil
}

// heuristicDecision is the deterministic fallback. In the Open state a
// short answer with no connective word gets an elaboration probe; a longer
// or reasoned answer gets the challenge probe. Past the Open state there is
// no heuristic follow-up.
func heuristicDecision(params Params) types.FollowUpDecision {
	if len(params.ConversationHistory) > 0 {
		return types.FollowUpDecision{
			HasFollowUp: false,
			Reason:      "Answer depth acceptable",
		}
	}

	if isShortUnreasoned(params.UserAnswer) {
		return types.FollowUpDecision{
			HasFollowUp:      true,
			FollowUpQuestion: elaborateQuestion,
			Reason:           "Answer was brief and lacked a concrete example",
		}
	}

	return types.FollowUpDecision{
		HasFollowUp:      true,
		FollowUpQuestion: challengeQuestion,
		Reason:           "Probing for depth on a substantive answer",
	}
}

func isShortUnreasoned(answer string) bool {
	words := strings.Fields(answer)
	if len(words) >= shortAnswerWordLimit {
		return false
	}
	lower := strings.ToLower(answer)
	for _, connective := range connectives {
		if strings.Contains(lower, connective) {
			return false
		}
	}
	return true
}
