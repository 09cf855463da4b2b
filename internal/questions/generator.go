// Package questions turns a structured resume profile plus job parameters
// into an ordered, phased list of interview questions.
package questions

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
	generateTemperature = 0.75

	// Prompt context caps. Project detail dominates the prompt on purpose:
	// project-specific probing is the highest-value question category.
	maxProjectsInPrompt   = 5
	maxExperienceInPrompt = 3
)

// Generator produces personalized interview questions
type Generator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewGenerator creates a generator over the given completer
func NewGenerator(completer llm.Completer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: completer, logger: logger}
}

// ValidationError represents missing required caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// GeneratePersonalizedQuestions returns exactly numQuestions questions with
// contiguous ids 0..n-1 matching array position and the greeting phase at
// index 0. The model path is attempted once; any failure degrades to the
// deterministic resume-aware fallback set.
func (g *Generator) GeneratePersonalizedQuestions(ctx context.Context, profile *types.ResumeProfile, jobRole string, level types.ExperienceLevel, numQuestions int) ([]types.Question, error) {
	if strings.TrimSpace(jobRole) == "" {
		return nil, &ValidationError{Field: "job_role", Message: "job role is required"}
	}
	if numQuestions < 1 {
		return nil, &ValidationError{Field: "num_questions", Message: "at least one question is required"}
	}
	if profile == nil {
		profile = &types.ResumeProfile{}
	}
	profile.Normalize()

	prompt := prompts.Format(prompts.MustGet("interview.json", "generate-questions"), map[string]string{
		"NumQuestions":     fmt.Sprintf("%d", numQuestions),
		"JobRole":          jobRole,
		"ExperienceLevel":  string(level),
		"CandidateContext": buildCandidateContext(profile),
	})

	responseText, err := g.completer.GenerateCompletion(ctx, llm.CompletionRequest{
		Prompt:        prompt,
		SystemMessage: prompts.MustGet("interview.json", "generate-questions-system"),
		Temperature:   generateTemperature,
		MaxTokens:     2500,
	})
	if err != nil {
		g.logger.Warn("question generation degraded to fallback set", zap.Error(err))
		return FallbackQuestions(profile, jobRole, numQuestions), nil
	}

	generated, err := parseQuestionResponse(responseText)
	if err != nil {
		g.logger.Warn("question generation output rejected, using fallback set", zap.Error(err))
		return FallbackQuestions(profile, jobRole, numQuestions), nil
	}

	return arrange(generated, profile, jobRole, numQuestions), nil
}

// buildCandidateContext renders the profile sections the prompt embeds:
// full detail for up to 5 projects, the complete categorized skill lists,
// and up to 3 work-history entries.
func buildCandidateContext(profile *types.ResumeProfile) string {
	var sb strings.Builder

	if profile.Overall != "" {
		sb.WriteString("Summary: " + profile.Overall + "\n\n")
	}

	projects := profile.Projects
	if len(projects) > maxProjectsInPrompt {
		projects = projects[:maxProjectsInPrompt]
	}
	if len(projects) > 0 {
		sb.WriteString("Projects:\n")
		for _, p := range projects {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", p.ProjectName, p.Description))
			if len(p.Technologies) > 0 {
				sb.WriteString("  Technologies: " + strings.Join(p.Technologies, ", ") + "\n")
			}
			if p.Role != "" {
				sb.WriteString("  Role: " + p.Role + "\n")
			}
			if len(p.Challenges) > 0 {
				sb.WriteString("  Challenges: " + strings.Join(p.Challenges, "; ") + "\n")
			}
			if len(p.Achievements) > 0 {
				sb.WriteString("  Achievements: " + strings.Join(p.Achievements, "; ") + "\n")
			}
		}
		sb.WriteString("\n")
	}

	tech := profile.Skills.Technical
	skillLines := []struct {
		label string
		items []string
	}{
		{"Languages", tech.Languages},
		{"Frameworks", tech.Frameworks},
		{"Tools", tech.Tools},
		{"Databases", tech.Databases},
		{"Cloud", tech.Cloud},
		{"Other", tech.Other},
	}
	var rendered []string
	for _, line := range skillLines {
		if len(line.items) > 0 {
			rendered = append(rendered, fmt.Sprintf("  %s: %s", line.label, strings.Join(line.items, ", ")))
		}
	}
	if len(rendered) > 0 {
		sb.WriteString("Technical skills:\n" + strings.Join(rendered, "\n") + "\n\n")
	}

	experience := profile.Experience
	if len(experience) > maxExperienceInPrompt {
		experience = experience[:maxExperienceInPrompt]
	}
	if len(experience) > 0 {
		sb.WriteString("Work history:\n")
		for _, e := range experience {
			sb.WriteString(fmt.Sprintf("- %s at %s (%s)\n", e.Position, e.Company, e.Duration))
		}
	}

	if sb.Len() == 0 {
		return "No structured resume details available."
	}
	return strings.TrimSpace(sb.String())
}

// generatedQuestion is the wire shape of one model-produced question
type generatedQuestion struct {
	Question string `json:"question"`
	Type     string `json:"type"`
	Phase    string `json:"phase"`
	Category string `json:"category"`
	Context  string `json:"context"`
}

func parseQuestionResponse(responseText string) ([]generatedQuestion, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse question array: %w", err)
	}

	valid := generated[:0]
	for _, q := range generated {
		if strings.TrimSpace(q.Question) != "" {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("model returned no usable questions")
	}
	return valid, nil
}

// arrange converts model output into the final question list: greeting
// first, exactly n entries (truncating or padding from the fallback set),
// ids equal to array position, empty conversation history.
func arrange(generated []generatedQuestion, profile *types.ResumeProfile, jobRole string, n int) []types.Question {
	result := make([]types.Question, 0, n)
	for _, q := range generated {
		result = append(result, types.Question{
			Question:            strings.TrimSpace(q.Question),
			Type:                normalizeType(q.Type),
			Phase:               normalizePhase(q.Phase),
			Category:            q.Category,
			Context:             q.Context,
			ConversationHistory: []types.Exchange{},
		})
	}

	// Greeting is always first. Prefer the model's greeting; otherwise
	// insert the deterministic one.
	greetingIdx := -1
	for i, q := range result {
		if q.Phase == types.PhaseGreeting {
			greetingIdx = i
			break
		}
	}
	if greetingIdx > 0 {
		greeting := result[greetingIdx]
		result = append(result[:greetingIdx], result[greetingIdx+1:]...)
		result = append([]types.Question{greeting}, result...)
	} else if greetingIdx < 0 {
		result = append([]types.Question{greetingQuestion(jobRole)}, result...)
	}

	if len(result) > n {
		result = result[:n]
	}
	for _, filler := range FallbackQuestions(profile, jobRole, n) {
		if len(result) >= n {
			break
		}
		if filler.Phase == types.PhaseGreeting {
			continue
		}
		result = append(result, filler)
	}

	for i := range result {
		result[i].ID = i
	}
	return result
}

func normalizeType(raw string) types.QuestionType {
	switch types.QuestionType(strings.ToLower(strings.TrimSpace(raw))) {
	case types.TypeTechnical:
		return types.TypeTechnical
	case types.TypeBehavioral:
		return types.TypeBehavioral
	case types.TypeResumeSpecific:
		return types.TypeResumeSpecific
	case types.TypeProjectDetail:
		return types.TypeProjectDetail
	default:
		return types.TypeGeneral
	}
}

func normalizePhase(raw string) types.Phase {
	switch types.Phase(strings.ToLower(strings.TrimSpace(raw))) {
	case types.PhaseGreeting:
		return types.PhaseGreeting
	case types.PhaseResumeDiscussion:
		return types.PhaseResumeDiscussion
	case types.PhaseProjects:
		return types.PhaseProjects
	case types.PhaseBehavioral:
		return types.PhaseBehavioral
	case types.PhaseTechnical:
		return types.PhaseTechnical
	default:
		return types.PhaseGeneral
	}
}
