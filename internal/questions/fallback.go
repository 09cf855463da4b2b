package questions

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// genericPool pads fallback sets beyond the resume-aware template. Cycled
// when the requested count exceeds the pool.
var genericPool = []types.Question{
	{
		Question: "What do you consider your greatest strengths as they relate to this role?",
		Type:     types.TypeGeneral,
		Phase:    types.PhaseGeneral,
		Category: "self-assessment",
	},
	{
		Question: "How do you stay current with new technologies and industry trends?",
		Type:     types.TypeGeneral,
		Phase:    types.PhaseGeneral,
		Category: "growth",
	},
	{
		Question: "Describe a time you had to learn something completely new under time pressure. How did you approach it?",
		Type:     types.TypeBehavioral,
		Phase:    types.PhaseGeneral,
		Category: "learning",
	},
	{
		Question: "Where do you see yourself professionally in the next few years?",
		Type:     types.TypeGeneral,
		Phase:    types.PhaseGeneral,
		Category: "goals",
	},
}

// FallbackQuestions builds the deterministic resume-aware question set used
// when the model path is unavailable. The ordering encodes the product's
// interview pacing and must stay greeting, resume, projects, behavioral,
// technical. Returns exactly n questions with ids 0..n-1.
func FallbackQuestions(profile *types.ResumeProfile, jobRole string, n int) []types.Question {
	if profile == nil {
		profile = &types.ResumeProfile{}
	}
	profile.Normalize()

	ordered := []types.Question{greetingQuestion(jobRole)}
	ordered = append(ordered, resumeQuestion(profile))
	ordered = append(ordered, projectQuestions(profile)...)
	ordered = append(ordered, behavioralQuestion(profile))
	ordered = append(ordered, technicalQuestion(profile))

	for i := 0; len(ordered) < n; i++ {
		ordered = append(ordered, genericPool[i%len(genericPool)])
	}
	if len(ordered) > n {
		ordered = ordered[:n]
	}

	for i := range ordered {
		ordered[i].ID = i
		ordered[i].ConversationHistory = []types.Exchange{}
	}
	return ordered
}

func greetingQuestion(jobRole string) types.Question {
	return types.Question{
		Question:            fmt.Sprintf("Hello! Thanks for joining today. To get us started, tell me a bit about yourself and what drew you to this %s position.", jobRole),
		Type:                types.TypeGeneral,
		Phase:               types.PhaseGreeting,
		Category:            "introduction",
		ConversationHistory: []types.Exchange{},
	}
}

func resumeQuestion(profile *types.ResumeProfile) types.Question {
	if len(profile.Experience) > 0 {
		first := profile.Experience[0]
		return types.Question{
			Question: fmt.Sprintf("I see you worked as %s at %s. Can you walk me through what you did there and what you're most proud of?", first.Position, first.Company),
			Type:     types.TypeResumeSpecific,
			Phase:    types.PhaseResumeDiscussion,
			Category: "experience",
		}
	}
	return types.Question{
		Question: "Can you give me an overview of your career journey so far and the kind of work you enjoy most?",
		Type:     types.TypeResumeSpecific,
		Phase:    types.PhaseResumeDiscussion,
		Category: "experience",
	}
}

func projectQuestions(profile *types.ResumeProfile) []types.Question {
	if len(profile.Projects) == 0 {
		return []types.Question{{
			Question: "Tell me about the most complex project you have worked on. What made it challenging and what was your contribution?",
			Type:     types.TypeProjectDetail,
			Phase:    types.PhaseProjects,
			Category: "projects",
		}}
	}

	result := []types.Question{{
		Question: fmt.Sprintf("Let's talk about your project %q. What problem did it solve, and what were the hardest technical decisions you made?", profile.Projects[0].ProjectName),
		Type:     types.TypeProjectDetail,
		Phase:    types.PhaseProjects,
		Category: "projects",
	}}
	if len(profile.Projects) > 1 {
		result = append(result, types.Question{
			Question: fmt.Sprintf("You also built %q. How did your approach there differ, and what would you do differently today?", profile.Projects[1].ProjectName),
			Type:     types.TypeProjectDetail,
			Phase:    types.PhaseProjects,
			Category: "projects",
		})
	}
	return result
}

func behavioralQuestion(profile *types.ResumeProfile) types.Question {
	if len(profile.Experience) > 0 {
		return types.Question{
			Question: fmt.Sprintf("Tell me about a challenging situation you faced while at %s and how you handled it.", profile.Experience[0].Company),
			Type:     types.TypeBehavioral,
			Phase:    types.PhaseBehavioral,
			Category: "teamwork",
		}
	}
	return types.Question{
		Question: "Tell me about a time you disagreed with a teammate on a technical decision. How did you resolve it?",
		Type:     types.TypeBehavioral,
		Phase:    types.PhaseBehavioral,
		Category: "teamwork",
	}
}

func technicalQuestion(profile *types.ResumeProfile) types.Question {
	tech := profile.Skills.Technical
	var subject string
	switch {
	case len(tech.Frameworks) > 0:
		subject = tech.Frameworks[0]
	case len(tech.Languages) > 0:
		subject = tech.Languages[0]
	}

	if subject != "" {
		return types.Question{
			Question: fmt.Sprintf("You list %s among your skills. Can you describe how you've used it in practice and one limitation you've run into?", subject),
			Type:     types.TypeTechnical,
			Phase:    types.PhaseTechnical,
			Category: "technical-skills",
		}
	}
	return types.Question{
		Question: "Walk me through how you would design and debug a system you've never seen before. Where do you start?",
		Type:     types.TypeTechnical,
		Phase:    types.PhaseTechnical,
		Category: "technical-skills",
	}
}
