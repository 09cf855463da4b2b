package types

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType categorizes what a question probes
type QuestionType string

// Question type constants
const (
	TypeTechnical      QuestionType = "technical"
	TypeBehavioral     QuestionType = "behavioral"
	TypeResumeSpecific QuestionType = "resume-specific"
	TypeProjectDetail  QuestionType = "project-detail"
	TypeGeneral        QuestionType = "general"
)

// Phase is the stage of the interview a question belongs to
type Phase string

// Interview phase constants, in pacing order
const (
	PhaseGreeting         Phase = "greeting"
	PhaseResumeDiscussion Phase = "resume-discussion"
	PhaseProjects         Phase = "projects"
	PhaseBehavioral       Phase = "behavioral"
	PhaseTechnical        Phase = "technical"
	PhaseGeneral          Phase = "general"
)

// ExperienceLevel is the seniority the interview targets
type ExperienceLevel string

// Experience level constants
const (
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

// Exchange is one question/answer turn within a question's conversation.
// Append-only.
type Exchange struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Question is one interview question. ID is a stable 0-based ordinal equal to
// the question's array position; it is assigned at generation time and never
// reused or reordered.
type Question struct {
	ID                  int          `json:"id"`
	Question            string       `json:"question"`
	Type                QuestionType `json:"type"`
	Phase               Phase        `json:"phase"`
	Category            string       `json:"category,omitempty"`
	Context             string       `json:"context,omitempty"`
	ConversationHistory []Exchange   `json:"conversation_history"`
}

// FollowUpDecision is the outcome of one follow-up consultation. It is
// ephemeral: only its effect on the question state persists.
// Invariant: HasFollowUp == false implies FollowUpQuestion == "".
type FollowUpDecision struct {
	HasFollowUp      bool   `json:"has_follow_up"`
	FollowUpQuestion string `json:"follow_up_question,omitempty"`
	Reason           string `json:"reason"`
}

// QuestionFeedback scores one completed question. Immutable once set.
type QuestionFeedback struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Comment      string   `json:"comment"`
}

// QuestionState bundles a question with its mutable interview-time state.
// Updates replace the whole record rather than mutating nested fields in
// place, which keeps persistence-layer partial updates tractable.
type QuestionState struct {
	Question        Question          `json:"question"`
	FollowUpsAsked  int               `json:"follow_ups_asked"`
	CurrentFollowUp string            `json:"current_follow_up,omitempty"`
	Completed       bool              `json:"completed"`
	Feedback        *QuestionFeedback `json:"feedback,omitempty"`
}

// InterviewSummary is the aggregate result of a completed interview.
// OverallScore is the arithmetic mean of all existing per-question scores,
// rounded to one decimal; 0 when no question has feedback.
type InterviewSummary struct {
	OverallScore      float64  `json:"overall_score"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	OverallAssessment string   `json:"overall_assessment"`
}

// InterviewStatus tracks interview lifecycle
type InterviewStatus string

// Interview status constants
const (
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
)

// Interview is the persisted interview record
type Interview struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	ResumeID        uuid.UUID         `json:"resume_id"`
	JobRole         string            `json:"job_role"`
	ExperienceLevel ExperienceLevel   `json:"experience_level"`
	Status          InterviewStatus   `json:"status"`
	Questions       []QuestionState   `json:"questions"`
	Summary         *InterviewSummary `json:"summary,omitempty"`
	Version         int               `json:"version"`
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}
