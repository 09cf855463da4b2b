// Package interview orchestrates the interview session: question
// generation, the answer/follow-up loop, per-question scoring, and final
// aggregation.
package interview

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/followup"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/types"
)

// Store is the persistence surface the session layer depends on.
// GetInterview returns (nil, nil) when the interview does not exist.
// UpdateInterview performs a compare-and-swap on the interview version and
// fails when a concurrent writer got there first.
type Store interface {
	CreateInterview(ctx context.Context, iv *types.Interview) error
	GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error)
	UpdateInterview(ctx context.Context, iv *types.Interview) error
}

// Service runs interview sessions
type Service struct {
	store     Store
	generator *questions.Generator
	engine    *followup.Engine
	scorer    *scoring.Scorer
	logger    *zap.Logger
}

// NewService creates the session service
func NewService(store Store, generator *questions.Generator, engine *followup.Engine, scorer *scoring.Scorer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		generator: generator,
		engine:    engine,
		scorer:    scorer,
		logger:    logger,
	}
}

// StartParams carries everything needed to start an interview
type StartParams struct {
	UserID       uuid.UUID
	ResumeID     uuid.UUID
	Profile      *types.ResumeProfile
	JobRole      string
	Level        types.ExperienceLevel
	NumQuestions int
}

// StartInterview generates the personalized question set and persists a new
// in-progress interview.
func (s *Service) StartInterview(ctx context.Context, params StartParams) (*types.Interview, error) {
	if strings.TrimSpace(params.JobRole) == "" {
		return nil, &ValidationError{Field: "job_role", Message: "job role is required"}
	}
	if params.NumQuestions < 1 {
		return nil, &ValidationError{Field: "num_questions", Message: "at least one question is required"}
	}

	generated, err := s.generator.GeneratePersonalizedQuestions(ctx, params.Profile, params.JobRole, params.Level, params.NumQuestions)
	if err != nil {
		return nil, err
	}

	states := make([]types.QuestionState, len(generated))
	for i, q := range generated {
		states[i] = types.QuestionState{Question: q}
	}

	iv := &types.Interview{
		ID:              uuid.New(),
		UserID:          params.UserID,
		ResumeID:        params.ResumeID,
		JobRole:         params.JobRole,
		ExperienceLevel: params.Level,
		Status:          types.StatusInProgress,
		Questions:       states,
		Version:         1,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.CreateInterview(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// AnswerResult is the outcome of one submitted answer: either a follow-up
// to ask next, or the completed question's feedback.
type AnswerResult struct {
	HasFollowUp       bool                    `json:"has_follow_up"`
	FollowUpQuestion  string                  `json:"follow_up_question,omitempty"`
	QuestionCompleted bool                    `json:"question_completed"`
	Feedback          *types.QuestionFeedback `json:"feedback,omitempty"`
}

// SubmitAnswer records one answer for the question at the given index. The
// follow-up engine is consulted with the exchanges recorded so far, which
// caps probing at two follow-ups per question; once no follow-up is asked
// the question is scored and closed. The whole question state is replaced
// and written back under the interview's version check.
func (s *Service) SubmitAnswer(ctx context.Context, interviewID uuid.UUID, questionIndex int, answer string) (*AnswerResult, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, &ValidationError{Field: "answer", Message: "answer is required"}
	}

	iv, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, &NotFoundError{ID: interviewID}
	}
	if iv.Status != types.StatusInProgress {
		return nil, &StateError{Message: "interview is not in progress"}
	}
	if questionIndex < 0 || questionIndex >= len(iv.Questions) {
		return nil, &ValidationError{Field: "question_index", Message: "question index out of range"}
	}

	state := iv.Questions[questionIndex]
	if state.Completed {
		return nil, &StateError{Message: "question is already completed"}
	}

	// The engine sees the exchanges recorded before this answer; its state
	// machine keys off that count.
	decision := s.engine.GenerateFollowUp(ctx, followup.Params{
		OriginalQuestion:    state.Question.Question,
		UserAnswer:          answer,
		ConversationHistory: state.Question.ConversationHistory,
		JobRole:             iv.JobRole,
	})

	asked := state.Question.Question
	if state.CurrentFollowUp != "" {
		asked = state.CurrentFollowUp
	}
	state.Question.ConversationHistory = append(state.Question.ConversationHistory, types.Exchange{
		Question:  asked,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	})

	result := &AnswerResult{}
	if decision.HasFollowUp {
		state.CurrentFollowUp = decision.FollowUpQuestion
		state.FollowUpsAsked++
		result.HasFollowUp = true
		result.FollowUpQuestion = decision.FollowUpQuestion
	} else {
		feedback := s.scorer.AnalyzeConversation(ctx, state.Question.Question, state.Question.ConversationHistory, iv.JobRole, iv.ExperienceLevel)
		state.Feedback = &feedback
		state.Completed = true
		state.CurrentFollowUp = ""
		result.QuestionCompleted = true
		result.Feedback = &feedback
	}

	iv.Questions[questionIndex] = state
	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteInterview computes the aggregate summary and marks the interview
// completed. Re-completing recomputes and overwrites the summary.
func (s *Service) CompleteInterview(ctx context.Context, interviewID uuid.UUID) (*types.Interview, error) {
	iv, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, &NotFoundError{ID: interviewID}
	}

	summary := s.scorer.SummarizeInterview(ctx, iv.Questions, iv.JobRole, iv.ExperienceLevel)
	now := time.Now().UTC()

	iv.Summary = &summary
	iv.Status = types.StatusCompleted
	iv.CompletedAt = &now

	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// GetInterview loads one interview
func (s *Service) GetInterview(ctx context.Context, interviewID uuid.UUID) (*types.Interview, error) {
	iv, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, &NotFoundError{ID: interviewID}
	}
	return iv, nil
}
