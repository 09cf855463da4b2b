package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/followup"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/types"
)

// fakeStore is an in-memory Store for testing
type fakeStore struct {
	interviews map[uuid.UUID]*types.Interview
	updates    int
	failUpdate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{interviews: make(map[uuid.UUID]*types.Interview)}
}

func (f *fakeStore) CreateInterview(_ context.Context, iv *types.Interview) error {
	copied := *iv
	f.interviews[iv.ID] = &copied
	return nil
}

func (f *fakeStore) GetInterview(_ context.Context, id uuid.UUID) (*types.Interview, error) {
	iv, ok := f.interviews[id]
	if !ok {
		return nil, nil
	}
	copied := *iv
	return &copied, nil
}

func (f *fakeStore) UpdateInterview(_ context.Context, iv *types.Interview) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	f.updates++
	iv.Version++
	copied := *iv
	f.interviews[iv.ID] = &copied
	return nil
}

// mockCompleter implements llm.Completer for testing
type mockCompleter struct {
	responses []string
	err       error
	calls     int
}

func (m *mockCompleter) GenerateCompletion(_ context.Context, _ llm.CompletionRequest) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	response := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return response, nil
}

func questionsJSON(n int) string {
	out := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		phase := "technical"
		if i == 0 {
			phase = "greeting"
		}
		out += fmt.Sprintf(`{"id": %d, "question": "Question %d", "type": "general", "phase": %q}`, i, i, phase)
	}
	return out + "]"
}

func newTestService(mock *mockCompleter, store Store) *Service {
	return NewService(
		store,
		questions.NewGenerator(mock, nil),
		followup.NewEngine(mock, nil),
		scoring.NewScorer(mock, nil),
		nil,
	)
}

const (
	followUpYes = `{"has_follow_up": true, "follow_up_question": "Can you go deeper?", "reason": "thin"}`
	followUpNo  = `{"has_follow_up": false, "follow_up_question": null, "reason": "thorough"}`
	feedbackOK  = `{"score": 8, "strengths": ["depth"], "improvements": ["pace"], "comment": "solid"}`
	summaryOK   = `{"strengths": ["range"], "improvements": ["metrics"], "overall_assessment": "Strong showing."}`
)

func startInterview(t *testing.T, svc *Service, store *fakeStore, n int) *types.Interview {
	t.Helper()
	iv, err := svc.StartInterview(context.Background(), StartParams{
		UserID:       uuid.New(),
		ResumeID:     uuid.New(),
		Profile:      &types.ResumeProfile{},
		JobRole:      "Backend Engineer",
		Level:        types.LevelMid,
		NumQuestions: n,
	})
	require.NoError(t, err)
	require.Len(t, iv.Questions, n)
	return iv
}

func TestStartInterview_PersistsInProgressRecord(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(3)}}
	svc := newTestService(mock, store)

	iv := startInterview(t, svc, store, 3)

	assert.Equal(t, types.StatusInProgress, iv.Status)
	assert.Equal(t, 1, iv.Version)
	assert.Equal(t, types.PhaseGreeting, iv.Questions[0].Question.Phase)

	stored, err := store.GetInterview(context.Background(), iv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, iv.ID, stored.ID)
}

func TestStartInterview_Validation(t *testing.T) {
	svc := newTestService(&mockCompleter{}, newFakeStore())

	_, err := svc.StartInterview(context.Background(), StartParams{JobRole: "  ", NumQuestions: 3})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "job_role", verr.Field)

	_, err = svc.StartInterview(context.Background(), StartParams{JobRole: "Engineer", NumQuestions: 0})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "num_questions", verr.Field)
}

func TestSubmitAnswer_FollowUpRecordedAndReturned(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(2), followUpYes}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 2)

	result, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "I built a service.")
	require.NoError(t, err)

	assert.True(t, result.HasFollowUp)
	assert.Equal(t, "Can you go deeper?", result.FollowUpQuestion)
	assert.False(t, result.QuestionCompleted)
	assert.Nil(t, result.Feedback)

	stored, _ := store.GetInterview(context.Background(), iv.ID)
	state := stored.Questions[0]
	assert.Equal(t, 1, state.FollowUpsAsked)
	assert.Equal(t, "Can you go deeper?", state.CurrentFollowUp)
	assert.False(t, state.Completed)
	require.Len(t, state.Question.ConversationHistory, 1)
	assert.Equal(t, "Question 0", state.Question.ConversationHistory[0].Question)
	assert.Equal(t, "I built a service.", state.Question.ConversationHistory[0].Answer)
	assert.Equal(t, 2, stored.Version)
}

func TestSubmitAnswer_FollowUpAnswerRecordedAgainstFollowUpText(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(1), followUpYes, followUpNo, feedbackOK}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 1)

	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "first answer")
	require.NoError(t, err)

	result, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "second answer")
	require.NoError(t, err)

	assert.False(t, result.HasFollowUp)
	assert.True(t, result.QuestionCompleted)
	require.NotNil(t, result.Feedback)
	assert.Equal(t, 8, result.Feedback.Score)

	stored, _ := store.GetInterview(context.Background(), iv.ID)
	state := stored.Questions[0]
	require.Len(t, state.Question.ConversationHistory, 2)
	// The second exchange is recorded against the follow-up text
	assert.Equal(t, "Can you go deeper?", state.Question.ConversationHistory[1].Question)
	assert.True(t, state.Completed)
	assert.Empty(t, state.CurrentFollowUp)
	require.NotNil(t, state.Feedback)
}

func TestSubmitAnswer_ThirdAnswerClosesWithoutFollowUpCall(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(1), followUpYes, followUpYes, feedbackOK}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 1)

	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "first")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(context.Background(), iv.ID, 0, "second")
	require.NoError(t, err)

	callsBefore := mock.calls
	result, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "third")
	require.NoError(t, err)

	assert.True(t, result.QuestionCompleted)
	// Only the scoring call happens; the exhausted follow-up decision is local
	assert.Equal(t, callsBefore+1, mock.calls)

	stored, _ := store.GetInterview(context.Background(), iv.ID)
	state := stored.Questions[0]
	assert.Equal(t, 2, state.FollowUpsAsked)
	assert.Len(t, state.Question.ConversationHistory, 3)
	assert.True(t, state.Completed)
}

func TestSubmitAnswer_CompletedQuestionRejected(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(1), followUpNo, feedbackOK}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 1)

	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "done in one")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(context.Background(), iv.ID, 0, "again")
	var serr *StateError
	assert.ErrorAs(t, err, &serr)
}

func TestSubmitAnswer_Validation(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(1)}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 1)

	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.SubmitAnswer(context.Background(), iv.ID, 5, "answer")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "question_index", verr.Field)

	_, err = svc.SubmitAnswer(context.Background(), uuid.New(), 0, "answer")
	var nferr *NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestCompleteInterview_AggregatesAndMarksCompleted(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(2), followUpNo, feedbackOK, followUpNo, feedbackOK, summaryOK}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 2)

	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "answer one")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(context.Background(), iv.ID, 1, "answer two")
	require.NoError(t, err)

	completed, err := svc.CompleteInterview(context.Background(), iv.ID)
	require.NoError(t, err)

	assert.Equal(t, types.StatusCompleted, completed.Status)
	require.NotNil(t, completed.Summary)
	assert.InDelta(t, 8.0, completed.Summary.OverallScore, 0.0001)
	assert.Equal(t, "Strong showing.", completed.Summary.OverallAssessment)
	require.NotNil(t, completed.CompletedAt)
}

func TestCompleteInterview_PartialInterviewStillSummarizes(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(3), followUpNo, feedbackOK, summaryOK}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 3)

	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "only answer")
	require.NoError(t, err)

	completed, err := svc.CompleteInterview(context.Background(), iv.ID)
	require.NoError(t, err)

	// Mean over the single scored question
	assert.InDelta(t, 8.0, completed.Summary.OverallScore, 0.0001)
}

func TestCompleteInterview_NotFound(t *testing.T) {
	svc := newTestService(&mockCompleter{}, newFakeStore())

	_, err := svc.CompleteInterview(context.Background(), uuid.New())
	var nferr *NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestGetInterview_NotFound(t *testing.T) {
	svc := newTestService(&mockCompleter{}, newFakeStore())

	_, err := svc.GetInterview(context.Background(), uuid.New())
	var nferr *NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestSubmitAnswer_UpdateFailurePropagates(t *testing.T) {
	store := newFakeStore()
	mock := &mockCompleter{responses: []string{questionsJSON(1), followUpNo, feedbackOK}}
	svc := newTestService(mock, store)
	iv := startInterview(t, svc, store, 1)

	store.failUpdate = errors.New("version conflict")
	_, err := svc.SubmitAnswer(context.Background(), iv.ID, 0, "answer")
	assert.ErrorContains(t, err, "version conflict")
}
