package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
)

// mockCompleter implements llm.Completer for testing
type mockCompleter struct {
	response string
	err      error
	calls    int
	lastReq  llm.CompletionRequest
}

func (m *mockCompleter) GenerateCompletion(_ context.Context, req llm.CompletionRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func sampleHistory() []types.Exchange {
	return []types.Exchange{
		{Question: "Describe the project.", Answer: "I led the migration to event sourcing.", Timestamp: time.Now()},
		{Question: "What was hardest?", Answer: "Replaying historical events without downtime.", Timestamp: time.Now()},
	}
}

func TestAnalyzeConversation_Success(t *testing.T) {
	mock := &mockCompleter{response: `{"score": 8, "strengths": ["Specific detail"], "improvements": ["Mention metrics"], "comment": "Strong technical answer."}`}
	scorer := NewScorer(mock, nil)

	feedback := scorer.AnalyzeConversation(context.Background(), "Describe the project.", sampleHistory(), "Backend Engineer", types.LevelMid)

	assert.Equal(t, 8, feedback.Score)
	assert.Equal(t, []string{"Specific detail"}, feedback.Strengths)
	assert.Equal(t, "Strong technical answer.", feedback.Comment)
	assert.InDelta(t, 0.6, mock.lastReq.Temperature, 0.001)
}

func TestAnalyzeConversation_TranscriptInPrompt(t *testing.T) {
	mock := &mockCompleter{response: `{"score": 5, "strengths": [], "improvements": [], "comment": "ok"}`}
	scorer := NewScorer(mock, nil)

	scorer.AnalyzeConversation(context.Background(), "Q", sampleHistory(), "Backend Engineer", types.LevelMid)

	assert.Contains(t, mock.lastReq.Prompt, "event sourcing")
	assert.Contains(t, mock.lastReq.Prompt, "Replaying historical events")
}

func TestAnalyzeConversation_ScoreClamped(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
	}{
		{"above range", `{"score": 14, "strengths": [], "improvements": [], "comment": "x"}`, 10},
		{"below range", `{"score": -3, "strengths": [], "improvements": [], "comment": "x"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(&mockCompleter{response: tt.response}, nil)
			feedback := scorer.AnalyzeConversation(context.Background(), "Q", sampleHistory(), "Role", types.LevelMid)
			assert.Equal(t, tt.want, feedback.Score)
		})
	}
}

func TestAnalyzeConversation_FallbackOnProviderFailure(t *testing.T) {
	mock := &mockCompleter{err: &llm.AllProvidersFailedError{}}
	scorer := NewScorer(mock, nil)

	feedback := scorer.AnalyzeConversation(context.Background(), "Q", sampleHistory(), "Role", types.LevelMid)

	assert.Equal(t, 7, feedback.Score)
	assert.Len(t, feedback.Strengths, 2)
	assert.Len(t, feedback.Improvements, 2)
	assert.NotEmpty(t, feedback.Comment)
}

func TestAnalyzeConversation_FallbackOnMalformedOutput(t *testing.T) {
	mock := &mockCompleter{response: "That was a great answer, I'd give it an 8!"}
	scorer := NewScorer(mock, nil)

	feedback := scorer.AnalyzeConversation(context.Background(), "Q", sampleHistory(), "Role", types.LevelMid)

	assert.Equal(t, 7, feedback.Score)
	assert.NotEmpty(t, feedback.Comment)
}
