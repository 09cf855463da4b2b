package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func sampleProfile() *types.ResumeProfile {
	p := &types.ResumeProfile{
		Projects: []types.ProjectEntry{
			{ProjectName: "Inventory Tracker", Description: "Warehouse system", Technologies: []string{"React", "Node.js"}, Challenges: []string{"real-time sync"}},
			{ProjectName: "Chat Service", Description: "Messaging backend"},
		},
		Experience: []types.ExperienceEntry{
			{Company: "Acme Corp", Position: "Backend Engineer", Duration: "2 years"},
		},
	}
	p.Skills.Technical.Languages = []string{"Go"}
	p.Skills.Technical.Frameworks = []string{"React"}
	p.Normalize()
	return p
}

func modelQuestionsJSON(n int) string {
	items := []string{`{"question": "Welcome! Tell me about yourself.", "type": "general", "phase": "greeting"}`}
	for i := 1; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"question": "Model question %d", "type": "technical", "phase": "technical"}`, i))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestGenerate_ModelPath_ExactCountAndIDs(t *testing.T) {
	mock := &mockCompleter{response: modelQuestionsJSON(7)}
	gen := NewGenerator(mock, nil)

	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 7)
	require.NoError(t, err)

	require.Len(t, qs, 7)
	for i, q := range qs {
		assert.Equal(t, i, q.ID, "id must equal array position")
		assert.NotNil(t, q.ConversationHistory)
		assert.Empty(t, q.ConversationHistory)
	}
	assert.Equal(t, types.PhaseGreeting, qs[0].Phase)
	assert.InDelta(t, 0.75, mock.lastReq.Temperature, 0.001)
}

func TestGenerate_ModelReturnsTooMany_Truncates(t *testing.T) {
	mock := &mockCompleter{response: modelQuestionsJSON(10)}
	gen := NewGenerator(mock, nil)

	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 4)
	require.NoError(t, err)
	require.Len(t, qs, 4)
	assert.Equal(t, types.PhaseGreeting, qs[0].Phase)
}

func TestGenerate_ModelReturnsTooFew_PadsToCount(t *testing.T) {
	mock := &mockCompleter{response: modelQuestionsJSON(3)}
	gen := NewGenerator(mock, nil)

	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 9)
	require.NoError(t, err)
	require.Len(t, qs, 9)
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
		assert.NotEmpty(t, q.Question)
	}
}

func TestGenerate_ModelWithoutGreeting_GreetingInserted(t *testing.T) {
	response := `[{"question": "Explain goroutines.", "type": "technical", "phase": "technical"}]`
	mock := &mockCompleter{response: response}
	gen := NewGenerator(mock, nil)

	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 2)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, types.PhaseGreeting, qs[0].Phase)
	assert.Contains(t, qs[0].Question, "Backend Engineer")
	assert.Equal(t, "Explain goroutines.", qs[1].Question)
}

func TestGenerate_PromptEmbedsProjectsAndSkills(t *testing.T) {
	mock := &mockCompleter{response: modelQuestionsJSON(5)}
	gen := NewGenerator(mock, nil)

	_, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 5)
	require.NoError(t, err)

	assert.Contains(t, mock.lastReq.Prompt, "Inventory Tracker")
	assert.Contains(t, mock.lastReq.Prompt, "Chat Service")
	assert.Contains(t, mock.lastReq.Prompt, "Go")
	assert.Contains(t, mock.lastReq.Prompt, "Acme Corp")
	assert.Contains(t, mock.lastReq.Prompt, "Backend Engineer")
}

func TestGenerate_GatewayFailure_FallbackOrdering(t *testing.T) {
	mock := &mockCompleter{err: &llm.AllProvidersFailedError{}}
	gen := NewGenerator(mock, nil)

	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 6)
	require.NoError(t, err)
	require.Len(t, qs, 6)

	// Pacing: greeting, resume, projects (x2 here), behavioral, technical
	assert.Equal(t, types.PhaseGreeting, qs[0].Phase)
	assert.Equal(t, types.PhaseResumeDiscussion, qs[1].Phase)
	assert.Equal(t, types.PhaseProjects, qs[2].Phase)
	assert.Equal(t, types.PhaseProjects, qs[3].Phase)
	assert.Equal(t, types.PhaseBehavioral, qs[4].Phase)
	assert.Equal(t, types.PhaseTechnical, qs[5].Phase)

	// Resume-aware content
	assert.Contains(t, qs[1].Question, "Acme Corp")
	assert.Contains(t, qs[2].Question, "Inventory Tracker")
	assert.Contains(t, qs[3].Question, "Chat Service")
	assert.Contains(t, qs[4].Question, "Acme Corp")
	assert.Contains(t, qs[5].Question, "React")
}

func TestGenerate_EmptyProfileFallback(t *testing.T) {
	mock := &mockCompleter{err: errors.New("all providers down")}
	gen := NewGenerator(mock, nil)

	empty := &types.ResumeProfile{}
	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), empty, "Frontend Developer", types.LevelEntry, 5)
	require.NoError(t, err)
	require.Len(t, qs, 5)

	assert.Equal(t, types.PhaseGreeting, qs[0].Phase)
	assert.Contains(t, qs[0].Question, "Frontend Developer")
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
	}
	// Generic variants when the profile is empty
	assert.Contains(t, qs[2].Question, "most complex project")
}

func TestGenerate_MalformedModelOutput_Fallback(t *testing.T) {
	mock := &mockCompleter{response: "I'd be happy to help, but I need more information."}
	gen := NewGenerator(mock, nil)

	qs, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelSenior, 5)
	require.NoError(t, err)
	require.Len(t, qs, 5)
	assert.Equal(t, types.PhaseGreeting, qs[0].Phase)
}

func TestGenerate_Validation(t *testing.T) {
	mock := &mockCompleter{response: modelQuestionsJSON(5)}
	gen := NewGenerator(mock, nil)

	_, err := gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "", types.LevelMid, 5)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = gen.GeneratePersonalizedQuestions(context.Background(), sampleProfile(), "Backend Engineer", types.LevelMid, 0)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 0, mock.calls, "validation happens before any provider call")
}

func TestFallbackQuestions_LargeCountCyclesGenericPool(t *testing.T) {
	qs := FallbackQuestions(sampleProfile(), "Backend Engineer", 15)
	require.Len(t, qs, 15)
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
		assert.NotEmpty(t, q.Question)
	}
}
