package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/server/middleware"
	"github.com/jonathan/interview-coach/internal/types"
)

// CreateInterviewRequest starts a new mock interview against a stored resume
type CreateInterviewRequest struct {
	ResumeID        uuid.UUID `json:"resume_id"`
	JobRole         string    `json:"job_role"`
	ExperienceLevel string    `json:"experience_level"`
	NumQuestions    int       `json:"num_questions"`
}

// AnswerRequest carries one answer submission
type AnswerRequest struct {
	Answer string `json:"answer"`
}

const defaultNumQuestions = 7

// handleCreateInterview generates a personalized question set for the
// caller's resume and opens an in-progress interview.
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultNumQuestions
	}

	resume, err := s.resumes.GetResume(r.Context(), req.ResumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load resume")
		return
	}
	if resume == nil || resume.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "resume", ID: req.ResumeID}).Error())
		return
	}

	iv, err := s.interviews.StartInterview(r.Context(), interview.StartParams{
		UserID:       userID,
		ResumeID:     resume.ID,
		Profile:      resume.Profile,
		JobRole:      req.JobRole,
		Level:        parseLevel(req.ExperienceLevel),
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, iv)
}

// handleGetInterview returns one interview owned by the caller
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, iv)
}

// handleListInterviews returns the caller's interviews
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	interviews, err := s.interviewList.ListInterviewsByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": interviews})
}

// handleSubmitAnswer records an answer for one question and returns either
// the follow-up to ask or the question's feedback.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid question index")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.interviews.SubmitAnswer(r.Context(), iv.ID, index, req.Answer)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleCompleteInterview aggregates the interview into a final summary
func (s *Server) handleCompleteInterview(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}

	completed, err := s.interviews.CompleteInterview(r.Context(), iv.ID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, completed)
}

// ownedInterview loads the interview from the path and enforces ownership.
// Interviews belonging to other users read as not found.
func (s *Server) ownedInterview(w http.ResponseWriter, r *http.Request) (*types.Interview, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid interview id")
		return nil, false
	}

	iv, err := s.interviews.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	if iv.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, (&interview.NotFoundError{ID: id}).Error())
		return nil, false
	}
	return iv, true
}

func parseLevel(level string) types.ExperienceLevel {
	switch types.ExperienceLevel(level) {
	case types.LevelEntry, types.LevelMid, types.LevelSenior:
		return types.ExperienceLevel(level)
	default:
		return types.LevelMid
	}
}
