package server

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/server/middleware"
)

// maxResumeUploadBytes caps the accepted document size
const maxResumeUploadBytes = 10 << 20

// handleUploadResume accepts a resume document (PDF or plain text, raw body
// or multipart "file" field), extracts its text, runs the profile analysis,
// and stores the result.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, filename, contentType, err := readResumePayload(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(data) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "resume document is empty")
		return
	}

	text, err := ingestion.ExtractResumeText(data, contentType)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	profile, err := s.analyzer.ParseResumeDetailed(r.Context(), text)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.resumes.CreateResume(r.Context(), userID, filename, text, profile)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":      id,
		"profile": profile,
	})
}

// handleGetResume returns one stored resume with its profile
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume id")
		return
	}

	resume, err := s.resumes.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load resume")
		return
	}
	if resume == nil || resume.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "resume", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleListResumes returns the caller's resumes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resumes, err := s.resumes.ListResumesByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list resumes")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

// readResumePayload pulls the document bytes out of the request, from a
// multipart "file" field when present, otherwise from the raw body.
func readResumePayload(r *http.Request) (data []byte, filename, contentType string, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(maxResumeUploadBytes); err != nil {
			return nil, "", "", err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", err
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, maxResumeUploadBytes))
		if err != nil {
			return nil, "", "", err
		}
		return data, header.Filename, header.Header.Get("Content-Type"), nil
	}

	data, err = io.ReadAll(io.LimitReader(r.Body, maxResumeUploadBytes))
	if err != nil {
		return nil, "", "", err
	}
	return data, "", mediaType, nil
}
