package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-coach/internal/types"
)

// CreateInterview inserts a new interview record
func (db *DB) CreateInterview(ctx context.Context, iv *types.Interview) error {
	questionsJSON, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviews
		   (id, user_id, resume_id, job_role, experience_level, status, questions, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		iv.ID, iv.UserID, iv.ResumeID, iv.JobRole, iv.ExperienceLevel, iv.Status,
		questionsJSON, iv.Version, iv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetInterview retrieves an interview by ID. Returns (nil, nil) if not found.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
	var (
		iv            types.Interview
		questionsJSON []byte
		summaryJSON   []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, resume_id, job_role, experience_level, status,
		        questions, summary, version, created_at, completed_at
		 FROM interviews WHERE id = $1`,
		id,
	).Scan(&iv.ID, &iv.UserID, &iv.ResumeID, &iv.JobRole, &iv.ExperienceLevel, &iv.Status,
		&questionsJSON, &summaryJSON, &iv.Version, &iv.CreatedAt, &iv.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	if err := json.Unmarshal(questionsJSON, &iv.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	if len(summaryJSON) > 0 {
		var summary types.InterviewSummary
		if err := json.Unmarshal(summaryJSON, &summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
		iv.Summary = &summary
	}
	return &iv, nil
}

// UpdateInterview writes back the interview state under a compare-and-swap
// on the version column. On success the in-memory version is advanced to the
// stored one. Returns ErrVersionConflict if a concurrent writer won.
func (db *DB) UpdateInterview(ctx context.Context, iv *types.Interview) error {
	questionsJSON, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	var summaryJSON []byte
	if iv.Summary != nil {
		summaryJSON, err = json.Marshal(iv.Summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE interviews
		 SET status = $1, questions = $2, summary = $3, version = version + 1, completed_at = $4
		 WHERE id = $5 AND version = $6`,
		iv.Status, questionsJSON, summaryJSON, iv.CompletedAt, iv.ID, iv.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}

	iv.Version++
	return nil
}

// ListInterviewsByUser returns the user's interviews, newest first
func (db *DB) ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, resume_id, job_role, experience_level, status,
		        questions, summary, version, created_at, completed_at
		 FROM interviews WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []types.Interview
	for rows.Next() {
		var (
			iv            types.Interview
			questionsJSON []byte
			summaryJSON   []byte
		)
		if err := rows.Scan(&iv.ID, &iv.UserID, &iv.ResumeID, &iv.JobRole, &iv.ExperienceLevel, &iv.Status,
			&questionsJSON, &summaryJSON, &iv.Version, &iv.CreatedAt, &iv.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		if err := json.Unmarshal(questionsJSON, &iv.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
		}
		if len(summaryJSON) > 0 {
			var summary types.InterviewSummary
			if err := json.Unmarshal(summaryJSON, &summary); err != nil {
				return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
			}
			iv.Summary = &summary
		}
		interviews = append(interviews, iv)
	}
	return interviews, rows.Err()
}
