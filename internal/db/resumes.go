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

// CreateResume stores an uploaded resume with its analyzed profile (JSONB)
// and returns the new record's ID.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, filename, rawText string, profile *types.ResumeProfile) (uuid.UUID, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, filename, raw_text, profile)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, filename, rawText, profileJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID. Returns (nil, nil) if not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var (
		r           Resume
		profileJSON []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, filename, raw_text, profile, created_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Filename, &r.RawText, &profileJSON, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if len(profileJSON) > 0 {
		var profile types.ResumeProfile
		if err := json.Unmarshal(profileJSON, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		r.Profile = &profile
	}
	return &r, nil
}

// ListResumesByUser returns all resumes owned by the user, newest first.
// Raw text is omitted from listings.
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, filename, profile, created_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		var (
			r           Resume
			profileJSON []byte
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Filename, &profileJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		if len(profileJSON) > 0 {
			var profile types.ResumeProfile
			if err := json.Unmarshal(profileJSON, &profile); err != nil {
				return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
			}
			r.Profile = &profile
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}
