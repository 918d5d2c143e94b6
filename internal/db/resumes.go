package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-studio/internal/types"
)

// CreateResumeParams holds the initial row for a new resume. Data and
// CurrentScore are nil for uploads (the background tasks fill them in) and
// populated for blank creates.
type CreateResumeParams struct {
	UserID       uuid.UUID
	Title        string
	Filename     string
	FileURL      string
	FileKey      string
	RawText      string
	Data         *types.StructuredResume
	CurrentScore *types.ScoreObject
	Status       string
}

// CreateResume inserts a new resume row and returns its ID.
func (db *DB) CreateResume(ctx context.Context, params CreateResumeParams) (uuid.UUID, error) {
	dataJSON, err := marshalNullable(params.Data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume data: %w", err)
	}
	scoreJSON, err := marshalNullable(params.CurrentScore)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal current score: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, filename, file_url, file_key, raw_text, data, current_score, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		params.UserID, params.Title, params.Filename, params.FileURL, params.FileKey,
		params.RawText, dataJSON, scoreJSON, params.Status,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID, scoped to its owner. Returns
// (nil, nil) when no row exists for this user.
func (db *DB) GetResume(ctx context.Context, resumeID, userID uuid.UUID) (*Resume, error) {
	var r Resume
	var dataJSON, originalJSON, currentJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, COALESCE(filename, ''), COALESCE(file_url, ''), COALESCE(file_key, ''),
		        COALESCE(raw_text, ''), data, original_score, current_score, status,
		        COALESCE(generated_by_model, ''), created_at, updated_at
		 FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Filename, &r.FileURL, &r.FileKey,
		&r.RawText, &dataJSON, &originalJSON, &currentJSON, &r.Status,
		&r.GeneratedByModel, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := unmarshalNullable(dataJSON, &r.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume data: %w", err)
	}
	if err := unmarshalNullable(originalJSON, &r.OriginalScore); err != nil {
		return nil, fmt.Errorf("failed to unmarshal original score: %w", err)
	}
	if err := unmarshalNullable(currentJSON, &r.CurrentScore); err != nil {
		return nil, fmt.Errorf("failed to unmarshal current score: %w", err)
	}
	return &r, nil
}

// ListResumes retrieves all resumes for a user, newest first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, COALESCE(filename, ''), status, current_score, created_at, updated_at
		 FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	summaries := []ResumeSummary{}
	for rows.Next() {
		var s ResumeSummary
		var scoreJSON []byte
		if err := rows.Scan(&s.ID, &s.Title, &s.Filename, &s.Status, &scoreJSON, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		if err := unmarshalNullable(scoreJSON, &s.CurrentScore); err != nil {
			return nil, fmt.Errorf("failed to unmarshal current score: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// UpdateResumeData stores edited resume data together with its recomputed
// score in one write, scoped to the owner.
func (db *DB) UpdateResumeData(ctx context.Context, resumeID, userID uuid.UUID, data *types.StructuredResume, score *types.ScoreObject) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal resume data: %w", err)
	}
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal current score: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET data = $1, current_score = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4`,
		dataJSON, scoreJSON, resumeID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume data: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// UpdateTitle renames a resume, scoped to the owner.
func (db *DB) UpdateTitle(ctx context.Context, resumeID, userID uuid.UUID, title string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		title, resumeID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// UpdateStatus transitions a resume's status. Used by the background
// pipeline and by handlers resetting status before a regenerate, so it is
// not owner-scoped.
func (db *DB) UpdateStatus(ctx context.Context, resumeID uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, resumeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// UpdateOriginalScore stores the raw-text analysis score. Touches nothing
// else; in particular it never writes status.
func (db *DB) UpdateOriginalScore(ctx context.Context, resumeID uuid.UUID, score *types.ScoreObject) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal original score: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET original_score = $1, updated_at = NOW() WHERE id = $2`,
		scoreJSON, resumeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update original score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// UpdateExtractionResult stores the structured resume, its score, the model
// that produced it, and the terminal status in one write.
func (db *DB) UpdateExtractionResult(ctx context.Context, resumeID uuid.UUID, resume *types.StructuredResume, score *types.ScoreObject, model, status string) error {
	dataJSON, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume data: %w", err)
	}
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal current score: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET data = $1, current_score = $2, generated_by_model = $3, status = $4, updated_at = NOW()
		 WHERE id = $5`,
		dataJSON, scoreJSON, model, status, resumeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update extraction result: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// DeleteResume deletes a resume, scoped to the owner, and returns the stored
// file key so the caller can clean up object storage.
func (db *DB) DeleteResume(ctx context.Context, resumeID, userID uuid.UUID) (string, error) {
	var fileKey string
	err := db.pool.QueryRow(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2 RETURNING COALESCE(file_key, '')`,
		resumeID, userID,
	).Scan(&fileKey)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("resume not found: %s", resumeID)
		}
		return "", fmt.Errorf("failed to delete resume: %w", err)
	}
	return fileKey, nil
}

// marshalNullable marshals a pointer to JSON, mapping nil to SQL NULL.
func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalNullable decodes a JSONB column into *out, leaving it nil for
// NULL columns.
func unmarshalNullable[T any](data []byte, out **T) error {
	if len(data) == 0 {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	*out = v
	return nil
}
