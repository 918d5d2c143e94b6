package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/types"
)

// User represents a user account row
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resume represents a resume row. Data, OriginalScore and CurrentScore are
// stored as JSONB and are nil until the corresponding background task has
// written them.
type Resume struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"user_id"`
	Title            string                  `json:"title"`
	Filename         string                  `json:"filename,omitempty"`
	FileURL          string                  `json:"file_url,omitempty"`
	FileKey          string                  `json:"-"`
	RawText          string                  `json:"-"`
	Data             *types.StructuredResume `json:"data,omitempty"`
	OriginalScore    *types.ScoreObject      `json:"original_score,omitempty"`
	CurrentScore     *types.ScoreObject      `json:"current_score,omitempty"`
	Status           string                  `json:"status"`
	GeneratedByModel string                  `json:"generated_by_model,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ResumeSummary is the lightweight listing view: no raw text, no structured
// data, just enough for the dashboard cards.
type ResumeSummary struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Filename     string             `json:"filename,omitempty"`
	Status       string             `json:"status"`
	CurrentScore *types.ScoreObject `json:"current_score,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
