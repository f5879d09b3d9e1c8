// Package store persists shop settings and saved estimates.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgallion1/steelbid/internal/estimate"
)

// ErrNotFound is returned when a saved estimate does not exist.
var ErrNotFound = errors.New("not found")

// SavedEstimate is a named takeoff kept for later pricing and export.
// Settings, when set, pin the pricing used at save time.
type SavedEstimate struct {
	ID        string             `json:"id"`
	JobName   string             `json:"job_name"`
	Filename  string             `json:"filename,omitempty"`
	Members   []estimate.Member  `json:"members"`
	Settings  *estimate.Settings `json:"settings,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Summary is the list view of a saved estimate.
type Summary struct {
	ID          string    `json:"id"`
	JobName     string    `json:"job_name"`
	Filename    string    `json:"filename,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store interface {
	GetSettings(ctx context.Context) (estimate.Settings, error)
	PutSettings(ctx context.Context, s estimate.Settings) error

	// SaveEstimate creates the estimate when its ID is new and replaces it
	// otherwise. It assigns an ID and timestamps as needed.
	SaveEstimate(ctx context.Context, e *SavedEstimate) error
	GetEstimate(ctx context.Context, id string) (*SavedEstimate, error)
	// ListEstimates returns summaries, most recently updated first.
	ListEstimates(ctx context.Context) ([]Summary, error)
	DeleteEstimate(ctx context.Context, id string) error

	Close() error
}

func summarize(e *SavedEstimate) Summary {
	return Summary{
		ID:          e.ID,
		JobName:     e.JobName,
		Filename:    e.Filename,
		MemberCount: len(e.Members),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
