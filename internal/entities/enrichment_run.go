package entities

import (
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// EnrichmentRun tracks the single most recent bulk enrichment.
type EnrichmentRun struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:50;uniqueIndex" json:"name"`
	Status      RunStatus  `gorm:"size:20" json:"status"`
	TotalBooks  int        `json:"total_books"`
	Processed   int        `json:"processed"`
	Enriched    int        `json:"enriched"`
	Failed      int        `json:"failed"`
	Skipped     int        `json:"skipped"`
	CurrentBook string     `gorm:"size:512" json:"current_book,omitempty"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (EnrichmentRun) TableName() string {
	return "enrichment_runs"
}
