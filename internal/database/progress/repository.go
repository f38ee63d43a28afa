// Package progress tracks bulk enrichment runs.
//
// The repository implements metadata.ProgressReporter:
//
//	var _ metadata.ProgressReporter = (*Repository)(nil)
package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookscan/internal/entities"
)

// RunName identifies the bulk metadata enrichment run.
const RunName = "metadata"

// staleAfter is how long a running record may go without updates before it
// is treated as interrupted.
const staleAfter = 10 * time.Minute

// Repository handles enrichment run database operations.
type Repository struct {
	db   *gorm.DB
	name string
}

// NewRepository creates a repository for the metadata enrichment run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, name: RunName}
}

// Current returns the latest run record.
func (r *Repository) Current() (*entities.EnrichmentRun, error) {
	var run entities.EnrichmentRun
	err := r.db.Where("name = ?", r.name).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// StartSync creates or resets the run record.
func (r *Repository) StartSync(totalItems int) error {
	var run entities.EnrichmentRun
	result := r.db.Where("name = ?", r.name).First(&run)

	now := time.Now()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		run = entities.EnrichmentRun{
			Name:       r.name,
			Status:     entities.RunStatusRunning,
			TotalBooks: totalItems,
			StartedAt:  now,
			UpdatedAt:  now,
		}
		return r.db.Create(&run).Error
	} else if result.Error != nil {
		return result.Error
	}

	run.Status = entities.RunStatusRunning
	run.TotalBooks = totalItems
	run.Processed = 0
	run.Enriched = 0
	run.Failed = 0
	run.Skipped = 0
	run.CurrentBook = ""
	run.Error = ""
	run.StartedAt = now
	run.UpdatedAt = now
	run.CompletedAt = nil

	return r.db.Save(&run).Error
}

// UpdateProgress records the progress of the running enrichment.
func (r *Repository) UpdateProgress(processed, enriched, failed, skipped int, currentItem string) error {
	return r.db.Model(&entities.EnrichmentRun{}).
		Where("name = ?", r.name).
		Updates(map[string]any{
			"processed":    processed,
			"enriched":     enriched,
			"failed":       failed,
			"skipped":      skipped,
			"current_book": currentItem,
			"updated_at":   time.Now(),
		}).Error
}

// CompleteSync marks the run as completed or failed.
func (r *Repository) CompleteSync(succeeded bool, errorMsg string) error {
	now := time.Now()
	status := entities.RunStatusCompleted
	if !succeeded {
		status = entities.RunStatusFailed
	}

	updates := map[string]any{
		"status":       status,
		"current_book": "",
		"updated_at":   now,
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.db.Model(&entities.EnrichmentRun{}).
		Where("name = ?", r.name).
		Updates(updates).Error
}

// IsSyncRunning reports whether a run is in progress. A run that has not
// been updated for ten minutes is marked failed and reported as stopped.
func (r *Repository) IsSyncRunning() (bool, error) {
	var run entities.EnrichmentRun
	err := r.db.Where("name = ? AND status = ?", r.name, entities.RunStatusRunning).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if run.UpdatedAt.Before(time.Now().Add(-staleAfter)) {
		_ = r.CompleteSync(false, "enrichment was interrupted")
		return false, nil
	}

	return true, nil
}
