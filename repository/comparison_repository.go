package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"AlbumGap/model"
)

// ComparisonRepository persists comparison runs.
type ComparisonRepository interface {
	// SaveComparison stores one finished comparison run.
	SaveComparison(ctx context.Context, report *model.ComparisonReport) error

	// LatestComparison returns the most recent report, or nil when none exist.
	LatestComparison(ctx context.Context) (*model.ComparisonReport, error)
}

// GormComparisonRepository is the MySQL implementation of ComparisonRepository.
type GormComparisonRepository struct {
	db *gorm.DB
}

// NewGormComparisonRepository creates a new repository instance.
func NewGormComparisonRepository(db *gorm.DB) *GormComparisonRepository {
	return &GormComparisonRepository{db: db}
}

// SaveComparison stores the report with its statistics broken out into
// queryable columns.
func (r *GormComparisonRepository) SaveComparison(ctx context.Context, report *model.ComparisonReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode comparison report: %w", err)
	}

	record := &model.ComparisonRecord{
		RunID:              report.RunID,
		TotalArtists:       report.Statistics.TotalArtists,
		TotalLocalAlbums:   report.Statistics.TotalLocalAlbums,
		TotalRemoteAlbums:  report.Statistics.TotalRemoteAlbums,
		TotalMissingAlbums: report.Statistics.TotalMissingAlbums,
		ReportJSON:         string(data),
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// LatestComparison returns the most recent report.
func (r *GormComparisonRepository) LatestComparison(ctx context.Context) (*model.ComparisonReport, error) {
	var record model.ComparisonRecord
	err := r.db.WithContext(ctx).Order("id DESC").First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report model.ComparisonReport
	if err := json.Unmarshal([]byte(record.ReportJSON), &report); err != nil {
		return nil, fmt.Errorf("decode comparison report %s: %w", record.RunID, err)
	}
	return &report, nil
}
