package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"AlbumGap/model"
)

// ScanRepository persists scan runs and their album snapshots.
type ScanRepository interface {
	// SaveScan stores one finished scan run together with its albums.
	SaveScan(ctx context.Context, runID string, mode string, startedAt time.Time, albums []*model.LocalAlbum) error

	// LatestAlbums returns the albums of the most recent scan run.
	LatestAlbums(ctx context.Context) ([]*model.LocalAlbum, error)

	// LatestScan returns the most recent scan record, or nil when none exist.
	LatestScan(ctx context.Context) (*model.ScanRecord, error)
}

// GormScanRepository is the MySQL implementation of ScanRepository.
type GormScanRepository struct {
	db *gorm.DB
}

// NewGormScanRepository creates a new repository instance.
func NewGormScanRepository(db *gorm.DB) *GormScanRepository {
	return &GormScanRepository{db: db}
}

// SaveScan stores the run and its albums in one transaction.
func (r *GormScanRepository) SaveScan(ctx context.Context, runID string, mode string, startedAt time.Time, albums []*model.LocalAlbum) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &model.ScanRecord{
			RunID:      runID,
			Mode:       mode,
			AlbumCount: len(albums),
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		if len(albums) == 0 {
			return nil
		}
		rows := make([]*model.AlbumRecord, 0, len(albums))
		for _, album := range albums {
			rows = append(rows, &model.AlbumRecord{
				ScanRunID:     runID,
				AlbumArtist:   album.AlbumArtist,
				Album:         album.Album,
				FolderPath:    album.FolderPath,
				Year:          album.Year,
				Genre:         album.Genre,
				TrackCount:    album.TrackCount,
				TotalDuration: album.TotalDuration,
				Formats:       strings.Join(album.Formats, ","),
			})
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

// LatestScan returns the most recent scan record.
func (r *GormScanRepository) LatestScan(ctx context.Context) (*model.ScanRecord, error) {
	var record model.ScanRecord
	err := r.db.WithContext(ctx).Order("id DESC").First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// LatestAlbums returns the albums of the most recent scan run.
func (r *GormScanRepository) LatestAlbums(ctx context.Context) ([]*model.LocalAlbum, error) {
	latest, err := r.LatestScan(ctx)
	if err != nil || latest == nil {
		return nil, err
	}

	var rows []*model.AlbumRecord
	if err := r.db.WithContext(ctx).
		Where("scan_run_id = ?", latest.RunID).
		Order("album_artist, album").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	albums := make([]*model.LocalAlbum, 0, len(rows))
	for _, row := range rows {
		var formats []string
		if row.Formats != "" {
			formats = strings.Split(row.Formats, ",")
		}
		albums = append(albums, &model.LocalAlbum{
			AlbumArtist:   row.AlbumArtist,
			Album:         row.Album,
			FolderPath:    row.FolderPath,
			Year:          row.Year,
			Genre:         row.Genre,
			TrackCount:    row.TrackCount,
			TotalDuration: row.TotalDuration,
			Formats:       formats,
		})
	}
	return albums, nil
}
