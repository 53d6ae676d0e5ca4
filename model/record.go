package model

import "time"

// ScanRecord is one persisted scan run (server mode).
type ScanRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"size:36;uniqueIndex" json:"runId"`
	Mode       string    `gorm:"size:16" json:"mode"`
	AlbumCount int       `json:"albumCount"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// AlbumRecord is one LocalAlbum row belonging to a scan run.
type AlbumRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ScanRunID     string    `gorm:"size:36;index" json:"scanRunId"`
	AlbumArtist   string    `gorm:"size:255;index" json:"albumArtist"`
	Album         string    `gorm:"size:255" json:"album"`
	FolderPath    string    `gorm:"size:1024" json:"folderPath"`
	Year          int       `json:"year"`
	Genre         string    `gorm:"size:128" json:"genre"`
	TrackCount    int       `json:"trackCount"`
	TotalDuration float64   `json:"totalDuration"`
	Formats       string    `gorm:"size:128" json:"formats"` // comma-joined extensions
	CreatedAt     time.Time `json:"createdAt"`
}

// ComparisonRecord is one persisted comparison run, with the full report
// kept as JSON for the downstream queue-import tooling.
type ComparisonRecord struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	RunID              string    `gorm:"size:36;uniqueIndex" json:"runId"`
	TotalArtists       int       `json:"totalArtists"`
	TotalLocalAlbums   int       `json:"totalLocalAlbums"`
	TotalRemoteAlbums  int       `json:"totalRemoteAlbums"`
	TotalMissingAlbums int       `json:"totalMissingAlbums"`
	ReportJSON         string    `gorm:"type:longtext" json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
}
