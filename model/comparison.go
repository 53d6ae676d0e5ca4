package model

// Artist comparison states. Terminal within a run; no retries.
const (
	StatusFound    = "found"
	StatusNotFound = "not_found"
)

// MatchResult pairs a local album title with its remote counterpart and the
// fuzzy score that linked them.
type MatchResult struct {
	LocalAlbum  string       `json:"localAlbum"`
	RemoteAlbum *DeezerAlbum `json:"remoteAlbum"`
	Score       int          `json:"score"` // 0..100
}

// ArtistComparison is the per-artist reconciliation outcome. Field names and
// nesting are consumed by downstream queue-import tooling and must not change.
type ArtistComparison struct {
	RemoteID      int64          `json:"remoteID,omitempty"`
	RemoteName    string         `json:"remoteName,omitempty"`
	LocalAlbums   []string       `json:"localAlbums"`
	RemoteAlbums  []string       `json:"remoteAlbums"`
	MissingAlbums []*DeezerAlbum `json:"missingAlbums"`
	MatchedCount  int            `json:"matchedCount"`
	Status        string         `json:"status"`
	Reason        string         `json:"reason,omitempty"` // e.g. "artist not found"
}

// Statistics aggregates counts across all artists of one comparison run.
type Statistics struct {
	TotalArtists       int `json:"totalArtists"`
	TotalLocalAlbums   int `json:"totalLocalAlbums"`
	TotalRemoteAlbums  int `json:"totalRemoteAlbums"`
	TotalMissingAlbums int `json:"totalMissingAlbums"`
}

// ComparisonReport is the full output of one comparison run.
type ComparisonReport struct {
	RunID      string                       `json:"runId"`
	Artists    map[string]*ArtistComparison `json:"artists"`
	Statistics Statistics                   `json:"statistics"`
}
