package model

// DeezerArtist is an artist record from the Deezer public API.
type DeezerArtist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	NbAlbums int    `json:"nb_album"`
	NbFans   int    `json:"nb_fan"`
	Link     string `json:"link"`
}

// DeezerAlbum is an album record from the Deezer public API. Treated as a
// read-only value object by the comparison pipeline.
type DeezerAlbum struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	TrackCount  int    `json:"nb_tracks"`
	Fans        int    `json:"fans"`
	ReleaseDate string `json:"release_date"` // "YYYY-MM-DD", may be empty
	RecordType  string `json:"record_type"`
	Link        string `json:"link,omitempty"`
}

// DeezerTrack is a track record from the Deezer public API.
type DeezerTrack struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	TrackPosition int    `json:"track_position"`
	DiskNumber    int    `json:"disk_number"`
	Duration      int    `json:"duration"` // seconds
}
