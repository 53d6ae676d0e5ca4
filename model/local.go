package model

// LocalTrack is the metadata extracted from a single audio file. Immutable
// once built by the scanner's tag extractor.
type LocalTrack struct {
	FilePath    string  `json:"filePath"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Album       string  `json:"album"`
	AlbumArtist string  `json:"albumArtist"`
	TrackNumber int     `json:"trackNumber"`
	DiscNumber  int     `json:"discNumber"`
	Year        int     `json:"year"`
	Duration    float64 `json:"duration"` // seconds; 0 when unknown
	Format      string  `json:"format"`   // lower-case extension without dot
	Bitrate     int     `json:"bitrate"`
	SampleRate  int     `json:"sampleRate"`
	Genre       string  `json:"genre"`
}

// LocalAlbum aggregates the tracks of one folder under a single
// (albumArtist, album) identity. Built once per distinct key per scan run.
type LocalAlbum struct {
	AlbumArtist   string   `json:"albumArtist"`
	Album         string   `json:"album"`
	FolderPath    string   `json:"folderPath"`
	Year          int      `json:"year"`  // earliest positive year among tracks, 0 if none
	Genre         string   `json:"genre"` // first track's genre
	TrackCount    int      `json:"trackCount"`
	TotalDuration float64  `json:"totalDuration"`
	Formats       []string `json:"formats"` // distinct extensions, sorted
}

// Key returns the dedup identity used during one scan pass.
func (a *LocalAlbum) Key() string {
	return a.AlbumArtist + "|" + a.Album
}
