package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"AlbumGap/model"
)

// TagReader extracts metadata from audio files.
type TagReader struct {
	extensions map[string]bool // lower-case, with leading dot
}

// NewTagReader builds a reader accepting the given extension allow-list.
func NewTagReader(extensions []string) *TagReader {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		e := strings.ToLower(strings.TrimSpace(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = true
	}
	return &TagReader{extensions: allowed}
}

// CanRead reports whether the file extension is on the audio allow-list.
func (r *TagReader) CanRead(path string) bool {
	return r.extensions[strings.ToLower(filepath.Ext(path))]
}

// Extract reads the tags of one audio file into a LocalTrack. Album and
// artist fields missing from the tags are inferred from the folder path:
// the containing folder names the album, its parent the artist.
func (r *TagReader) Extract(path string) (*model.LocalTrack, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("empty file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	track := &model.LocalTrack{
		FilePath: path,
		Format:   strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// No readable tags at all; fall back entirely to path inference.
		track.Title = titleFromFilename(path)
	} else {
		track.Title = strings.TrimSpace(meta.Title())
		track.Artist = strings.TrimSpace(meta.Artist())
		track.Album = strings.TrimSpace(meta.Album())
		track.AlbumArtist = strings.TrimSpace(meta.AlbumArtist())
		track.Genre = strings.TrimSpace(meta.Genre())
		track.Year = meta.Year()
		track.TrackNumber, _ = meta.Track()
		track.DiscNumber, _ = meta.Disc()

		raw := meta.Raw()
		if track.Title == "" {
			track.Title = firstRawString(raw, "TIT2", "TITLE", "\xa9nam")
		}
		if track.TrackNumber == 0 {
			track.TrackNumber = firstRawNumber(raw, "TRCK", "TRACKNUMBER", "trkn")
		}
		if track.DiscNumber == 0 {
			track.DiscNumber = firstRawNumber(raw, "TPOS", "DISCNUMBER", "disk")
		}
	}

	if track.Title == "" {
		track.Title = titleFromFilename(path)
	}
	if track.Album == "" {
		track.Album = filepath.Base(filepath.Dir(path))
	}
	if track.Artist == "" && track.AlbumArtist == "" {
		track.Artist = filepath.Base(filepath.Dir(filepath.Dir(path)))
	}

	return track, nil
}

// firstRawString returns the value of the first present key among an ordered
// alias list of raw tag frames.
func firstRawString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstRawNumber is the numeric variant of firstRawString; it accepts "N/M"
// disc/track forms and returns N.
func firstRawNumber(raw map[string]interface{}, keys ...string) int {
	s := firstRawString(raw, keys...)
	if s == "" {
		return 0
	}
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		s = s[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// titleFromFilename derives a title from the file name, dropping the
// extension and a leading track number if present.
func titleFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.TrimSpace(name)
	// "01 - Title" / "01. Title" / "01 Title"
	trimmed := strings.TrimLeft(name, "0123456789")
	if trimmed != name {
		trimmed = strings.TrimLeft(trimmed, " .-_")
		if trimmed != "" {
			return trimmed
		}
	}
	return name
}
