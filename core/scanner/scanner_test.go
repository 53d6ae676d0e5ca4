package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlbumGap/model"
)

// writeTree lays out artist/album folders with dummy audio files. The files
// carry no readable tags, so extraction falls back to path inference:
// folder name becomes the album, its parent the artist.
func writeTree(t *testing.T, root string, layout map[string][]string) {
	t.Helper()
	for folder, files := range layout {
		dir := filepath.Join(root, folder)
		require.NoError(t, os.MkdirAll(dir, 0755))
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("not really audio"), 0644))
		}
	}
}

func newTestScanner(t *testing.T) (*FolderScanner, string) {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	cache := LoadScanCache(cachePath)
	return NewFolderScanner([]string{".mp3", ".flac"}, cache, 4, 16), cachePath
}

func TestScanAggregatesFolderIntoAlbum(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]string{
		"Pink Floyd/The Wall": {"01 - In the Flesh.mp3", "02 - The Thin Ice.flac"},
	})

	fs, _ := newTestScanner(t)
	albums, err := fs.Scan(context.Background(), []string{root}, ModeFull)
	require.NoError(t, err)

	require.Len(t, albums, 1)
	album := albums[0]
	assert.Equal(t, "Pink Floyd", album.AlbumArtist)
	assert.Equal(t, "The Wall", album.Album)
	assert.Equal(t, 2, album.TrackCount)
	assert.Equal(t, []string{"flac", "mp3"}, album.Formats)
}

func TestScanIgnoresUnsupportedExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]string{
		"Artist/Album": {"cover.jpg", "notes.txt"},
	})

	fs, _ := newTestScanner(t)
	albums, err := fs.Scan(context.Background(), []string{root}, ModeFull)
	require.NoError(t, err)
	assert.Empty(t, albums)
}

func TestScanDuplicateAlbumKeyFirstWins(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeTree(t, rootA, map[string][]string{"Artist/Album": {"01.mp3"}})
	writeTree(t, rootB, map[string][]string{"Artist/Album": {"01.mp3", "02.mp3"}})

	fs, _ := newTestScanner(t)
	albums, err := fs.Scan(context.Background(), []string{rootA, rootB}, ModeFull)
	require.NoError(t, err)

	// Both folders resolve to the key "Artist|Album"; only one contribution
	// survives.
	require.Len(t, albums, 1)
	assert.Equal(t, "Artist|Album", albums[0].Key())
}

func TestScanIncrementalSkipsUnchangedFolders(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]string{
		"Artist/First":  {"01.mp3"},
		"Artist/Second": {"01.mp3"},
	})

	cachePath := filepath.Join(t.TempDir(), "cache.json")
	cache := LoadScanCache(cachePath)
	fs := NewFolderScanner([]string{".mp3"}, cache, 4, 16)

	albums, err := fs.Scan(context.Background(), []string{root}, ModeIncremental)
	require.NoError(t, err)
	assert.Len(t, albums, 2)

	// Second pass over the unchanged tree: every folder is skipped via the
	// mtime cache before it is even enqueued.
	var mu sync.Mutex
	processed := 0
	second := NewFolderScanner([]string{".mp3"}, LoadScanCache(cachePath), 4, 16)
	second.SetProgress(func(p, d int) {
		mu.Lock()
		processed = p
		mu.Unlock()
	})

	albums, err = second.Scan(context.Background(), []string{root}, ModeIncremental)
	require.NoError(t, err)
	assert.Empty(t, albums)
	assert.Equal(t, 0, processed)
}

func TestScanMissingRootIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]string{"Artist/Album": {"01.mp3"}})

	fs, _ := newTestScanner(t)
	albums, err := fs.Scan(context.Background(), []string{"/nonexistent/path", root}, ModeFull)
	require.NoError(t, err)
	assert.Len(t, albums, 1)
}

func TestScanCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]string{"Artist/Album": {"01.mp3"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs, _ := newTestScanner(t)
	_, err := fs.Scan(ctx, []string{root}, ModeFull)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanCacheWriteFailureFailsRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]string{"Artist/Album": {"01.mp3"}})

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cache := LoadScanCache(filepath.Join(blocker, "cache.json"))
	fs := NewFolderScanner([]string{".mp3"}, cache, 4, 16)

	_, err := fs.Scan(context.Background(), []string{root}, ModeFull)
	assert.Error(t, err)
}

func TestMajorityVote(t *testing.T) {
	tracks := []*model.LocalTrack{
		{AlbumArtist: "Queen"},
		{AlbumArtist: "Queen"},
		{AlbumArtist: "Queen feat. Bowie"},
	}
	got := majorityVote(tracks, func(tr *model.LocalTrack) string { return tr.AlbumArtist })
	assert.Equal(t, "Queen", got)
}

func TestMajorityVoteExcludesVariousArtists(t *testing.T) {
	tracks := []*model.LocalTrack{
		{AlbumArtist: "Various Artists"},
		{AlbumArtist: "Various Artists"},
		{AlbumArtist: "Queen"},
	}
	got := majorityVote(tracks, func(tr *model.LocalTrack) string { return tr.AlbumArtist })
	assert.Equal(t, "Queen", got)
}

func TestMajorityVoteTieBreaksToFirstEncountered(t *testing.T) {
	tracks := []*model.LocalTrack{
		{Album: "Alpha"},
		{Album: "Beta"},
	}
	got := majorityVote(tracks, func(tr *model.LocalTrack) string { return tr.Album })
	assert.Equal(t, "Alpha", got)
}

func TestValidAlbumField(t *testing.T) {
	assert.True(t, validAlbumField("Abbey Road"))
	assert.False(t, validAlbumField(""))
	assert.False(t, validAlbumField("various artists"))
	assert.False(t, validAlbumField("Various Artists"))
	assert.False(t, validAlbumField(`C:\Music\Rips`))
	assert.False(t, validAlbumField("D:/music"))
}

func TestBuildAlbumYearAndDuration(t *testing.T) {
	tracks := []*model.LocalTrack{
		{Year: 0, Duration: 180, Format: "mp3", Genre: "Rock"},
		{Year: 1973, Duration: 200, Format: "mp3"},
		{Year: 1970, Duration: 100, Format: "flac"},
	}
	album := buildAlbum("/music/a/b", "Artist", "Album", tracks)

	assert.Equal(t, 1970, album.Year)
	assert.Equal(t, 480.0, album.TotalDuration)
	assert.Equal(t, "Rock", album.Genre)
	assert.Equal(t, []string{"flac", "mp3"}, album.Formats)
}
