package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlbumGap/core/match"
	"AlbumGap/model"
)

// fakeCatalog serves canned artists and albums, and can fail per artist.
type fakeCatalog struct {
	artists map[string]*model.DeezerArtist
	albums  map[int64][]*model.DeezerAlbum
	fail    map[string]error
}

func (f *fakeCatalog) SearchArtist(_ context.Context, name string) (*model.DeezerArtist, error) {
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	return f.artists[name], nil
}

func (f *fakeCatalog) ArtistAlbums(_ context.Context, artistID int64) ([]*model.DeezerAlbum, error) {
	return f.albums[artistID], nil
}

func newEngine(catalog Catalog, threshold int) *Engine {
	return NewEngine(catalog, match.NewDeduplicator(85), threshold, 90)
}

func local(artist, album string) *model.LocalAlbum {
	return &model.LocalAlbum{AlbumArtist: artist, Album: album}
}

func TestCompareExactMatchSuppressesRemoteDuplicates(t *testing.T) {
	catalog := &fakeCatalog{
		artists: map[string]*model.DeezerArtist{
			"The Beatles": {ID: 1, Name: "The Beatles"},
		},
		albums: map[int64][]*model.DeezerAlbum{
			1: {
				{ID: 10, Title: "Abbey Road"},
				{ID: 11, Title: "Abbey Road (Remastered)"},
			},
		},
	}

	engine := newEngine(catalog, 70)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("The Beatles", "Abbey Road"),
	})
	require.NoError(t, err)

	result := report.Artists["The Beatles"]
	require.NotNil(t, result)
	assert.Equal(t, model.StatusFound, result.Status)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Empty(t, result.MissingAlbums)
	assert.Equal(t, 0, report.Statistics.TotalMissingAlbums)
}

func TestCompareSelfTitledNumericArtist(t *testing.T) {
	catalog := &fakeCatalog{
		artists: map[string]*model.DeezerArtist{
			"311": {ID: 3, Name: "311"},
		},
		albums: map[int64][]*model.DeezerAlbum{
			3: {{ID: 30, Title: "311"}},
		},
	}

	engine := newEngine(catalog, 70)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("311", "311"),
	})
	require.NoError(t, err)

	result := report.Artists["311"]
	require.NotNil(t, result)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Empty(t, result.MissingAlbums)
}

func TestCompareThresholdIsInclusive(t *testing.T) {
	catalog := &fakeCatalog{
		artists: map[string]*model.DeezerArtist{
			"Michael Jackson": {ID: 7, Name: "Michael Jackson"},
		},
		albums: map[int64][]*model.DeezerAlbum{
			// Normalizes to exactly the local title, scoring exactly 100.
			7: {{ID: 70, Title: "Thriller (Deluxe Edition)"}},
		},
	}

	// Threshold 100: a score exactly at the threshold must still match.
	engine := newEngine(catalog, 100)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("Michael Jackson", "Thriller"),
	})
	require.NoError(t, err)

	result := report.Artists["Michael Jackson"]
	require.NotNil(t, result)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Empty(t, result.MissingAlbums)
}

func TestCompareReportsMissingAlbums(t *testing.T) {
	catalog := &fakeCatalog{
		artists: map[string]*model.DeezerArtist{
			"Metallica": {ID: 5, Name: "Metallica"},
		},
		albums: map[int64][]*model.DeezerAlbum{
			5: {
				{ID: 50, Title: "Ride the Lightning"},
				{ID: 51, Title: "Master of Puppets"},
			},
		},
	}

	engine := newEngine(catalog, 70)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("Metallica", "Ride the Lightning"),
	})
	require.NoError(t, err)

	result := report.Artists["Metallica"]
	require.NotNil(t, result)
	assert.Equal(t, 1, result.MatchedCount)
	require.Len(t, result.MissingAlbums, 1)
	assert.Equal(t, "Master of Puppets", result.MissingAlbums[0].Title)
	assert.Equal(t, 1, report.Statistics.TotalMissingAlbums)
}

func TestCompareArtistNotFound(t *testing.T) {
	catalog := &fakeCatalog{artists: map[string]*model.DeezerArtist{}}

	engine := newEngine(catalog, 70)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("Nonexistent Band", "Some Album"),
	})
	require.NoError(t, err)

	result := report.Artists["Nonexistent Band"]
	require.NotNil(t, result)
	assert.Equal(t, model.StatusNotFound, result.Status)
	assert.Equal(t, "artist not found", result.Reason)
	assert.Equal(t, []string{"Some Album"}, result.LocalAlbums)
}

func TestCompareRemoteFailureIsolatedToArtist(t *testing.T) {
	catalog := &fakeCatalog{
		artists: map[string]*model.DeezerArtist{
			"Artist A": {ID: 1, Name: "Artist A"},
		},
		albums: map[int64][]*model.DeezerAlbum{
			1: {{ID: 10, Title: "First Album"}},
		},
		fail: map[string]error{
			"Artist B": errors.New("connection reset"),
		},
	}

	engine := newEngine(catalog, 70)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("Artist A", "First Album"),
		local("Artist B", "Other Album"),
	})
	require.NoError(t, err)

	a := report.Artists["Artist A"]
	require.NotNil(t, a)
	assert.Equal(t, model.StatusFound, a.Status)
	assert.Equal(t, 1, a.MatchedCount)

	b := report.Artists["Artist B"]
	require.NotNil(t, b)
	assert.Equal(t, model.StatusNotFound, b.Status)
}

func TestCompareExcludesUnknownArtist(t *testing.T) {
	catalog := &fakeCatalog{artists: map[string]*model.DeezerArtist{}}

	engine := newEngine(catalog, 70)
	report, err := engine.Compare(context.Background(), []*model.LocalAlbum{
		local("Unknown Artist", "Mystery Album"),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Artists)
	assert.Equal(t, 0, report.Statistics.TotalArtists)
}
