package deezer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(srv.URL, 5*time.Second)
	return client, srv
}

func TestSearchArtistReturnsFirstHit(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/artist", r.URL.Path)
		assert.Equal(t, "Daft Punk", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"data":[{"id":27,"name":"Daft Punk","nb_album":31,"nb_fan":8000000},{"id":999,"name":"Daft Punk Tribute"}],"total":2}`)
	}))
	defer srv.Close()

	artist, err := client.SearchArtist(context.Background(), "Daft Punk")
	require.NoError(t, err)
	require.NotNil(t, artist)
	assert.Equal(t, int64(27), artist.ID)
	assert.Equal(t, "Daft Punk", artist.Name)
}

func TestSearchArtistEmptyResult(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[],"total":0}`)
	}))
	defer srv.Close()

	artist, err := client.SearchArtist(context.Background(), "nobody at all")
	require.NoError(t, err)
	assert.Nil(t, artist)
}

func TestArtistAlbumsFollowsPagination(t *testing.T) {
	var calls int
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/artist/27/albums", r.URL.Path)
		switch r.URL.Query().Get("index") {
		case "0", "":
			fmt.Fprintf(w, `{"data":[{"id":1,"title":"Homework","release_date":"1997-01-20","fans":120000},{"id":2,"title":"Discovery","release_date":"2001-03-12","fans":300000}],"total":3,"next":"%s/artist/27/albums?index=2"}`, srvURL)
		default:
			fmt.Fprint(w, `{"data":[{"id":3,"title":"Random Access Memories","release_date":"2013-05-17","fans":500000}],"total":3}`)
		}
	}))
	srvURL = srv.URL
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	albums, err := client.ArtistAlbums(context.Background(), 27)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, albums, 3)
	assert.Equal(t, "Homework", albums[0].Title)
	assert.Equal(t, "Random Access Memories", albums[2].Title)
	assert.Equal(t, 500000, albums[2].Fans)
}

func TestAlbumTracks(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/album/1/tracks", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":11,"title":"Daftendirekt","track_position":1,"duration":164}]}`)
	}))
	defer srv.Close()

	tracks, err := client.AlbumTracks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Daftendirekt", tracks[0].Title)
	assert.Equal(t, 164, tracks[0].Duration)
}

func TestErrorEnvelopeSurfacesAsError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`)
	}))
	defer srv.Close()

	_, err := client.SearchArtist(context.Background(), "anyone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quota limit exceeded")
}

func TestHTTPErrorStatus(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.SearchArtist(context.Background(), "anyone")
	assert.Error(t, err)
}
