package deezer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"AlbumGap/logger"
	"AlbumGap/model"
)

// pageLimit is the page size requested from list endpoints.
const pageLimit = 100

// SearchArtist looks an artist up by name and returns the first hit, or nil
// when the search comes back empty. The first result is accepted without
// disambiguation scoring; ambiguous names can misresolve, which is why the
// resolution is logged at debug level.
func (c *Client) SearchArtist(ctx context.Context, name string) (*model.DeezerArtist, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("limit", "5")

	var page struct {
		Data []model.DeezerArtist `json:"data"`
	}
	if err := c.getJSON(ctx, "/search/artist", query, &page); err != nil {
		return nil, fmt.Errorf("search artist %q: %w", name, err)
	}
	if len(page.Data) == 0 {
		return nil, nil
	}

	artist := page.Data[0]
	logger.Debug("artist resolved",
		logger.String("query", name),
		logger.String("resolved", artist.Name),
		logger.Int64("id", artist.ID))
	return &artist, nil
}

// ArtistAlbums fetches the artist's complete album list, following the
// pagination links until exhausted.
func (c *Client) ArtistAlbums(ctx context.Context, artistID int64) ([]*model.DeezerAlbum, error) {
	var albums []*model.DeezerAlbum
	path := fmt.Sprintf("/artist/%d/albums", artistID)
	index := 0

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageLimit))
		query.Set("index", strconv.Itoa(index))

		var page struct {
			Data  []model.DeezerAlbum `json:"data"`
			Total int                 `json:"total"`
			Next  string              `json:"next"`
		}
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, fmt.Errorf("artist %d albums: %w", artistID, err)
		}

		for i := range page.Data {
			album := page.Data[i]
			albums = append(albums, &album)
		}

		if page.Next == "" || len(page.Data) == 0 {
			break
		}
		index += len(page.Data)
	}
	return albums, nil
}

// AlbumTracks fetches the track list of one album.
func (c *Client) AlbumTracks(ctx context.Context, albumID int64) ([]*model.DeezerTrack, error) {
	var tracks []*model.DeezerTrack
	path := fmt.Sprintf("/album/%d/tracks", albumID)
	index := 0

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageLimit))
		query.Set("index", strconv.Itoa(index))

		var page struct {
			Data []model.DeezerTrack `json:"data"`
			Next string              `json:"next"`
		}
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, fmt.Errorf("album %d tracks: %w", albumID, err)
		}

		for i := range page.Data {
			track := page.Data[i]
			tracks = append(tracks, &track)
		}

		if page.Next == "" || len(page.Data) == 0 {
			break
		}
		index += len(page.Data)
	}
	return tracks, nil
}

// normalizeQuery lowers and trims an artist query for cache keying.
func normalizeQuery(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
