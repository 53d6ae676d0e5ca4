package deezer

import (
	"context"
	"fmt"
	"time"

	"AlbumGap/cache"
	"AlbumGap/logger"
	"AlbumGap/model"
)

// CachedCatalog wraps a Client with a Redis response cache. Cache failures
// are logged and fall through to a live API call; a broken cache never
// breaks a comparison run.
type CachedCatalog struct {
	client *Client
	ttl    time.Duration
}

// NewCachedCatalog builds the caching decorator.
func NewCachedCatalog(client *Client, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedCatalog{client: client, ttl: ttl}
}

// SearchArtist resolves an artist, consulting the cache first. A cached
// empty result (artist not found) is represented by a zero-ID record so
// misses are cached too.
func (c *CachedCatalog) SearchArtist(ctx context.Context, name string) (*model.DeezerArtist, error) {
	key := "deezer:artist:" + normalizeQuery(name)

	var cached model.DeezerArtist
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warn("catalog cache read failed", logger.String("key", key), logger.ErrorField(err))
	} else if hit {
		if cached.ID == 0 {
			return nil, nil
		}
		return &cached, nil
	}

	artist, err := c.client.SearchArtist(ctx, name)
	if err != nil {
		return nil, err
	}

	store := model.DeezerArtist{}
	if artist != nil {
		store = *artist
	}
	if err := cache.SetJSON(ctx, key, store, c.ttl); err != nil {
		logger.Warn("catalog cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
	return artist, nil
}

// ArtistAlbums fetches an artist's albums, consulting the cache first.
func (c *CachedCatalog) ArtistAlbums(ctx context.Context, artistID int64) ([]*model.DeezerAlbum, error) {
	key := fmt.Sprintf("deezer:albums:%d", artistID)

	var cached []*model.DeezerAlbum
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warn("catalog cache read failed", logger.String("key", key), logger.ErrorField(err))
	} else if hit {
		return cached, nil
	}

	albums, err := c.client.ArtistAlbums(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, albums, c.ttl); err != nil {
		logger.Warn("catalog cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
	return albums, nil
}

// AlbumTracks fetches an album's tracks, consulting the cache first.
func (c *CachedCatalog) AlbumTracks(ctx context.Context, albumID int64) ([]*model.DeezerTrack, error) {
	key := fmt.Sprintf("deezer:tracks:%d", albumID)

	var cached []*model.DeezerTrack
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warn("catalog cache read failed", logger.String("key", key), logger.ErrorField(err))
	} else if hit {
		return cached, nil
	}

	tracks, err := c.client.AlbumTracks(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, tracks, c.ttl); err != nil {
		logger.Warn("catalog cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
	return tracks, nil
}
