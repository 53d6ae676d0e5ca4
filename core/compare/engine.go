package compare

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"AlbumGap/core/match"
	"AlbumGap/logger"
	"AlbumGap/model"
)

// unknownArtist marks tracks the scanner could not attribute; those albums
// cannot be reconciled and are excluded up front.
const unknownArtist = "Unknown Artist"

// Catalog is the remote music catalog the engine reconciles against. Album
// track lists are exposed by the catalog client too but the engine itself
// only needs artist resolution and album lists.
type Catalog interface {
	SearchArtist(ctx context.Context, name string) (*model.DeezerArtist, error)
	ArtistAlbums(ctx context.Context, artistID int64) ([]*model.DeezerAlbum, error)
}

// Engine reconciles local albums against the remote catalog, one artist at
// a time. Artists are processed sequentially on purpose: each artist's
// remote calls finish before the next artist starts, which bounds the
// outbound request concurrency without a rate limiter.
type Engine struct {
	catalog            Catalog
	dedup              *match.Deduplicator
	matchThreshold     int // fuzzy score accepted as a local/remote pairing (inclusive)
	duplicateThreshold int // normalized ratio suppressing remote-side duplicates
}

// NewEngine builds a comparison engine. matchThreshold and
// duplicateThreshold are deliberately independent knobs.
func NewEngine(catalog Catalog, dedup *match.Deduplicator, matchThreshold, duplicateThreshold int) *Engine {
	return &Engine{
		catalog:            catalog,
		dedup:              dedup,
		matchThreshold:     matchThreshold,
		duplicateThreshold: duplicateThreshold,
	}
}

// Compare reconciles the scanned albums against the catalog and returns the
// full report. A remote failure for one artist marks that artist not_found
// and never disturbs the results already computed for other artists.
func (e *Engine) Compare(ctx context.Context, localAlbums []*model.LocalAlbum) (*model.ComparisonReport, error) {
	byArtist := groupByArtist(localAlbums)

	artistNames := make([]string, 0, len(byArtist))
	for name := range byArtist {
		artistNames = append(artistNames, name)
	}
	sort.Strings(artistNames)

	report := &model.ComparisonReport{
		RunID:   uuid.NewString(),
		Artists: make(map[string]*model.ArtistComparison, len(artistNames)),
	}

	for _, name := range artistNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := e.compareArtist(ctx, name, byArtist[name])
		report.Artists[name] = result

		report.Statistics.TotalArtists++
		report.Statistics.TotalLocalAlbums += len(result.LocalAlbums)
		report.Statistics.TotalRemoteAlbums += len(result.RemoteAlbums)
		report.Statistics.TotalMissingAlbums += len(result.MissingAlbums)
	}

	logger.Info("comparison finished",
		logger.String("runId", report.RunID),
		logger.Int("artists", report.Statistics.TotalArtists),
		logger.Int("missing", report.Statistics.TotalMissingAlbums))
	return report, nil
}

// compareArtist runs the per-artist state machine. The outcome is terminal
// for this run: found or not_found, no retries.
func (e *Engine) compareArtist(ctx context.Context, name string, locals []*model.LocalAlbum) *model.ArtistComparison {
	result := &model.ArtistComparison{
		LocalAlbums:   localTitles(locals),
		RemoteAlbums:  []string{},
		MissingAlbums: []*model.DeezerAlbum{},
		Status:        model.StatusNotFound,
	}

	artist, err := e.catalog.SearchArtist(ctx, name)
	if err != nil {
		logger.Error("artist lookup failed", logger.String("artist", name), logger.ErrorField(err))
		result.Reason = "artist lookup failed"
		return result
	}
	if artist == nil {
		logger.Warn("artist not found in catalog", logger.String("artist", name))
		result.Reason = "artist not found"
		return result
	}

	remote, err := e.catalog.ArtistAlbums(ctx, artist.ID)
	if err != nil {
		logger.Error("album list fetch failed",
			logger.String("artist", name), logger.Int64("id", artist.ID), logger.ErrorField(err))
		result.Reason = "album list fetch failed"
		return result
	}

	result.Status = model.StatusFound
	result.RemoteID = artist.ID
	result.RemoteName = artist.Name
	for _, album := range remote {
		result.RemoteAlbums = append(result.RemoteAlbums, album.Title)
	}

	localUsed := make([]bool, len(locals))
	remoteUsed := make([]bool, len(remote))

	// Phase 1: exact title matches after trim+lowercase.
	for ri, ra := range remote {
		for li, la := range locals {
			if localUsed[li] {
				continue
			}
			if equalFoldTrim(ra.Title, la.Album) {
				remoteUsed[ri] = true
				localUsed[li] = true
				result.MatchedCount++
				break
			}
		}
	}

	// Phase 2: fuzzy matches against the remaining local albums. The scorer
	// already short-circuits self-titled and numeric titles.
	for ri, ra := range remote {
		if remoteUsed[ri] {
			continue
		}
		bestLocal := -1
		bestScore := 0
		for li, la := range locals {
			if localUsed[li] {
				continue
			}
			score := match.Score(ra.Title, la.Album, artist.Name)
			if score > bestScore {
				bestScore = score
				bestLocal = li
			}
		}
		if bestLocal >= 0 && bestScore >= e.matchThreshold {
			remoteUsed[ri] = true
			localUsed[bestLocal] = true
			result.MatchedCount++
			logger.Debug("fuzzy album match",
				logger.String("artist", name),
				logger.String("remote", ra.Title),
				logger.String("local", locals[bestLocal].Album),
				logger.Int("score", bestScore))
		}
	}

	// Remaining remote albums are missing-album candidates, unless they are
	// near-duplicates of something already matched or already accepted: the
	// remote catalog itself surfaces remaster/edition doubles.
	var accepted []*model.DeezerAlbum
	acceptedTitles := make([]string, 0)
	for ri, ra := range remote {
		if remoteUsed[ri] {
			acceptedTitles = append(acceptedTitles, ra.Title)
		}
	}
	for ri, ra := range remote {
		if remoteUsed[ri] {
			continue
		}
		duplicate := false
		for _, title := range acceptedTitles {
			if match.TitleRatio(ra.Title, title) >= e.duplicateThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			logger.Debug("remote duplicate suppressed",
				logger.String("artist", name), logger.String("title", ra.Title))
			continue
		}
		accepted = append(accepted, ra)
		acceptedTitles = append(acceptedTitles, ra.Title)
	}

	result.MissingAlbums = e.dedup.Deduplicate(accepted, artist.Name)
	if result.MissingAlbums == nil {
		result.MissingAlbums = []*model.DeezerAlbum{}
	}
	return result
}

// groupByArtist buckets local albums by album artist, excluding the scanner's
// unattributed placeholder.
func groupByArtist(albums []*model.LocalAlbum) map[string][]*model.LocalAlbum {
	groups := make(map[string][]*model.LocalAlbum)
	for _, album := range albums {
		if album.AlbumArtist == unknownArtist {
			continue
		}
		groups[album.AlbumArtist] = append(groups[album.AlbumArtist], album)
	}
	return groups
}

func localTitles(albums []*model.LocalAlbum) []string {
	titles := make([]string, 0, len(albums))
	for _, album := range albums {
		titles = append(titles, album.Album)
	}
	return titles
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
