package match

import (
	"strconv"
	"strings"

	"AlbumGap/model"
)

// editionPenalties maps title keywords to additive edition penalties. A
// higher total pushes a candidate away from being chosen as the canonical
// representative of its duplicate group.
var editionPenalties = []struct {
	keyword string
	penalty float64
}{
	{"remaster", 10},
	{"deluxe", 8},
	{"expanded", 8},
	{"special edition", 12},
	{"anniversary", 12},
	{"bonus", 6},
	{"collector", 8},
	{"limited", 6},
	{"extended", 6},
	{"greatest hits", 15},
	{"best of", 15},
	{"compilation", 15},
}

// Deduplicator collapses near-duplicate album candidates, keeping one
// canonical representative per group.
type Deduplicator struct {
	groupThreshold int
}

// NewDeduplicator builds a deduplicator with the given grouping threshold
// (candidates scoring at or above it against a group's representative join
// that group).
func NewDeduplicator(groupThreshold int) *Deduplicator {
	return &Deduplicator{groupThreshold: groupThreshold}
}

// Deduplicate greedily partitions candidates into similarity groups and
// selects the lowest-penalty member of each group. Output order follows
// group formation, not input order.
func (d *Deduplicator) Deduplicate(candidates []*model.DeezerAlbum, artist string) []*model.DeezerAlbum {
	if len(candidates) <= 1 {
		return candidates
	}

	var groups [][]*model.DeezerAlbum
	for _, cand := range candidates {
		placed := false
		for i, group := range groups {
			if Score(cand.Title, group[0].Title, artist) >= d.groupThreshold {
				groups[i] = append(groups[i], cand)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []*model.DeezerAlbum{cand})
		}
	}

	result := make([]*model.DeezerAlbum, 0, len(groups))
	for _, group := range groups {
		if len(group) == 1 {
			result = append(result, group[0])
			continue
		}
		best := group[0]
		bestScore := canonicalScore(group[0], artist)
		for _, cand := range group[1:] {
			if s := canonicalScore(cand, artist); s < bestScore {
				best = cand
				bestScore = s
			}
		}
		result = append(result, best)
	}
	return result
}

// canonicalScore ranks a duplicate-group member; the minimum wins. Original
// self-titled releases are favored, edition reissues and compilations are
// penalized, and bigger/older/more-popular releases pull the score down.
func canonicalScore(album *model.DeezerAlbum, artist string) float64 {
	score := 0.0

	if IsSelfTitled(album.Title, artist) {
		score -= 20
	}

	title := strings.ToLower(album.Title)
	for _, ep := range editionPenalties {
		if strings.Contains(title, ep.keyword) {
			score += ep.penalty
		}
	}

	trackPenalty := float64(album.TrackCount) * 0.2
	if trackPenalty > 10 {
		trackPenalty = 10
	}
	score -= trackPenalty

	fanBonus := float64(album.Fans) / 2000
	if fanBonus > 8 {
		fanBonus = 8
	}
	score -= fanBonus

	if year := releaseYear(album.ReleaseDate); year > 0 && year < 2000 {
		score -= 5
	}

	return score
}

// releaseYear parses the year out of a "YYYY-MM-DD" release date, returning
// 0 when absent or malformed.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
