package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// IsSelfTitled reports whether title is the artist's self-titled album name:
// equal to the artist directly, equal after normalization, or one normalized
// form containing the other.
func IsSelfTitled(title, artist string) bool {
	if artist == "" {
		return false
	}
	t := strings.ToLower(strings.TrimSpace(title))
	a := strings.ToLower(strings.TrimSpace(artist))
	if t == "" || a == "" {
		return false
	}
	if t == a {
		return true
	}
	nt := Normalize(title)
	na := Normalize(artist)
	if strings.EqualFold(nt, na) {
		return true
	}
	lnt := strings.ToLower(nt)
	lna := strings.ToLower(na)
	return strings.Contains(lnt, lna) || strings.Contains(lna, lnt)
}

// Score estimates the similarity of two titles as an integer in [0,100].
// artistContext, when non-empty, enables the self-titled shortcut: two
// different renderings of a self-titled album always match.
//
// Numeric titles get no fuzzy leniency at all; "311" and "312" are one edit
// apart but are different albums.
func Score(a, b, artistContext string) int {
	ta := strings.ToLower(strings.TrimSpace(a))
	tb := strings.ToLower(strings.TrimSpace(b))
	if ta == tb {
		return 100
	}

	if artistContext != "" && IsSelfTitled(a, artistContext) && IsSelfTitled(b, artistContext) {
		return 100
	}

	if IsNumeric(a) && IsNumeric(b) {
		if strings.TrimSpace(a) == strings.TrimSpace(b) {
			return 100
		}
		return 0
	}

	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return 100
	}

	// Max over the scorer ensemble. Downstream thresholds were tuned against
	// exactly this combination; do not swap in a single algorithm.
	best := fuzzy.Ratio(na, nb)
	if s := fuzzy.PartialRatio(na, nb); s > best {
		best = s
	}
	if s := fuzzy.TokenSortRatio(na, nb); s > best {
		best = s
	}
	if s := fuzzy.TokenSetRatio(na, nb); s > best {
		best = s
	}
	if s := fuzzy.Ratio(ta, tb); s > best {
		best = s
	}
	if s := fuzzy.TokenSortRatio(ta, tb); s > best {
		best = s
	}
	if best < 0 {
		best = 0
	} else if best > 100 {
		best = 100
	}
	return best
}

// TitleRatio is the plain Levenshtein ratio of the normalized titles. Used
// for the stricter duplicate suppression on missing-album candidates.
func TitleRatio(a, b string) int {
	return fuzzy.Ratio(Normalize(a), Normalize(b))
}
