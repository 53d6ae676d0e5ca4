package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreExactMatch(t *testing.T) {
	assert.Equal(t, 100, Score("Abbey Road", "abbey road", ""))
	assert.Equal(t, 100, Score(" Abbey Road ", "Abbey Road", ""))
}

func TestScoreNumericTitlesNeverFuzzyMatch(t *testing.T) {
	assert.Equal(t, 100, Score("123", "123", ""))
	assert.Equal(t, 0, Score("123", "124", ""))
	assert.Equal(t, 0, Score("311", "312", ""))
}

func TestScoreSelfTitledShortcut(t *testing.T) {
	// Two renderings of a self-titled album always match when the artist
	// context is known.
	assert.Equal(t, 100, Score("Metallica", "Metallica (Remastered)", "Metallica"))
	assert.Equal(t, 100, Score("311", "311", "311"))
}

func TestScoreNormalizedEquality(t *testing.T) {
	assert.Equal(t, 100, Score("Thriller (Remastered)", "Thriller", "Michael Jackson"))
	assert.Equal(t, 100, Score("Rock & Roll", "Rock and Roll", ""))
}

func TestScoreSimilarTitles(t *testing.T) {
	// Close but distinct titles land below 100 and above the default
	// match threshold.
	s := Score("The Dark Side of the Moon", "Dark Side of the Moon", "Pink Floyd")
	assert.GreaterOrEqual(t, s, 70)

	unrelated := Score("Kind of Blue", "Master of Puppets", "")
	assert.Less(t, unrelated, 70)
}

func TestIsSelfTitled(t *testing.T) {
	assert.True(t, IsSelfTitled("Weezer", "Weezer"))
	assert.True(t, IsSelfTitled("weezer", "WEEZER"))
	assert.True(t, IsSelfTitled("Metallica (Deluxe)", "Metallica"))
	assert.False(t, IsSelfTitled("The Black Album", "Metallica"))
	assert.False(t, IsSelfTitled("Weezer", ""))
}

func TestTitleRatioOnNormalizedForms(t *testing.T) {
	assert.Equal(t, 100, TitleRatio("Abbey Road (Remastered)", "Abbey Road"))
	assert.Less(t, TitleRatio("Abbey Road", "Let It Be"), 90)
}
