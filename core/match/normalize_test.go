package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsEditionQualifiers(t *testing.T) {
	cases := map[string]string{
		"Thriller (Remastered)":             "thriller",
		"Thriller [Deluxe Edition]":         "thriller",
		"OK Computer (Special Edition)":     "ok computer",
		"Nevermind (30th Anniversary)":      "nevermind",
		"The Wall (Expanded)":               "the wall",
		"Abbey Road (2019 Remaster)":        "abbey road",
		"Greatest Hits (Limited Edition)":   "greatest hits",
		"Rock & Roll":                       "rock and roll",
		"Back-In-Black":                     "back in black",
		"What's Going On":                   "what's going on",
		"  Padded   Title  ":                "padded title",
		"AC/DC Live":                        "ac dc live",
	}
	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

func TestNormalizeNumericAndRomanPassthrough(t *testing.T) {
	// Numeric and Roman-numeral titles are often self-titled albums and
	// must not be rewritten.
	assert.Equal(t, "311", Normalize("311"))
	assert.Equal(t, "1989", Normalize(" 1989 "))
	assert.Equal(t, "IV", Normalize("IV"))
	assert.Equal(t, "III", Normalize("III"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Thriller (Remastered)",
		"Rock & Roll",
		"AC/DC",
		"311",
		"IV",
		"The Dark Side of the Moon",
		"Best Of (Deluxe) [Bonus Tracks]",
		"",
		"   ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("311"))
	assert.True(t, IsNumeric(" 1989 "))
	assert.False(t, IsNumeric("31a"))
	assert.False(t, IsNumeric(""))
}

func TestIsRomanNumeral(t *testing.T) {
	assert.True(t, IsRomanNumeral("IV"))
	assert.True(t, IsRomanNumeral("xiii"))
	assert.False(t, IsRomanNumeral("IV."))
	assert.False(t, IsRomanNumeral(""))
}
