package export

import (
	"testing"

	"github.com/ByLCY/storycard/layout"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Dune: Part Two":       "dune-part-two",
		"Amélie":               "amelie",
		"  Spirited   Away  ":  "spirited-away",
		"Blade_Runner 2049":    "blade-runner-2049",
		"Crème brûlée & Café!": "creme-brulee-cafe",
		"千と千尋の神隠し":             "story",
		"":                     "story",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(layout.Cinematic, layout.SizeVertical, "Dune"); got != "dune-vertical-story.png" {
		t.Errorf("story = %q", got)
	}
	if got := Filename(layout.Grid, layout.SizeHorizontal, "ignored"); got != "movie-marathon-horizontal.png" {
		t.Errorf("marathon = %q", got)
	}
	if got := Filename(layout.LegacyTwitter, layout.SizeVertical, "The Matrix"); got != "the-matrix.png" {
		t.Errorf("legacy = %q", got)
	}
}

func TestShareTitle(t *testing.T) {
	if got := ShareTitle(layout.Split, "Dune"); got != "Dune - Story" {
		t.Errorf("story title = %q", got)
	}
	if got := ShareTitle(layout.Ranked, "Dune"); got != "Movie Marathon" {
		t.Errorf("marathon title = %q", got)
	}
}
