package style

import (
	"image/color"
	"strings"
)

// LegacyPalette 是旧版 story/twitter 版式的配色。
type LegacyPalette struct {
	Name       string
	Text       color.NRGBA
	Title      color.NRGBA
	Background color.NRGBA
	ImageBg    color.NRGBA
	FooterText color.NRGBA
	InfoBg     color.NRGBA
	RatingBg   color.NRGBA
	RatingText color.NRGBA
}

var legacyPalettes = map[string]LegacyPalette{
	"dark": {
		Name:       "dark",
		Text:       MustHex("#ffffff"),
		Title:      MustHex("#ffffff"),
		Background: MustHex("#242951"),
		ImageBg:    MustHex("#4a4e6f"),
		FooterText: MustHex("#8185a7"),
		InfoBg:     MustHex("#0e143f"),
		RatingBg:   MustHex("#d04d62"),
		RatingText: MustHex("#ffffff"),
	},
	"light": {
		Name:       "light",
		Text:       MustHex("#0e143f"),
		Title:      MustHex("#0e143f"),
		Background: MustHex("#f8f8fb"),
		ImageBg:    MustHex("#e2e3e9"),
		FooterText: MustHex("#8185a7"),
		InfoBg:     MustHex("#e2e3e9"),
		RatingBg:   MustHex("#d04d62"),
		RatingText: MustHex("#ffffff"),
	},
	"halloween": {
		Name:       "halloween",
		Text:       MustHex("#ffffff"),
		Title:      MustHex("#ffffff"),
		Background: MustHex("#03001c"),
		ImageBg:    MustHex("#fe9600"),
		FooterText: MustHex("#8185a7"),
		InfoBg:     MustHex("#fe9600"),
		RatingBg:   MustHex("#ffffff"),
		RatingText: MustHex("#fe9600"),
	},
	"wonder": {
		Name:       "wonder",
		Text:       MustHex("#0e143f"),
		Title:      MustHex("#ffffff"),
		Background: MustHex("#4444dd"),
		ImageBg:    MustHex("#ffffff"),
		FooterText: MustHex("#c9c7fd"),
		InfoBg:     MustHex("#ffffff"),
		RatingBg:   MustHex("#55aadd"),
		RatingText: MustHex("#ffffff"),
	},
}

// LegacyThemes 返回旧版主题名称。
func LegacyThemes() []string { return []string{"dark", "light", "halloween", "wonder"} }

// Legacy 返回旧版配色，未知名称回退到 dark。
func Legacy(name string) LegacyPalette {
	if p, ok := legacyPalettes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return legacyPalettes["dark"]
}
