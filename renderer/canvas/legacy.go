package canvasrenderer

import (
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/storycard/fonts"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/style"
)

// 旧版固定尺寸版式（story 1080×1920、twitter 1200×674），使用旧版主题色板，坐标为固定常量。

const (
	legacyTitleStart = 65.0
	legacyTitleStep  = 6.0
	legacyTitleMin   = 24.0
	legacyTitleWidth = 830.0
)

func (p *painter) legacyPalette() style.LegacyPalette { return style.Legacy(p.sc.Config.Theme) }

func (p *painter) legacyGenres() string {
	return strings.Join(p.sc.Story.TopGenres(media.MaxGenres), ", ")
}

func (p *painter) legacyType() string {
	t := strings.TrimSpace(p.sc.Story.MediaType)
	if t == "" || strings.EqualFold(t, "movie") {
		return "MOVIE"
	}
	return upper.String(t)
}

func (p *painter) legacyPoster(rc layout.Rect, border float64, pal style.LegacyPalette) {
	p.f.RoundedRect(rc, 10, pal.ImageBg, pal.ImageBg, border)
	img := p.image(p.sc.Story.PosterRef, media.BucketW780)
	if img == nil {
		p.f.TextMiddle(p.face(fonts.Bold, rc.W*0.2, style.Opacity(pal.Text, 0.4)), "?", rc.CenterX(), rc.CenterY(), canvas.Center)
		return
	}
	p.f.ClippedImage(img, rc, 10)
}

func paintLegacyStory(p *painter) {
	pal := p.legacyPalette()
	it := p.sc.Story
	p.f.Fill(p.full(), pal.Background)

	p.legacyPoster(layout.Rect{X: p.W/2 - 400, Y: 200, W: 800, H: 1185}, 30, pal)

	if r := p.ratingText(); r != "" {
		p.f.RoundedRect(layout.Rect{X: p.W/2 - 150, Y: 130, W: 300, H: 150}, 40, pal.RatingBg, nil, 0)
		p.f.TextMiddle(p.face(fonts.Regular, 40, pal.RatingText), "My Rate", p.W/2, 168, canvas.Center)
		p.f.TextMiddle(p.face(fonts.Bold, 55, pal.RatingText), r, p.W/2, 235, canvas.Center)
	}

	p.f.RoundedRect(layout.Rect{X: p.W/2 - 415, Y: 1425, W: 830, H: 180}, 20, pal.InfoBg, nil, 0)
	p.f.RoundedRect(layout.Rect{X: 780, Y: 1442, W: 160, H: 60}, 10, pal.Background, nil, 0)
	p.f.TextMiddle(p.face(fonts.Bold, 35, pal.Text), p.legacyType(), 859, 1473, canvas.Center)

	info := p.face(fonts.Regular, 40, pal.Text)
	p.f.TextMiddle(info, "Year: "+it.ReleaseYear(), 155, 1470, canvas.Left)
	if g := p.legacyGenres(); g != "" {
		p.f.TextMiddle(info, "Genre: "+fitLine(g, 740-info.TextWidth("Genre: "), info.TextWidth), 155, 1560, canvas.Left)
	}

	title := it.LegacyTitle()
	px := layout.FitText(p.fonts.Measurer(p.tok.Font.Token, fonts.Bold), title, legacyTitleStart, legacyTitleWidth, legacyTitleStep, legacyTitleMin)
	p.f.TextMiddle(p.face(fonts.Bold, px, pal.Title), title, p.W/2, 1675, canvas.Center)

	if wm := p.watermark(); wm != "" {
		p.f.TextMiddle(p.face(fonts.Regular, 30, pal.FooterText), wm, p.W/2, 1875, canvas.Center)
	}
}

func paintLegacyTwitter(p *painter) {
	pal := p.legacyPalette()
	it := p.sc.Story
	p.f.Fill(p.full(), pal.Background)

	pw := 390.0
	ph := pw * layout.PosterAspect
	p.legacyPoster(layout.Rect{X: 50, Y: (p.H - ph) / 2, W: pw, H: ph}, 20, pal)

	if r := p.ratingText(); r != "" {
		p.f.RoundedRect(layout.Rect{X: 490, Y: 35, W: 300, H: 100}, 25, pal.RatingBg, nil, 0)
		p.f.TextMiddle(p.face(fonts.Regular, 40, pal.RatingText), "My Rate: "+r, 640, 84, canvas.Center)
	}

	title := p.face(fonts.Bold, 55, pal.Title)
	lines := wrapLines(it.LegacyTitle(), 650, 3, title.TextWidth)
	for i, line := range lines {
		p.f.TextMiddle(title, line, 490, 200+float64(i)*70, canvas.Left)
	}

	info := p.face(fonts.Regular, 40, pal.Title)
	p.f.TextMiddle(info, "Year: "+it.ReleaseYear(), 490, 450, canvas.Left)
	if g := p.legacyGenres(); g != "" {
		p.f.TextMiddle(info, "Genre: "+fitLine(g, 650-info.TextWidth("Genre: "), info.TextWidth), 490, 520, canvas.Left)
	}
	if wm := p.watermark(); wm != "" {
		p.f.TextMiddle(p.face(fonts.Regular, 30, pal.FooterText), wm, 490, 625, canvas.Left)
	}
}
