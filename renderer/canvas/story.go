package canvasrenderer

import (
	"image"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/storycard/fonts"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/style"
)

// 单卡版式。字号以 1080×1920 / 1920×1080 为基准，均为像素。

type storyMetrics struct {
	title, meta, rating float64
}

func (p *painter) storyMetrics() storyMetrics {
	return storyMetrics{
		title:  p.pick(88, 96),
		meta:   p.pick(36, 42),
		rating: p.pick(48, 56),
	}
}

// background 用背景色铺满画布，之后再叠加图片，保证输出不会留空。
func (p *painter) background() {
	p.f.Fill(p.full(), p.tok.Background)
}

func (p *painter) backgroundImage() image.Image {
	return p.image(layout.StoryBackground(p.sc.Story, p.vertical()), media.BucketOriginal)
}

// footerMark 在底部绘制水印。
func (p *painter) footerMark(x, bottom, px, opacity float64, align canvas.TextAlign) {
	wm := p.watermark()
	if wm == "" {
		return
	}
	p.f.Text(p.face(fonts.Medium, px, style.Opacity(p.tok.Text, opacity)), wm, x, bottom-px*1.2, align)
}

func (p *painter) ratingRow(px, maxWidth float64) element {
	r := p.ratingText()
	if r == "" {
		return element{}
	}
	return p.fitRow(func(size float64) []span { return p.ratingSpans(r, size, p.tok.Text) }, px, maxWidth)
}

func paintClassic(p *painter) {
	m := p.storyMetrics()
	it := p.sc.Story
	p.background()
	if img := p.backgroundImage(); img != nil {
		p.f.ClippedImage(img, p.full(), 0)
	}
	bg := p.tok.Background
	p.f.GradientOverlay(p.full(), ToTop,
		Stop{0, bg},
		Stop{0.2, p.tok.Overlay()},
		Stop{0.55, style.WithAlpha(bg, 0)},
	)
	padX, padB := p.pick(0.08*p.W, 0.05*p.W), p.pick(0.12*p.H, 0.08*p.H)
	width := p.W - 2*padX
	if !p.vertical() {
		width = p.W * 0.6
	}
	rating := p.ratingText()
	els := []element{
		p.titleBlock(it.DisplayTitle(), fonts.Bold, m.title, p.tok.Text, width, 2).gap(m.meta * 0.6),
		p.fitRow(func(px float64) []span { return p.metaSpans(it, px, rating, "  •  ") }, m.meta, width),
	}
	top := p.H - padB - stackHeight(els)
	p.drawStack(els, padX, top, width, canvas.Left)
	p.footerMark(p.W/2, p.H-padB/3, m.meta*0.6, 0.55, canvas.Center)
}

func paintModern(p *painter) {
	m := p.storyMetrics()
	it := p.sc.Story
	p.background()
	if img := p.backgroundImage(); img != nil {
		p.f.ClippedImage(img, p.full(), 0)
	}
	bg := p.tok.Background
	p.f.GradientOverlay(p.full(), ToTop,
		Stop{0, bg},
		Stop{0.25, style.WithAlpha(bg, 0xdd)},
		Stop{0.6, style.WithAlpha(bg, 0x44)},
		Stop{1, style.WithAlpha(bg, 0)},
	)
	padX, padB := p.pick(0.1*p.W, 0.05*p.W), p.pick(0.15*p.H, 0.08*p.H)
	width := p.W - 2*padX
	if !p.vertical() {
		width = p.W * 0.55
	}
	els := []element{
		p.titleBlock(it.DisplayTitle(), fonts.Black, m.title, p.tok.Text, width, 3).gap(m.meta * 0.8),
		p.fitRow(func(px float64) []span { return p.metaSpans(it, px, "", "  •  ") }, m.meta, width).gap(m.meta * 0.6),
		p.ratingRow(m.rating, width),
	}
	top := p.H - padB - stackHeight(els)
	// 标题上方的强调色短条
	p.f.RoundedRect(layout.Rect{X: padX, Y: top - 40, W: 120, H: 8}, 4, p.tok.Accent, nil, 0)
	p.drawStack(els, padX, top, width, canvas.Left)
	p.footerMark(p.W/2, p.H-padB/3, m.meta*0.6, 0.55, canvas.Center)
}

func paintMinimal(p *painter) {
	m := p.storyMetrics()
	it := p.sc.Story
	p.background()
	if img := p.backgroundImage(); img != nil {
		p.f.ClippedImage(img, p.full(), 0)
	}
	bg := p.tok.Background
	p.f.GradientOverlay(p.full(), ToTop,
		Stop{0, bg},
		Stop{0.15, style.WithAlpha(bg, 0xee)},
		Stop{0.35, style.WithAlpha(bg, 0xaa)},
		Stop{0.5, style.WithAlpha(bg, 0x55)},
		Stop{0.6, style.WithAlpha(bg, 0)},
	)
	padX, padB := p.pick(0.1*p.W, 0.05*p.W), p.pick(0.2*p.H, 0.1*p.H)
	width := p.W - 2*padX
	if !p.vertical() {
		width = p.W * 0.6
	}
	yearRow := func(px float64) []span {
		var out []span
		if y := it.ReleaseYear(); y != "" {
			out = append(out, p.txt(y, fonts.Regular, px, style.Opacity(p.tok.Text, 0.5)))
		}
		if r := p.ratingText(); r != "" {
			if len(out) > 0 {
				out = append(out, p.txt("  —  ", fonts.Regular, px, style.Opacity(p.tok.Text, 0.3)))
			}
			out = append(out, p.ratingSpans(r, px, p.tok.Text)...)
		}
		return out
	}
	els := []element{
		p.titleBlock(it.DisplayTitle(), fonts.Black, m.title*1.1, p.tok.Text, width, 2).gap(m.meta * 0.6),
		p.fitRow(yearRow, m.meta*1.1, width).gap(m.meta * 0.3),
		p.block(upper.String(it.GenreLine()), fonts.Medium, m.meta*0.7, style.Opacity(p.tok.Text, 0.5), width, 1, 1.3),
	}
	top := p.H - padB - stackHeight(els)
	p.drawStack(els, padX, top, width, canvas.Left)
	p.footerMark(p.W/2, p.H-padB/3, m.meta*0.6, 0.55, canvas.Center)
}

func paintCinematic(p *painter) {
	m := p.storyMetrics()
	it := p.sc.Story
	p.background()
	bg := p.tok.Background
	if p.vertical() {
		backdrop := p.image(it.BackdropRef, media.BucketW780)
		poster := p.image(it.PosterRef, media.BucketOriginal)
		if backdrop == nil {
			backdrop = poster
		}
		if backdrop != nil {
			p.f.BlurredImage(backdrop, p.full(), 24, 0.2, 1.1)
		}
		box := layout.Rect{W: 0.85 * p.W, H: 0.65 * p.H}
		width := box.W
		els := []element{
			p.titleBlock(it.DisplayTitle(), fonts.Black, m.title*0.85, p.tok.Text, width, 2).gap(m.meta * 0.5),
			p.fitRow(func(px float64) []span { return p.metaSpans(it, px, "", "  •  ") }, m.meta, width).gap(m.meta * 0.5),
			p.ratingRow(m.rating, width),
		}
		gap := 0.04 * p.H
		total := box.H + gap + stackHeight(els)
		box.X = (p.W - box.W) / 2
		box.Y = (p.H - total) / 2
		p.poster(poster, box, 16)
		p.drawStack(els, box.X, box.Bottom()+gap, width, canvas.Center)
		p.footerMark(p.W/2, p.H-48, m.meta*0.6, 0.55, canvas.Center)
		return
	}

	if img := p.image(layout.StoryBackground(it, false), media.BucketOriginal); img != nil {
		p.f.FadedImage(img, p.full(), 0, 0.4)
	}
	p.f.GradientOverlay(p.full(), ToRight,
		Stop{0, p.tok.Overlay()},
		Stop{0.5, style.WithAlpha(bg, 0xaa)},
		Stop{1, style.WithAlpha(bg, 0x66)},
	)
	ph := 0.85 * p.H
	box := layout.Rect{X: 0.05 * p.W, Y: (p.H - ph) / 2, W: ph / layout.PosterAspect, H: ph}
	p.poster(p.image(it.PosterRef, media.BucketOriginal), box, 16)
	x := box.Right() + 0.05*p.W
	width := p.W - x - 0.05*p.W
	meta := func(px float64) []span {
		var out []span
		if y := it.ReleaseYear(); y != "" {
			out = append(out, p.txt(y, fonts.Medium, px, style.Opacity(p.tok.Text, 0.6)))
		}
		if g := it.GenreLine(); g != "" {
			if len(out) > 0 {
				out = append(out, p.txt("  •  ", fonts.Regular, px, style.Opacity(p.tok.Text, 0.4)))
			}
			out = append(out, p.txt(g, fonts.Medium, px, style.Opacity(p.tok.Text, 0.6)))
		}
		return out
	}
	els := []element{
		p.titleBlock(it.DisplayTitle(), fonts.Black, m.title, p.tok.Text, width, 3).gap(m.meta * 0.6),
		p.fitRow(meta, m.meta, width).gap(m.meta * 0.8),
		p.ratingRow(m.rating, width),
	}
	p.drawStack(els, x, (p.H-stackHeight(els))/2, width, canvas.Left)
	p.footerMark(p.W-0.05*p.W, p.H-40, m.meta*0.55, 0.55, canvas.Right)
}

func paintGlassmorphic(p *painter) {
	m := p.storyMetrics()
	it := p.sc.Story
	p.background()
	bg := p.tok.Background
	poster := p.image(it.PosterRef, media.BucketOriginal)

	if p.vertical() {
		var backdrop *image.NRGBA
		if img := p.backgroundImage(); img != nil {
			backdrop = cover(img, int(p.W), int(p.H))
			p.f.Bitmap(backdrop, 0, 0)
		}
		p.f.GradientOverlay(p.full(), Diagonal,
			Stop{0, style.WithAlpha(bg, 0x66)},
			Stop{1, style.WithAlpha(bg, 0x99)},
		)
		card := layout.Rect{X: 0.08 * p.W, W: 0.84 * p.W}
		pad := 0.06 * p.W
		inner := card.W - 2*pad
		ph := 0.45 * p.H
		pw := ph / layout.PosterAspect
		els := []element{
			p.titleBlock(it.DisplayTitle(), fonts.Black, m.title*0.8, p.tok.Text, inner, 2).gap(m.meta * 0.5),
			p.fitRow(func(px float64) []span { return p.metaSpans(it, px, "", "  •  ") }, m.meta*0.8, inner).gap(m.meta * 0.5),
			p.ratingRow(m.rating*0.9, inner),
		}
		gap := 0.03 * p.H
		card.H = pad + ph + gap + stackHeight(els) + pad
		card.Y = (p.H - card.H) / 2
		p.f.FrostedPanel(backdrop, card, 32, 20)
		p.f.RoundedRect(card, 32, style.Opacity(style.MustHex("#ffffff"), 0.08), style.WithAlpha(p.tok.Accent, 0x66), 2)
		p.poster(poster, layout.Rect{X: card.CenterX() - pw/2, Y: card.Y + pad, W: pw, H: ph}, 20)
		p.drawStack(els, card.X+pad, card.Y+pad+ph+gap, inner, canvas.Center)
		p.footerMark(p.W/2, p.H-48, m.meta*0.6, 0.55, canvas.Center)
		return
	}

	if img := p.backgroundImage(); img != nil {
		p.f.BlurredImage(img, p.full(), 6, 0.4, 1.05)
	}
	p.f.GradientOverlay(p.full(), Diagonal,
		Stop{0, style.WithAlpha(bg, 0x77)},
		Stop{1, style.WithAlpha(bg, 0x99)},
	)
	card := layout.Rect{W: 0.92 * p.W, H: 0.88 * p.H}
	card.X, card.Y = (p.W-card.W)/2, (p.H-card.H)/2
	white := style.MustHex("#ffffff")
	p.f.RoundedRect(card, 24, style.Opacity(white, 0.06), style.Opacity(white, 0.15), 2)
	padX, padY := 0.04*p.W, 0.03*p.H
	ph := card.H - 2*padY
	box := layout.Rect{X: card.X + padX, Y: card.Y + padY, W: ph / layout.PosterAspect, H: ph}
	p.poster(poster, box, 16)
	x := box.Right() + 0.05*p.W
	width := card.Right() - padX - x
	els := []element{
		p.titleBlock(it.DisplayTitle(), fonts.Black, m.title, p.tok.Text, width, 3).gap(m.meta * 0.6),
		p.fitRow(func(px float64) []span { return p.metaSpans(it, px, "", "  •  ") }, m.meta, width).gap(m.meta * 0.8),
		p.ratingRow(m.rating, width),
	}
	p.drawStack(els, x, card.CenterY()-stackHeight(els)/2, width, canvas.Left)
	p.footerMark(card.Right()-padX, card.Bottom()-padY/2, m.meta*0.5, 0.55, canvas.Right)
}

func paintSplit(p *painter) {
	m := p.storyMetrics()
	it := p.sc.Story
	p.background()
	bg := p.tok.Background
	left := layout.Rect{W: 0.45 * p.W, H: p.H}
	p.poster(p.image(it.PosterRef, media.BucketOriginal), left, 0)
	p.f.GradientOverlay(left, ToRight,
		Stop{0, style.WithAlpha(bg, 0)},
		Stop{0.7, style.WithAlpha(bg, 0x33)},
		Stop{1, bg},
	)
	pad := 0.06 * p.W
	x := left.Right() + pad
	width := p.W - x - pad
	var els []element
	if y := it.ReleaseYear(); y != "" {
		els = append(els, p.block(y, fonts.Bold, m.meta*0.8, p.tok.Accent, width, 1, 1.3).gap(m.meta*0.4))
	}
	els = append(els,
		p.titleBlock(it.DisplayTitle(), fonts.Black, m.title*0.95, p.tok.Text, width, 4).gap(m.meta*0.6),
		p.block(it.GenreLine(), fonts.Medium, m.meta*0.85, style.Opacity(p.tok.Text, 0.7), width, 2, 1.3).gap(m.meta*0.8),
		p.ratingRow(m.rating*0.95, width),
	)
	p.drawStack(els, x, (p.H-stackHeight(els))/2, width, canvas.Left)
	p.footerMark(x+width/2, p.H-p.pick(60, 40), m.meta*0.55, 0.55, canvas.Center)
}
