package canvasrenderer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/storycard/fonts"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/style"
)

// 马拉松版式：条目已按 Order 排好，数量已由编排层限制在 2..6；徽标一律显示 1 起的位置。

func (p *painter) items() []media.MarathonItem {
	items := p.sc.Items
	if len(items) > layout.MaxItems {
		items = items[:layout.MaxItems]
	}
	return items
}

func (p *painter) count() int { return len(p.items()) }

func (p *painter) bucket() media.Bucket { return layout.MarathonBucket(p.sc.Kind, p.sc.Config.Size) }

// numberBadge 绘制圆形编号徽标。
func (p *painter) numberBadge(rc layout.Rect, n int, px float64) {
	p.f.Circle(rc, p.tok.Accent)
	p.f.TextMiddle(p.face(fonts.Black, px, p.tok.Background), strconv.Itoa(n), rc.CenterX(), rc.CenterY(), canvas.Center)
}

// squareBadge 绘制圆角方形编号徽标。
func (p *painter) squareBadge(rc layout.Rect, n int, px float64) {
	p.f.RoundedRect(rc, rc.W*0.2, p.tok.Accent, nil, 0)
	p.f.TextMiddle(p.face(fonts.Black, px, p.tok.Background), strconv.Itoa(n), rc.CenterX(), rc.CenterY(), canvas.Center)
}

func (p *painter) scoreSpans(it media.MarathonItem, starPx, px float64) []span {
	s := p.scoreText(it)
	if s == "" {
		return nil
	}
	return []span{{star: starPx, col: p.tok.Accent}, gapOf(px * 0.3), p.txt(s, fonts.Bold, px, p.tok.Text)}
}

func paintGrid(p *painter) {
	p.background()
	items := p.items()
	n := len(items)
	cells := layout.GridCells(p.sc.Orientation(), n, p.W, p.H)
	badge, badgePx := p.pick(64, 56), p.pick(32, 28)
	titlePx := p.pick(32, 36)
	if n <= 4 {
		titlePx = p.pick(40, 48)
	}
	starPx, scorePx := p.pick(28, 24), p.pick(26, 22)
	bg := p.tok.Background
	for i, it := range items {
		if i >= len(cells) {
			break
		}
		cell := cells[i]
		p.poster(p.image(it.PosterRef, p.bucket()), cell, 0)
		shade := layout.Rect{X: cell.X, Y: cell.Y + cell.H*0.55, W: cell.W, H: cell.H * 0.45}
		p.f.GradientOverlay(shade, ToTop,
			Stop{0, bg},
			Stop{0.6, style.WithAlpha(bg, 0xdd)},
			Stop{1, style.WithAlpha(bg, 0)},
		)
		p.numberBadge(layout.Rect{X: cell.X + 16, Y: cell.Y + 16, W: badge, H: badge}, i+1, badgePx)

		pad := p.pick(24, 20)
		width := cell.W - 2*pad
		els := []element{p.titleBlock(it.DisplayTitle(), fonts.Bold, titlePx, p.tok.Text, width, 2).gap(8)}
		// 单元较矮时只保留标题
		if cell.H >= 300 {
			var meta []span
			if y := it.ReleaseYear(); y != "" {
				meta = append(meta, p.txt(y, fonts.Medium, scorePx, style.Opacity(p.tok.Text, 0.7)), gapOf(scorePx))
			}
			if s := p.scoreText(it); s != "" {
				meta = append(meta, span{star: starPx, col: p.tok.Accent}, gapOf(6), p.txt(s, fonts.Bold, scorePx, p.tok.Text))
			}
			if meta != nil {
				els = append(els, p.row(meta, math.Max(starPx, scorePx)))
			}
		}
		p.drawStack(els, cell.X+pad, cell.Bottom()-pad-stackHeight(els), width, canvas.Left)
	}

	if wm := p.watermark(); wm != "" {
		face := p.face(fonts.Black, 20, p.tok.Background)
		label := upper.String(wm)
		w := face.TextWidth(label) + 48
		pill := layout.Rect{X: p.W/2 - w/2, Y: p.H/2 - 22, W: w, H: 44}
		p.f.RoundedRect(pill, 12, p.tok.Accent, nil, 0)
		p.f.TextMiddle(face, label, pill.CenterX(), pill.CenterY(), canvas.Center)
	}
}

func paintRanked(p *painter) {
	p.background()
	items := p.items()
	n := len(items)
	slots := layout.RankedSlots(p.sc.Orientation(), n, p.W, p.H)
	accent := p.tok.Accent

	if p.vertical() {
		p.f.GradientOverlay(p.full(), Diagonal,
			Stop{0, style.WithAlpha(accent, 0x26)},
			Stop{0.5, style.WithAlpha(accent, 0)},
			Stop{1, style.WithAlpha(accent, 0x1a)},
		)
		p.tracked(p.face(fonts.Bold, 28, accent), "MARATHON", p.W/2, 56, 8, canvas.Center)
		p.f.Text(p.face(fonts.Black, 110, p.tok.Text), fmt.Sprintf("TOP %d", n), p.W/2, 100, canvas.Center)
		p.f.RoundedRect(layout.Rect{X: p.W/2 - 48, Y: 250, W: 96, H: 8}, 4, accent, nil, 0)

		titlePx := 32.0
		if n <= 5 {
			titlePx = 40
		}
		for i, it := range items {
			slot := slots[i]
			p.f.RoundedRect(slot, 16, style.Opacity(p.tok.Text, 0.08), nil, 0)
			numPx, numCol := 72.0, style.Opacity(p.tok.Text, 0.4)
			if i == 0 {
				numPx, numCol = 96, accent
			}
			p.f.TextMiddle(p.face(fonts.Black, numPx, numCol), strconv.Itoa(i+1), slot.X+56, slot.CenterY(), canvas.Center)

			ph := slot.H * 0.88
			box := layout.Rect{X: slot.X + 124, Y: slot.CenterY() - ph/2, W: ph / layout.PosterAspect, H: ph}
			p.poster(p.image(it.PosterRef, p.bucket()), box, 12)

			x := box.Right() + 28
			width := slot.Right() - 24 - x
			els := []element{p.titleBlock(it.DisplayTitle(), fonts.Bold, titlePx, p.tok.Text, width, 2).gap(8)}
			if y := it.ReleaseYear(); y != "" && slot.H >= 200 {
				els = append(els, p.block(y, fonts.Medium, 24, style.WithAlpha(p.tok.Text, 0x66), width, 1, 1.3).gap(8))
			}
			if s := p.scoreSpans(it, 28, 28); s != nil && slot.H >= 150 {
				els = append(els, p.row(s, 28))
			}
			p.drawStack(els, x, slot.CenterY()-stackHeight(els)/2, width, canvas.Left)
		}
		if wm := p.watermark(); wm != "" {
			p.f.Text(p.face(fonts.Medium, 24, style.Opacity(p.tok.Text, 0.5)), wm, p.W/2, p.H-56, canvas.Center)
		}
		return
	}

	p.f.RadialGlow(p.full(), p.W*0.2, 0, p.W*0.6,
		Stop{0, style.WithAlpha(accent, 0x33)},
		Stop{1, style.WithAlpha(accent, 0)},
	)
	p.f.Text(p.face(fonts.Black, 300, style.Opacity(p.tok.Text, 0.05)), fmt.Sprintf("TOP %d", n), p.W-40, -40, canvas.Right)
	p.f.Text(p.face(fonts.Black, 56, p.tok.Text), "RANKED", 48, 40, canvas.Left)
	p.f.RoundedRect(layout.Rect{X: 48, Y: 116, W: 96, H: 8}, 4, accent, nil, 0)

	titlePx := 32.0
	if n <= 5 {
		titlePx = 42
	}
	black := style.MustHex("#000000")
	white := style.MustHex("#ffffff")
	for i, it := range items {
		slot := slots[i]
		p.poster(p.image(it.PosterRef, p.bucket()), slot, 16)
		shade := layout.Rect{X: slot.X, Y: slot.Y + slot.H*0.4, W: slot.W, H: slot.H * 0.6}
		p.f.GradientOverlay(shade, ToTop,
			Stop{0, style.Opacity(black, 0.9)},
			Stop{0.5, style.Opacity(black, 0.4)},
			Stop{1, style.WithAlpha(black, 0)},
		)
		numPx, numCol := 100.0, style.Opacity(white, 0.85)
		if i == 0 {
			numPx, numCol = 160, accent
		}
		p.f.Text(p.face(fonts.Black, numPx, numCol), strconv.Itoa(i+1), slot.Right()-16, slot.Y+8, canvas.Right)

		pad := 20.0
		width := slot.W - 2*pad
		els := []element{p.titleBlock(it.DisplayTitle(), fonts.Bold, titlePx, white, width, 2).gap(8)}
		var meta []span
		if y := it.ReleaseYear(); y != "" {
			meta = append(meta, p.txt(y, fonts.Medium, 20, style.Opacity(white, 0.7)), gapOf(14))
		}
		if s := p.scoreText(it); s != "" {
			meta = append(meta, span{star: 20, col: accent}, gapOf(6), p.txt(s, fonts.Bold, 20, white))
		}
		if meta != nil {
			els = append(els, p.row(meta, 20))
		}
		p.drawStack(els, slot.X+pad, slot.Bottom()-pad-stackHeight(els), width, canvas.Left)
	}
	if wm := p.watermark(); wm != "" {
		p.f.Text(p.face(fonts.Medium, 20, style.Opacity(p.tok.Text, 0.6)), wm, p.W-48, p.H-40, canvas.Right)
	}
}

func paintTimeline(p *painter) {
	p.background()
	items := p.items()
	n := len(items)
	geo := layout.TimelineLayout(p.sc.Orientation(), n, p.W, p.H)
	accent := p.tok.Accent
	p.f.RadialGlow(p.full(), p.W, 0, math.Max(p.W, p.H)*0.6,
		Stop{0, style.WithAlpha(accent, 0x26)},
		Stop{1, style.WithAlpha(accent, 0)},
	)
	p.f.RoundedRect(geo.Line, 3, style.WithAlpha(accent, 0x80), nil, 0)

	if p.vertical() {
		p.tracked(p.face(fonts.Bold, 28, accent), "MARATHON", 80, 96, 8, canvas.Left)
		p.f.Text(p.face(fonts.Black, 84, p.tok.Text), "THE ORDER", 80, 136, canvas.Left)
		titlePx := 38.0
		if n <= 4 {
			titlePx = 48
		}
		for i, it := range items {
			p.numberBadge(geo.Dots[i], i+1, 22)
			card := geo.Cards[i]
			p.f.RoundedRect(card, 16, style.Opacity(p.tok.Text, 0.08), nil, 0)
			ph := card.H * 0.85
			box := layout.Rect{X: card.X + 16, Y: card.CenterY() - ph/2, W: ph / layout.PosterAspect, H: ph}
			p.poster(p.image(it.PosterRef, p.bucket()), box, 12)
			x := box.Right() + 28
			width := card.Right() - 24 - x
			els := []element{p.titleBlock(it.DisplayTitle(), fonts.Bold, titlePx, p.tok.Text, width, 2).gap(10)}
			if y := it.ReleaseYear(); y != "" && card.H >= 180 {
				els = append(els, p.block(y, fonts.Medium, 26, style.WithAlpha(p.tok.Text, 0x99), width, 1, 1.3).gap(10))
			}
			if s := p.scoreSpans(it, 32, 30); s != nil && card.H >= 140 {
				els = append(els, p.row(s, 32))
			}
			p.drawStack(els, x, card.CenterY()-stackHeight(els)/2, width, canvas.Left)
		}
		if wm := p.watermark(); wm != "" {
			p.f.Text(p.face(fonts.Medium, 24, style.Opacity(p.tok.Text, 0.5)), wm, p.W/2, p.H-56, canvas.Center)
		}
		return
	}

	hx, hw := 48.0, 340.0
	top := 300.0
	p.tracked(p.face(fonts.Bold, 24, accent), "REVIEW ORDER", hx, top, 6, canvas.Left)
	head := p.block("THE MARATHON", fonts.Black, 72, p.tok.Text, hw, 2, 1.05)
	y := p.drawStack([]element{head}, hx, top+44, hw, canvas.Left)
	summary := timelineSummary(items, p.sc.Config.ShowRating)
	p.block(summary, fonts.Medium, 24, style.Opacity(p.tok.Text, 0.6), hw, 2, 1.3).draw(p, hx, y+20)

	for i, it := range items {
		p.numberBadge(geo.Dots[i], i+1, 24)
		p.f.Fill(geo.Connectors[i], style.WithAlpha(accent, 0x80))
		card := geo.Cards[i]
		p.f.RoundedRect(card, 16, style.Opacity(p.tok.Text, 0.06), nil, 0)
		textH := 110.0
		ph := card.H - textH - 24
		pw := math.Min(ph/layout.PosterAspect, math.Min(220, card.W-24))
		ph = pw * layout.PosterAspect
		box := layout.Rect{X: card.CenterX() - pw/2, Y: card.Y + 12, W: pw, H: ph}
		p.poster(p.image(it.PosterRef, p.bucket()), box, 12)
		width := card.W - 24
		els := []element{p.titleBlock(it.DisplayTitle(), fonts.Bold, 28, p.tok.Text, width, 2).gap(6)}
		var meta []span
		if y := it.ReleaseYear(); y != "" {
			meta = append(meta, p.txt(y, fonts.Medium, 20, style.Opacity(p.tok.Text, 0.6)), gapOf(12))
		}
		if s := p.scoreText(it); s != "" {
			meta = append(meta, span{star: 20, col: accent}, gapOf(6), p.txt(s, fonts.Bold, 20, p.tok.Text))
		}
		if meta != nil {
			els = append(els, p.row(meta, 20))
		}
		p.drawStack(els, card.X+12, box.Bottom()+12, width, canvas.Center)
	}
	if wm := p.watermark(); wm != "" {
		p.f.Text(p.face(fonts.Medium, 20, style.Opacity(p.tok.Text, 0.5)), wm, hx, p.H-64, canvas.Left)
	}
}

// draw 单独绘制一个 element，返回底部 y。
func (e element) draw(p *painter, x, top float64) float64 {
	return p.drawStack([]element{e}, x, top, 0, canvas.Left)
}

// timelineSummary 生成横版时间线的摘要行，例如 "3 Movies • 7.5 Avg Rating"。
func timelineSummary(items []media.MarathonItem, showRating bool) string {
	s := fmt.Sprintf("%d Movies", len(items))
	if showRating {
		s += " • " + media.FormatAverage(media.AverageRating(items)) + " Avg Rating"
	}
	return s
}
