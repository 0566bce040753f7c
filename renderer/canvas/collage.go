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

const (
	collageRowH   = 64.0
	collageRowGap = 16.0
	collageBadge  = 48.0
)

func paintCollage(p *painter) {
	p.background()
	items := p.items()
	n := len(items)
	accent := p.tok.Accent
	p.f.RadialGlow(p.full(), p.W/2, p.H*0.2, math.Max(p.W, p.H)*0.6,
		Stop{0, style.WithAlpha(accent, 0x40)},
		Stop{1, style.WithAlpha(accent, 0)},
	)

	ps := layout.CollagePositions(p.sc.Orientation(), n)
	for _, i := range layout.PaintOrder(ps) {
		if i >= n {
			continue
		}
		rc := ps[i].Resolve(p.W, p.H)
		img := p.image(items[i].PosterRef, p.bucket())
		if img == nil {
			p.placeholder(rc, 16)
			continue
		}
		p.f.RotatedImage(img, rc, 16, ps[i].Rotation, true)
	}

	cols := 2
	if !p.vertical() && n <= 5 {
		cols = 1
	}
	rows := int(math.Ceil(float64(n) / float64(cols)))
	listH := float64(rows)*collageRowH + float64(rows-1)*collageRowGap

	titlePx, subPx, wmPx := p.pick(96, 84), p.pick(40, 32), p.pick(24, 20)
	padX := p.pick(48, 60)
	title := p.titleBlock("MARATHON NIGHT", fonts.Black, titlePx, p.tok.Text, p.pick(p.W-2*padX, p.W/3), 2).gap(12)
	sub := p.block(fmt.Sprintf("%d films lined up", n), fonts.Bold, subPx, accent, p.W, 1, 1.4)
	wm := element{}
	if s := p.watermark(); s != "" {
		wm = p.block(s, fonts.Medium, wmPx, style.Opacity(p.tok.Text, 0.6), p.W, 1, 1.4)
	}

	if p.vertical() {
		heading := []element{title, sub.gap(40)}
		contentH := stackHeight(heading) + listH + 32 + wm.height()
		top := p.H - 60 - contentH
		p.collageShade(top-180, 0.7, 0.85)
		y := p.drawStack(heading, padX, top, p.W-2*padX, canvas.Left)
		colW := (p.W - 2*padX - 24) / 2
		p.collageList(items, padX, y, colW, 24, cols)
		wm.draw(p, padX, y+listH+32)
		return
	}

	heading := []element{title, sub.gap(24), wm}
	contentH := math.Max(stackHeight(heading), listH)
	bottom := p.H - 40
	p.collageShade(bottom-contentH-140, 0.9, 0.95)
	p.drawStack(heading, padX, bottom-stackHeight(heading), p.W/3, canvas.Left)
	listW := p.W * 0.6
	colW := listW
	if cols == 2 {
		colW = (listW - 24) / 2
	}
	p.collageList(items, p.W-padX-listW, bottom-listH, colW, 24, cols)
}

// collageShade 自 top 到底部叠加背景色渐变，solid/dense 为不透明段与半透明段的结束位置。
func (p *painter) collageShade(top, solid, dense float64) {
	bg := p.tok.Background
	top = math.Max(0, top)
	p.f.GradientOverlay(layout.Rect{Y: top, W: p.W, H: p.H - top}, ToTop,
		Stop{0, bg},
		Stop{solid, bg},
		Stop{dense, style.WithAlpha(bg, 0xee)},
		Stop{1, style.WithAlpha(bg, 0)},
	)
}

// collageList 按行优先的网格绘制条目清单：编号方块、标题、年份与评分。
func (p *painter) collageList(items []media.MarathonItem, x, y, colW, colGap float64, cols int) {
	for i, it := range items {
		col, row := i%cols, i/cols
		cx := x + float64(col)*(colW+colGap)
		cy := y + float64(row)*(collageRowH+collageRowGap)
		p.squareBadge(layout.Rect{X: cx, Y: cy + (collageRowH-collageBadge)/2, W: collageBadge, H: collageBadge}, i+1, 24)
		tx := cx + collageBadge + 16
		width := colW - collageBadge - 16
		titleFace := p.face(fonts.Bold, 28, p.tok.Text)
		p.f.Text(titleFace, fitLine(it.DisplayTitle(), width, titleFace.TextWidth), tx, cy+2, canvas.Left)
		var meta []span
		if yr := it.ReleaseYear(); yr != "" {
			meta = append(meta, p.txt(yr, fonts.Medium, 18, style.Opacity(p.tok.Text, 0.5)), gapOf(12))
		}
		if s := p.scoreText(it); s != "" {
			meta = append(meta, span{star: 18, col: p.tok.Accent}, gapOf(6), p.txt(s, fonts.Bold, 18, p.tok.Text))
		}
		p.drawRow(meta, tx, cy+collageRowH-14, canvas.Left)
	}
}

func paintMarathonMinimal(p *painter) {
	p.background()
	items := p.items()
	n := len(items)
	slots := layout.ListSlots(p.sc.Orientation(), n, p.W, p.H)
	accent := p.tok.Accent

	if p.vertical() {
		p.tracked(p.face(fonts.Bold, 26, accent), "MARATHON", 48, 60, 6, canvas.Left)
		p.f.Text(p.face(fonts.Black, 84, p.tok.Text), fmt.Sprintf("%d Movies", n), 48, 96, canvas.Left)
		titlePx := 36.0
		if n <= 5 {
			titlePx = 44
		}
		for i, it := range items {
			slot := slots[i]
			if i%2 == 0 {
				p.f.RoundedRect(slot, 12, style.Opacity(p.tok.Text, 0.06), nil, 0)
			}
			p.f.TextMiddle(p.face(fonts.Black, 56, style.Opacity(p.tok.Text, 0.35)), strconv.Itoa(i+1), slot.X+48, slot.CenterY(), canvas.Center)
			ph := slot.H * 0.82
			box := layout.Rect{X: slot.X + 100, Y: slot.CenterY() - ph/2, W: ph / layout.PosterAspect, H: ph}
			p.poster(p.image(it.PosterRef, p.bucket()), box, 12)

			right := slot.Right() - 24
			if s := p.scoreSpans(it, 36, 36); s != nil {
				p.drawRow(s, right, slot.CenterY(), canvas.Right)
				right -= rowWidth(s) + 24
			}
			x := box.Right() + 28
			width := right - x
			els := []element{p.titleBlock(it.DisplayTitle(), fonts.Bold, titlePx, p.tok.Text, width, 2).gap(8)}
			if y := it.ReleaseYear(); y != "" && slot.H >= 160 {
				els = append(els, p.block(y, fonts.Medium, 28, style.WithAlpha(p.tok.Text, 0x66), width, 1, 1.3))
			}
			p.drawStack(els, x, slot.CenterY()-stackHeight(els)/2, width, canvas.Left)
		}
		if wm := p.watermark(); wm != "" {
			p.f.Text(p.face(fonts.Medium, 24, style.Opacity(p.tok.Text, 0.5)), wm, p.W/2, p.H-60, canvas.Center)
		}
		return
	}

	p.tracked(p.face(fonts.Bold, 18, style.Opacity(p.tok.Text, 0.5)), "MARATHON", 48, 32, 6, canvas.Left)
	p.f.Text(p.face(fonts.Black, 84, p.tok.Text), fmt.Sprintf("%d MOVIES", n), 48, 60, canvas.Left)
	if wm := p.watermark(); wm != "" {
		p.f.Text(p.face(fonts.Medium, 22, style.Opacity(p.tok.Text, 0.4)), wm, p.W-48, 48, canvas.Right)
	}
	for i, it := range items {
		cell := slots[i]
		p.f.RoundedRect(cell, 12, style.Opacity(p.tok.Text, 0.06), nil, 0)
		const pad = 16.0
		ph := cell.H - 2*pad
		pw := math.Min(ph/layout.PosterAspect, cell.W*0.45)
		ph = pw * layout.PosterAspect
		box := layout.Rect{X: cell.X + pad, Y: cell.CenterY() - ph/2, W: pw, H: ph}
		p.poster(p.image(it.PosterRef, p.bucket()), box, 10)

		x := box.Right() + 20
		width := cell.Right() - pad - x
		els := []element{
			p.block(strconv.Itoa(i+1), fonts.Black, 40, accent, width, 1, 1.2).gap(8),
			p.titleBlock(it.DisplayTitle(), fonts.Bold, 28, p.tok.Text, width, 3).gap(8),
		}
		if y := it.ReleaseYear(); y != "" {
			els = append(els, p.block(y, fonts.Medium, 20, style.Opacity(p.tok.Text, 0.6), width, 1, 1.3).gap(8))
		}
		if s := p.scoreSpans(it, 22, 22); s != nil {
			els = append(els, p.row(s, 22))
		}
		p.drawStack(els, x, cell.CenterY()-stackHeight(els)/2, width, canvas.Left)
	}
}
