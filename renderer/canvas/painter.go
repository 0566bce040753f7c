package canvasrenderer

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/tdewolff/canvas"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/storycard/binding"
	"github.com/ByLCY/storycard/fonts"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/style"
)

// painter 携带一次绘制所需的全部上下文；每个版式函数只通过它作画。
type painter struct {
	f     *Frame
	fonts *Fonts
	tok   style.Token
	sc    *layout.Scene
	W, H  float64
}

type paintFunc func(p *painter)

var upper = cases.Upper(language.Und)

func (p *painter) full() layout.Rect { return layout.Rect{W: p.W, H: p.H} }

func (p *painter) vertical() bool { return p.sc.Orientation() == layout.Vertical }

// pick 按方向二选一。
func (p *painter) pick(v, h float64) float64 {
	if p.vertical() {
		return v
	}
	return h
}

func (p *painter) face(w fonts.Weight, px float64, c color.Color) *canvas.FontFace {
	return p.fonts.Face(p.tok.Font.Token, w, px, c)
}

func (p *painter) measure(w fonts.Weight, px float64) func(string) float64 {
	face := p.face(w, px, color.Black)
	return face.TextWidth
}

// fit 用 Text Fitter 选字号：以 lines 行的总宽度作为预算，步长 4，下限为起始字号的一半。
func (p *painter) fit(text string, w fonts.Weight, start, maxWidth float64, lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	budget := maxWidth * float64(lines) * 0.9
	if lines == 1 {
		budget = maxWidth
	}
	return layout.FitText(p.fonts.Measurer(p.tok.Font.Token, w), text, start, budget, 4, math.Max(12, start/2))
}

// image 返回场景中已加载的图片；未加载时返回 nil，由调用方绘制占位。
func (p *painter) image(ref string, b media.Bucket) image.Image {
	return p.sc.Image(ref, b)
}

// poster 绘制海报；图片缺失时绘制主题内的占位块，保证区域不留空白。
func (p *painter) poster(img image.Image, rc layout.Rect, radius float64) {
	if img == nil {
		p.placeholder(rc, radius)
		return
	}
	p.f.ClippedImage(img, rc, radius)
}

func (p *painter) placeholder(rc layout.Rect, radius float64) {
	p.f.RoundedRect(rc, radius, style.Opacity(p.tok.Text, 0.1), nil, 0)
	px := math.Min(rc.W, rc.H) * 0.3
	if px >= 8 {
		p.f.TextMiddle(p.face(fonts.Bold, px, style.Opacity(p.tok.Text, 0.3)), "?", rc.CenterX(), rc.CenterY(), canvas.Center)
	}
}

// watermark 解析水印中的 ${title} / ${year} / ${count} 占位符。
func (p *painter) watermark() string {
	if p.sc.Config.Watermark == "" {
		return ""
	}
	vars := map[string]any{
		"count": strconv.Itoa(len(p.sc.Items)),
	}
	if len(p.sc.Items) == 0 {
		vars["title"] = p.sc.Kind.Title(p.sc.Story)
		vars["year"] = p.sc.Story.ReleaseYear()
	} else {
		vars["title"] = p.sc.Items[0].DisplayTitle()
		vars["year"] = p.sc.Items[0].ReleaseYear()
	}
	return binding.Interpolate(p.sc.Config.Watermark, vars)
}

// span 是一行内的一段：文字、星形或空白。
type span struct {
	text string
	face *canvas.FontFace
	star float64
	col  color.Color
	gap  float64
}

func (s span) width() float64 {
	switch {
	case s.face != nil:
		return s.face.TextWidth(s.text)
	case s.star > 0:
		return s.star
	}
	return s.gap
}

func (p *painter) txt(s string, w fonts.Weight, px float64, c color.Color) span {
	return span{text: s, face: p.face(w, px, c)}
}

func gapOf(px float64) span { return span{gap: px} }

// ratingSpans 返回星形 + 评分文字。
func (p *painter) ratingSpans(text string, px float64, c color.Color) []span {
	return []span{
		{star: px * 1.05, col: p.tok.Accent},
		gapOf(px * 0.3),
		p.txt(text, fonts.Bold, px, c),
	}
}

// metaSpans 组合 年份 • 类型 • ★评分，空字段跳过。
func (p *painter) metaSpans(it media.Item, px float64, rating string, sep string) []span {
	var out []span
	add := func(ss ...span) {
		if len(out) > 0 {
			out = append(out, p.txt(sep, fonts.Regular, px, style.Opacity(p.tok.Text, 0.4)))
		}
		out = append(out, ss...)
	}
	if y := it.ReleaseYear(); y != "" {
		add(p.txt(y, fonts.Medium, px, style.Opacity(p.tok.Text, 0.7)))
	}
	if g := it.GenreLine(); g != "" {
		add(p.txt(g, fonts.Medium, px, style.Opacity(p.tok.Text, 0.7)))
	}
	if rating != "" {
		add(p.ratingSpans(rating, px, p.tok.Text)...)
	}
	return out
}

func rowWidth(spans []span) float64 {
	w := 0.0
	for _, s := range spans {
		w += s.width()
	}
	return w
}

// drawRow 以 cy 为中线绘制一行，x 按 align 解释为左边缘、中心或右边缘。
func (p *painter) drawRow(spans []span, x, cy float64, align canvas.TextAlign) {
	w := rowWidth(spans)
	switch align {
	case canvas.Center:
		x -= w / 2
	case canvas.Right:
		x -= w
	}
	for _, s := range spans {
		switch {
		case s.face != nil:
			p.f.TextMiddle(s.face, s.text, x, cy, canvas.Left)
		case s.star > 0:
			p.f.Star(x+s.star/2, cy, s.star, s.col)
		}
		x += s.width()
	}
}

// element 是纵向堆叠中的一项：多行文字或一行 span。
type element struct {
	lines []string
	face  *canvas.FontFace
	lineH float64

	spans []span
	rowH  float64

	after float64
}

func (e element) height() float64 {
	if e.spans != nil {
		return e.rowH
	}
	return float64(len(e.lines)) * e.lineH
}

// block 把文本按宽度折行成 element。
func (p *painter) block(text string, w fonts.Weight, px float64, c color.Color, maxWidth float64, maxLines int, lineH float64) element {
	face := p.face(w, px, c)
	return element{lines: wrapLines(text, maxWidth, maxLines, face.TextWidth), face: face, lineH: px * lineH}
}

// titleBlock 先按宽度收缩字号再折行，最多 maxLines 行。
func (p *painter) titleBlock(text string, w fonts.Weight, start float64, c color.Color, maxWidth float64, maxLines int) element {
	px := p.fit(text, w, start, maxWidth, maxLines)
	return p.block(text, w, px, c, maxWidth, maxLines, 1.1)
}

func (p *painter) row(spans []span, px float64) element {
	return element{spans: spans, rowH: px * 1.4}
}

// fitRow 整行超出 maxWidth 时按步长 2 缩小字号（下限为原字号的 60%）。
func (p *painter) fitRow(build func(px float64) []span, px, maxWidth float64) element {
	m := layout.MeasureFunc(func(_ string, size float64) float64 { return rowWidth(build(size)) })
	size := layout.FitText(m, "", px, maxWidth, 2, px*0.6)
	return p.row(build(size), size)
}

func (e element) gap(after float64) element { e.after = after; return e }

func stackHeight(els []element) float64 {
	h := 0.0
	for i, e := range els {
		if e.lines == nil && e.spans == nil {
			continue
		}
		h += e.height()
		if i < len(els)-1 {
			h += e.after
		}
	}
	return h
}

// drawStack 从 top 开始依次绘制，返回底部 y。x/width 定义对齐用的水平区间。
func (p *painter) drawStack(els []element, x, top, width float64, align canvas.TextAlign) float64 {
	ax := x
	switch align {
	case canvas.Center:
		ax = x + width/2
	case canvas.Right:
		ax = x + width
	}
	y := top
	for _, e := range els {
		if e.lines == nil && e.spans == nil {
			continue
		}
		if e.spans != nil {
			p.drawRow(e.spans, ax, y+e.rowH/2, align)
		}
		for i, line := range e.lines {
			p.f.Text(e.face, line, ax, y+float64(i)*e.lineH, align)
		}
		y += e.height() + e.after
	}
	return y
}

// tracked 绘制带字距的单行文字（用于大写标签），返回宽度。
func (p *painter) tracked(face *canvas.FontFace, s string, x, top, tracking float64, align canvas.TextAlign) float64 {
	runes := []rune(s)
	w := 0.0
	for i, r := range runes {
		w += face.TextWidth(string(r))
		if i < len(runes)-1 {
			w += tracking
		}
	}
	switch align {
	case canvas.Center:
		x -= w / 2
	case canvas.Right:
		x -= w
	}
	for _, r := range runes {
		ch := string(r)
		p.f.Text(face, ch, x, top, canvas.Left)
		x += face.TextWidth(ch) + tracking
	}
	return w
}

// ratingText 返回单卡评分文字；不显示评分时为空。
func (p *painter) ratingText() string {
	if !p.sc.Config.ShowRating {
		return ""
	}
	return media.FormatRating(p.sc.Rating())
}

// scoreText 返回马拉松条目的评分文字（保留一位小数）；不显示评分或无评分时为空。
func (p *painter) scoreText(it media.MarathonItem) string {
	if !p.sc.Config.ShowRating || it.Rating <= 0 {
		return ""
	}
	return media.FormatScore(it.Rating)
}
