package canvasrenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/storycard/layout"
)

var transparent = color.RGBA{0, 0, 0, 0}

// kappa 是用三次贝塞尔近似四分之一圆的控制点系数。
const kappa = 0.5522847498

// roundedPath 构造以 (0,0) 为角点、w×h 的圆角矩形路径。
func roundedPath(w, h, r float64) *canvas.Path {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	if r == 0 {
		return canvas.Rectangle(w, h)
	}
	k := kappa * r
	p := &canvas.Path{}
	p.MoveTo(r, 0)
	p.LineTo(w-r, 0)
	p.CubeTo(w-r+k, 0, w, r-k, w, r)
	p.LineTo(w, h-r)
	p.CubeTo(w, h-r+k, w-r+k, h, w-r, h)
	p.LineTo(r, h)
	p.CubeTo(r-k, h, 0, h-r+k, 0, h-r)
	p.LineTo(0, r)
	p.CubeTo(0, r-k, r-k, 0, r, 0)
	p.Close()
	return p
}

// Fill 用纯色填满矩形。
func (f *Frame) Fill(rc layout.Rect, c color.Color) {
	f.RoundedRect(rc, 0, c, nil, 0)
}

// RoundedRect 绘制圆角矩形；fill 或 stroke 为 nil 时跳过对应部分。半径被限制在 min(w,h)/2。
func (f *Frame) RoundedRect(rc layout.Rect, radius float64, fill, stroke color.Color, strokeWidth float64) {
	if rc.W <= 0 || rc.H <= 0 || (fill == nil && (stroke == nil || strokeWidth <= 0)) {
		return
	}
	f.ctx.Push()
	defer f.ctx.Pop()
	if fill != nil {
		f.ctx.SetFillColor(fill)
	} else {
		f.ctx.SetFillColor(transparent)
	}
	if stroke != nil && strokeWidth > 0 {
		f.ctx.SetStrokeColor(stroke)
		f.ctx.SetStrokeWidth(strokeWidth)
	} else {
		f.ctx.SetStrokeColor(transparent)
	}
	f.ctx.DrawPath(rc.X, f.flipY(rc.Y, rc.H), roundedPath(rc.W, rc.H, radius))
}

// Circle 在矩形内绘制内切圆。
func (f *Frame) Circle(rc layout.Rect, fill color.Color) {
	d := math.Min(rc.W, rc.H)
	f.RoundedRect(layout.Rect{X: rc.CenterX() - d/2, Y: rc.CenterY() - d/2, W: d, H: d}, d/2, fill, nil, 0)
}

// Line 绘制一条线段。
func (f *Frame) Line(x1, y1, x2, y2, width float64, c color.Color) {
	p := &canvas.Path{}
	p.MoveTo(x1, f.H-y1)
	p.LineTo(x2, f.H-y2)
	f.ctx.Push()
	defer f.ctx.Pop()
	f.ctx.SetFillColor(transparent)
	f.ctx.SetStrokeColor(c)
	f.ctx.SetStrokeWidth(width)
	f.ctx.DrawPath(0, 0, p)
}

// Star 绘制以 (cx, cy) 为中心、外接直径为 size 的五角星。
func (f *Frame) Star(cx, cy, size float64, c color.Color) {
	outer := size / 2
	inner := outer * 0.45
	p := &canvas.Path{}
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, f.H-y)
		} else {
			p.LineTo(x, f.H-y)
		}
	}
	p.Close()
	f.ctx.Push()
	defer f.ctx.Pop()
	f.ctx.SetFillColor(c)
	f.ctx.SetStrokeColor(transparent)
	f.ctx.DrawPath(0, 0, p)
}

// ClippedImage 把图片按 cover 方式填入矩形并裁出圆角。裁切在私有副本上完成。
func (f *Frame) ClippedImage(img image.Image, rc layout.Rect, radius float64) {
	f.FadedImage(img, rc, radius, 1)
}

// FadedImage 同 ClippedImage，额外按 opacity 调整透明度。
func (f *Frame) FadedImage(img image.Image, rc layout.Rect, radius, opacity float64) {
	w, h := pixels(rc.W), pixels(rc.H)
	if img == nil || w == 0 || h == 0 {
		return
	}
	dst := cover(img, w, h)
	roundCorners(dst, radius)
	fade(dst, opacity)
	f.drawBitmap(dst, math.Round(rc.X), math.Round(rc.Y))
}

// BlurredImage 绘制模糊背景：按 scale 放大后居中裁切，再以 opacity 叠加。
// 模糊在四分之一分辨率上完成后放大回原尺寸。
func (f *Frame) BlurredImage(img image.Image, rc layout.Rect, sigma, opacity, scale float64) {
	w, h := pixels(rc.W), pixels(rc.H)
	if img == nil || w == 0 || h == 0 {
		return
	}
	if scale < 1 {
		scale = 1
	}
	const down = 4
	sw, sh := max(1, int(float64(w)*scale)/down), max(1, int(float64(h)*scale)/down)
	small := imaging.Blur(cover(img, sw, sh), sigma/down)
	small = imaging.CropCenter(small, max(1, w/down), max(1, h/down))
	dst := imaging.Resize(small, w, h, imaging.Linear)
	fade(dst, opacity)
	f.drawBitmap(dst, math.Round(rc.X), math.Round(rc.Y))
}

// FrostedPanel 把 backdrop（已按整帧铺满的位图）中 rc 对应区域模糊后圆角贴回，模拟毛玻璃。
func (f *Frame) FrostedPanel(backdrop *image.NRGBA, rc layout.Rect, radius, sigma float64) {
	if backdrop == nil {
		return
	}
	r := image.Rect(int(rc.X), int(rc.Y), int(rc.Right()), int(rc.Bottom())).Intersect(backdrop.Bounds())
	if r.Empty() {
		return
	}
	const down = 4
	small := imaging.Resize(imaging.Crop(backdrop, r), max(1, r.Dx()/down), 0, imaging.Linear)
	panel := imaging.Resize(imaging.Blur(small, sigma/down), r.Dx(), r.Dy(), imaging.Linear)
	roundCorners(panel, radius)
	f.drawBitmap(panel, float64(r.Min.X), float64(r.Min.Y))
}

// RotatedImage 绘制旋转后的圆角海报及其投影，旋转中心为矩形中心，deg 顺时针为正。
func (f *Frame) RotatedImage(img image.Image, rc layout.Rect, radius, deg float64, shadow bool) {
	w, h := pixels(rc.W), pixels(rc.H)
	if img == nil || w == 0 || h == 0 {
		return
	}
	cx, cy := rc.CenterX(), rc.CenterY()
	if shadow {
		const pad = 48
		sh := imaging.New(w, h, color.NRGBA{A: 110})
		roundCorners(sh, radius)
		base := imaging.PasteCenter(imaging.New(w+2*pad, h+2*pad, color.Transparent), sh)
		// imaging 逆时针旋转，取负角度得到顺时针
		base = imaging.Blur(imaging.Rotate(base, -deg, color.Transparent), 16)
		b := base.Bounds()
		f.drawBitmap(base, math.Round(cx-float64(b.Dx())/2), math.Round(cy+20-float64(b.Dy())/2))
	}
	poster := cover(img, w, h)
	roundCorners(poster, radius)
	rot := imaging.Rotate(poster, -deg, color.Transparent)
	b := rot.Bounds()
	f.drawBitmap(rot, math.Round(cx-float64(b.Dx())/2), math.Round(cy-float64(b.Dy())/2))
}

// GradientOverlay 在矩形上叠加线性渐变。
func (f *Frame) GradientOverlay(rc layout.Rect, dir Direction, stops ...Stop) {
	if rc.W <= 0 || rc.H <= 0 || len(stops) == 0 {
		return
	}
	start, end := linearEnds(dir, rc.W, rc.H)
	g := grad(stops).ToLinear(start, end)
	f.fillGradient(rc, g)
}

// RadialGlow 在矩形上叠加径向渐变，(cx, cy) 相对矩形左上角。
func (f *Frame) RadialGlow(rc layout.Rect, cx, cy, radius float64, stops ...Stop) {
	if rc.W <= 0 || rc.H <= 0 || radius <= 0 || len(stops) == 0 {
		return
	}
	c := canvas.Point{X: cx, Y: rc.H - cy}
	f.fillGradient(rc, grad(stops).ToRadial(c, 0, c, radius))
}

func (f *Frame) fillGradient(rc layout.Rect, g canvas.Gradient) {
	f.ctx.Push()
	defer f.ctx.Pop()
	f.ctx.SetFillGradient(g)
	f.ctx.SetStrokeColor(transparent)
	f.ctx.DrawPath(rc.X, f.flipY(rc.Y, rc.H), canvas.Rectangle(rc.W, rc.H))
}

// Bitmap 原样贴图（不缩放）。
func (f *Frame) Bitmap(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	f.drawBitmap(img, math.Round(x), math.Round(y))
}

// Text 绘制单行文本，top 为行顶，x 按 align 解释为左边缘、中心或右边缘。
func (f *Frame) Text(face *canvas.FontFace, s string, x, top float64, align canvas.TextAlign) {
	if face == nil || s == "" {
		return
	}
	f.traceText(s)
	baseline := top + face.Metrics().Ascent
	f.ctx.DrawText(x, f.H-baseline, canvas.NewTextLine(face, s, align))
}

// TextMiddle 以 cy 为垂直中线绘制单行文本。
func (f *Frame) TextMiddle(face *canvas.FontFace, s string, x, cy float64, align canvas.TextAlign) {
	if face == nil || s == "" {
		return
	}
	f.traceText(s)
	m := face.Metrics()
	baseline := cy + (m.Ascent-math.Abs(m.Descent))/2
	f.ctx.DrawText(x, f.H-baseline, canvas.NewTextLine(face, s, align))
}

// WrapText 按测量宽度贪心折行并逐行绘制，返回最后一行之后的 y。
func (f *Frame) WrapText(face *canvas.FontFace, text string, x, y, maxWidth, lineHeight float64, maxLines int, align canvas.TextAlign) float64 {
	if face == nil {
		return y
	}
	for _, line := range wrapLines(text, maxWidth, maxLines, face.TextWidth) {
		f.Text(face, line, x, y, align)
		y += lineHeight
	}
	return y
}

func (f *Frame) traceText(s string) {
	if f.trace != nil {
		f.trace(s)
	}
}

func pixels(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v))
}
