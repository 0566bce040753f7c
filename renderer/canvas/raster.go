package canvasrenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
)

// 位图层面的处理：裁切填充、圆角遮罩、透明度。渐变交给 canvas 的 Gradient。裁切在私有副本上完成，不在画布上保留任何裁切状态。

// cover 按“铺满并居中裁切”把图片缩放到 w×h（aspect-fill，不拉伸）。
func cover(img image.Image, w, h int) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// roundCorners 对图片四角施加抗锯齿圆角遮罩（原地修改）。
func roundCorners(img *image.NRGBA, radius float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	radius = math.Min(radius, math.Min(w, h)/2)
	if radius <= 0 {
		return
	}
	ri := int(math.Ceil(radius))
	corners := [4][2]float64{
		{radius, radius},
		{w - radius, radius},
		{radius, h - radius},
		{w - radius, h - radius},
	}
	for ci, c := range corners {
		x0, y0 := 0, 0
		if ci == 1 || ci == 3 {
			x0 = b.Dx() - ri
		}
		if ci == 2 || ci == 3 {
			y0 = b.Dy() - ri
		}
		for y := y0; y < y0+ri && y < b.Dy(); y++ {
			for x := x0; x < x0+ri && x < b.Dx(); x++ {
				if x < 0 || y < 0 {
					continue
				}
				dx := float64(x) + 0.5 - c[0]
				dy := float64(y) + 0.5 - c[1]
				// 只处理位于圆心外侧象限的像素
				if (ci == 0 || ci == 2) && dx > 0 || (ci == 1 || ci == 3) && dx < 0 {
					continue
				}
				if (ci == 0 || ci == 1) && dy > 0 || (ci == 2 || ci == 3) && dy < 0 {
					continue
				}
				cov := radius - math.Hypot(dx, dy) + 0.5
				if cov >= 1 {
					continue
				}
				if cov < 0 {
					cov = 0
				}
				i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
				img.Pix[i+3] = uint8(float64(img.Pix[i+3]) * cov)
			}
		}
	}
}

// fade 按 0..1 缩放整张图的 alpha（原地修改）。
func fade(img *image.NRGBA, opacity float64) {
	if opacity >= 1 {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(float64(img.Pix[i])*opacity + 0.5)
	}
}

// Direction 是线性渐变的方向（与 CSS linear-gradient 的关键字一致）。
type Direction int

const (
	ToTop Direction = iota
	ToBottom
	ToRight
	ToLeft
	Diagonal // 135deg：左上 → 右下
)

// Stop 是渐变色标，Offset 取 0..1。
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// grad 把色标转换为 canvas.Grad（预乘 RGBA，canvas 在预乘空间插值）。
func grad(stops []Stop) canvas.Grad {
	g := canvas.NewGradient()
	for _, s := range stops {
		g.Add(s.Offset, color.RGBAModel.Convert(s.Color).(color.RGBA))
	}
	return g
}

// linearEnds 返回 w×h 矩形内渐变的起止点，坐标为路径局部坐标（左下角为原点，y 向上）。
func linearEnds(dir Direction, w, h float64) (start, end canvas.Point) {
	switch dir {
	case ToTop:
		return canvas.Point{X: 0, Y: 0}, canvas.Point{X: 0, Y: h}
	case ToBottom:
		return canvas.Point{X: 0, Y: h}, canvas.Point{X: 0, Y: 0}
	case ToRight:
		return canvas.Point{X: 0, Y: 0}, canvas.Point{X: w, Y: 0}
	case ToLeft:
		return canvas.Point{X: w, Y: 0}, canvas.Point{X: 0, Y: 0}
	default:
		return canvas.Point{X: 0, Y: h}, canvas.Point{X: w, Y: 0}
	}
}
