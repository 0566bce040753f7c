package canvasrenderer

import (
	"fmt"
	"image"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// Frame 是一次渲染独占的绘制表面，尺寸固定为目标像素宽高。
// 对外坐标一律以左上角为原点、单位为像素；内部转换为 canvas 的笛卡尔坐标（左下角为原点）。
type Frame struct {
	W, H float64

	c   *canvas.Canvas
	ctx *canvas.Context

	trace func(text string)
}

// NewFrame 创建 w×h 像素的绘制表面。
func NewFrame(w, h int) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", w, h)
	}
	c := canvas.New(float64(w), float64(h))
	return &Frame{W: float64(w), H: float64(h), c: c, ctx: canvas.NewContext(c)}, nil
}

// flipY 把左上角坐标系中 [top, top+height] 区域的下边缘换算为 canvas 的 y。
func (f *Frame) flipY(top, height float64) float64 { return f.H - top - height }

// drawBitmap 以 1 像素 = 1 单位把位图贴到 (x, top)。
func (f *Frame) drawBitmap(img image.Image, x, top float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	f.ctx.DrawImage(x, f.flipY(top, float64(b.Dy())), img, canvas.DPMM(1))
}

// Rasterize 以 1 像素/单位栅格化，得到与画布尺寸完全一致的位图。
func (f *Frame) Rasterize() *image.RGBA {
	return rasterizer.Draw(f.c, canvas.DPMM(1), canvas.DefaultColorSpace)
}
