package renderer

import (
	"image"

	"github.com/ByLCY/storycard/layout"
)

// Renderer 把一个场景绘制为位图。输出尺寸必须与 scene.Width × scene.Height 完全一致。
type Renderer interface {
	Render(scene *layout.Scene) (*image.RGBA, error)
}
