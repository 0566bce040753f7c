package canvasrenderer

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"sort"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/renderer"
	"github.com/ByLCY/storycard/style"
)

var _ renderer.Renderer = (*Renderer)(nil)

// registry 是版式到绘制函数的封闭映射，新增版式只需在此登记。
var registry = map[layout.Kind]paintFunc{
	layout.Classic:         paintClassic,
	layout.Modern:          paintModern,
	layout.Cinematic:       paintCinematic,
	layout.Minimal:         paintMinimal,
	layout.Glassmorphic:    paintGlassmorphic,
	layout.Split:           paintSplit,
	layout.LegacyStory:     paintLegacyStory,
	layout.LegacyTwitter:   paintLegacyTwitter,
	layout.Grid:            paintGrid,
	layout.Ranked:          paintRanked,
	layout.Timeline:        paintTimeline,
	layout.Collage:         paintCollage,
	layout.MarathonMinimal: paintMarathonMinimal,
}

// Registered 返回已登记的版式（按 id 排序）。
func Registered() []layout.Kind {
	out := make([]layout.Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Renderer draws scenes via github.com/tdewolff/canvas and rasterizes them to RGBA.
type Renderer struct {
	// Trace 非 nil 时按绘制顺序接收每一段文字（-debug 输出用）。可能被并发调用。
	Trace func(text string)

	fonts *Fonts
	logf  func(format string, args ...any)
}

// New 创建渲染器并加载后备字体。
func New() (*Renderer, error) {
	f, err := NewFonts()
	if err != nil {
		return nil, err
	}
	return &Renderer{fonts: f, logf: log.Printf}, nil
}

// Fonts 返回渲染器的字体缓存，用于在绘制前预加载。
func (r *Renderer) Fonts() *Fonts { return r.fonts }

// Render 在独占的 Frame 上同步绘制场景。场景中的图片必须已经加载完毕。
func (r *Renderer) Render(scene *layout.Scene) (*image.RGBA, error) {
	if scene == nil {
		return nil, fmt.Errorf("场景为空")
	}
	paint, ok := registry[scene.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", layout.ErrUnknownLayout, scene.Kind)
	}
	frame, err := NewFrame(scene.Width, scene.Height)
	if err != nil {
		return nil, err
	}
	frame.trace = r.Trace
	cfg := scene.Config
	tok := style.Resolve(cfg.Theme, cfg.Accent, cfg.Font)
	r.preload(tok.Font.Token)

	p := &painter{f: frame, fonts: r.fonts, tok: tok, sc: scene, W: frame.W, H: frame.H}
	paint(p)
	if cfg.ShareURL != "" {
		if err := p.shareBadge(cfg.ShareURL); err != nil {
			return nil, err
		}
	}
	return exact(frame.Rasterize(), scene.Width, scene.Height), nil
}

// preload 预加载字体；失败的字重在 Face 中回退到后备字体，只记录日志。
// 失败结果会被缓存，同一 token 只记录一次。
func (r *Renderer) preload(token string) {
	if err := r.fonts.Preload(token); err != nil {
		r.logf("字体 %s 预加载失败，使用后备字体: %v", token, err)
	}
}

// exact 保证输出恰好为 w×h 像素。
func exact(img *image.RGBA, w, h int) *image.RGBA {
	b := img.Bounds()
	if b.Min.X == 0 && b.Min.Y == 0 && b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
