package layout

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ByLCY/storycard/media"
)

// 该文件定义版式标识、画布尺寸与渲染配置，供编排、渲染与调试 JSON 共用。

var (
	// ErrUnknownLayout 表示版式 id 不在注册表中。
	ErrUnknownLayout = errors.New("未知版式")
	// ErrLayoutFamily 表示版式与条目数量所属的族不匹配（单卡 vs 马拉松）。
	ErrLayoutFamily = errors.New("版式与条目族不匹配")
	// ErrUnknownSize 表示画布尺寸不受支持。
	ErrUnknownSize = errors.New("未知画布尺寸")
)

// Family 区分单卡与马拉松两类版式。
type Family int

const (
	FamilySingle Family = iota
	FamilyMarathon
)

func (f Family) String() string {
	if f == FamilyMarathon {
		return "marathon"
	}
	return "single"
}

// Kind 是版式的封闭集合；每个 Kind 在注册表中对应一个绘制函数。
type Kind string

const (
	Classic      Kind = "classic"
	Modern       Kind = "modern"
	Cinematic    Kind = "cinematic"
	Minimal      Kind = "minimal"
	Glassmorphic Kind = "glassmorphic"
	Split        Kind = "split"

	LegacyStory   Kind = "story"
	LegacyTwitter Kind = "twitter"

	Grid     Kind = "grid"
	Ranked   Kind = "ranked"
	Timeline Kind = "timeline"
	Collage  Kind = "collage"
	// MarathonMinimal 对外 id 同样是 "minimal"，按族区分。
	MarathonMinimal Kind = "marathon-minimal"
)

var (
	singleKinds   = []Kind{Classic, Modern, Cinematic, Minimal, Glassmorphic, Split, LegacyStory, LegacyTwitter}
	marathonKinds = []Kind{Grid, Ranked, Timeline, Collage, MarathonMinimal}
)

// KindsOf 返回某一族的全部版式。
func KindsOf(f Family) []Kind {
	if f == FamilyMarathon {
		return append([]Kind(nil), marathonKinds...)
	}
	return append([]Kind(nil), singleKinds...)
}

// Family 返回版式所属的族。
func (k Kind) Family() Family {
	for _, m := range marathonKinds {
		if k == m {
			return FamilyMarathon
		}
	}
	return FamilySingle
}

// Legacy 表示旧版固定尺寸版式。
func (k Kind) Legacy() bool { return k == LegacyStory || k == LegacyTwitter }

// Title 返回该版式展示（及导出文件名）使用的标题；旧版版式优先取 original_name。
func (k Kind) Title(it media.Item) string {
	if k.Legacy() {
		return it.LegacyTitle()
	}
	return it.DisplayTitle()
}

// ID 返回对外使用的版式 id。
func (k Kind) ID() string {
	if k == MarathonMinimal {
		return string(Minimal)
	}
	return string(k)
}

// ParseKind 在指定族内解析版式 id。
// id 属于另一族时返回 ErrLayoutFamily，完全未知时返回 ErrUnknownLayout。
func ParseKind(f Family, id string) (Kind, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, k := range KindsOf(f) {
		if k.ID() == id || string(k) == id {
			return k, nil
		}
	}
	other := FamilyMarathon
	if f == FamilyMarathon {
		other = FamilySingle
	}
	for _, k := range KindsOf(other) {
		if k.ID() == id || string(k) == id {
			return "", fmt.Errorf("%w: %q 属于 %s 版式，当前为 %s", ErrLayoutFamily, id, other, f)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayout, id)
}

// Size 是画布尺寸档位。
type Size string

const (
	SizeVertical   Size = "vertical"
	SizeHorizontal Size = "horizontal"
)

// ParseSize 解析尺寸，空串视为 vertical。
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SizeVertical):
		return SizeVertical, nil
	case string(SizeHorizontal):
		return SizeHorizontal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSize, s)
	}
}

// Orientation 区分竖版与横版。
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Orientation 返回尺寸对应的方向。
func (s Size) Orientation() Orientation {
	if s == SizeHorizontal {
		return Horizontal
	}
	return Vertical
}

// Dimensions 返回版式在指定尺寸下的像素宽高。旧版版式忽略 size：story 为 1080×1920，twitter 为 1200×674。
func Dimensions(k Kind, s Size) (int, int) {
	switch k {
	case LegacyStory:
		return 1080, 1920
	case LegacyTwitter:
		return 1200, 674
	}
	if s == SizeHorizontal {
		return 1920, 1080
	}
	return 1080, 1920
}

// RenderConfig 是一次渲染的完整配置。按值传递，修改通过 With* 构造新值。
type RenderConfig struct {
	Size         Size     `json:"size"`
	Layout       string   `json:"layout"`
	Theme        string   `json:"theme"`
	Accent       string   `json:"accent"`
	Font         string   `json:"font"`
	ShowRating   bool     `json:"showRating"`
	CustomRating *float64 `json:"customRating,omitempty"` // 仅单卡
	Watermark    string   `json:"watermark,omitempty"`
	ShareURL     string   `json:"shareUrl,omitempty"` // 非空时绘制二维码角标
}

// DefaultWatermark 是马拉松卡片的默认水印。
const DefaultWatermark = "Movie Marathon"

// DefaultStoryConfig 返回单卡默认配置。
func DefaultStoryConfig() RenderConfig {
	return RenderConfig{
		Size:       SizeVertical,
		Layout:     string(Classic),
		Theme:      "dark",
		Accent:     "#f59e0b",
		Font:       "default",
		ShowRating: true,
	}
}

// DefaultMarathonConfig 返回马拉松默认配置。
func DefaultMarathonConfig() RenderConfig {
	return RenderConfig{
		Size:       SizeVertical,
		Layout:     string(Grid),
		Theme:      "dark",
		Accent:     "#f59e0b",
		Font:       "default",
		ShowRating: true,
		Watermark:  DefaultWatermark,
	}
}

func (c RenderConfig) WithSize(s Size) RenderConfig        { c.Size = s; return c }
func (c RenderConfig) WithLayout(id string) RenderConfig   { c.Layout = id; return c }
func (c RenderConfig) WithTheme(theme string) RenderConfig { c.Theme = theme; return c }
func (c RenderConfig) WithAccent(hex string) RenderConfig  { c.Accent = hex; return c }
func (c RenderConfig) WithFont(token string) RenderConfig  { c.Font = token; return c }
func (c RenderConfig) WithShowRating(v bool) RenderConfig  { c.ShowRating = v; return c }
func (c RenderConfig) WithWatermark(s string) RenderConfig { c.Watermark = s; return c }
func (c RenderConfig) WithShareURL(u string) RenderConfig  { c.ShareURL = u; return c }

// WithCustomRating 设置自定义评分（复制指针，避免与旧值共享）。
func (c RenderConfig) WithCustomRating(r float64) RenderConfig {
	v := media.ClampRating(r)
	c.CustomRating = &v
	return c
}

// Clone 深拷贝配置。
func (c RenderConfig) Clone() RenderConfig {
	if c.CustomRating != nil {
		v := *c.CustomRating
		c.CustomRating = &v
	}
	return c
}

// ImageNeed 描述渲染需要的一张图片：引用 + 尺寸档位。
type ImageNeed struct {
	Ref    string
	Bucket media.Bucket
}

// Key 是 Scene.Images 的键。
func (n ImageNeed) Key() string { return string(n.Bucket) + "|" + n.Ref }

// Scene 是一次绘制的全部输入。Images 在绘制前已全部就绪，绘制阶段不做 I/O。
type Scene struct {
	Kind   Kind
	Config RenderConfig
	Width  int
	Height int
	Story  media.Item
	Items  []media.MarathonItem // 已按 Order 排序
	Images map[string]image.Image
}

// Orientation 返回场景方向；旧版版式按宽高判断。
func (s *Scene) Orientation() Orientation {
	if s.Width > s.Height {
		return Horizontal
	}
	return Vertical
}

// Image 返回已加载的图片，未请求过时返回 nil。
func (s *Scene) Image(ref string, b media.Bucket) image.Image {
	if s.Images == nil {
		return nil
	}
	return s.Images[ImageNeed{Ref: ref, Bucket: b}.Key()]
}

// Rating 返回单卡使用的评分：CustomRating 优先。
func (s *Scene) Rating() float64 {
	if s.Config.CustomRating != nil {
		return media.ClampRating(*s.Config.CustomRating)
	}
	return media.ClampRating(s.Story.Rating)
}

// Rect 是以左上角为原点的像素矩形。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Inset 向内收缩 d（d 为负时外扩）。
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Within 判断矩形是否完全位于 w×h 的画布内（允许 1e-6 的浮点误差）。
func (r Rect) Within(w, h float64) bool {
	const eps = 1e-6
	return r.X >= -eps && r.Y >= -eps && r.Right() <= w+eps && r.Bottom() <= h+eps && r.W >= 0 && r.H >= 0
}
