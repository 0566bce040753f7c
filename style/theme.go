package style

import (
	"image/color"
	"strings"
)

// Theme 是卡片的明暗主题。
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultAccent 是强调色解析失败时使用的颜色。
const DefaultAccent = "#f59e0b"

// ParseTheme 把未知值归为 dark。
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}

// Token 是一次渲染使用的具体样式。每次渲染都重新计算，不做缓存。
type Token struct {
	Theme        Theme
	Background   color.NRGBA
	Text         color.NRGBA
	Accent       color.NRGBA
	OverlayAlpha uint8 // 渐变遮罩中段使用的 alpha
	Font         Font
}

// Overlay 返回带遮罩 alpha 的背景色。
func (t Token) Overlay() color.NRGBA { return WithAlpha(t.Background, t.OverlayAlpha) }

// Muted 返回指定 alpha 的文字色。
func (t Token) Muted(a uint8) color.NRGBA { return WithAlpha(t.Text, a) }

// Resolve 把主题、强调色与字体 token 解析为样式。全函数，不会失败：
// 未知主题按 dark，强调色无法解析时用 DefaultAccent，未知字体回退到 default。
func Resolve(theme, accent, font string) Token {
	th := ParseTheme(theme)
	tok := Token{
		Theme:  th,
		Accent: Hex(accent, MustHex(DefaultAccent)),
		Font:   LookupFont(font),
	}
	if th == ThemeLight {
		tok.Background = MustHex("#ffffff")
		tok.Text = MustHex("#000000")
		tok.OverlayAlpha = 0x99
	} else {
		tok.Background = MustHex("#0a0a0a")
		tok.Text = MustHex("#ffffff")
		tok.OverlayAlpha = 0xee
	}
	return tok
}
