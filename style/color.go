package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHex 解析 "#rgb"、"#rgba"、"#rrggbb"、"#rrggbbaa"（"#" 可省略）。
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("颜色 %q 无效：需要 3/4/6/8 位十六进制", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色 %q 无效: %w", s, err)
	}
	if len(hex) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex 解析失败时返回 fallback，供渲染路径使用。
func Hex(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// MustHex 只用于包内常量表。
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha 替换 alpha 通道（与 CSS 中 `${color}ee` 的写法等价）。
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Opacity 按 0..1 的不透明度缩放 alpha。
func Opacity(c color.NRGBA, o float64) color.NRGBA {
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	c.A = uint8(float64(c.A)*o + 0.5)
	return c
}

// ToHex 输出 "#rrggbb"，alpha 不为 0xff 时输出 "#rrggbbaa"。
func ToHex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
