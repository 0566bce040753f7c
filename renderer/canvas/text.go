package canvasrenderer

import (
	"fmt"
	"image/color"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/storycard/fonts"
	"github.com/ByLCY/storycard/layout"
)

const ellipsis = "…"

// Fonts 缓存按 (token, 字重) 加载的字体族。加载失败的组合回退到内嵌的 fallback 字体族。
type Fonts struct {
	mu       sync.Mutex
	families map[fontKey]*canvas.FontFamily
	fallback *canvas.FontFamily
}

type fontKey struct {
	token  string
	weight fonts.Weight
}

// NewFonts 创建字体缓存并加载 fallback 字体族。
func NewFonts() (*Fonts, error) {
	fb := canvas.NewFontFamily("storycard-fallback")
	if err := fb.LoadFont(fonts.Fallback(), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载后备字体失败: %w", err)
	}
	return &Fonts{families: map[fontKey]*canvas.FontFamily{}, fallback: fb}, nil
}

// Preload 加载 token 的全部字重。出错的字重在绘制时使用 fallback，错误仅用于报告。
func (f *Fonts) Preload(token string) error {
	var firstErr error
	for _, w := range []fonts.Weight{fonts.Regular, fonts.Medium, fonts.Bold, fonts.Black} {
		if _, err := f.family(token, w); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *Fonts) family(token string, w fonts.Weight) (*canvas.FontFamily, error) {
	key := fontKey{token: token, weight: w}
	f.mu.Lock()
	defer f.mu.Unlock()
	if fam, ok := f.families[key]; ok {
		if fam == nil {
			return f.fallback, nil
		}
		return fam, nil
	}
	data, err := fonts.Load(token, w)
	if err != nil {
		f.families[key] = nil
		return f.fallback, fmt.Errorf("读取字体 %s/%s 失败: %w", token, w, err)
	}
	fam := canvas.NewFontFamily(token + "-" + w.String())
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		f.families[key] = nil
		return f.fallback, fmt.Errorf("解析字体 %s/%s 失败: %w", token, w, err)
	}
	f.families[key] = fam
	return fam, nil
}

// Face 返回像素字号 px 的字体外观，永不为 nil。
func (f *Fonts) Face(token string, w fonts.Weight, px float64, col color.Color) *canvas.FontFace {
	fam, _ := f.family(token, w)
	return fam.Face(layout.FontPt(px), col, canvas.FontRegular, canvas.FontNormal)
}

// Measurer 返回基于该字体的宽度测量器，供 layout.Fit 使用。
func (f *Fonts) Measurer(token string, w fonts.Weight) layout.Measurer {
	return layout.MeasureFunc(func(text string, px float64) float64 {
		return f.Face(token, w, px, color.Black).TextWidth(text)
	})
}

// tokenize 把文本切成词与空白交替的片段；汉字、假名等逐字成段，以便无空格文本也能折行。
func tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	lastWasSpace := false
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		if r == '\r' || r == '\n' {
			r = ' '
		}
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			flush()
			tokens = append(tokens, string(r))
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if b.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// wrapLines 按测量宽度贪心折行：下一个词放不下时换行，末行总会输出，超长的单词独占一行。
// maxLines > 0 时只保留前 maxLines 行，截断时末行以省略号收尾并缩短到放得下为止。
func wrapLines(text string, maxWidth float64, maxLines int, measure func(string) float64) []string {
	var lines []string
	cur, space := "", false
	for _, tok := range tokenize(text) {
		if isBlank(tok) {
			space = cur != ""
			continue
		}
		cand := cur
		if space {
			cand += " "
		}
		cand += tok
		space = false
		if cur != "" && maxWidth > 0 && measure(cand) > maxWidth {
			lines = append(lines, cur)
			cur = tok
			continue
		}
		cur = cand
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	rest := strings.Join(lines[maxLines-1:], " ")
	lines = lines[:maxLines]
	lines[maxLines-1] = truncate(rest, maxWidth, measure)
	return lines
}

// truncate 逐字缩短 s 直到 s+省略号不超过 maxWidth。
func truncate(s string, maxWidth float64, measure func(string) float64) string {
	runes := []rune(s)
	for len(runes) > 0 {
		cand := strings.TrimRightFunc(string(runes), unicode.IsSpace) + ellipsis
		if measure(cand) <= maxWidth {
			return cand
		}
		runes = runes[:len(runes)-1]
	}
	return ellipsis
}

// fitLine 在单行放不下时截断为带省略号的文本。
func fitLine(s string, maxWidth float64, measure func(string) float64) string {
	if maxWidth <= 0 || measure(s) <= maxWidth {
		return s
	}
	return truncate(s, maxWidth, measure)
}
