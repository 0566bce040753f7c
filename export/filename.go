package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/storycard/layout"
)

// MarathonShareTitle 是马拉松分享时的标题。
const MarathonShareTitle = "Movie Marathon"

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug 把标题转换为文件名片段：去重音、小写、去掉非字母数字，空白串替换为 "-"。
func Slug(title string) string {
	folded, _, err := transform.String(foldAccents, title)
	if err != nil {
		folded = title
	}
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingDash = b.Len() > 0
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "story"
	}
	return b.String()
}

// StoryFilename 返回单卡导出文件名：<slug>-<size>-story.png。
func StoryFilename(title string, size layout.Size) string {
	return Slug(title) + "-" + string(size) + "-story.png"
}

// MarathonFilename 返回马拉松导出文件名：movie-marathon-<size>.png。
func MarathonFilename(size layout.Size) string {
	return "movie-marathon-" + string(size) + ".png"
}

// LegacyFilename 返回旧版版式文件名：<slug>.png。
func LegacyFilename(title string) string { return Slug(title) + ".png" }

// Filename 按版式选择文件名规则。
func Filename(k layout.Kind, size layout.Size, title string) string {
	switch {
	case k.Legacy():
		return LegacyFilename(title)
	case k.Family() == layout.FamilyMarathon:
		return MarathonFilename(size)
	default:
		return StoryFilename(title, size)
	}
}

// ShareTitle 返回分享载荷中的短标题。
func ShareTitle(k layout.Kind, title string) string {
	if k.Family() == layout.FamilyMarathon {
		return MarathonShareTitle
	}
	return title + " - Story"
}
