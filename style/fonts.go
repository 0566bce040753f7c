package style

import "strings"

// Font 描述一个可选字体：token 用于配置，Family 是对外展示的字体族名称。
type Font struct {
	Token  string `json:"id"`
	Label  string `json:"label"`
	Family string `json:"family"`
}

// DefaultFont 是未知字体 token 的回退值。
const DefaultFont = "default"

var fontTable = []Font{
	{Token: "default", Label: "Default", Family: "Inter, sans-serif"},
	{Token: "oswald", Label: "Oswald", Family: "Oswald, sans-serif"},
	{Token: "cinzel", Label: "Cinzel", Family: "Cinzel, serif"},
	{Token: "bebas-neue", Label: "Bebas Neue", Family: "Bebas Neue, sans-serif"},
	{Token: "righteous", Label: "Righteous", Family: "Righteous, sans-serif"},
	{Token: "orbitron", Label: "Orbitron", Family: "Orbitron, sans-serif"},
	{Token: "caveat", Label: "Caveat", Family: "Caveat, cursive"},
}

// Fonts 返回全部可选字体（副本）。
func Fonts() []Font { return append([]Font(nil), fontTable...) }

// LookupFont 按 token 查找字体，大小写不敏感；"inter" 视为 default。
func LookupFont(token string) Font {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "inter" {
		t = DefaultFont
	}
	for _, f := range fontTable {
		if f.Token == t {
			return f
		}
	}
	return fontTable[0]
}
