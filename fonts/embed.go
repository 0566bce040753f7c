package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// Weight 是卡片上使用的字重档位。
type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
	Black
)

func (w Weight) String() string {
	switch w {
	case Medium:
		return "medium"
	case Bold:
		return "bold"
	case Black:
		return "black"
	default:
		return "regular"
	}
}

// 每个字体 token 对应一组内置 TTF（Go 字体族），按字重取用。
var faces = map[string][4][]byte{
	"default":    {goregular.TTF, gomedium.TTF, gobold.TTF, gobold.TTF},
	"oswald":     {gomedium.TTF, gomedium.TTF, gobold.TTF, gobold.TTF},
	"cinzel":     {gosmallcaps.TTF, gosmallcaps.TTF, gosmallcaps.TTF, gosmallcaps.TTF},
	"bebas-neue": {gobold.TTF, gobold.TTF, gobold.TTF, gobold.TTF},
	"righteous":  {gomedium.TTF, gomedium.TTF, gobold.TTF, gobold.TTF},
	"orbitron":   {gomono.TTF, gomono.TTF, gomonobold.TTF, gomonobold.TTF},
	"caveat":     {goitalic.TTF, goitalic.TTF, gobolditalic.TTF, gobolditalic.TTF},
}

// Load 返回字体 token 在指定字重下的 TTF 字节；未知 token 报错，调用方应回退到 Fallback。
func Load(token string, w Weight) ([]byte, error) {
	set, ok := faces[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %q", token)
	}
	if w < Regular || w > Black {
		w = Regular
	}
	return set[w], nil
}

// Fallback 返回兜底字体。
func Fallback() []byte { return goregular.TTF }
