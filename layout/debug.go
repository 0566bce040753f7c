package layout

import (
	"encoding/json"
	"os"
)

// DebugTable 记录一次渲染解析出的位置表，便于调试或可视化。
type DebugTable struct {
	Layout      string            `json:"layout"`
	Orientation string            `json:"orientation"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Count       int               `json:"count"`
	Grid        *GridSize         `json:"grid,omitempty"`
	Positions   []Position        `json:"positions,omitempty"`
	Rects       []Rect            `json:"rects"`
	Timeline    *TimelineGeometry `json:"timeline,omitempty"`
	Texts       []string          `json:"texts,omitempty"` // 按绘制顺序记录的文字
}

// Describe 计算版式在给定尺寸与数量下的位置表；单卡版式只记录画布尺寸。
func Describe(k Kind, w, h, count int) DebugTable {
	o := Vertical
	if w > h {
		o = Horizontal
	}
	fw, fh := float64(w), float64(h)
	t := DebugTable{Layout: k.ID(), Orientation: o.String(), Width: w, Height: h, Count: count}
	switch k {
	case Grid:
		g := GridFor(o, count)
		t.Grid = &g
		t.Rects = GridCells(o, count, fw, fh)
	case Collage:
		t.Positions = CollagePositions(o, count)
		for _, p := range t.Positions {
			t.Rects = append(t.Rects, p.Resolve(fw, fh))
		}
	case Ranked:
		t.Rects = RankedSlots(o, count, fw, fh)
	case MarathonMinimal:
		if o == Horizontal {
			g := MinimalGridFor(count)
			t.Grid = &g
		}
		t.Rects = ListSlots(o, count, fw, fh)
	case Timeline:
		tl := TimelineLayout(o, count, fw, fh)
		t.Timeline = &tl
		t.Rects = tl.Cards
	default:
		t.Rects = []Rect{{W: fw, H: fh}}
	}
	return t
}

// WriteDebugJSON 将位置表输出为 JSON。
func WriteDebugJSON(t DebugTable, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
