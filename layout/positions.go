package layout

import (
	"math"
	"sort"
)

// 马拉松版式的位置表。所有坐标都是命名常量表，渲染器只消费结果，不在绘制时计算位置。

const (
	// MinItems / MaxItems 是马拉松条目数量的下限与上限。
	MinItems = 2
	MaxItems = 6
	// PosterAspect 是海报的高宽比（2:3）。
	PosterAspect = 1.5
)

// GridSize 是网格版式的行列数。
type GridSize struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Cells 返回网格单元数。
func (g GridSize) Cells() int { return g.Cols * g.Rows }

type gridStep struct {
	upTo int
	grid GridSize
}

// 按数量递增排列；数量越多单元越多，保证单调。
var (
	verticalGrids = []gridStep{
		{2, GridSize{Cols: 1, Rows: 2}},
		{4, GridSize{Cols: 2, Rows: 2}},
		{6, GridSize{Cols: 2, Rows: 3}},
		{9, GridSize{Cols: 3, Rows: 3}},
	}
	verticalGridMax = GridSize{Cols: 2, Rows: 5}

	horizontalGrids = []gridStep{
		{2, GridSize{Cols: 2, Rows: 1}},
		{4, GridSize{Cols: 4, Rows: 1}},
		{6, GridSize{Cols: 3, Rows: 2}},
		{8, GridSize{Cols: 4, Rows: 2}},
	}
	horizontalGridMax = GridSize{Cols: 5, Rows: 2}
)

// GridFor 按方向与数量查表选择网格。
func GridFor(o Orientation, count int) GridSize {
	steps, max := verticalGrids, verticalGridMax
	if o == Horizontal {
		steps, max = horizontalGrids, horizontalGridMax
	}
	for _, s := range steps {
		if count <= s.upTo {
			return s.grid
		}
	}
	return max
}

// GridGap 是网格单元之间的间距（像素）。
const GridGap = 4.0

// GridCells 返回前 count 个网格单元，按行优先排列，铺满整个画布。
func GridCells(o Orientation, count int, w, h float64) []Rect {
	g := GridFor(o, count)
	cw := (w - GridGap*float64(g.Cols-1)) / float64(g.Cols)
	ch := (h - GridGap*float64(g.Rows-1)) / float64(g.Rows)
	cells := make([]Rect, 0, count)
	for i := 0; i < count && i < g.Cells(); i++ {
		col, row := i%g.Cols, i/g.Cols
		cells = append(cells, Rect{
			X: float64(col) * (cw + GridGap),
			Y: float64(row) * (ch + GridGap),
			W: cw,
			H: ch,
		})
	}
	return cells
}

// Position 是拼贴版式中一张海报的摆放：百分比偏移、宽度比例、旋转角度与叠放层级。
type Position struct {
	Top      Fraction `json:"top"`  // FromEnd 表示 bottom
	Left     Fraction `json:"left"` // FromEnd 表示 right
	Width    float64  `json:"width"`
	Aspect   float64  `json:"aspect"`
	Rotation float64  `json:"rotation"` // 角度，顺时针为正
	Z        int      `json:"z"`
}

// Resolve 把百分比位置解析为画布像素矩形（未旋转）。
func (p Position) Resolve(w, h float64) Rect {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = PosterAspect
	}
	pw := p.Width * w
	ph := pw * aspect
	return Rect{
		X: p.Left.Offset(w, pw),
		Y: p.Top.Offset(h, ph),
		W: pw,
		H: ph,
	}
}

func pos(top float64, left Fraction, width, rot float64, z int) Position {
	return Position{Top: Start(top / 100), Left: left, Width: width / 100, Aspect: PosterAspect, Rotation: rot, Z: z}
}

func fromLeft(v float64) Fraction { return Start(v / 100) }
func fromRight(v float64) Fraction { return End(v / 100) }

var (
	collageVertical2 = []Position{
		pos(15, fromLeft(10), 52, -8, 2),
		pos(22, fromRight(10), 48, 10, 1),
	}
	collageVertical3 = []Position{
		pos(10, fromLeft(8), 46, -10, 1),
		pos(14, fromRight(8), 44, 12, 2),
		pos(28, fromLeft(22), 50, -2, 3),
	}
	collageVerticalBase = []Position{
		pos(2, fromLeft(3), 48, -6, 3),
		pos(5, fromRight(3), 44, 7, 2),
		pos(22, fromLeft(8), 46, 4, 5),
		pos(26, fromRight(5), 42, -5, 4),
		pos(42, fromLeft(5), 44, -3, 6),
		pos(44, fromRight(8), 40, 6, 1),
		pos(10, fromLeft(25), 38, 2, 7),
		pos(32, fromRight(15), 36, -4, 2),
		pos(18, fromLeft(15), 34, 5, 8),
		pos(38, fromLeft(20), 32, -2, 3),
	}

	collageHorizontal2 = []Position{
		pos(18, fromLeft(22), 26, -6, 1),
		pos(22, fromRight(22), 26, 8, 2),
	}
	collageHorizontal3 = []Position{
		pos(15, fromLeft(12), 22, -8, 1),
		pos(12, fromLeft(38), 24, 5, 2),
		pos(18, fromRight(12), 22, -4, 3),
	}
	collageHorizontalBase = []Position{
		pos(5, fromLeft(2), 22, -6, 3),
		pos(8, fromLeft(18), 20, 5, 2),
		pos(2, fromLeft(35), 24, -3, 5),
		pos(6, fromLeft(55), 21, 4, 4),
		pos(4, fromRight(2), 23, -5, 6),
		pos(35, fromLeft(5), 20, 7, 1),
		pos(28, fromLeft(25), 18, -8, 7),
		pos(32, fromLeft(45), 22, 6, 2),
		pos(25, fromRight(22), 19, -4, 8),
		pos(38, fromRight(8), 21, 3, 3),
	}
)

// CollagePositions 返回拼贴版式的摆放表：2、3 张使用手调的居中排列，
// 4–6 张取基础表的前 N 项。返回的 Z 被规整为 1..N 且互不相同（保持原有相对层级）。
func CollagePositions(o Orientation, count int) []Position {
	if count < MinItems {
		count = MinItems
	}
	if count > MaxItems {
		count = MaxItems
	}
	var src []Position
	switch {
	case o == Vertical && count == 2:
		src = collageVertical2
	case o == Vertical && count == 3:
		src = collageVertical3
	case o == Vertical:
		src = collageVerticalBase[:count]
	case count == 2:
		src = collageHorizontal2
	case count == 3:
		src = collageHorizontal3
	default:
		src = collageHorizontalBase[:count]
	}
	out := append([]Position(nil), src...)
	normaliseZ(out)
	return out
}

func normaliseZ(ps []Position) {
	idx := make([]int, len(ps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return ps[idx[a]].Z < ps[idx[b]].Z })
	for rank, i := range idx {
		ps[i].Z = rank + 1
	}
}

// PaintOrder 返回按 Z 从低到高的下标，用于先绘制底层。
func PaintOrder(ps []Position) []int {
	idx := make([]int, len(ps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return ps[idx[a]].Z < ps[idx[b]].Z })
	return idx
}

// band 描述列表类版式的可用区域。
type band struct {
	Top, Bottom, PadX, Gap float64
}

var (
	rankedVertical   = band{Top: 320, Bottom: 80, PadX: 32, Gap: 16}
	rankedHorizontal = band{Top: 180, Bottom: 60, PadX: 48, Gap: 16}

	listVertical   = band{Top: 220, Bottom: 80, PadX: 32, Gap: 0}
	listHorizontal = band{Top: 180, Bottom: 56, PadX: 48, Gap: 24}
)

// RankedTopEmphasis 是横版排行中获得满高度的名次数量，其余为 RankedMinorHeight 比例。
const (
	RankedTopEmphasis = 3
	RankedMinorHeight = 0.88
)

// RankedSlots 返回排行版式每个条目的区域：竖版为自上而下的行，横版为自左向右的列（底部对齐）。
func RankedSlots(o Orientation, count int, w, h float64) []Rect {
	if count <= 0 {
		return nil
	}
	slots := make([]Rect, count)
	if o == Vertical {
		b := rankedVertical
		ih := (h - b.Top - b.Bottom - b.Gap*float64(count-1)) / float64(count)
		for i := range slots {
			slots[i] = Rect{X: b.PadX, Y: b.Top + float64(i)*(ih+b.Gap), W: w - 2*b.PadX, H: ih}
		}
		return slots
	}
	b := rankedHorizontal
	full := h - b.Top - b.Bottom
	iw := (w - 2*b.PadX - b.Gap*float64(count-1)) / float64(count)
	for i := range slots {
		ih := full
		if i >= RankedTopEmphasis {
			ih = full * RankedMinorHeight
		}
		slots[i] = Rect{X: b.PadX + float64(i)*(iw+b.Gap), Y: b.Top + full - ih, W: iw, H: ih}
	}
	return slots
}

// MinimalGridFor 返回横版极简版式的列数与行数。
func MinimalGridFor(count int) GridSize {
	cols := 6
	switch {
	case count <= 3:
		cols = count
	case count <= 6:
		cols = 3
	case count <= 10:
		cols = 5
	}
	if cols < 1 {
		cols = 1
	}
	return GridSize{Cols: cols, Rows: int(math.Ceil(float64(count) / float64(cols)))}
}

// ListSlots 返回极简版式的条目区域：竖版为等高的列表行，横版为自适应网格。
func ListSlots(o Orientation, count int, w, h float64) []Rect {
	if count <= 0 {
		return nil
	}
	slots := make([]Rect, count)
	if o == Vertical {
		b := listVertical
		ih := math.Floor((h - b.Top - b.Bottom) / float64(count))
		for i := range slots {
			slots[i] = Rect{X: b.PadX, Y: b.Top + float64(i)*ih, W: w - 2*b.PadX, H: ih}
		}
		return slots
	}
	b := listHorizontal
	g := MinimalGridFor(count)
	cw := (w - 2*b.PadX - b.Gap*float64(g.Cols-1)) / float64(g.Cols)
	ch := (h - b.Top - b.Bottom - b.Gap*float64(g.Rows-1)) / float64(g.Rows)
	for i := range slots {
		col, row := i%g.Cols, i/g.Cols
		slots[i] = Rect{X: b.PadX + float64(col)*(cw+b.Gap), Y: b.Top + float64(row)*(ch+b.Gap), W: cw, H: ch}
	}
	return slots
}

// TimelineGeometry 是时间线版式的几何：轴线、圆点、连接线与卡片。
type TimelineGeometry struct {
	Line       Rect   `json:"line"`
	Dots       []Rect `json:"dots"`
	Connectors []Rect `json:"connectors,omitempty"`
	Cards      []Rect `json:"cards"`
}

const (
	timelineTop         = 280.0
	timelineBottom      = 100.0
	timelineAxisX       = 110.0
	timelineVerticalDot = 44.0
	timelineCardLeft    = 160.0
	timelineCardRight   = 48.0
	timelineCardFill    = 0.92

	timelineLeftPad      = 420.0
	timelineRightPad     = 80.0
	timelineAxisY        = 540.0
	timelineHorizonDot   = 56.0
	timelineConnector    = 50.0
	timelineBoxMax       = 440.0
	timelineBoxHeight    = 420.0
	timelineBoxInnerPadX = 16.0
)

// TimelineLayout 返回时间线几何。横版中奇数下标的条目位于轴线上方，偶数位于下方。
func TimelineLayout(o Orientation, count int, w, h float64) TimelineGeometry {
	var t TimelineGeometry
	if count <= 0 {
		return t
	}
	if o == Vertical {
		ih := math.Floor((h - timelineTop - timelineBottom) / float64(count))
		t.Line = Rect{X: timelineAxisX - 3, Y: timelineTop - 10, W: 6, H: h - timelineTop + 10}
		for i := 0; i < count; i++ {
			cy := timelineTop + float64(i)*ih + ih/2
			t.Dots = append(t.Dots, Rect{X: timelineAxisX - timelineVerticalDot/2, Y: cy - timelineVerticalDot/2, W: timelineVerticalDot, H: timelineVerticalDot})
			ch := ih * timelineCardFill
			t.Cards = append(t.Cards, Rect{X: timelineCardLeft, Y: cy - ch/2, W: w - timelineCardLeft - timelineCardRight, H: ch})
		}
		return t
	}
	iw := math.Floor((w - timelineLeftPad - timelineRightPad) / float64(count))
	t.Line = Rect{X: timelineLeftPad, Y: timelineAxisY - 3, W: w - timelineLeftPad - timelineRightPad, H: 6}
	bw := math.Min(iw-timelineBoxInnerPadX, timelineBoxMax)
	bh := math.Min(timelineBoxHeight, timelineAxisY-timelineHorizonDot/2-timelineConnector)
	for i := 0; i < count; i++ {
		cx := timelineLeftPad + float64(i)*iw + iw/2
		t.Dots = append(t.Dots, Rect{X: cx - timelineHorizonDot/2, Y: timelineAxisY - timelineHorizonDot/2, W: timelineHorizonDot, H: timelineHorizonDot})
		if i%2 == 1 {
			connY := timelineAxisY - timelineHorizonDot/2 - timelineConnector
			t.Connectors = append(t.Connectors, Rect{X: cx - 2, Y: connY, W: 4, H: timelineConnector})
			t.Cards = append(t.Cards, Rect{X: cx - bw/2, Y: connY - bh, W: bw, H: bh})
		} else {
			connY := timelineAxisY + timelineHorizonDot/2
			t.Connectors = append(t.Connectors, Rect{X: cx - 2, Y: connY, W: 4, H: timelineConnector})
			t.Cards = append(t.Cards, Rect{X: cx - bw/2, Y: connY + timelineConnector, W: bw, H: bh})
		}
	}
	return t
}
