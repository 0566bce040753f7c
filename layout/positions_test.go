package layout

import (
	"math"
	"testing"
)

func frameFor(o Orientation) (float64, float64) {
	if o == Horizontal {
		return 1920, 1080
	}
	return 1080, 1920
}

func TestCollagePositionsCountBoundsAndZ(t *testing.T) {
	for _, o := range []Orientation{Vertical, Horizontal} {
		w, h := frameFor(o)
		for count := MinItems; count <= MaxItems; count++ {
			ps := CollagePositions(o, count)
			if len(ps) != count {
				t.Fatalf("%s/%d: got %d positions", o, count, len(ps))
			}
			seen := map[int]bool{}
			for i, p := range ps {
				rc := p.Resolve(w, h)
				if !rc.Within(w, h) {
					t.Errorf("%s/%d: position %d out of frame: %+v", o, count, i, rc)
				}
				if seen[p.Z] {
					t.Errorf("%s/%d: duplicate z %d", o, count, p.Z)
				}
				seen[p.Z] = true
				if p.Z < 1 || p.Z > count {
					t.Errorf("%s/%d: z %d outside 1..%d", o, count, p.Z, count)
				}
			}
		}
	}
}

func TestCollageKeepsRelativeStacking(t *testing.T) {
	// 竖版 4 张：原始层级 3,2,5,4 → 规整后 2,1,4,3
	ps := CollagePositions(Vertical, 4)
	want := []int{2, 1, 4, 3}
	for i, p := range ps {
		if p.Z != want[i] {
			t.Fatalf("z[%d] = %d, want %d", i, p.Z, want[i])
		}
	}
	order := PaintOrder(ps)
	if order[0] != 1 || order[len(order)-1] != 2 {
		t.Fatalf("unexpected paint order %v", order)
	}
}

func TestCollageDoesNotMutateTables(t *testing.T) {
	_ = CollagePositions(Vertical, 6)
	if collageVerticalBase[1].Z != 2 || collageVerticalBase[7].Z != 2 {
		t.Fatalf("base table mutated")
	}
}

func TestGridForVerticalTwoIsSingleColumn(t *testing.T) {
	g := GridFor(Vertical, 2)
	if g.Cols != 1 || g.Rows != 2 {
		t.Fatalf("GridFor(vertical, 2) = %+v", g)
	}
	cells := GridCells(Vertical, 2, 1080, 1920)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	for i, c := range cells {
		if c.X != 0 || c.W != 1080 {
			t.Fatalf("cell %d should span full width: %+v", i, c)
		}
	}
	if cells[1].Y <= cells[0].Y {
		t.Fatalf("cells must be stacked: %+v", cells)
	}
}

func TestGridTableIsMonotonic(t *testing.T) {
	for _, o := range []Orientation{Vertical, Horizontal} {
		prev := 0
		for count := 1; count <= 12; count++ {
			g := GridFor(o, count)
			if count <= 10 && g.Cells() < count {
				t.Fatalf("%s/%d: %d cells cannot hold all items", o, count, g.Cells())
			}
			if g.Cells() < prev {
				t.Fatalf("%s/%d: cell count decreased from %d to %d", o, count, prev, g.Cells())
			}
			prev = g.Cells()
		}
	}
}

func TestSlotsStayInsideFrame(t *testing.T) {
	for _, o := range []Orientation{Vertical, Horizontal} {
		w, h := frameFor(o)
		for count := MinItems; count <= MaxItems; count++ {
			check := func(name string, rects []Rect) {
				if len(rects) != count {
					t.Fatalf("%s %s/%d: got %d rects", name, o, count, len(rects))
				}
				for i, rc := range rects {
					if !rc.Within(w, h) {
						t.Errorf("%s %s/%d: rect %d out of frame: %+v", name, o, count, i, rc)
					}
				}
			}
			check("grid", GridCells(o, count, w, h))
			check("ranked", RankedSlots(o, count, w, h))
			check("list", ListSlots(o, count, w, h))
			check("timeline", TimelineLayout(o, count, w, h).Cards)
		}
	}
}

func TestRankedHorizontalEmphasisesTopThree(t *testing.T) {
	slots := RankedSlots(Horizontal, 5, 1920, 1080)
	if slots[0].H != slots[2].H {
		t.Fatalf("top three should share height")
	}
	if slots[3].H >= slots[2].H {
		t.Fatalf("fourth slot should be shorter: %v vs %v", slots[3].H, slots[2].H)
	}
	if math.Abs(slots[3].Bottom()-slots[0].Bottom()) > 1e-6 {
		t.Fatalf("slots should be bottom aligned")
	}
}

func TestTimelineAlternatesAroundAxis(t *testing.T) {
	tl := TimelineLayout(Horizontal, 4, 1920, 1080)
	axis := tl.Line.CenterY()
	for i, c := range tl.Cards {
		above := c.Bottom() <= axis
		if (i%2 == 1) != above {
			t.Fatalf("card %d above=%v", i, above)
		}
	}
}

func TestMinimalGridFor(t *testing.T) {
	cases := map[int]GridSize{2: {2, 1}, 3: {3, 1}, 4: {3, 2}, 6: {3, 2}, 7: {5, 2}, 12: {6, 2}}
	for n, want := range cases {
		if got := MinimalGridFor(n); got != want {
			t.Errorf("MinimalGridFor(%d) = %+v, want %+v", n, got, want)
		}
	}
}

func TestDescribeCollage(t *testing.T) {
	d := Describe(Collage, 1920, 1080, 5)
	if d.Orientation != "horizontal" || len(d.Rects) != 5 || len(d.Positions) != 5 {
		t.Fatalf("unexpected debug table: %+v", d)
	}
}
