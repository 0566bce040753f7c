package layout

import (
	"math"
	"testing"
)

// TestPtPxRoundTrip 验证 pt↔px 换算的往返精度（允许极小的浮点误差）。
func TestPtPxRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, px := range samples {
		back := FontPt(px) * PtToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%g back=%g diff=%g", px, back, diff)
		}
	}
}

// TestFractionOffset 覆盖从起点与从终点量起的两种定位。
func TestFractionOffset(t *testing.T) {
	if got := Start(0.1).Offset(1000, 200); math.Abs(got-100) > 1e-9 {
		t.Fatalf("left 10%% 期望 100，实际 %g", got)
	}
	// right 10%：右边缘距画布右侧 100，元素宽 200 → 起点 700
	if got := End(0.1).Offset(1000, 200); math.Abs(got-700) > 1e-9 {
		t.Fatalf("right 10%% 期望 700，实际 %g", got)
	}
}
