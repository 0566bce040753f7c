package layout

import (
	"testing"
	"unicode/utf8"
)

// 每个字符宽 0.5 倍字号的等宽度量，便于推算期望值。
var monoMeasure = MeasureFunc(func(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
})

func TestFitShrinksUntilWidthFits(t *testing.T) {
	// 10 个字符：65 → 650 宽；max 400 → 需要 ≤ 80 字号... 从 65 开始已满足
	if got := FitText(monoMeasure, "0123456789", 65, 400, 6, 24); got != 65 {
		t.Fatalf("expected start size, got %v", got)
	}
	// 20 个字符：65→650，59→590，53→530，47→470，41→410，35→350 ≤ 400
	if got := FitText(monoMeasure, "01234567890123456789", 65, 400, 6, 24); got != 35 {
		t.Fatalf("expected 35, got %v", got)
	}
}

func TestFitReturnsFloorWhenImpossible(t *testing.T) {
	calls := 0
	m := MeasureFunc(func(text string, size float64) float64 {
		calls++
		return 1e9
	})
	got := FitText(m, "anything", 65, 100, 6, 24)
	if got != 24 {
		t.Fatalf("expected floor 24, got %v", got)
	}
	// (65-24)/6 + 1 = 7
	if calls > 7 {
		t.Fatalf("fitter measured %d times, bound is 7", calls)
	}
}

func TestFitIsIdempotent(t *testing.T) {
	text := "The Lord of the Rings: The Return of the King"
	a := FitText(monoMeasure, text, 88, 900, 4, 40)
	b := FitText(monoMeasure, text, 88, 900, 4, 40)
	if a != b {
		t.Fatalf("not idempotent: %v vs %v", a, b)
	}
}

func TestFitIsMonotonicInLength(t *testing.T) {
	base := "Dune"
	prev := FitText(monoMeasure, base, 88, 600, 4, 30)
	for i := 0; i < 40; i++ {
		base += "x"
		got := FitText(monoMeasure, base, 88, 600, 4, 30)
		if got > prev {
			t.Fatalf("longer text %q got larger size %v > %v", base, got, prev)
		}
		prev = got
	}
}

func TestFitDegenerateInputs(t *testing.T) {
	if got := FitText(monoMeasure, "abc", 20, 10, 0, 12); got != 20 {
		t.Fatalf("zero step should return start, got %v", got)
	}
	if got := FitText(monoMeasure, "abc", 10, 10, 2, 12); got != 12 {
		t.Fatalf("start below min should clamp to min, got %v", got)
	}
	if got := FitText(nil, "abc", 30, 10, 2, 12); got != 30 {
		t.Fatalf("nil measurer should return start, got %v", got)
	}
}
