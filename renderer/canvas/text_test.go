package canvasrenderer

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// monoMeasure 假设每个字符宽 10 像素。
func monoMeasure(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }

func TestWrapLinesGreedy(t *testing.T) {
	got := wrapLines("the quick brown fox", 100, 0, monoMeasure)
	want := []string{"the quick", "brown fox"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapLines = %q, want %q", got, want)
	}
}

func TestWrapLinesOverlongWordOwnLine(t *testing.T) {
	got := wrapLines("a supercalifragilistic b", 50, 0, monoMeasure)
	want := []string{"a", "supercalifragilistic", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapLines = %q, want %q", got, want)
	}
}

func TestWrapLinesMaxLinesEllipsis(t *testing.T) {
	got := wrapLines("the quick brown fox jumps", 100, 1, monoMeasure)
	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %q", got)
	}
	if got[0] != "the quick…" {
		t.Fatalf("unexpected truncated line %q", got[0])
	}
	if monoMeasure(got[0]) > 100 {
		t.Fatalf("truncated line overflows: %q", got[0])
	}
}

func TestWrapLinesFinalLineFlushed(t *testing.T) {
	got := wrapLines("  Dune  ", 1000, 0, monoMeasure)
	if !reflect.DeepEqual(got, []string{"Dune"}) {
		t.Fatalf("wrapLines = %q", got)
	}
	if got := wrapLines("", 100, 0, monoMeasure); len(got) != 0 {
		t.Fatalf("empty text should produce no lines, got %q", got)
	}
}

func TestWrapLinesCJK(t *testing.T) {
	got := wrapLines("星际穿越", 20, 0, monoMeasure)
	want := []string{"星际", "穿越"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapLines = %q, want %q", got, want)
	}
}

func TestFitLine(t *testing.T) {
	if got := fitLine("short", 100, monoMeasure); got != "short" {
		t.Fatalf("fitLine changed fitting text: %q", got)
	}
	got := fitLine("Science Fiction, Adventure", 100, monoMeasure)
	if monoMeasure(got) > 100 || got[len(got)-len(ellipsis):] != ellipsis {
		t.Fatalf("fitLine = %q", got)
	}
}
