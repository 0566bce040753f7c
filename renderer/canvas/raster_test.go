package canvasrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/storycard/layout"
)

func TestRoundCornersMasksOnlyCorners(t *testing.T) {
	img := imaging.New(40, 40, color.NRGBA{R: 255, A: 255})
	roundCorners(img, 10)
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Fatalf("corner pixel alpha = %d, want 0", a)
	}
	if a := img.NRGBAAt(39, 39).A; a != 0 {
		t.Fatalf("bottom-right corner alpha = %d, want 0", a)
	}
	for _, pt := range []image.Point{{20, 20}, {0, 20}, {20, 0}, {39, 20}} {
		if a := img.NRGBAAt(pt.X, pt.Y).A; a != 255 {
			t.Fatalf("pixel %v alpha = %d, want 255", pt, a)
		}
	}
}

func TestRoundCornersZeroRadiusNoop(t *testing.T) {
	img := imaging.New(8, 8, color.NRGBA{G: 255, A: 255})
	roundCorners(img, 0)
	if a := img.NRGBAAt(0, 0).A; a != 255 {
		t.Fatalf("alpha = %d, want 255", a)
	}
}

func TestGradientOverlayToTop(t *testing.T) {
	f, err := NewFrame(4, 100)
	if err != nil {
		t.Fatal(err)
	}
	f.GradientOverlay(layout.Rect{W: 4, H: 100}, ToTop,
		Stop{0, color.NRGBA{A: 255}},
		Stop{1, color.NRGBA{A: 0}},
	)
	img := f.Rasterize()
	if a := img.RGBAAt(1, 99).A; a < 250 {
		t.Fatalf("bottom alpha = %d, want opaque", a)
	}
	if a := img.RGBAAt(1, 0).A; a > 5 {
		t.Fatalf("top alpha = %d, want transparent", a)
	}
	if img.RGBAAt(1, 50).A >= img.RGBAAt(1, 90).A {
		t.Fatalf("alpha should grow towards the bottom")
	}
}

func TestGradientOverlayToRightInsideRect(t *testing.T) {
	f, err := NewFrame(120, 20)
	if err != nil {
		t.Fatal(err)
	}
	f.GradientOverlay(layout.Rect{X: 10, Y: 5, W: 100, H: 10}, ToRight,
		Stop{0, color.NRGBA{R: 255, A: 255}},
		Stop{1, color.NRGBA{B: 255, A: 255}},
	)
	img := f.Rasterize()
	if a := img.RGBAAt(5, 10).A; a != 0 {
		t.Fatalf("outside rect alpha = %d, want 0", a)
	}
	left, right := img.RGBAAt(12, 10), img.RGBAAt(107, 10)
	if left.R < 200 || left.B > 50 {
		t.Fatalf("left edge = %v, want red", left)
	}
	if right.B < 200 || right.R > 50 {
		t.Fatalf("right edge = %v, want blue", right)
	}
}

func TestRadialGlowFadesFromCentre(t *testing.T) {
	f, err := NewFrame(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	f.RadialGlow(layout.Rect{W: 100, H: 100}, 50, 20, 40,
		Stop{0, color.NRGBA{G: 255, A: 255}},
		Stop{1, color.NRGBA{G: 255, A: 0}},
	)
	img := f.Rasterize()
	centre, mid, far := img.RGBAAt(50, 20).A, img.RGBAAt(50, 40).A, img.RGBAAt(50, 90).A
	if centre < 240 {
		t.Fatalf("centre alpha = %d, want near opaque", centre)
	}
	if mid >= centre || mid == 0 {
		t.Fatalf("mid alpha = %d, want between 0 and %d", mid, centre)
	}
	if far != 0 {
		t.Fatalf("alpha beyond radius = %d, want 0", far)
	}
}

func TestFadeScalesAlpha(t *testing.T) {
	img := imaging.New(2, 2, color.NRGBA{B: 255, A: 200})
	fade(img, 0.5)
	if a := img.NRGBAAt(1, 1).A; a != 100 {
		t.Fatalf("alpha = %d, want 100", a)
	}
}

func TestCoverKeepsRequestedSize(t *testing.T) {
	src := imaging.New(300, 100, color.NRGBA{R: 10, A: 255})
	got := cover(src, 80, 120)
	if got.Bounds().Dx() != 80 || got.Bounds().Dy() != 120 {
		t.Fatalf("cover size = %v", got.Bounds())
	}
}
