package style

import (
	"image/color"
	"testing"
)

func TestResolveThemes(t *testing.T) {
	dark := Resolve("dark", "#ec4899", "oswald")
	if dark.Background != (color.NRGBA{0x0a, 0x0a, 0x0a, 0xff}) {
		t.Fatalf("dark background = %v", dark.Background)
	}
	if dark.OverlayAlpha != 0xee {
		t.Fatalf("dark overlay alpha = %#x", dark.OverlayAlpha)
	}
	if dark.Accent != (color.NRGBA{0xec, 0x48, 0x99, 0xff}) {
		t.Fatalf("accent = %v", dark.Accent)
	}
	if dark.Font.Token != "oswald" {
		t.Fatalf("font = %q", dark.Font.Token)
	}

	light := Resolve("LIGHT", "#ec4899", "oswald")
	if light.Text != (color.NRGBA{0, 0, 0, 0xff}) || light.OverlayAlpha != 0x99 {
		t.Fatalf("light token = %+v", light)
	}
}

func TestResolveIsTotal(t *testing.T) {
	tok := Resolve("sepia", "not-a-color", "comic-sans")
	if tok.Theme != ThemeDark {
		t.Fatalf("unknown theme should fall back to dark, got %q", tok.Theme)
	}
	if tok.Accent != MustHex(DefaultAccent) {
		t.Fatalf("bad accent should fall back, got %v", tok.Accent)
	}
	if tok.Font.Token != DefaultFont {
		t.Fatalf("unknown font should fall back, got %q", tok.Font.Token)
	}
}

func TestParseHexForms(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#fff":      {0xff, 0xff, 0xff, 0xff},
		"0a0a0a":    {0x0a, 0x0a, 0x0a, 0xff},
		"#0a0a0aee": {0x0a, 0x0a, 0x0a, 0xee},
		"#f008":     {0xff, 0x00, 0x00, 0x88},
	}
	for in, want := range cases {
		got, err := ParseHex(in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseHex(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseHex("#12345"); err == nil {
		t.Fatalf("expected error for 5-digit hex")
	}
	if _, err := ParseHex("#zzzzzz"); err == nil {
		t.Fatalf("expected error for non-hex digits")
	}
}

func TestToHexRoundTrip(t *testing.T) {
	c := MustHex("#60a5fa")
	if got := ToHex(c); got != "#60a5fa" {
		t.Fatalf("ToHex = %q", got)
	}
	if got := ToHex(WithAlpha(c, 0x40)); got != "#60a5fa40" {
		t.Fatalf("ToHex with alpha = %q", got)
	}
}

func TestOpacity(t *testing.T) {
	c := Opacity(MustHex("#ffffff"), 0.5)
	if c.A != 128 {
		t.Fatalf("alpha = %d", c.A)
	}
}

func TestPresets(t *testing.T) {
	p, ok := FindPreset(StoryPresets(), "premiere")
	if !ok || p.Layout != "cinematic" || p.Accent != "#f59e0b" {
		t.Fatalf("Premiere preset = %+v ok=%v", p, ok)
	}
	p, ok = FindPreset(MarathonPresets(), "Top List")
	if !ok || p.Layout != "ranked" {
		t.Fatalf("Top List preset = %+v ok=%v", p, ok)
	}
	if _, ok := FindPreset(MarathonPresets(), "Premiere"); ok {
		t.Fatalf("story preset must not be found among marathon presets")
	}
}

func TestLegacyFallsBackToDark(t *testing.T) {
	if Legacy("unknown").Name != "dark" {
		t.Fatalf("expected dark fallback")
	}
	if Legacy("Halloween").Background != MustHex("#03001c") {
		t.Fatalf("halloween background mismatch")
	}
}
