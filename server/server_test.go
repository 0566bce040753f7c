package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/loader"
	canvasrenderer "github.com/ByLCY/storycard/renderer/canvas"
	"github.com/ByLCY/storycard/style"
)

var (
	engineOnce sync.Once
	engine     *gin.Engine
	engineErr  error
)

func testEngine(t *testing.T) *gin.Engine {
	t.Helper()
	engineOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		l, err := loader.New(loader.Options{FallbackRef: "placeholder:200x300"})
		if err != nil {
			engineErr = err
			return
		}
		r, err := canvasrenderer.New()
		if err != nil {
			engineErr = err
			return
		}
		engine = New(Options{Loader: l, Renderer: r}).Engine()
	})
	if engineErr != nil {
		t.Fatalf("engine: %v", engineErr)
	}
	return engine
}

func do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	testEngine(t).ServeHTTP(w, req)
	return w
}

func pngSize(t *testing.T, w *httptest.ResponseRecorder) (int, int) {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q, body = %s", ct, w.Body.String())
	}
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func movies(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{"id": string(rune('a' + i)), "title": "Movie", "poster": "placeholder:200x300", "rating": 7.0}
	}
	return out
}

func TestHealthAndCatalog(t *testing.T) {
	w := do(t, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	w = do(t, http.MethodGet, "/api/layouts", nil)
	var layouts struct {
		Story    []layoutInfo `json:"story"`
		Marathon []layoutInfo `json:"marathon"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &layouts); err != nil {
		t.Fatalf("layouts: %v", err)
	}
	if len(layouts.Story) != 8 || len(layouts.Marathon) != 5 {
		t.Fatalf("layouts = %d story, %d marathon", len(layouts.Story), len(layouts.Marathon))
	}
	if last := layouts.Marathon[4]; last.ID != "minimal" {
		t.Fatalf("marathon minimal id = %q", last.ID)
	}

	w = do(t, http.MethodGet, "/api/presets", nil)
	var presets struct {
		Story    []map[string]string `json:"story"`
		Marathon []map[string]string `json:"marathon"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &presets); err != nil {
		t.Fatalf("presets: %v", err)
	}
	if len(presets.Story) != 6 || len(presets.Marathon) != 5 {
		t.Fatalf("presets = %d story, %d marathon", len(presets.Story), len(presets.Marathon))
	}
}

func TestStoryDownload(t *testing.T) {
	w := do(t, http.MethodPost, "/api/story", map[string]any{
		"item":   map[string]any{"title": "Dune", "year": "2021", "poster": "placeholder:200x300", "rating": 7.8},
		"config": map[string]any{"preset": "Duality"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "dune-vertical-story.png") || !strings.HasPrefix(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	if gotW, gotH := pngSize(t, w); gotW != 1080 || gotH != 1920 {
		t.Fatalf("size = %dx%d", gotW, gotH)
	}
}

func TestLegacyStoryUsesOriginalName(t *testing.T) {
	w := do(t, http.MethodPost, "/api/story", map[string]any{
		"item":   map[string]any{"title": "Money Heist", "original_name": "La casa de papel", "poster": "placeholder:200x300"},
		"config": map[string]any{"layout": "story"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "la-casa-de-papel.png") {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestLegacyTwitterSize(t *testing.T) {
	w := do(t, http.MethodPost, "/api/story", map[string]any{
		"item":   map[string]any{"title": "The Matrix", "poster": "placeholder:200x300", "rating": 8.7},
		"config": map[string]any{"layout": "twitter", "theme": "halloween"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "the-matrix.png") {
		t.Fatalf("content disposition = %q", cd)
	}
	if gotW, gotH := pngSize(t, w); gotW != 1200 || gotH != 674 {
		t.Fatalf("size = %dx%d", gotW, gotH)
	}
}

func TestStoryRejectsMarathonLayout(t *testing.T) {
	w := do(t, http.MethodPost, "/api/story", map[string]any{
		"item":   map[string]any{"title": "Dune"},
		"config": map[string]any{"layout": "grid"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBadJSON(t *testing.T) {
	w := do(t, http.MethodPost, "/api/story", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMarathonDownload(t *testing.T) {
	w := do(t, http.MethodPost, "/api/marathon", map[string]any{
		"items":  movies(2),
		"config": map[string]any{"size": "horizontal", "layout": "grid"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "movie-marathon-horizontal.png") {
		t.Fatalf("content disposition = %q", cd)
	}
	if gotW, gotH := pngSize(t, w); gotW != 1920 || gotH != 1080 {
		t.Fatalf("size = %dx%d", gotW, gotH)
	}
}

func TestMarathonCountLimits(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		w := do(t, http.MethodPost, "/api/marathon", map[string]any{"items": movies(n)})
		if w.Code != http.StatusBadRequest {
			t.Errorf("%d items: status = %d, want 400", n, w.Code)
		}
	}
}

func TestShareMarathon(t *testing.T) {
	w := do(t, http.MethodPost, "/api/share", map[string]any{
		"kind":   "marathon",
		"items":  movies(3),
		"config": map[string]any{"preset": "Clean"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get(ShareTitleHeader); got != "Movie Marathon" {
		t.Fatalf("share title = %q", got)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Fatalf("content disposition = %q", cd)
	}
	pngSize(t, w)

	w = do(t, http.MethodPost, "/api/share", map[string]any{"kind": "poster"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind status = %d", w.Code)
	}
}

func TestConfigRequestApply(t *testing.T) {
	size, accent := "horizontal", "#ffffff"
	cr := &configRequest{Preset: "Noir", Size: &size, Accent: &accent}
	base := New(Options{}).story
	cfg, err := cr.apply(base, style.StoryPresets())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != "minimal" || cfg.Accent != "#ffffff" || cfg.Size != layout.SizeHorizontal {
		t.Fatalf("cfg = %+v", cfg)
	}
	if base.Size != layout.SizeVertical {
		t.Fatal("defaults were mutated")
	}

	var nilReq *configRequest
	if got, err := nilReq.apply(base, nil); err != nil || got.Layout != base.Layout {
		t.Fatalf("nil request should keep defaults: %+v %v", got, err)
	}
	if _, err := (&configRequest{Preset: "Premiere"}).apply(base, style.MarathonPresets()); err == nil {
		t.Fatal("story preset should not resolve for marathons")
	}
}
