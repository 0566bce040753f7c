package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, c)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func writePNG(t *testing.T, w, h int, c color.NRGBA) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fallback.png")
	if err := os.WriteFile(path, pngBytes(t, w, h, c), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func newLoader(t *testing.T, opts Options) *Loader {
	t.Helper()
	l, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestLoadHTTP(t *testing.T) {
	body := pngBytes(t, 20, 30, color.NRGBA{R: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	l := newLoader(t, Options{Client: srv.Client()})
	img := l.Load(context.Background(), srv.URL+"/poster.png", "")
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 30 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestDefaultClientSetsUserAgent(t *testing.T) {
	var ua atomic.Value
	body := pngBytes(t, 2, 2, color.NRGBA{A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		w.Write(body)
	}))
	defer srv.Close()

	c, err := NewClient(0, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	l := newLoader(t, Options{Client: c})
	l.Load(context.Background(), srv.URL, "")
	got, _ := ua.Load().(string)
	if len(got) < 10 || got[:7] != "Mozilla" {
		t.Fatalf("expected browser user agent, got %q", got)
	}
}

func TestLoadFallsBackOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	fb := writePNG(t, 7, 9, color.NRGBA{G: 255, A: 255})
	l := newLoader(t, Options{Client: srv.Client()})
	img := l.Load(context.Background(), srv.URL+"/missing.jpg", fb)
	if img.Bounds().Dx() != 7 || img.Bounds().Dy() != 9 {
		t.Fatalf("expected fallback image, got bounds %v", img.Bounds())
	}
}

func TestLoadPlaceholderWhenEverythingFails(t *testing.T) {
	var reported int32
	l := newLoader(t, Options{OnError: func(string, error) { atomic.AddInt32(&reported, 1) }})
	img := l.Load(context.Background(), "/nonexistent/dir/poster.jpg", "file:///nonexistent/fallback.png")
	if img == nil {
		t.Fatalf("Load returned nil")
	}
	if img.Bounds().Dx() != PlaceholderWidth || img.Bounds().Dy() != PlaceholderHeight {
		t.Fatalf("expected placeholder, got %v", img.Bounds())
	}
	if atomic.LoadInt32(&reported) != 2 {
		t.Fatalf("expected 2 reported failures, got %d", reported)
	}
}

func TestLoadEmptyRefUsesFallbackDirectly(t *testing.T) {
	fb := writePNG(t, 3, 4, color.NRGBA{B: 255, A: 255})
	l := newLoader(t, Options{})
	img := l.Load(context.Background(), "", fb)
	if img.Bounds().Dx() != 3 {
		t.Fatalf("expected fallback, got %v", img.Bounds())
	}
}

func TestLoadDecodeFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()
	l := newLoader(t, Options{Client: srv.Client()})
	img := l.Load(context.Background(), srv.URL, "placeholder:10x15")
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 15 {
		t.Fatalf("expected sized placeholder, got %v", img.Bounds())
	}
}

func TestPlaceholderIsNotBlank(t *testing.T) {
	img := Placeholder(60, 90)
	b := img.Bounds()
	corner := color.NRGBAModel.Convert(img.At(b.Min.X, b.Min.Y)).(color.NRGBA)
	centre := color.NRGBAModel.Convert(img.At(b.Min.X+30, b.Min.Y+45)).(color.NRGBA)
	if corner.A != 255 || centre.A != 255 {
		t.Fatalf("placeholder must be opaque")
	}
	if corner == centre {
		t.Fatalf("placeholder should have a visible mark")
	}
}

func TestResolveProviderPath(t *testing.T) {
	l := newLoader(t, Options{})
	got := l.Resolve("/abc.jpg", media.BucketW342)
	if got != "https://image.tmdb.org/t/p/w342/abc.jpg" {
		t.Fatalf("Resolve = %q", got)
	}
	if got := l.Resolve("/tmp/poster.jpg", media.BucketW342); got != "/tmp/poster.jpg" {
		t.Fatalf("file path must not be rewritten, got %q", got)
	}
}

func TestLoadAllDedupesAndUsesBuckets(t *testing.T) {
	var hits int32
	var paths []string
	body := pngBytes(t, 4, 6, color.NRGBA{R: 9, A: 255})
	pathCh := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		pathCh <- r.URL.Path
		w.Write(body)
	}))
	defer srv.Close()

	l := newLoader(t, Options{Client: srv.Client(), ImageBaseURL: srv.URL + "/t/p/"})
	needs := []layout.ImageNeed{
		{Ref: "/dune.jpg", Bucket: media.BucketW500},
		{Ref: "/dune.jpg", Bucket: media.BucketW500},
		{Ref: "/dune.jpg", Bucket: media.BucketOriginal},
		{Ref: "", Bucket: media.BucketW500},
	}
	set := l.LoadAll(context.Background(), needs)
	close(pathCh)
	for p := range pathCh {
		paths = append(paths, p)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 requests, got %d (%v)", got, paths)
	}
	if len(set) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(set))
	}
	for _, n := range needs {
		if set[n.Key()] == nil {
			t.Fatalf("missing image for %+v", n)
		}
	}
	var img image.Image = set[needs[0].Key()]
	if img.Bounds().Dx() != 4 {
		t.Fatalf("unexpected image %v", img.Bounds())
	}
}

func TestLoadCanceledContextStillReturnsImage(t *testing.T) {
	body := pngBytes(t, 2, 2, color.NRGBA{A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := newLoader(t, Options{Client: srv.Client()})
	if img := l.Load(ctx, srv.URL, ""); img == nil {
		t.Fatalf("Load must never return nil")
	}
}
