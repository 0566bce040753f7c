package compose

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/loader"
	"github.com/ByLCY/storycard/media"
	canvasrenderer "github.com/ByLCY/storycard/renderer/canvas"
)

// stubLoader 为每个需求返回纯色图；gate 非 nil 时第一次调用会阻塞直到 gate 关闭。
type stubLoader struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	gate    chan struct{}
	needs   [][]layout.ImageNeed
}

func (s *stubLoader) LoadAll(ctx context.Context, needs []layout.ImageNeed) loader.Set {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.needs = append(s.needs, needs)
	s.mu.Unlock()
	if first && s.gate != nil {
		close(s.entered)
		<-s.gate
	}
	out := loader.Set{}
	for _, n := range needs {
		if n.Ref == "" {
			out[n.Key()] = loader.Placeholder(50, 75)
			continue
		}
		out[n.Key()] = imaging.New(50, 75, color.NRGBA{R: 200, A: 255})
	}
	return out
}

// stubRenderer 只生成正确尺寸的位图并记录场景。
type stubRenderer struct {
	mu     sync.Mutex
	scenes []*layout.Scene
}

func (s *stubRenderer) Render(sc *layout.Scene) (*image.RGBA, error) {
	s.mu.Lock()
	s.scenes = append(s.scenes, sc)
	s.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, sc.Width, sc.Height)), nil
}

func items(n int) []media.MarathonItem {
	list := make([]media.Item, n)
	for i := range list {
		list[i] = media.Item{Title: "Film", Year: "2000", PosterRef: "/p.jpg", Rating: 7}
	}
	return media.Number(list)
}

func TestComposeMarathonRejectsSevenItems(t *testing.T) {
	l := &stubLoader{}
	o := New(l, &stubRenderer{}, nil)
	_, err := o.ComposeMarathon(context.Background(), items(7), layout.DefaultMarathonConfig())
	if !errors.Is(err, ErrTooManyItems) || !IsUsage(err) {
		t.Fatalf("err = %v, want usage error wrapping ErrTooManyItems", err)
	}
	if l.calls != 0 {
		t.Fatalf("no images should be loaded for rejected input")
	}
}

func TestComposeMarathonRejectsTooFewAndEmpty(t *testing.T) {
	o := New(&stubLoader{}, &stubRenderer{}, nil)
	if _, err := o.ComposeMarathon(context.Background(), items(1), layout.DefaultMarathonConfig()); !errors.Is(err, ErrTooFewItems) {
		t.Fatalf("err = %v, want ErrTooFewItems", err)
	}
	if _, err := o.ComposeMarathon(context.Background(), nil, layout.DefaultMarathonConfig()); !errors.Is(err, ErrNoItems) {
		t.Fatalf("err = %v, want ErrNoItems", err)
	}
}

func TestComposeFamilyMismatch(t *testing.T) {
	o := New(&stubLoader{}, &stubRenderer{}, nil)
	_, err := o.ComposeStory(context.Background(), media.Item{Title: "Dune"}, layout.DefaultStoryConfig().WithLayout("grid"))
	if !errors.Is(err, layout.ErrLayoutFamily) || !IsUsage(err) {
		t.Fatalf("err = %v, want family usage error", err)
	}
	_, err = o.ComposeMarathon(context.Background(), items(3), layout.DefaultMarathonConfig().WithLayout("cinematic"))
	if !errors.Is(err, layout.ErrLayoutFamily) {
		t.Fatalf("err = %v, want ErrLayoutFamily", err)
	}
	_, err = o.ComposeStory(context.Background(), media.Item{}, layout.DefaultStoryConfig().WithLayout("poster-wall"))
	if !errors.Is(err, layout.ErrUnknownLayout) {
		t.Fatalf("err = %v, want ErrUnknownLayout", err)
	}
}

func TestComposeMarathonMinimalResolvesPerFamily(t *testing.T) {
	r := &stubRenderer{}
	o := New(&stubLoader{}, r, nil)
	res, err := o.ComposeMarathon(context.Background(), items(3), layout.DefaultMarathonConfig().WithLayout("minimal"))
	if err != nil {
		t.Fatalf("ComposeMarathon: %v", err)
	}
	if res.Kind != layout.MarathonMinimal {
		t.Fatalf("kind = %s, want marathon-minimal", res.Kind)
	}
}

func TestComposeMarathonSortsByOrder(t *testing.T) {
	r := &stubRenderer{}
	o := New(&stubLoader{}, r, nil)
	list := items(3)
	list[0].Order, list[2].Order = 3, 1
	if _, err := o.ComposeMarathon(context.Background(), list, layout.DefaultMarathonConfig()); err != nil {
		t.Fatalf("ComposeMarathon: %v", err)
	}
	got := r.scenes[0].Items
	for i := range got {
		if got[i].Order != i+1 {
			t.Fatalf("items not in order: %+v", got)
		}
	}
}

func TestComposeMarathonBadgesArePositions(t *testing.T) {
	r := &stubRenderer{}
	o := New(&stubLoader{}, r, nil)
	list := items(3)
	list[0].Title, list[0].Order = "Late", 9
	list[1].Title, list[1].Order = "First", 4
	list[2].Title, list[2].Order = "Second", 4
	res, err := o.ComposeMarathon(context.Background(), list, layout.DefaultMarathonConfig())
	if err != nil {
		t.Fatalf("ComposeMarathon: %v", err)
	}
	want := []string{"First", "Second", "Late"}
	for i, it := range r.scenes[0].Items {
		if it.Order != i+1 || it.Title != want[i] {
			t.Fatalf("item %d = %s/%d, want %s/%d", i, it.Title, it.Order, want[i], i+1)
		}
	}
	if res.Items[2].Order != 3 {
		t.Fatalf("result items carry order %d, want 3", res.Items[2].Order)
	}
	if list[0].Order != 9 {
		t.Fatalf("caller slice must not be mutated")
	}
}

func TestComposeStoryStatesAndSize(t *testing.T) {
	var mu sync.Mutex
	var states []State
	obs := ObserverFunc(func(_ uint64, s State, _ error) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	o := New(&stubLoader{}, &stubRenderer{}, obs)
	res, err := o.ComposeStory(context.Background(), media.Item{Title: "Dune"}, layout.DefaultStoryConfig().WithSize(layout.SizeHorizontal))
	if err != nil {
		t.Fatalf("ComposeStory: %v", err)
	}
	if b := res.Image.Bounds(); b.Dx() != 1920 || b.Dy() != 1080 {
		t.Fatalf("size = %v, want 1920x1080", b)
	}
	want := []State{StateLoadingImages, StateComposing, StateComplete}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
	if o.Loading() {
		t.Fatalf("Loading should be false after completion")
	}
}

func TestNewerComposeSupersedesOlder(t *testing.T) {
	l := &stubLoader{entered: make(chan struct{}), gate: make(chan struct{})}
	o := New(l, &stubRenderer{}, nil)

	type outcome struct {
		res *Result
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := o.ComposeStory(context.Background(), media.Item{Title: "Old"}, layout.DefaultStoryConfig())
		first <- outcome{res, err}
	}()
	<-l.entered
	if !o.Loading() {
		t.Fatalf("Loading should be true while images load")
	}

	res, err := o.ComposeStory(context.Background(), media.Item{Title: "New"}, layout.DefaultStoryConfig().WithLayout("modern"))
	if err != nil {
		t.Fatalf("second compose: %v", err)
	}
	close(l.gate)

	select {
	case out := <-first:
		if !errors.Is(out.err, ErrSuperseded) || out.res != nil {
			t.Fatalf("first compose = (%v, %v), want ErrSuperseded", out.res, out.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("first compose did not return")
	}
	if res.Generation <= 1 || res.Story.Title != "New" {
		t.Fatalf("unexpected latest result %+v", res)
	}
}

func TestCloseDiscardsInFlight(t *testing.T) {
	l := &stubLoader{entered: make(chan struct{}), gate: make(chan struct{})}
	r := &stubRenderer{}
	o := New(l, r, nil)
	done := make(chan error, 1)
	go func() {
		_, err := o.ComposeStory(context.Background(), media.Item{Title: "Dune"}, layout.DefaultStoryConfig())
		done <- err
	}()
	<-l.entered
	o.Close()
	close(l.gate)
	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if len(r.scenes) != 0 {
		t.Fatalf("no drawing should happen after Close")
	}
	if _, err := o.ComposeStory(context.Background(), media.Item{}, layout.DefaultStoryConfig()); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestCanceledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := New(&stubLoader{}, &stubRenderer{}, nil)
	if _, err := o.ComposeStory(ctx, media.Item{}, layout.DefaultStoryConfig()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCustomRatingDroppedForMarathon(t *testing.T) {
	r := &stubRenderer{}
	o := New(&stubLoader{}, r, nil)
	cfg := layout.DefaultMarathonConfig().WithCustomRating(9)
	if _, err := o.ComposeMarathon(context.Background(), items(2), cfg); err != nil {
		t.Fatalf("ComposeMarathon: %v", err)
	}
	if r.scenes[0].Config.CustomRating != nil {
		t.Fatalf("custom rating must not reach marathon scenes")
	}
}

// 以下用例走真实的 canvas 渲染器。

func canvasOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	r, err := canvasrenderer.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return New(&stubLoader{}, r, nil)
}

func TestDuneCinematicVertical(t *testing.T) {
	r, err := canvasrenderer.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	var mu sync.Mutex
	var texts []string
	r.Trace = func(s string) {
		mu.Lock()
		texts = append(texts, s)
		mu.Unlock()
	}
	o := New(&stubLoader{}, r, nil)
	cfg := layout.DefaultStoryConfig().WithLayout("cinematic").WithShowRating(true)

	for _, rating := range []float64{8.0, 7.8} {
		texts = nil
		dune := media.Item{Title: "Dune", Year: "2021", Genres: []string{"Sci-Fi", "Adventure"}, PosterRef: "/dune.jpg", BackdropRef: "/dune-bg.jpg", Rating: rating}
		res, err := o.ComposeStory(context.Background(), dune, cfg)
		if err != nil {
			t.Fatalf("ComposeStory(%v): %v", rating, err)
		}
		if b := res.Image.Bounds(); b.Dx() != 1080 || b.Dy() != 1920 {
			t.Fatalf("size = %v, want 1080x1920", b)
		}
		drawn := map[string]bool{}
		for _, s := range texts {
			drawn[s] = true
		}
		for _, want := range []string{"Dune", "2021", "8"} {
			if !drawn[want] {
				t.Fatalf("rating %v: %q not drawn; texts = %q", rating, want, texts)
			}
		}
		if drawn["8.0"] || drawn["7.8"] {
			t.Fatalf("rating %v: raw rating drawn; texts = %q", rating, texts)
		}
	}
}

func TestNilPosterFallbackIsNotBlank(t *testing.T) {
	o := canvasOrchestrator(t)
	res, err := o.ComposeStory(context.Background(), media.Item{Title: "Unknown Film"}, layout.DefaultStoryConfig().WithLayout("split"))
	if err != nil {
		t.Fatalf("ComposeStory: %v", err)
	}
	img := res.Image
	// 左侧 45% 为海报区域：占位图不是全透明，也不是单一颜色
	seen := map[color.RGBA]bool{}
	for y := 100; y < 1800; y += 50 {
		for x := 20; x < 460; x += 40 {
			c := img.RGBAAt(x, y)
			if c.A == 0 {
				t.Fatalf("transparent pixel at (%d,%d)", x, y)
			}
			seen[c] = true
		}
	}
	if len(seen) < 2 {
		t.Fatalf("poster region is a single flat colour")
	}
}

func TestTwoItemVerticalGridRenders(t *testing.T) {
	o := canvasOrchestrator(t)
	res, err := o.ComposeMarathon(context.Background(), items(2), layout.DefaultMarathonConfig())
	if err != nil {
		t.Fatalf("ComposeMarathon: %v", err)
	}
	if g := layout.GridFor(layout.Vertical, 2); g.Cols != 1 || g.Rows != 2 {
		t.Fatalf("grid = %+v, want 1x2", g)
	}
	if b := res.Image.Bounds(); b.Dx() != 1080 || b.Dy() != 1920 {
		t.Fatalf("size = %v", b)
	}
}
