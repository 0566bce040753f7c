package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
)

// PlaceholderScheme 前缀表示直接使用生成的占位图，可带尺寸，如 "placeholder:500x750"。
const PlaceholderScheme = "placeholder:"

// 占位图默认尺寸（2:3 海报）。
const (
	PlaceholderWidth  = 500
	PlaceholderHeight = 750
)

var errEmptyRef = errors.New("图片引用为空")

// Options 配置加载器。
type Options struct {
	Client *http.Client
	// FallbackRef 在主引用失败时使用（通常是本地默认海报）。
	FallbackRef string
	// ImageBaseURL 覆盖 provider 路径的解析前缀，末尾需带 "/"。
	ImageBaseURL string
	MaxBytes     int64
	// OnError 在某个引用加载失败时回调，仅用于记录；失败本身已被回退吸收。
	OnError func(ref string, err error)
}

// Loader 把图片引用解析为位图。Load 永远返回可用的位图，不返回错误。
type Loader struct {
	client   *http.Client
	fallback string
	baseURL  string
	maxBytes int64
	onError  func(string, error)
}

// New 创建加载器；未提供 Client 时使用默认超时的图片 client。
func New(opts Options) (*Loader, error) {
	c := opts.Client
	if c == nil {
		var err error
		if c, err = NewClient(0, ""); err != nil {
			return nil, err
		}
	}
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	base := opts.ImageBaseURL
	if base == "" {
		base = media.ImageBaseURL
	}
	return &Loader{client: c, fallback: opts.FallbackRef, baseURL: base, maxBytes: limit, onError: opts.OnError}, nil
}

// Load 依次尝试 ref、fallbackRef，全部失败时返回生成的占位图。
func (l *Loader) Load(ctx context.Context, ref, fallbackRef string) image.Image {
	return l.load(ctx, ref, fallbackRef, media.BucketW500)
}

func (l *Loader) load(ctx context.Context, ref, fallbackRef string, b media.Bucket) image.Image {
	if ref != "" {
		img, err := l.fetch(ctx, ref, b)
		if err == nil {
			return img
		}
		l.report(ref, err)
	}
	if fallbackRef != "" && fallbackRef != ref {
		img, err := l.fetch(ctx, fallbackRef, b)
		if err == nil {
			return img
		}
		l.report(fallbackRef, err)
	}
	return Placeholder(PlaceholderWidth, PlaceholderHeight)
}

func (l *Loader) report(ref string, err error) {
	if l.onError != nil {
		l.onError(ref, err)
	}
}

// Set 是一次渲染加载到的全部图片，键为 layout.ImageNeed.Key()。
type Set map[string]image.Image

// LoadAll 并行加载 needs；同一次调用内相同的 (ref, bucket) 只加载一次。不跨调用缓存。
func (l *Loader) LoadAll(ctx context.Context, needs []layout.ImageNeed) Set {
	out := make(Set, len(needs))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	seen := make(map[string]bool, len(needs))
	for _, n := range needs {
		key := n.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		wg.Add(1)
		go func(n layout.ImageNeed) {
			defer wg.Done()
			img := l.load(ctx, n.Ref, l.fallback, n.Bucket)
			mu.Lock()
			out[n.Key()] = img
			mu.Unlock()
		}(n)
	}
	wg.Wait()
	return out
}

// Resolve 返回引用实际访问的位置：provider 路径展开为 URL，其它原样返回。
func (l *Loader) Resolve(ref string, b media.Bucket) string {
	if !media.IsProviderPath(ref) {
		return ref
	}
	if b == "" {
		b = media.BucketW500
	}
	return l.baseURL + string(b) + ref
}

func (l *Loader) fetch(ctx context.Context, ref string, b media.Bucket) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, errEmptyRef
	case strings.HasPrefix(ref, PlaceholderScheme):
		w, h := parseSize(strings.TrimPrefix(ref, PlaceholderScheme))
		return Placeholder(w, h), nil
	case media.IsProviderPath(ref):
		return l.fetchURL(ctx, l.Resolve(ref, b))
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetchURL(ctx, ref)
	default:
		return openFile(strings.TrimPrefix(ref, "file://"))
	}
}

func (l *Loader) fetchURL(ctx context.Context, u string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("构造图片请求失败: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载图片失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载图片失败: %s 返回 %d", u, resp.StatusCode)
	}
	img, err := imaging.Decode(io.LimitReader(resp.Body, l.maxBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}
	return img, nil
}

func openFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片失败: %w", err)
	}
	defer f.Close()
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	return img, nil
}

func parseSize(s string) (int, int) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return PlaceholderWidth, PlaceholderHeight
	}
	wi, err1 := strconv.Atoi(w)
	hi, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 || wi > 4000 || hi > 4000 {
		return PlaceholderWidth, PlaceholderHeight
	}
	return wi, hi
}

// Placeholder 生成默认占位图：深灰底色加居中的浅色块，保证绘制区域不为空。
func Placeholder(w, h int) image.Image {
	bg := imaging.New(w, h, color.NRGBA{R: 0x26, G: 0x26, B: 0x2b, A: 0xff})
	mark := imaging.New(max(1, w/3), max(1, h/4), color.NRGBA{R: 0x3f, G: 0x3f, B: 0x46, A: 0xff})
	return imaging.PasteCenter(bg, mark)
}
