package compose

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/loader"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/renderer"
)

// ImageLoader 批量加载图片；实现必须永远返回可用位图（失败时为占位图）。
type ImageLoader interface {
	LoadAll(ctx context.Context, needs []layout.ImageNeed) loader.Set
}

// Result 是一次完成的合成。
type Result struct {
	Image      *image.RGBA
	Kind       layout.Kind
	Config     layout.RenderConfig
	Story      media.Item
	Items      []media.MarathonItem
	Generation uint64
}

// Orchestrator 串联 校验 → 并行加载图片 → 同步绘制。
// 同一时刻只有最新一次合成有效：较早的调用在完成时发现已被取代，返回 ErrSuperseded。
type Orchestrator struct {
	loader ImageLoader
	render renderer.Renderer
	obs    Observer

	gen     atomic.Uint64
	loading atomic.Bool
	closed  atomic.Bool
}

// New 创建编排器；obs 可为 nil。
func New(l ImageLoader, r renderer.Renderer, obs Observer) *Orchestrator {
	return &Orchestrator{loader: l, render: r, obs: obs}
}

// Loading 报告最新一次合成是否仍在进行。
func (o *Orchestrator) Loading() bool { return o.loading.Load() }

// Close 放弃进行中的合成：之后完成的结果全部丢弃，新的调用返回 ErrClosed。
func (o *Orchestrator) Close() {
	o.closed.Store(true)
	o.loading.Store(false)
}

// ComposeStory 合成单卡。版式必须属于单卡族。
func (o *Orchestrator) ComposeStory(ctx context.Context, item media.Item, cfg layout.RenderConfig) (*Result, error) {
	k, err := layout.ParseKind(layout.FamilySingle, cfg.Layout)
	if err != nil {
		return nil, usage("compose story", err)
	}
	size, err := layout.ParseSize(string(cfg.Size))
	if err != nil {
		return nil, usage("compose story", err)
	}
	cfg = cfg.Clone().WithSize(size)
	return o.compose(ctx, k, cfg, item, nil)
}

// ComposeMarathon 合成马拉松卡片。条目数量必须在 2..6 之间，按 Order 稳定排序并重新编号为 1..N 后绘制。
func (o *Orchestrator) ComposeMarathon(ctx context.Context, items []media.MarathonItem, cfg layout.RenderConfig) (*Result, error) {
	const op = "compose marathon"
	switch n := len(items); {
	case n == 0:
		return nil, usage(op, ErrNoItems)
	case n < layout.MinItems:
		return nil, usage(op, fmt.Errorf("%w: %d < %d", ErrTooFewItems, n, layout.MinItems))
	case n > layout.MaxItems:
		return nil, usage(op, fmt.Errorf("%w: %d > %d", ErrTooManyItems, n, layout.MaxItems))
	}
	k, err := layout.ParseKind(layout.FamilyMarathon, cfg.Layout)
	if err != nil {
		return nil, usage(op, err)
	}
	size, err := layout.ParseSize(string(cfg.Size))
	if err != nil {
		return nil, usage(op, err)
	}
	// 自定义评分只对单卡生效
	cfg = cfg.Clone().WithSize(size)
	cfg.CustomRating = nil
	return o.compose(ctx, k, cfg, media.Item{}, media.Renumber(items))
}

func (o *Orchestrator) compose(ctx context.Context, k layout.Kind, cfg layout.RenderConfig, story media.Item, items []media.MarathonItem) (*Result, error) {
	if o.closed.Load() {
		return nil, ErrClosed
	}
	gen := o.gen.Add(1)
	o.loading.Store(true)
	o.notify(gen, StateLoadingImages, nil)

	w, h := layout.Dimensions(k, cfg.Size)
	scene := &layout.Scene{Kind: k, Config: cfg, Width: w, Height: h, Story: story, Items: items}
	scene.Images = o.loader.LoadAll(ctx, layout.Needs(k, cfg.Size, story, items))
	if err := o.check(ctx, gen); err != nil {
		return nil, err
	}

	o.notify(gen, StateComposing, nil)
	img, err := o.render.Render(scene)
	if err != nil {
		err = fmt.Errorf("绘制 %s 失败: %w", k, err)
		o.finish(gen)
		o.notify(gen, StateFailed, err)
		return nil, err
	}
	if err := o.check(ctx, gen); err != nil {
		return nil, err
	}
	o.finish(gen)
	o.notify(gen, StateComplete, nil)
	return &Result{Image: img, Kind: k, Config: cfg, Story: story, Items: items, Generation: gen}, nil
}

// check 在每个挂起点之后确认本次合成仍然有效。
func (o *Orchestrator) check(ctx context.Context, gen uint64) error {
	var err error
	switch {
	case o.closed.Load():
		err = ErrClosed
	case ctx.Err() != nil:
		err = ctx.Err()
	case o.gen.Load() != gen:
		err = ErrSuperseded
	default:
		return nil
	}
	o.finish(gen)
	o.notify(gen, StateFailed, err)
	return err
}

// finish 只在 gen 仍是最新一次合成时清除 loading 标记。
func (o *Orchestrator) finish(gen uint64) {
	if o.gen.Load() == gen {
		o.loading.Store(false)
	}
}

func (o *Orchestrator) notify(gen uint64, s State, err error) {
	if o.obs != nil {
		o.obs.OnState(gen, s, err)
	}
}
