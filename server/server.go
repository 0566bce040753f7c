package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/storycard/compose"
	"github.com/ByLCY/storycard/export"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/renderer"
	"github.com/ByLCY/storycard/style"
)

// ShareTitleHeader 携带分享载荷的短标题。
const ShareTitleHeader = "X-Share-Title"

// Options 配置 HTTP 服务。
type Options struct {
	Loader           compose.ImageLoader
	Renderer         renderer.Renderer
	StoryDefaults    layout.RenderConfig
	MarathonDefaults layout.RenderConfig
}

// Server 把合成与导出暴露为 HTTP 接口。每个请求使用独立的 Orchestrator，请求之间互不取代。
type Server struct {
	loader   compose.ImageLoader
	render   renderer.Renderer
	story    layout.RenderConfig
	marathon layout.RenderConfig
}

// New 创建服务；未设置默认配置时使用内置默认值。
func New(opts Options) *Server {
	s := &Server{
		loader:   opts.Loader,
		render:   opts.Renderer,
		story:    opts.StoryDefaults,
		marathon: opts.MarathonDefaults,
	}
	if s.story.Layout == "" {
		s.story = layout.DefaultStoryConfig()
	}
	if s.marathon.Layout == "" {
		s.marathon = layout.DefaultMarathonConfig()
	}
	return s
}

// configRequest 是请求中的可选配置，未给出的字段沿用默认值。
type configRequest struct {
	Preset       string   `json:"preset"`
	Size         *string  `json:"size"`
	Layout       *string  `json:"layout"`
	Theme        *string  `json:"theme"`
	Accent       *string  `json:"accent"`
	Font         *string  `json:"font"`
	ShowRating   *bool    `json:"show_rating"`
	CustomRating *float64 `json:"custom_rating"`
	Watermark    *string  `json:"watermark"`
	ShareURL     *string  `json:"share_url"`
}

func (r *configRequest) apply(base layout.RenderConfig, presets []style.Preset) (layout.RenderConfig, error) {
	cfg := base.Clone()
	if r == nil {
		return cfg, nil
	}
	if r.Preset != "" {
		p, ok := style.FindPreset(presets, r.Preset)
		if !ok {
			return cfg, fmt.Errorf("未知预设 %q", r.Preset)
		}
		cfg = cfg.WithLayout(p.Layout).WithAccent(p.Accent)
	}
	if r.Size != nil {
		cfg = cfg.WithSize(layout.Size(*r.Size))
	}
	if r.Layout != nil {
		cfg = cfg.WithLayout(*r.Layout)
	}
	if r.Theme != nil {
		cfg = cfg.WithTheme(*r.Theme)
	}
	if r.Accent != nil {
		cfg = cfg.WithAccent(*r.Accent)
	}
	if r.Font != nil {
		cfg = cfg.WithFont(*r.Font)
	}
	if r.ShowRating != nil {
		cfg = cfg.WithShowRating(*r.ShowRating)
	}
	if r.CustomRating != nil {
		cfg = cfg.WithCustomRating(*r.CustomRating)
	}
	if r.Watermark != nil {
		cfg = cfg.WithWatermark(*r.Watermark)
	}
	if r.ShareURL != nil {
		cfg = cfg.WithShareURL(*r.ShareURL)
	}
	return cfg, nil
}

type storyRequest struct {
	Item   media.Item     `json:"item"`
	Config *configRequest `json:"config"`
}

type marathonRequest struct {
	Items  []media.MarathonItem `json:"items"`
	Config *configRequest       `json:"config"`
}

type shareRequest struct {
	Kind   string               `json:"kind"` // story / marathon
	Item   media.Item           `json:"item"`
	Items  []media.MarathonItem `json:"items"`
	Config *configRequest       `json:"config"`
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type layoutInfo struct {
	ID     string `json:"id"`
	Legacy bool   `json:"legacy,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func layoutsHandler(c *gin.Context) {
	list := func(f layout.Family) []layoutInfo {
		var out []layoutInfo
		for _, k := range layout.KindsOf(f) {
			w, h := layout.Dimensions(k, layout.SizeVertical)
			out = append(out, layoutInfo{ID: k.ID(), Legacy: k.Legacy(), Width: w, Height: h})
		}
		return out
	}
	c.JSON(http.StatusOK, gin.H{
		"story":    list(layout.FamilySingle),
		"marathon": list(layout.FamilyMarathon),
		"sizes":    []layout.Size{layout.SizeVertical, layout.SizeHorizontal},
	})
}

func presetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"story":    style.StoryPresets(),
		"marathon": style.MarathonPresets(),
	})
}

func (s *Server) storyHandler(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.composeStory(c.Request.Context(), req.Item, req.Config)
	if err != nil {
		fail(c, err)
		return
	}
	s.download(c, res)
}

func (s *Server) marathonHandler(c *gin.Context) {
	var req marathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.composeMarathon(c.Request.Context(), req.Items, req.Config)
	if err != nil {
		fail(c, err)
		return
	}
	s.download(c, res)
}

func (s *Server) shareHandler(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		res *compose.Result
		err error
	)
	switch strings.ToLower(req.Kind) {
	case "", "story":
		res, err = s.composeStory(c.Request.Context(), req.Item, req.Config)
	case "marathon":
		res, err = s.composeMarathon(c.Request.Context(), req.Items, req.Config)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("未知分享类型 %q", req.Kind)})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	data, err := export.New(nil, nil).ExportFor(ctx, res.Image, res.Kind, res.Config.Size)
	if err != nil {
		fail(c, err)
		return
	}
	e := export.New(responseSink{c: c}, responseSharer{c: c})
	if err := e.Share(ctx, data, filename(res), export.ShareTitle(res.Kind, res.Kind.Title(res.Story))); err != nil {
		fail(c, err)
	}
}

func (s *Server) composeStory(ctx context.Context, item media.Item, cr *configRequest) (*compose.Result, error) {
	cfg, err := cr.apply(s.story, style.StoryPresets())
	if err != nil {
		return nil, &compose.UsageError{Op: "story", Err: err}
	}
	return compose.New(s.loader, s.render, nil).ComposeStory(ctx, item, cfg)
}

func (s *Server) composeMarathon(ctx context.Context, items []media.MarathonItem, cr *configRequest) (*compose.Result, error) {
	cfg, err := cr.apply(s.marathon, style.MarathonPresets())
	if err != nil {
		return nil, &compose.UsageError{Op: "marathon", Err: err}
	}
	numbered := true
	for _, it := range items {
		if it.Order > 0 {
			numbered = false
			break
		}
	}
	if numbered {
		for i := range items {
			items[i].Order = i + 1
		}
	}
	return compose.New(s.loader, s.render, nil).ComposeMarathon(ctx, items, cfg)
}

func (s *Server) download(c *gin.Context, res *compose.Result) {
	ctx := c.Request.Context()
	e := export.New(responseSink{c: c}, nil)
	data, err := e.ExportFor(ctx, res.Image, res.Kind, res.Config.Size)
	if err != nil {
		fail(c, err)
		return
	}
	if err := e.Download(ctx, data, filename(res)); err != nil {
		fail(c, err)
	}
}

func filename(res *compose.Result) string {
	return export.Filename(res.Kind, res.Config.Size, res.Kind.Title(res.Story))
}

// fail 把错误映射为状态码：配置错误 400，客户端断开不再回写，其余 500。
func fail(c *gin.Context, err error) {
	switch {
	case compose.IsUsage(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), export.KindOf(err) == export.KindAborted:
		c.Abort()
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": string(export.KindOf(err))})
	}
}

// responseSink 把下载交付为附件响应。
type responseSink struct {
	c *gin.Context
}

func (s responseSink) Save(_ context.Context, p export.Payload) error {
	s.c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Filename))
	s.c.Data(http.StatusOK, p.ContentType, p.Data)
	return nil
}

// responseSharer 把分享载荷内联返回，标题放在响应头中。
type responseSharer struct {
	c *gin.Context
}

func (s responseSharer) CanShare(p export.Payload) bool { return len(p.Data) > 0 }

func (s responseSharer) Share(_ context.Context, p export.Payload) error {
	s.c.Header(ShareTitleHeader, p.Title)
	s.c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", p.Filename))
	s.c.Data(http.StatusOK, p.ContentType, p.Data)
	return nil
}
