package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ByLCY/storycard/compose"
	"github.com/ByLCY/storycard/config"
	"github.com/ByLCY/storycard/dsl"
	"github.com/ByLCY/storycard/export"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/loader"
	"github.com/ByLCY/storycard/renderer"
	canvasrenderer "github.com/ByLCY/storycard/renderer/canvas"
	"github.com/ByLCY/storycard/server"
)

type options struct {
	input     string
	outDir    string
	outSet    bool
	data      string
	cfgPath   string
	serve     bool
	listen    string
	listenSet bool
	debugDir  string
}

func main() {
	input := flag.String("in", "examples/weekend.cards", "卡片配方文件路径")
	output := flag.String("out", "", "PNG 输出目录（覆盖配置文件 out_dir）")
	dataJSON := flag.String("data", "", "绑定到配方的 JSON 数据；以 @ 开头时从文件读取")
	cfgPath := flag.String("config", "", "配置文件路径（默认读取当前目录下的 storycard.json）")
	serve := flag.Bool("serve", false, "启动 HTTP 服务而不是渲染配方")
	listen := flag.String("listen", "", "HTTP 监听地址（覆盖配置文件 listen）")
	debug := flag.String("debug", "", "位置表调试 JSON 输出目录")
	flag.Parse()

	opts := options{
		input:    *input,
		outDir:   *output,
		data:     *dataJSON,
		cfgPath:  *cfgPath,
		serve:    *serve,
		listen:   *listen,
		debugDir: *debug,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			opts.outSet = true
		case "listen":
			opts.listenSet = true
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("storycard: %v", err)
	}
}

// run 串联配置、加载器、渲染器，然后渲染配方或启动服务。
func run(ctx context.Context, opts options) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		ConfigPath: opts.cfgPath,
		Listen:     opts.listen,
		ListenSet:  opts.listenSet,
		OutDir:     opts.outDir,
		OutDirSet:  opts.outSet,
	})
	if err != nil {
		return err
	}
	if eff.ConfigFile != "" {
		log.Printf("使用配置文件 %s", eff.ConfigFile)
	}

	client, err := loader.NewClient(eff.Timeout, eff.ProxyURL)
	if err != nil {
		return fmt.Errorf("创建图片 client 失败: %w", err)
	}
	l, err := loader.New(loader.Options{
		Client:       client,
		FallbackRef:  eff.FallbackImage,
		ImageBaseURL: eff.ImageBaseURL,
		MaxBytes:     eff.MaxImageBytes,
		OnError: func(ref string, err error) {
			log.Printf("图片加载失败，使用回退图: %s: %v", ref, err)
		},
	})
	if err != nil {
		return fmt.Errorf("创建图片加载器失败: %w", err)
	}
	r, err := canvasrenderer.New()
	if err != nil {
		return fmt.Errorf("初始化渲染器失败: %w", err)
	}

	if opts.serve {
		return serveHTTP(ctx, eff, l, r)
	}
	return renderRecipes(ctx, opts, eff, l, r)
}

func serveHTTP(ctx context.Context, eff config.EffectiveConfig, l *loader.Loader, r renderer.Renderer) error {
	s := server.New(server.Options{
		Loader:           l,
		Renderer:         r,
		StoryDefaults:    eff.StoryDefaults(),
		MarathonDefaults: eff.MarathonDefaults(),
	})
	srv := &http.Server{Addr: eff.Listen, Handler: s.Engine()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	log.Printf("starting server on %s", eff.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func renderRecipes(ctx context.Context, opts options, eff config.EffectiveConfig, l *loader.Loader, r renderer.Renderer) error {
	data, err := readData(opts.data)
	if err != nil {
		return err
	}
	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开配方文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析配方失败: %w", err)
	}
	recipes, err := dsl.CompileWith(doc, data, dsl.Defaults{
		Story:    eff.StoryDefaults(),
		Marathon: eff.MarathonDefaults(),
	})
	if err != nil {
		return fmt.Errorf("编译配方失败: %w", err)
	}

	orch := compose.New(l, r, compose.ObserverFunc(func(gen uint64, s compose.State, err error) {
		if err != nil {
			log.Printf("#%d %s: %v", gen, s, err)
		}
	}))
	defer orch.Close()
	exp := export.New(export.DirSink{Dir: eff.OutDir}, nil)

	// -debug 时顺带记录每张卡片绘制的文字
	var texts []string
	if cr, ok := r.(*canvasrenderer.Renderer); ok && opts.debugDir != "" {
		cr.Trace = func(s string) { texts = append(texts, s) }
		defer func() { cr.Trace = nil }()
	}

	for _, rc := range recipes {
		texts = nil
		var res *compose.Result
		if rc.Family == layout.FamilyMarathon {
			res, err = orch.ComposeMarathon(ctx, rc.Items, rc.Config)
		} else {
			res, err = orch.ComposeStory(ctx, rc.Story, rc.Config)
		}
		if err != nil {
			return fmt.Errorf("合成 %s 失败: %w", rc.Name, err)
		}

		w, h := layout.Dimensions(res.Kind, res.Config.Size)
		if opts.debugDir != "" {
			table := layout.Describe(res.Kind, w, h, len(res.Items))
			table.Texts = texts
			if err := writeDebug(opts.debugDir, rc.Name, table); err != nil {
				return err
			}
		}

		png, err := exp.Export(ctx, res.Image, w, h)
		if err != nil {
			return fmt.Errorf("导出 %s 失败: %w", rc.Name, err)
		}
		name := rc.Output
		if name == "" {
			name = export.Filename(res.Kind, res.Config.Size, res.Kind.Title(res.Story))
		}
		if err := exp.Download(ctx, png, name); err != nil {
			return fmt.Errorf("保存 %s 失败: %w", name, err)
		}
		log.Printf("已生成 %s：%s", rc.Name, filepath.Join(eff.OutDir, filepath.Base(name)))
	}
	return nil
}

// readData 解析 -data：JSON 字符串，或 @path 指向的 JSON 文件。
func readData(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		var err error
		if b, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("读取 data 文件失败: %w", err)
		}
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeDebug(dir, name string, t layout.DebugTable) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(t, filepath.Join(dir, name+".json")); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
