package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/style"
)

// FileName 是工作目录下默认读取的配置文件名。
const FileName = "storycard.json"

const (
	// ErrCodeNotFound 表示 -config 指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	DefaultListen  = ":8080"
	DefaultOutDir  = "output"
	DefaultTimeout = 15 * time.Second
	// DefaultMaxImageMB 是单张图片的下载上限。
	DefaultMaxImageMB = 20
)

// CLIArgs 是命令行可覆盖的字段，*Set 记录是否显式指定，保证 CLI > 配置文件 > 默认值。
type CLIArgs struct {
	// ConfigPath 显式指定配置文件；为空时尝试读取 <cwd>/storycard.json（可选）。
	ConfigPath string

	Listen    string
	ListenSet bool

	OutDir    string
	OutDirSet bool
}

// FileConfig 对应 storycard.json。
type FileConfig struct {
	Listen        string          `json:"listen"`
	OutDir        string          `json:"out_dir"`
	ImageBaseURL  string          `json:"image_base_url"`
	FallbackImage string          `json:"fallback_image"`
	TimeoutSec    int             `json:"timeout_seconds"`
	MaxImageMB    int             `json:"max_image_mb"`
	Proxy         *ProxyConfig    `json:"proxy"`
	Defaults      *StyleDefaults  `json:"defaults"`
	_             json.RawMessage `json:"-"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// StyleDefaults 覆盖新卡片的默认样式。
type StyleDefaults struct {
	Theme      string  `json:"theme"`
	Accent     string  `json:"accent"`
	Font       string  `json:"font"`
	Watermark  *string `json:"watermark"`
	ShowRating *bool   `json:"show_rating"`
}

// EffectiveConfig 是合并、规范化后的最终配置。
type EffectiveConfig struct {
	// ConfigFile 是实际读取的配置文件；未读取时为空。
	ConfigFile string

	Listen string
	OutDir string

	ImageBaseURL  string
	FallbackImage string
	Timeout       time.Duration
	MaxImageBytes int64
	ProxyURL      string

	Theme      string
	Accent     string
	Font       string
	Watermark  *string
	ShowRating bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取配置文件并与 CLI 参数合并。
//
// 发现规则：
// 1) CLI 提供 -config：该文件必须存在
// 2) 否则读取 <cwd>/storycard.json，不存在时全部使用默认值
//
// 相对路径（out_dir、fallback_image）以配置文件所在目录为基准。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	required := false
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		required = true
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		if required {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
		cfgPath = ""
	}

	base := cwdAbs
	if cfgPath != "" {
		base = filepath.Dir(cfgPath)
	}
	return merge(cwdAbs, base, cli, fc, cfgPath)
}

func merge(cwd, base string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	invalid := func(err error) (EffectiveConfig, error) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	listen := DefaultListen
	if cli.ListenSet {
		listen = cli.Listen
	} else if strings.TrimSpace(fc.Listen) != "" {
		listen = strings.TrimSpace(fc.Listen)
	}

	// CLI 的相对路径以 cwd 为基准，配置文件中的以配置文件目录为基准。
	outDir := absCleanFrom(cwd, DefaultOutDir)
	if cli.OutDirSet {
		outDir = absCleanFrom(cwd, cli.OutDir)
	} else if strings.TrimSpace(fc.OutDir) != "" {
		outDir = absCleanFrom(base, fc.OutDir)
	}

	timeout := DefaultTimeout
	if fc.TimeoutSec < 0 {
		return invalid(fmt.Errorf("timeout_seconds 不能为负数：%d", fc.TimeoutSec))
	}
	if fc.TimeoutSec > 0 {
		timeout = time.Duration(fc.TimeoutSec) * time.Second
	}

	maxMB := fc.MaxImageMB
	if maxMB == 0 {
		maxMB = DefaultMaxImageMB
	}
	if maxMB < 1 {
		maxMB = 1
	}
	if maxMB > 100 {
		maxMB = 100
	}

	imageBase := strings.TrimSpace(fc.ImageBaseURL)
	if imageBase != "" {
		u, err := url.Parse(imageBase)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return invalid(fmt.Errorf("image_base_url 必须是 http/https：%q", imageBase))
		}
		if !strings.HasSuffix(imageBase, "/") {
			imageBase += "/"
		}
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return invalid(fmt.Errorf("proxy.url 无效：%w", err))
		}
	}

	fallback := strings.TrimSpace(fc.FallbackImage)
	if fallback != "" && !strings.Contains(fallback, "://") && !strings.HasPrefix(fallback, "placeholder:") {
		fallback = absCleanFrom(base, fallback)
	}

	eff := EffectiveConfig{
		ConfigFile:    cfgPath,
		Listen:        listen,
		OutDir:        outDir,
		ImageBaseURL:  imageBase,
		FallbackImage: fallback,
		Timeout:       timeout,
		MaxImageBytes: int64(maxMB) << 20,
		ProxyURL:      proxyURL,
		ShowRating:    true,
	}
	if d := fc.Defaults; d != nil {
		if d.Theme != "" && d.Theme != "dark" && d.Theme != "light" {
			return invalid(fmt.Errorf("defaults.theme 只能是 dark 或 light，实际是 %q", d.Theme))
		}
		if d.Accent != "" {
			if _, err := style.ParseHex(d.Accent); err != nil {
				return invalid(fmt.Errorf("defaults.accent 无效：%w", err))
			}
		}
		eff.Theme = d.Theme
		eff.Accent = d.Accent
		eff.Font = d.Font
		eff.Watermark = d.Watermark
		if d.ShowRating != nil {
			eff.ShowRating = *d.ShowRating
		}
	}
	return eff, nil
}

// Apply 把默认样式叠加到基础配置上，未设置的字段保持不变。
func (c EffectiveConfig) Apply(base layout.RenderConfig) layout.RenderConfig {
	if c.Theme != "" {
		base = base.WithTheme(c.Theme)
	}
	if c.Accent != "" {
		base = base.WithAccent(c.Accent)
	}
	if c.Font != "" {
		base = base.WithFont(c.Font)
	}
	if c.Watermark != nil {
		base = base.WithWatermark(*c.Watermark)
	}
	return base.WithShowRating(c.ShowRating)
}

// StoryDefaults 返回叠加默认样式后的单卡配置。
func (c EffectiveConfig) StoryDefaults() layout.RenderConfig {
	return c.Apply(layout.DefaultStoryConfig())
}

// MarathonDefaults 返回叠加默认样式后的马拉松配置。
func (c EffectiveConfig) MarathonDefaults() layout.RenderConfig {
	return c.Apply(layout.DefaultMarathonConfig())
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。exists 表示文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
