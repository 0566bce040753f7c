package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/storycard/binding"
	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/media"
	"github.com/ByLCY/storycard/style"
)

// Recipe 是编译后的一张卡片：配置 + 条目，可直接交给合成器。
type Recipe struct {
	Name   string
	Family layout.Family
	Config layout.RenderConfig
	// Output 为空时由导出器按版式命名。
	Output string
	Story  media.Item
	Items  []media.MarathonItem
}

// Defaults 是卡片未写明的配置项所用的基础配置。
type Defaults struct {
	Story    layout.RenderConfig
	Marathon layout.RenderConfig
}

// Compile 使用内置默认配置编译配方。
func Compile(doc *Document, data any) ([]Recipe, error) {
	return CompileWith(doc, data, Defaults{
		Story:    layout.DefaultStoryConfig(),
		Marathon: layout.DefaultMarathonConfig(),
	})
}

// CompileWith 把配方文档与 JSON 数据绑定，得到每张卡片的合成输入。
// 字符串值中的 ${...} 按 data 插值；watermark 保留原样，由渲染时按条目插值。
func CompileWith(doc *Document, data any, defaults Defaults) ([]Recipe, error) {
	if doc == nil {
		return nil, fmt.Errorf("配方为空")
	}
	out := make([]Recipe, 0, len(doc.Cards))
	for _, card := range doc.Cards {
		r, err := compileCard(card, data, defaults)
		if err != nil {
			return nil, fmt.Errorf("%s %s (%s): %w", card.Kind, card.Name, card.Pos, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func compileCard(card *Card, data any, defaults Defaults) (Recipe, error) {
	r := Recipe{Name: card.Name}
	presets := style.StoryPresets()
	if card.Kind == "marathon" {
		r.Family = layout.FamilyMarathon
		r.Config = defaults.Marathon.Clone()
		presets = style.MarathonPresets()
	} else {
		r.Family = layout.FamilySingle
		r.Config = defaults.Story.Clone()
	}
	if card.Block == nil {
		return r, fmt.Errorf("缺少卡片内容")
	}

	// 预设先生效，显式配置再覆盖，与书写顺序无关。
	for _, st := range card.Block.Statements {
		if a := st.Assignment; a != nil && a.Key == "preset" {
			name, err := evalString(a.Value, data)
			if err != nil {
				return r, err
			}
			p, ok := style.FindPreset(presets, name)
			if !ok {
				return r, fmt.Errorf("未知预设 %q", name)
			}
			r.Config = r.Config.WithLayout(p.Layout).WithAccent(p.Accent)
		}
	}

	var items []media.MarathonItem
	for _, st := range card.Block.Statements {
		switch {
		case st.Assignment != nil:
			if err := r.assign(st.Assignment, data); err != nil {
				return r, err
			}
		case st.Command != nil:
			got, err := commandItems(st.Command, data)
			if err != nil {
				return r, err
			}
			items = append(items, got...)
		}
	}

	if r.Family == layout.FamilySingle {
		if len(items) != 1 {
			return r, fmt.Errorf("单卡需要恰好一个 item，实际 %d 个", len(items))
		}
		r.Story = items[0].Item
		return r, nil
	}
	for i := range items {
		if items[i].Order <= 0 {
			items[i].Order = i + 1
		}
	}
	r.Items = items
	return r, nil
}

func (r *Recipe) assign(a *Assignment, data any) error {
	key := strings.ToLower(a.Key)
	switch key {
	case "preset":
		return nil
	case "watermark":
		if a.Value.String == nil {
			return fmt.Errorf("%s: watermark 需要字符串", a.Pos)
		}
		r.Config = r.Config.WithWatermark(string(*a.Value.String))
		return nil
	case "rating", "show-rating":
		v, err := a.Value.Eval(data)
		if err != nil {
			return err
		}
		b, ok := toBool(v)
		if !ok {
			return fmt.Errorf("%s: %s 需要 true/false", a.Pos, a.Key)
		}
		r.Config = r.Config.WithShowRating(b)
		return nil
	case "custom-rating":
		v, err := a.Value.Eval(data)
		if err != nil {
			return err
		}
		n, ok := toNumber(v)
		if !ok {
			return fmt.Errorf("%s: custom-rating 需要数字", a.Pos)
		}
		r.Config = r.Config.WithCustomRating(n)
		return nil
	}

	s, err := evalString(a.Value, data)
	if err != nil {
		return err
	}
	switch key {
	case "layout":
		r.Config = r.Config.WithLayout(s)
	case "size":
		r.Config = r.Config.WithSize(layout.Size(s))
	case "theme":
		r.Config = r.Config.WithTheme(s)
	case "accent":
		r.Config = r.Config.WithAccent(s)
	case "font":
		r.Config = r.Config.WithFont(s)
	case "share":
		r.Config = r.Config.WithShareURL(s)
	case "out":
		r.Output = s
	default:
		return fmt.Errorf("%s: 未知配置项 %q", a.Pos, a.Key)
	}
	return nil
}

// commandItems 处理 `item { ... }`、`item data.movie` 与 `items data.movies`。
func commandItems(c *Command, data any) ([]media.MarathonItem, error) {
	switch c.Name {
	case "item":
		if c.Block != nil {
			m := map[string]any{}
			for _, st := range c.Block.Statements {
				if st.Assignment == nil {
					return nil, fmt.Errorf("%s: item 内只允许 key: value", c.Pos)
				}
				v, err := st.Assignment.Value.Eval(data)
				if err != nil {
					return nil, err
				}
				m[st.Assignment.Key] = v
			}
			it, err := itemFrom(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", c.Pos, err)
			}
			return []media.MarathonItem{it}, nil
		}
		v, err := bound(c, data)
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: item 绑定的值不是对象", c.Pos)
		}
		it, err := itemFrom(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Pos, err)
		}
		return []media.MarathonItem{it}, nil
	case "items":
		v, err := bound(c, data)
		if err != nil {
			return nil, err
		}
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: items 绑定的值不是数组", c.Pos)
		}
		out := make([]media.MarathonItem, 0, len(list))
		for i, e := range list {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: items[%d] 不是对象", c.Pos, i)
			}
			it, err := itemFrom(m)
			if err != nil {
				return nil, fmt.Errorf("%s: items[%d]: %w", c.Pos, i, err)
			}
			out = append(out, it)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: 未知指令 %q", c.Pos, c.Name)
	}
}

func bound(c *Command, data any) (any, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("%s: %s 需要数据路径", c.Pos, c.Name)
	}
	var b strings.Builder
	for _, a := range c.Args {
		b.WriteString(a.Raw)
	}
	return lookupData(b.String(), data)
}

func lookupData(path string, data any) (any, error) {
	rest, ok := strings.CutPrefix(path, "data.")
	if !ok {
		return nil, fmt.Errorf("数据路径必须以 data. 开头: %s", path)
	}
	v, ok := binding.Lookup(data, rest)
	if !ok {
		return nil, fmt.Errorf("数据中不存在 %s", path)
	}
	return v, nil
}

// Eval 把值转换为 Go 值：字符串（已插值）、float64、bool、[]any、map[string]any。
// 裸标识符按字符串处理，data. 开头的表达式从绑定数据中取值。
func (v *Value) Eval(data any) (any, error) {
	switch {
	case v == nil:
		return nil, nil
	case v.String != nil:
		return binding.Interpolate(string(*v.String), data), nil
	case v.Number != nil:
		n, err := strconv.ParseFloat(*v.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("无效数字 %q: %w", *v.Number, err)
		}
		return n, nil
	case v.Color != nil:
		return *v.Color, nil
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, e := range v.Array.Values {
			ev, err := e.Eval(data)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil
	case v.Object != nil:
		out := make(map[string]any, len(v.Object.Entries))
		for _, a := range v.Object.Entries {
			ev, err := a.Value.Eval(data)
			if err != nil {
				return nil, err
			}
			out[a.Key] = ev
		}
		return out, nil
	case v.Expr != nil:
		text := v.Expr.Text()
		switch {
		case text == "true":
			return true, nil
		case text == "false":
			return false, nil
		case text == "null":
			return nil, nil
		case strings.HasPrefix(text, "data."):
			return lookupData(text, data)
		}
		return text, nil
	}
	return nil, nil
}

func evalString(v *Value, data any) (string, error) {
	ev, err := v.Eval(data)
	if err != nil {
		return "", err
	}
	return toString(ev), nil
}

// itemFrom 从对象构造条目。键名中的 - 视为 _，兼容 TMDB 字段名（poster_path、vote_average、genres[].name）。
func itemFrom(m map[string]any) (media.MarathonItem, error) {
	var it media.MarathonItem
	for k, v := range m {
		switch strings.ReplaceAll(strings.ToLower(k), "-", "_") {
		case "id":
			it.ID = toString(v)
		case "title":
			it.Title = toString(v)
		case "name":
			it.Name = toString(v)
		case "original_title":
			it.OriginalTitle = toString(v)
		case "original_name":
			it.OriginalName = toString(v)
		case "year":
			it.Year = toString(v)
		case "release_date":
			it.ReleaseDate = toString(v)
		case "first_air_date":
			it.FirstAirDate = toString(v)
		case "overview":
			it.Overview = toString(v)
		case "media_type":
			it.MediaType = toString(v)
		case "poster", "poster_path":
			it.PosterRef = toString(v)
		case "backdrop", "backdrop_path":
			it.BackdropRef = toString(v)
		case "genres":
			genres, err := toGenres(v)
			if err != nil {
				return it, err
			}
			it.Genres = genres
		case "rating", "vote_average":
			n, ok := toNumber(v)
			if !ok {
				return it, fmt.Errorf("rating 需要数字，实际 %v", v)
			}
			it.Rating = media.ClampRating(n)
		case "order":
			n, ok := toNumber(v)
			if !ok {
				return it, fmt.Errorf("order 需要数字，实际 %v", v)
			}
			it.Order = int(n)
		}
	}
	return it, nil
}

func toGenres(v any) ([]string, error) {
	switch g := v.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, s := range strings.Split(g, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(g))
		for _, e := range g {
			switch e := e.(type) {
			case string:
				out = append(out, e)
			case map[string]any:
				out = append(out, toString(e["name"]))
			default:
				return nil, fmt.Errorf("无效的类型项 %v", e)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("genres 需要数组或字符串")
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		p, err := strconv.ParseBool(b)
		return p, err == nil
	}
	return false, false
}
