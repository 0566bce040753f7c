package style

import "strings"

// Preset 是一组预设的版式 + 强调色组合。
type Preset struct {
	Name   string `json:"name"`
	Layout string `json:"layout"`
	Accent string `json:"accent"`
}

var storyPresets = []Preset{
	{Name: "Premiere", Layout: "cinematic", Accent: "#f59e0b"},
	{Name: "Nostalgia", Layout: "classic", Accent: "#ec4899"},
	{Name: "Neon", Layout: "modern", Accent: "#a855f7"},
	{Name: "Noir", Layout: "minimal", Accent: "#737373"},
	{Name: "Frost", Layout: "glassmorphic", Accent: "#60a5fa"},
	{Name: "Duality", Layout: "split", Accent: "#22c55e"},
}

var marathonPresets = []Preset{
	{Name: "Artistic", Layout: "collage", Accent: "#ec4899"},
	{Name: "Cinema", Layout: "grid", Accent: "#f59e0b"},
	{Name: "Top List", Layout: "ranked", Accent: "#ef4444"},
	{Name: "Journey", Layout: "timeline", Accent: "#8b5cf6"},
	{Name: "Clean", Layout: "minimal", Accent: "#6b7280"},
}

// StoryPresets 返回单卡预设。
func StoryPresets() []Preset { return append([]Preset(nil), storyPresets...) }

// MarathonPresets 返回马拉松预设。
func MarathonPresets() []Preset { return append([]Preset(nil), marathonPresets...) }

// FindPreset 在给定列表中按名称查找（大小写不敏感）。
func FindPreset(presets []Preset, name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
