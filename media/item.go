package media

import (
	"fmt"
	"sort"
	"strings"
)

// 该文件定义引擎消费的媒体记录。记录由外部数据源构造，进入引擎后只读。

// GenreSeparator 是类型列表的显示分隔符。
const GenreSeparator = " • "

// MaxGenres 限制卡片上展示的类型数量。
const MaxGenres = 3

// Item 描述一部电影或剧集。
type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title,omitempty"`
	Name          string   `json:"name,omitempty"`
	OriginalTitle string   `json:"original_title,omitempty"`
	OriginalName  string   `json:"original_name,omitempty"`
	Year          string   `json:"year,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty"`
	FirstAirDate  string   `json:"first_air_date,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	MediaType     string   `json:"media_type,omitempty"` // movie / tv
	PosterRef     string   `json:"poster,omitempty"`   // 空串表示没有海报
	BackdropRef   string   `json:"backdrop,omitempty"` // 空串表示没有背景图
	Rating        float64  `json:"rating"`
}

// DisplayTitle 按 title → name → original_title → original_name 的顺序取第一个非空值。
func (it Item) DisplayTitle() string {
	for _, s := range []string{it.Title, it.Name, it.OriginalTitle, it.OriginalName} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return "Unknown"
}

// LegacyTitle 是旧版版式使用的标题：original_name → title → name，都为空时同 DisplayTitle。
func (it Item) LegacyTitle() string {
	for _, s := range []string{it.OriginalName, it.Title, it.Name} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return it.DisplayTitle()
}

// ReleaseYear 返回四位年份；Year 为空时从上映/首播日期推导。
func (it Item) ReleaseYear() string {
	if y := strings.TrimSpace(it.Year); y != "" {
		return y
	}
	for _, d := range []string{it.ReleaseDate, it.FirstAirDate} {
		d = strings.TrimSpace(d)
		if len(d) >= 4 {
			return d[:4]
		}
	}
	return ""
}

// TopGenres 返回最多 n 个类型，顺序即显示顺序。
func (it Item) TopGenres(n int) []string {
	out := make([]string, 0, n)
	for _, g := range it.Genres {
		if g = strings.TrimSpace(g); g == "" {
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, g)
	}
	return out
}

// GenreLine 将前三个类型用分隔符连接。
func (it Item) GenreLine() string {
	return strings.Join(it.TopGenres(MaxGenres), GenreSeparator)
}

// MarathonItem 是带序号的马拉松条目，Order 从 1 开始。
type MarathonItem struct {
	Item
	Order int `json:"order"`
}

// Number 按传入顺序为条目编号 1..N。
func Number(items []Item) []MarathonItem {
	out := make([]MarathonItem, len(items))
	for i, it := range items {
		out[i] = MarathonItem{Item: it, Order: i + 1}
	}
	return out
}

// SortByOrder 返回按 Order 排序的副本；序号相同时保持原有相对顺序。
func SortByOrder(items []MarathonItem) []MarathonItem {
	out := append([]MarathonItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Renumber 按 Order 稳定排序后把序号改写为连续的 1..N，重复或有缺口的序号也会得到各自的位置。
func Renumber(items []MarathonItem) []MarathonItem {
	out := SortByOrder(items)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// Reorder 把 from 位置的条目移动到 to 位置（均为 0 起的下标，基于当前 Order 排序），
// 并把序号重新编为连续的 1..N。
func Reorder(items []MarathonItem, from, to int) ([]MarathonItem, error) {
	sorted := SortByOrder(items)
	if from < 0 || from >= len(sorted) || to < 0 || to >= len(sorted) {
		return nil, fmt.Errorf("重排下标越界: from=%d to=%d len=%d", from, to, len(sorted))
	}
	moved := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)
	sorted = append(sorted[:to], append([]MarathonItem{moved}, sorted[to:]...)...)
	for i := range sorted {
		sorted[i].Order = i + 1
	}
	return sorted, nil
}

// AverageRating 返回马拉松条目的平均评分；空列表返回 0。
func AverageRating(items []MarathonItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Rating
	}
	return sum / float64(len(items))
}
