package media

import (
	"math"
	"strconv"
	"strings"
)

// ClampRating 把评分限制在 0–10。NaN 视为 0。
func ClampRating(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 10 {
		return 10
	}
	return r
}

// RoundHalf 四舍五入到最近的 0.5（.25 / .75 向上）。
func RoundHalf(r float64) float64 {
	return math.Round(ClampRating(r)*2) / 2
}

// FormatRating 先取最近的 0.5，再去掉多余的 ".0"：7.0 → "7"，7.5 → "7.5"。
func FormatRating(r float64) string {
	s := strconv.FormatFloat(RoundHalf(r), 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// FormatScore 保留一位小数，用于马拉松条目的原始评分显示。
func FormatScore(r float64) string {
	return strconv.FormatFloat(ClampRating(r), 'f', 1, 64)
}

// FormatAverage 四舍五入到一位小数，整数不带小数点：7 → "7"，7.25 → "7.3"。
func FormatAverage(r float64) string {
	return strconv.FormatFloat(math.Floor(ClampRating(r)*10+0.5)/10, 'f', -1, 64)
}
