package layout

import "math"

// Measurer 返回文本在给定像素字号下的宽度（像素）。由渲染器基于字体度量实现。
type Measurer interface {
	Measure(text string, sizePx float64) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, sizePx float64) float64

func (f MeasureFunc) Measure(text string, sizePx float64) float64 { return f(text, sizePx) }

// FitSpec 描述一次字号收缩。
type FitSpec struct {
	Start    float64
	Min      float64
	Step     float64
	MaxWidth float64
}

// Fit 从 Start 开始测量，宽度超出 MaxWidth 且字号大于 Min 时按 Step 递减，
// 最多迭代 (Start-Min)/Step + 1 次。Min 仍然放不下时返回 Min，溢出被接受。
func Fit(m Measurer, text string, spec FitSpec) float64 {
	size := spec.Start
	if size < spec.Min {
		size = spec.Min
	}
	if m == nil || spec.Step <= 0 || spec.MaxWidth <= 0 || size == spec.Min {
		return size
	}
	limit := int(math.Floor((size-spec.Min)/spec.Step)) + 1
	for i := 0; i < limit; i++ {
		if m.Measure(text, size) <= spec.MaxWidth || size <= spec.Min {
			return size
		}
		size = math.Max(size-spec.Step, spec.Min)
	}
	return size
}

// FitText 是 Fit 的便捷形式。
func FitText(m Measurer, text string, start, maxWidth, step, min float64) float64 {
	return Fit(m, text, FitSpec{Start: start, Min: min, Step: step, MaxWidth: maxWidth})
}
