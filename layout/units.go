package layout

// This file defines unit helpers between pixels, canvas units and font points.

// canvas 以毫米为单位；以 DPMM(1) 栅格化时 1 单位即 1 像素，因此像素与毫米在本项目中等价。
const (
	PtToPx = 0.352777
	PxToPt = 1.0 / PtToPx
)

// FontPt 把像素字号转换为字体系统使用的 pt。
func FontPt(px float64) float64 { return px * PxToPt }

// Pct 返回 total 的 frac 比例（frac 为 0..1）。
func Pct(frac, total float64) float64 { return frac * total }

// Fraction 描述沿某一轴的百分比定位：从起点（top/left）或终点（bottom/right）量起。
type Fraction struct {
	Value   float64 `json:"value"`
	FromEnd bool    `json:"fromEnd"`
}

// Start 从起点量起的比例。
func Start(v float64) Fraction { return Fraction{Value: v} }

// End 从终点量起的比例。
func End(v float64) Fraction { return Fraction{Value: v, FromEnd: true} }

// Offset 把比例解析为起点坐标；extent 为元素在该轴上的尺寸。
func (f Fraction) Offset(total, extent float64) float64 {
	if f.FromEnd {
		return total - f.Value*total - extent
	}
	return f.Value * total
}
