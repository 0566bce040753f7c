package canvasrenderer

import (
	"fmt"
	"math"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ByLCY/storycard/layout"
	"github.com/ByLCY/storycard/style"
)

// shareBadge 在右下角绘制分享链接的二维码，底板为白色圆角矩形。
func (p *painter) shareBadge(url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("生成分享二维码失败: %w", err)
	}
	size := math.Round(math.Min(p.W, p.H) * 0.12)
	const pad, margin = 10.0, 32.0
	plate := layout.Rect{X: p.W - margin - size - 2*pad, Y: p.H - margin - size - 2*pad, W: size + 2*pad, H: size + 2*pad}
	p.f.RoundedRect(plate, 12, style.MustHex("#ffffff"), nil, 0)
	p.f.Bitmap(q.Image(int(size)), plate.X+pad, plate.Y+pad)
	return nil
}
