package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/storycard/layout"
)

// ContentType 是导出载荷的 MIME 类型。
const ContentType = "image/png"

// Payload 是交给下载或分享目标的文件。
type Payload struct {
	Filename    string
	Title       string
	ContentType string
	Data        []byte
}

// Sink 接收下载文件。返回 ErrAborted 表示用户取消。
type Sink interface {
	Save(ctx context.Context, p Payload) error
}

// Sharer 是平台分享目标。CanShare 为 false 时退回下载。
type Sharer interface {
	CanShare(p Payload) bool
	Share(ctx context.Context, p Payload) error
}

// DirSink 把文件写入目录。
type DirSink struct {
	Dir string
}

// Save 先写临时文件再重命名，避免留下半截文件。
func (s DirSink) Save(ctx context.Context, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	name := filepath.Base(p.Filename)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(p.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("保存文件失败: %w", err)
	}
	return nil
}

// Exporter 把合成结果编码为 PNG，并交给下载或分享目标。
type Exporter struct {
	sink   Sink
	sharer Sharer
}

// New 创建导出器；sharer 可为 nil（总是走下载）。
func New(sink Sink, sharer Sharer) *Exporter {
	return &Exporter{sink: sink, sharer: sharer}
}

// Export 把位图编码为恰好 w×h 的 PNG；尺寸不一致时（如预览缩放后的画面）先重采样。
//
// 取消策略：Export 没有数据可交付，用户取消时返回 KindAborted 错误，调用方据此跳过后续的
// Download / Share；超时等其它 ctx 错误归为 KindEncode。Download / Share 只吞掉用户取消
// （ErrAborted、context.Canceled），其余 ctx 错误同样作为失败返回。
func (e *Exporter) Export(ctx context.Context, img image.Image, w, h int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		if aborted(err) {
			return nil, &Error{Kind: KindAborted, Op: "export", Err: err}
		}
		return nil, &Error{Kind: KindEncode, Op: "export", Err: err}
	}
	if img == nil || w <= 0 || h <= 0 {
		return nil, &Error{Kind: KindEncode, Op: "export", Err: fmt.Errorf("无效的画面或尺寸 %dx%d", w, h)}
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, &Error{Kind: KindEncode, Op: "export", Err: err}
	}
	return buf.Bytes(), nil
}

// Download 把 PNG 交给下载目标。用户取消时返回 nil，超时返回 KindDownload。
func (e *Exporter) Download(ctx context.Context, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		if aborted(err) {
			return nil
		}
		return &Error{Kind: KindDownload, Op: "download", Err: err}
	}
	if e.sink == nil {
		return &Error{Kind: KindDownload, Op: "download", Err: fmt.Errorf("未配置下载目标")}
	}
	err := e.sink.Save(ctx, Payload{Filename: filename, ContentType: ContentType, Data: data})
	if err == nil || aborted(err) {
		return nil
	}
	return &Error{Kind: KindDownload, Op: "download", Err: err}
}

// Share 优先使用平台分享，不可用时退回下载。用户取消时返回 nil，超时返回 KindShare。
func (e *Exporter) Share(ctx context.Context, data []byte, filename, title string) error {
	if err := ctx.Err(); err != nil {
		if aborted(err) {
			return nil
		}
		return &Error{Kind: KindShare, Op: "share", Err: err}
	}
	p := Payload{Filename: filename, Title: title, ContentType: ContentType, Data: data}
	if e.sharer == nil || !e.sharer.CanShare(p) {
		return e.Download(ctx, data, filename)
	}
	err := e.sharer.Share(ctx, p)
	if err == nil || aborted(err) {
		return nil
	}
	return &Error{Kind: KindShare, Op: "share", Err: err}
}

// ExportFor 按版式和尺寸取得目标像素后导出。
func (e *Exporter) ExportFor(ctx context.Context, img image.Image, k layout.Kind, s layout.Size) ([]byte, error) {
	w, h := layout.Dimensions(k, s)
	return e.Export(ctx, img, w, h)
}
