package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrNoItems 表示马拉松没有任何条目。
	ErrNoItems = errors.New("没有可渲染的条目")
	// ErrTooFewItems 表示马拉松条目少于下限。
	ErrTooFewItems = errors.New("马拉松条目少于下限")
	// ErrTooManyItems 表示马拉松条目超过上限。
	ErrTooManyItems = errors.New("马拉松条目超过上限")
	// ErrSuperseded 表示本次渲染已被更新的请求取代，结果被丢弃。
	ErrSuperseded = errors.New("渲染已被更新的请求取代")
	// ErrClosed 表示编排器已关闭，后续结果一律丢弃。
	ErrClosed = errors.New("编排器已关闭")
)

// UsageError 是调用方的配置错误（版式与族不匹配、条目数量越界等），在任何加载与绘制之前同步返回。
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }

// IsUsage 判断 err 是否为 UsageError。
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

func usage(op string, err error) error { return &UsageError{Op: op, Err: err} }
