package export

import (
	"context"
	"errors"
	"fmt"
)

// Kind 是导出/分享失败的类别。
type Kind string

const (
	KindAborted  Kind = "aborted"
	KindEncode   Kind = "encode"
	KindShare    Kind = "share"
	KindDownload Kind = "download"
)

// ErrAborted 由 Sink / Sharer 返回，表示用户主动取消。取消会被静默吞掉。
var ErrAborted = errors.New("用户取消")

// Error 是带类别的导出错误。
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s (%s)", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf 返回错误类别；非导出错误返回空串。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	if aborted(err) {
		return KindAborted
	}
	return ""
}

func aborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled)
}
