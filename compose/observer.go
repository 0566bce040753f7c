package compose

// State 是一次合成的阶段：idle → loading-images → composing → complete | failed。
type State int

const (
	StateIdle State = iota
	StateLoadingImages
	StateComposing
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoadingImages:
		return "loading-images"
	case StateComposing:
		return "composing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Observer 接收合成的阶段变化，用于把进度从核心流程中解耦。
//
// 约束：实现必须并发安全，被取代的旧合成仍可能在新合成进行时报告 failed。
type Observer interface {
	OnState(generation uint64, s State, err error)
}

// ObserverFunc 让普通函数满足 Observer。
type ObserverFunc func(generation uint64, s State, err error)

func (f ObserverFunc) OnState(generation uint64, s State, err error) { f(generation, s, err) }
