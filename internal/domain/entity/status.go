package entity

// GenerationStatus 生成管线状态机
type GenerationStatus int

const (
	StatusIdle GenerationStatus = iota
	StatusGeneratingText
	StatusGeneratingImage
	StatusCompleted
	StatusError
)

// String 返回对外展示的状态名
func (s GenerationStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusGeneratingText:
		return "generating_text"
	case StatusGeneratingImage:
		return "generating_image"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// IsGenerating 管线是否在途；在途期间新的生成请求一律为空操作
func (s GenerationStatus) IsGenerating() bool {
	return s == StatusGeneratingText || s == StatusGeneratingImage
}
