package media

import "strings"

// Bucket 是图片服务提供的固定尺寸档位。
type Bucket string

const (
	BucketW342     Bucket = "w342"
	BucketW500     Bucket = "w500"
	BucketW780     Bucket = "w780"
	BucketOriginal Bucket = "original"
)

// ImageBaseURL 是 provider 路径（如 "/abc.jpg"）的解析前缀。
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// ParseBucket 解析档位名，未知值返回 BucketW500。
func ParseBucket(s string) Bucket {
	switch Bucket(strings.ToLower(strings.TrimSpace(s))) {
	case BucketW342:
		return BucketW342
	case BucketW780:
		return BucketW780
	case BucketOriginal:
		return BucketOriginal
	default:
		return BucketW500
	}
}

// IsProviderPath 判断引用是否为 provider 的相对路径（以单个 "/" 开头的文件名）。
func IsProviderPath(ref string) bool {
	return strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") && strings.Count(ref, "/") == 1
}

// ImageURL 把 provider 路径解析为指定档位的绝对 URL；其它引用原样返回。
func ImageURL(ref string, b Bucket) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || !IsProviderPath(ref) {
		return ref
	}
	if b == "" {
		b = BucketW500
	}
	return ImageBaseURL + string(b) + ref
}
