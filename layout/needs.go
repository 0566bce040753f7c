package layout

import "github.com/ByLCY/storycard/media"

// Needs 列出版式需要加载的图片。引用为空的条目同样列出，由加载器直接替换为占位图。
func Needs(k Kind, size Size, story media.Item, items []media.MarathonItem) []ImageNeed {
	vertical := size.Orientation() == Vertical
	switch k {
	case Classic, Modern, Minimal:
		return []ImageNeed{{Ref: StoryBackground(story, vertical), Bucket: media.BucketOriginal}}
	case Cinematic:
		if vertical {
			return []ImageNeed{
				{Ref: story.BackdropRef, Bucket: media.BucketW780},
				{Ref: story.PosterRef, Bucket: media.BucketOriginal},
			}
		}
		return []ImageNeed{
			{Ref: firstRef(story.BackdropRef, story.PosterRef), Bucket: media.BucketOriginal},
			{Ref: story.PosterRef, Bucket: media.BucketOriginal},
		}
	case Glassmorphic:
		bg := StoryBackground(story, vertical)
		if !vertical {
			bg = firstRef(story.BackdropRef, story.PosterRef)
		}
		return []ImageNeed{
			{Ref: bg, Bucket: media.BucketOriginal},
			{Ref: story.PosterRef, Bucket: media.BucketOriginal},
		}
	case Split:
		return []ImageNeed{{Ref: story.PosterRef, Bucket: media.BucketOriginal}}
	case LegacyStory, LegacyTwitter:
		return []ImageNeed{{Ref: story.PosterRef, Bucket: media.BucketW780}}
	}

	b := MarathonBucket(k, size)
	needs := make([]ImageNeed, 0, len(items))
	for _, it := range items {
		needs = append(needs, ImageNeed{Ref: it.PosterRef, Bucket: b})
	}
	return needs
}

// MarathonBucket 返回马拉松版式的海报档位：小卡片槽位用 w342，大卡片用 w500。
func MarathonBucket(k Kind, size Size) media.Bucket {
	switch k {
	case Timeline, MarathonMinimal:
		return media.BucketW342
	case Ranked:
		if size.Orientation() == Vertical {
			return media.BucketW342
		}
	}
	return media.BucketW500
}

// StoryBackground 返回满版背景使用的图片：竖版用海报，横版优先背景图。
func StoryBackground(it media.Item, vertical bool) string {
	if vertical {
		return it.PosterRef
	}
	return firstRef(it.BackdropRef, it.PosterRef)
}

func firstRef(refs ...string) string {
	for _, r := range refs {
		if r != "" {
			return r
		}
	}
	return ""
}
