package service

import (
	"Gazette/internal/api/config"
	"Gazette/internal/api/dto"
	"Gazette/internal/model"
	"Gazette/internal/pkg/media"
	"Gazette/internal/pkg/util"
	"Gazette/internal/repository"
	"strings"
	"unicode/utf8"
)

const (
	titleMinLen = 3
	titleMaxLen = 200
)

var (
	imageMimes = map[string]struct{}{
		"image/jpeg": {},
		"image/jpg":  {},
		"image/png":  {},
		"image/webp": {},
		"image/gif":  {},
	}
	imageExts = map[string]struct{}{
		"jpg":  {},
		"jpeg": {},
		"png":  {},
		"webp": {},
		"gif":  {},
	}
	videoMimes = map[string]struct{}{
		"video/mp4":        {},
		"video/quicktime":  {},
		"video/x-msvideo":  {},
		"video/x-matroska": {},
	}
	videoExts = map[string]struct{}{
		"mp4": {},
		"mov": {},
		"avi": {},
		"mkv": {},
	}
)

// MediaPolicy 上传文件的大小限制
type MediaPolicy struct {
	MaxImageSize int64
	MaxVideoSize int64
}

// withDefaults 未配置或非法的上限回落到默认值，返回是否发生回落
func (p MediaPolicy) withDefaults() (MediaPolicy, bool) {
	defaulted := false
	if p.MaxImageSize <= 0 {
		p.MaxImageSize, defaulted = config.DefaultMaxImageSize, true
	}
	if p.MaxVideoSize <= 0 {
		p.MaxVideoSize, defaulted = config.DefaultMaxVideoSize, true
	}
	return p, defaulted
}

// checkFile 校验文件大小与类型是否符合声明的媒体类型
func (p MediaPolicy) checkFile(file *media.File, mediaType model.MediaType) error {
	var (
		maxSize int64
		mimes   map[string]struct{}
		exts    map[string]struct{}
	)
	switch mediaType {
	case model.MediaTypeImage:
		maxSize, mimes, exts = p.MaxImageSize, imageMimes, imageExts
	case model.MediaTypeVideo:
		maxSize, mimes, exts = p.MaxVideoSize, videoMimes, videoExts
	default:
		return ErrNoFileAllowed
	}

	if file.Size > maxSize {
		return ErrFileTooLarge
	}
	if _, ok := mimes[util.BaseMime(file.ContentType)]; !ok {
		return ErrInvalidFileType
	}
	if _, ok := exts[file.Ext()]; !ok {
		return ErrInvalidFileType
	}
	return nil
}

func parseMediaType(raw string) (model.MediaType, error) {
	t := model.MediaType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", ErrInvalidMediaType
	}
	return t, nil
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(title)
	if n < titleMinLen || n > titleMaxLen {
		return "", ErrInvalidTitle
	}
	return title, nil
}

// normalizeContent 去除首尾空白，空串视为没有正文
func normalizeContent(raw *string) *string {
	if raw == nil {
		return nil
	}
	content := strings.TrimSpace(*raw)
	if content == "" {
		return nil
	}
	return &content
}

// normalizeCategoryID 空串视为不关联分类
func normalizeCategoryID(raw *string) *string {
	if raw == nil {
		return nil
	}
	id := strings.TrimSpace(*raw)
	if id == "" {
		return nil
	}
	return &id
}

func kindOf(t model.MediaType) media.Kind {
	if t == model.MediaTypeVideo {
		return media.KindVideo
	}
	return media.KindImage
}

// createInput 通过校验的新增参数
type createInput struct {
	title       string
	content     *string
	mediaType   model.MediaType
	categoryID  *string
	ownerID     string
	isPublished bool
}

// validateCreate 按顺序校验新增参数，不做任何 I/O
func (p MediaPolicy) validateCreate(ownerID string, title string, content *string, rawType string,
	categoryID *string, isPublished bool, file *media.File) (*createInput, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	mediaType, err := parseMediaType(rawType)
	if err != nil {
		return nil, err
	}
	normalizedTitle, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	normalizedContent := normalizeContent(content)

	if mediaType.HasMedia() && file == nil {
		return nil, ErrFileRequired
	}
	if mediaType == model.MediaTypeText && file != nil {
		return nil, ErrNoFileAllowed
	}
	if normalizedContent == nil && file == nil {
		return nil, ErrEmptyPost
	}
	if file != nil {
		if err = p.checkFile(file, mediaType); err != nil {
			return nil, err
		}
	}

	return &createInput{
		title:       normalizedTitle,
		content:     normalizedContent,
		mediaType:   mediaType,
		categoryID:  normalizeCategoryID(categoryID),
		ownerID:     ownerID,
		isPublished: isPublished,
	}, nil
}

// updatePlan 通过校验的局部修改
type updatePlan struct {
	patch      repository.PostPatch
	targetType model.MediaType
	// clearMedia 目标类型为 TEXT 且原帖有媒体，提交时清空引用
	clearMedia bool
	// categoryID 需要校验存在性的分类
	categoryID *string
}

// validateUpdate 基于现有记录校验局部修改，不做任何 I/O
func (p MediaPolicy) validateUpdate(existing *model.Post, req *dto.UpdatePostDTO, file *media.File) (*updatePlan, error) {
	if req == nil {
		req = &dto.UpdatePostDTO{}
	}
	plan := &updatePlan{targetType: existing.MediaType}

	if req.MediaType != nil {
		t, err := parseMediaType(*req.MediaType)
		if err != nil {
			return nil, err
		}
		plan.targetType = t
		plan.patch.MediaType = &t
	}
	if req.Title != nil {
		title, err := normalizeTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		plan.patch.Title = &title
	}

	content := existing.Content
	if req.Content != nil {
		content = normalizeContent(req.Content)
		cleared := ""
		if content != nil {
			cleared = *content
		}
		plan.patch.Content = &cleared
	}

	var hasMedia bool
	switch {
	case file != nil:
		if plan.targetType == model.MediaTypeText {
			return nil, ErrNoFileAllowed
		}
		hasMedia = true
	case plan.targetType == model.MediaTypeText:
		plan.clearMedia = existing.MediaURL != ""
	default:
		// 切换到另一种媒体类型必须同时上传新文件
		if existing.MediaURL == "" || plan.targetType != existing.MediaType {
			return nil, ErrFileRequired
		}
		hasMedia = true
	}

	if content == nil && !hasMedia {
		return nil, ErrEmptyPost
	}
	if file != nil {
		if err := p.checkFile(file, plan.targetType); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		categoryID := ""
		if id := normalizeCategoryID(req.CategoryID); id != nil {
			categoryID = *id
			plan.categoryID = id
		}
		plan.patch.CategoryID = &categoryID
	}
	plan.patch.IsPublished = req.IsPublished
	return plan, nil
}
