package dto

// PostDTO 帖子
type PostDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     *string      `json:"content,omitempty"`
	MediaType   string       `json:"mediaType"`
	MediaURL    string       `json:"mediaUrl"`
	CategoryID  *string      `json:"categoryId,omitempty"`
	Category    *CategoryDTO `json:"category,omitempty" copier:"-"`
	OwnerID     string       `json:"ownerId"`
	IsPublished bool         `json:"isPublished"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

// CreatePostDTO 帖子 - 新增（multipart 表单，文件字段为 mediaFile）
type CreatePostDTO struct {
	Title       string  `form:"title" json:"title" binding:"required"`
	Content     *string `form:"content" json:"content"`
	MediaType   string  `form:"mediaType" json:"mediaType" binding:"required"`
	CategoryID  *string `form:"categoryId" json:"categoryId"`
	IsPublished bool    `form:"isPublished" json:"isPublished"`
}

// UpdatePostDTO 帖子 - 局部修改，缺省字段不变
type UpdatePostDTO struct {
	Title       *string `form:"title" json:"title"`
	Content     *string `form:"content" json:"content"`
	MediaType   *string `form:"mediaType" json:"mediaType"`
	CategoryID  *string `form:"categoryId" json:"categoryId"`
	IsPublished *bool   `form:"isPublished" json:"isPublished"`
}

// TogglePublishDTO 帖子 - 发布状态
type TogglePublishDTO struct {
	IsPublished *bool `json:"isPublished" binding:"required"`
}
