package model

import (
	"time"
)

// MediaType 帖子的媒体类型，TEXT 表示无媒体
type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeText  MediaType = "TEXT"
)

// Valid 是否为已知的媒体类型
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeText:
		return true
	}
	return false
}

// HasMedia IMAGE 和 VIDEO 需要附带媒体文件
func (t MediaType) HasMedia() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

type Post struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Content     *string   `gorm:"type:text" json:"content"`
	MediaType   MediaType `gorm:"type:varchar(16);not null;default:TEXT;index:idx_media_type_published" json:"media_type"`
	MediaURL    string    `gorm:"type:varchar(512);not null;default:'';index:idx_media_url" json:"media_url"`
	CategoryID  *string   `gorm:"type:char(36);index:idx_category_id" json:"category_id"`
	OwnerID     string    `gorm:"type:varchar(64);not null;index:idx_owner_id" json:"owner_id"`
	IsPublished bool      `gorm:"type:tinyint(1);not null;default:0;index:idx_media_type_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"type:datetime(3)" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:datetime(3)" json:"updated_at"`

	// 关联关系
	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// HasContent 正文非空
func (p *Post) HasContent() bool {
	return p.Content != nil && *p.Content != ""
}
