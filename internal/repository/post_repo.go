package repository

import (
	"Gazette/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostPatch 帖子局部更新，nil 字段表示不修改
type PostPatch struct {
	Title *string
	// Content 指向空串时清空正文
	Content   *string
	MediaType *model.MediaType
	// MediaURL 指向空串时清空媒体引用
	MediaURL *string
	// CategoryID 指向空串时解除分类
	CategoryID  *string
	IsPublished *bool
}

// columns 生成 gorm 更新字段
func (p *PostPatch) columns() map[string]any {
	updates := make(map[string]any)
	if p == nil {
		return updates
	}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Content != nil {
		if *p.Content == "" {
			updates["content"] = nil
		} else {
			updates["content"] = *p.Content
		}
	}
	if p.MediaType != nil {
		updates["media_type"] = *p.MediaType
	}
	if p.MediaURL != nil {
		updates["media_url"] = *p.MediaURL
	}
	if p.CategoryID != nil {
		if *p.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			updates["category_id"] = *p.CategoryID
		}
	}
	if p.IsPublished != nil {
		updates["is_published"] = *p.IsPublished
	}
	return updates
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	FindPost(ctx context.Context, id string) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, patch *PostPatch) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, int64, error)
	ListPostsByMediaType(ctx context.Context, mediaType model.MediaType, onlyPublished bool, limit, offset int) ([]*model.Post, int64, error)
	SetPublished(ctx context.Context, id string, isPublished bool) (*model.Post, error)
	ExistsByMediaURL(ctx context.Context, mediaURL string) (bool, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	now := time.Now().Truncate(time.Millisecond)
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindPost 记录不存在时返回 nil, nil
func (s *PostRepoImpl) FindPost(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("Category").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost 行锁内更新，记录不存在时返回 nil, nil
func (s *PostRepoImpl) UpdatePost(ctx context.Context, id string, patch *PostPatch) (*model.Post, error) {
	var out *model.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		updates := patch.columns()
		updates["updated_at"] = NextUpdatedAt(post.UpdatedAt, time.Now())
		if err = tx.Model(&model.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		var updated model.Post
		if err = tx.Preload("Category").First(&updated, "id = ?", id).Error; err != nil {
			return err
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (s *PostRepoImpl) ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, int64, error) {
	return s.page(ctx, s.db.WithContext(ctx).Model(&model.Post{}), limit, offset)
}

func (s *PostRepoImpl) ListPostsByMediaType(ctx context.Context, mediaType model.MediaType, onlyPublished bool, limit, offset int) ([]*model.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Post{}).Where("media_type = ?", mediaType)
	if onlyPublished {
		query = query.Where("is_published = ?", true)
	}
	return s.page(ctx, query, limit, offset)
}

func (s *PostRepoImpl) SetPublished(ctx context.Context, id string, isPublished bool) (*model.Post, error) {
	return s.UpdatePost(ctx, id, &PostPatch{IsPublished: &isPublished})
}

func (s *PostRepoImpl) ExistsByMediaURL(ctx context.Context, mediaURL string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("media_url = ?", mediaURL).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostRepoImpl) page(ctx context.Context, query *gorm.DB, limit, offset int) ([]*model.Post, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := query.Session(&gorm.Session{}).
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// NextUpdatedAt 保证更新时间严格大于上一次（毫秒精度，与 datetime(3) 对齐）
func NextUpdatedAt(prev, now time.Time) time.Time {
	next := now.Truncate(time.Millisecond)
	if !next.After(prev) {
		next = prev.Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return next
}
