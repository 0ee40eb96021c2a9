package repository

import (
	"Gazette/internal/model"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

type CategoryRepo interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, id string, updates map[string]any) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepo {
	return &CategoryRepoImpl{db: db}
}

func (s *CategoryRepoImpl) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

// GetCategory 记录不存在时返回 nil, nil
func (s *CategoryRepoImpl) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory 记录不存在时返回 nil, nil
func (s *CategoryRepoImpl) UpdateCategory(ctx context.Context, id string, updates map[string]any) (*model.Category, error) {
	res := s.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory 先解除帖子关联再删除分类
func (s *CategoryRepoImpl) DeleteCategory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Post{}).Where("category_id = ?", id).Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Category{}).Error
	})
}

// IsDuplicateKey 是否为唯一键冲突
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
