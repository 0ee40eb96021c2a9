package service

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/model"
	"Gazette/internal/pkg/util"
	"Gazette/internal/repository"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryDTO) (*dto.CategoryDTO, error)
	GetCategory(ctx context.Context, id string) (*dto.CategoryDTO, error)
	ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
	UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryDTO) (*dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, id string) error
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
	}
}

// CreateCategory 新增分类，名称唯一
func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryDTO) (*dto.CategoryDTO, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = util.TrimPtr(req.Description)
	if err := util.ValidateDTO(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrCategoryExist
		}
		return nil, &PersistenceFailure{Op: "create category", Err: err}
	}
	return toCategoryDTO(category)
}

// GetCategory 获取单个分类
func (s *categoryServiceImpl) GetCategory(ctx context.Context, id string) (*dto.CategoryDTO, error) {
	category, err := s.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return toCategoryDTO(category)
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		item, err := toCategoryDTO(category)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdateCategory 修改分类，description 传空串表示清空
func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryDTO) (*dto.CategoryDTO, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	req.Name = util.TrimPtr(req.Name)
	req.Description = util.TrimPtr(req.Description)
	if err := util.ValidateDTO(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		if *req.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *req.Description
		}
	}
	if len(updates) == 0 {
		return s.GetCategory(ctx, id)
	}

	category, err := s.categoryRepo.UpdateCategory(ctx, id, updates)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrCategoryExist
		}
		return nil, &PersistenceFailure{Op: "update category", Err: err}
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return toCategoryDTO(category)
}

// DeleteCategory 删除分类，关联帖子解除分类
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		return &PersistenceFailure{Op: "delete category", Err: err}
	}
	return nil
}
