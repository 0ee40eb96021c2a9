package handler

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/pkg/response"
	"Gazette/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	category, err := s.categorySvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := s.categorySvc.GetCategory(c.Request.Context(), c.Param("category_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := s.categorySvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (s *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req dto.UpdateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	category, err := s.categorySvc.UpdateCategory(c.Request.Context(), c.Param("category_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := s.categorySvc.DeleteCategory(c.Request.Context(), c.Param("category_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
