package dto

// CategoryDTO 分类
type CategoryDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateCategoryDTO 分类 - 新增
type CreateCategoryDTO struct {
	Name        string  `json:"name" binding:"required" validate:"min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// UpdateCategoryDTO 分类 - 修改
type UpdateCategoryDTO struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
