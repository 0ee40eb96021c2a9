package dto

// PageQueryDTO 分页参数
type PageQueryDTO struct {
	Limit int `form:"limit"`
	Page  int `form:"page"`
}

// PageDTO 分页结果
type PageDTO[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}
