package handler

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/pkg/consts"
	"Gazette/internal/pkg/response"
	"Gazette/internal/service"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// CreatePost 新增帖子，支持 multipart（携带 mediaFile）或 JSON
func (s *PostHandler) CreatePost(c *gin.Context) {
	ownerID := c.GetString(consts.CtxUserID)

	var req dto.CreatePostDTO
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	file, closeFile, err := readMediaFile(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()

	post, err := s.postSvc.CreatePost(c.Request.Context(), ownerID, &req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	postID := c.Param("post_id")

	var req dto.UpdatePostDTO
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BindError(c, err)
		return
	}

	file, closeFile, err := readMediaFile(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()

	post, err := s.postSvc.UpdatePost(c.Request.Context(), postID, &req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	deleted, err := s.postSvc.DeletePost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, deleted)
}

func (s *PostHandler) SetPublished(c *gin.Context) {
	var req dto.TogglePublishDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	post, err := s.postSvc.SetPublished(c.Request.Context(), c.Param("post_id"), *req.IsPublished)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	post, err := s.postSvc.GetPost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	query, ok := bindPageQuery(c)
	if !ok {
		return
	}

	page, err := s.postSvc.ListPosts(c.Request.Context(), query.Limit, query.Page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListPostsByMediaType 按媒体类型获取已发布帖子
func (s *PostHandler) ListPostsByMediaType(c *gin.Context) {
	query, ok := bindPageQuery(c)
	if !ok {
		return
	}

	page, err := s.postSvc.ListPostsByMediaType(c.Request.Context(), c.Param("media_type"), query.Limit, query.Page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func bindPageQuery(c *gin.Context) (*dto.PageQueryDTO, bool) {
	query := &dto.PageQueryDTO{Limit: consts.DefaultPageLimit, Page: consts.DefaultPage}
	if err := c.ShouldBindQuery(query); err != nil {
		response.BindError(c, err)
		return nil, false
	}
	return query, true
}
