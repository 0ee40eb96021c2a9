package service

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/model"
	"Gazette/internal/pkg/media"
	"Gazette/internal/pkg/metrics"
	"Gazette/internal/pkg/saga"
	"Gazette/internal/pkg/util"
	"Gazette/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// PostEventPublisher 帖子事件发送方，可为空
type PostEventPublisher interface {
	PublishPostEvent(ctx context.Context, event *dto.PostEvent) error
}

type PostService interface {
	CreatePost(ctx context.Context, ownerID string, req *dto.CreatePostDTO, file *media.File) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, id string, req *dto.UpdatePostDTO, file *media.File) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	SetPublished(ctx context.Context, id string, isPublished bool) (*dto.PostDTO, error)
	GetPost(ctx context.Context, id string) (*dto.PostDTO, error)
	ListPosts(ctx context.Context, limit, page int) (*dto.PageDTO[*dto.PostDTO], error)
	ListPostsByMediaType(ctx context.Context, mediaType string, limit, page int) (*dto.PageDTO[*dto.PostDTO], error)
}

// PostServiceOptions 可选依赖与策略
type PostServiceOptions struct {
	Policy              MediaPolicy
	CompensationTimeout time.Duration
	Registry            media.PendingRegistry
	Metrics             *metrics.MediaMetrics
	Publisher           PostEventPublisher
}

type postServiceImpl struct {
	postRepo     repository.PostRepo
	categoryRepo repository.CategoryRepo
	gateway      media.Gateway
	opts         PostServiceOptions
}

func NewPostService(postRepo repository.PostRepo, categoryRepo repository.CategoryRepo, gateway media.Gateway, opts PostServiceOptions) PostService {
	if opts.CompensationTimeout <= 0 {
		opts.CompensationTimeout = saga.DefaultTimeout
	}
	var defaulted bool
	if opts.Policy, defaulted = opts.Policy.withDefaults(); defaulted {
		log.Warn("media size limit not configured, using default",
			"max_image_size", util.FormatFileSize(opts.Policy.MaxImageSize),
			"max_video_size", util.FormatFileSize(opts.Policy.MaxVideoSize))
	}
	return &postServiceImpl{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		gateway:      gateway,
		opts:         opts,
	}
}

// CreatePost 创建帖子：校验 -> 上传 -> 落库，落库失败时删除刚上传的对象
func (s *postServiceImpl) CreatePost(ctx context.Context, ownerID string, req *dto.CreatePostDTO, file *media.File) (*dto.PostDTO, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	in, err := s.opts.Policy.validateCreate(ownerID, req.Title, req.Content, req.MediaType, req.CategoryID, req.IsPublished, file)
	if err != nil {
		return nil, err
	}
	if err = s.checkCategory(ctx, in.categoryID); err != nil {
		return nil, err
	}

	kind := kindOf(in.mediaType)
	var ref string
	if file != nil {
		if ref, err = s.upload(ctx, file, kind); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		ID:          uuid.NewString(),
		Title:       in.title,
		Content:     in.content,
		MediaType:   in.mediaType,
		MediaURL:    ref,
		CategoryID:  in.categoryID,
		OwnerID:     in.ownerID,
		IsPublished: in.isPublished,
	}
	created, err := saga.Step(ctx, func(ctx context.Context) (*model.Post, error) {
		return s.postRepo.CreatePost(ctx, post)
	}, s.discard(ref, kind, "rollback", media.ReasonCompensationFailed))
	if err != nil {
		return nil, &PersistenceFailure{Op: "create", Err: err}
	}

	s.release(ctx, ref)
	s.publish(ctx, dto.PostEventCreated, created)
	return s.toPostDTO(created)
}

// UpdatePost 局部修改帖子；新对象落库成功后才删除旧对象
func (s *postServiceImpl) UpdatePost(ctx context.Context, id string, req *dto.UpdatePostDTO, file *media.File) (*dto.PostDTO, error) {
	existing, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	oldRef, oldKind := existing.MediaURL, kindOf(existing.MediaType)

	plan, err := s.opts.Policy.validateUpdate(existing, req, file)
	if err != nil {
		return nil, err
	}
	if err = s.checkCategory(ctx, plan.categoryID); err != nil {
		return nil, err
	}

	kind := kindOf(plan.targetType)
	var newRef string
	if file != nil {
		if newRef, err = s.upload(ctx, file, kind); err != nil {
			return nil, err
		}
		plan.patch.MediaURL = &newRef
	} else if plan.clearMedia {
		cleared := ""
		plan.patch.MediaURL = &cleared
	}

	updated, err := saga.Step(ctx, func(ctx context.Context) (*model.Post, error) {
		post, err := s.postRepo.UpdatePost(ctx, id, &plan.patch)
		if err == nil && post == nil {
			return nil, ErrPostNotFound
		}
		return post, err
	}, s.discard(newRef, kind, "rollback", media.ReasonCompensationFailed))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, &PersistenceFailure{Op: "update", Err: err}
	}
	s.release(ctx, newRef)

	if oldRef != "" && oldRef != updated.MediaURL {
		if err = s.discard(oldRef, oldKind, "stale", media.ReasonStaleDeleteFailed).Run(ctx); err != nil {
			log.WarnContext(ctx, "delete stale media failed", "post_id", id, "ref", oldRef, "err", err)
		}
	}

	s.publish(ctx, dto.PostEventUpdated, updated)
	return s.toPostDTO(updated)
}

// DeletePost 删除帖子，媒体删除失败不阻塞记录删除
func (s *postServiceImpl) DeletePost(ctx context.Context, id string) (bool, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return false, err
	}

	if post.MediaURL != "" {
		if err = s.discard(post.MediaURL, kindOf(post.MediaType), "delete", media.ReasonDeleteFailed).Run(ctx); err != nil {
			log.WarnContext(ctx, "delete post media failed", "post_id", id, "ref", post.MediaURL, "err", err)
		}
	}

	if err = s.postRepo.DeletePost(ctx, id); err != nil {
		return false, &PersistenceFailure{Op: "delete", Err: err}
	}

	s.publish(ctx, dto.PostEventDeleted, post)
	return true, nil
}

// SetPublished 修改发布状态
func (s *postServiceImpl) SetPublished(ctx context.Context, id string, isPublished bool) (*dto.PostDTO, error) {
	post, err := s.postRepo.SetPublished(ctx, id, isPublished)
	if err != nil {
		return nil, &PersistenceFailure{Op: "publish", Err: err}
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	s.publish(ctx, dto.PostEventPublished, post)
	return s.toPostDTO(post)
}

// GetPost 获取单个帖子
func (s *postServiceImpl) GetPost(ctx context.Context, id string) (*dto.PostDTO, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toPostDTO(post)
}

// ListPosts 分页获取全部帖子
func (s *postServiceImpl) ListPosts(ctx context.Context, limit, page int) (*dto.PageDTO[*dto.PostDTO], error) {
	limit, page = ClampPage(limit, page)
	posts, total, err := s.postRepo.ListPosts(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.toPageDTO(posts, total, limit, page)
}

// ListPostsByMediaType 按媒体类型分页，只返回已发布的帖子
func (s *postServiceImpl) ListPostsByMediaType(ctx context.Context, mediaType string, limit, page int) (*dto.PageDTO[*dto.PostDTO], error) {
	t, err := parseMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	limit, page = ClampPage(limit, page)
	posts, total, err := s.postRepo.ListPostsByMediaType(ctx, t, true, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list posts by media type: %w", err)
	}
	return s.toPageDTO(posts, total, limit, page)
}

// ClampPage 分页参数下限为 1
func ClampPage(limit, page int) (int, int) {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	return limit, page
}

func (s *postServiceImpl) findPost(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postServiceImpl) checkCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.GetCategory(ctx, *categoryID)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

// upload 上传并登记为未提交，直到记录落库后释放
func (s *postServiceImpl) upload(ctx context.Context, file *media.File, kind media.Kind) (string, error) {
	ref, err := s.gateway.Upload(ctx, file, kind)
	if err == nil && ref == "" {
		err = errors.New("empty media reference")
	}
	s.opts.Metrics.ObserveUpload(string(kind), err)
	if err != nil {
		return "", &UploadFailure{Kind: kind, Err: err}
	}
	log.InfoContext(ctx, "media uploaded", "ref", ref, "kind", kind, "size", util.FormatFileSize(file.Size))
	s.track(ctx, ref, kind, media.ReasonUncommitted)
	return ref, nil
}

// discard 删除远端对象的补偿动作，失败时登记到待清理表；ref 为空时返回 nil
func (s *postServiceImpl) discard(ref string, kind media.Kind, purpose, reason string) *saga.Compensation {
	if ref == "" {
		return nil
	}
	return saga.NewCompensation(purpose+" "+ref, func(ctx context.Context) error {
		err := s.gateway.Delete(ctx, ref, kind)
		s.opts.Metrics.ObserveCompensation(purpose, err)
		if err != nil {
			s.track(ctx, ref, kind, reason)
			return err
		}
		s.release(ctx, ref)
		return nil
	}).WithTimeout(s.opts.CompensationTimeout)
}

func (s *postServiceImpl) track(ctx context.Context, ref string, kind media.Kind, reason string) {
	if s.opts.Registry == nil || ref == "" {
		return
	}
	if reason != media.ReasonUncommitted {
		s.opts.Metrics.ObserveOrphan(reason)
	}
	if err := s.opts.Registry.Track(ctx, ref, kind, reason); err != nil {
		log.WarnContext(ctx, "track pending media failed", "ref", ref, "reason", reason, "err", err)
	}
}

func (s *postServiceImpl) release(ctx context.Context, ref string) {
	if s.opts.Registry == nil || ref == "" {
		return
	}
	if err := s.opts.Registry.Release(ctx, ref); err != nil {
		log.WarnContext(ctx, "release pending media failed", "ref", ref, "err", err)
	}
}

func (s *postServiceImpl) publish(ctx context.Context, eventType string, post *model.Post) {
	if s.opts.Publisher == nil || post == nil {
		return
	}
	event := &dto.PostEvent{
		Type:        eventType,
		PostID:      post.ID,
		MediaType:   string(post.MediaType),
		IsPublished: post.IsPublished,
		At:          time.Now(),
	}
	if err := s.opts.Publisher.PublishPostEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "publish post event failed", "post_id", post.ID, "type", eventType, "err", err)
	}
}

func (s *postServiceImpl) toPostDTO(post *model.Post) (*dto.PostDTO, error) {
	out := &dto.PostDTO{}
	if err := copier.CopyWithOption(out, post, copyOption); err != nil {
		return nil, err
	}
	out.MediaType = string(post.MediaType)
	out.MediaURL = s.gateway.PublicURL(post.MediaURL, kindOf(post.MediaType))
	category, err := toCategoryDTO(post.Category)
	if err != nil {
		return nil, err
	}
	out.Category = category
	return out, nil
}

func (s *postServiceImpl) toPageDTO(posts []*model.Post, total int64, limit, page int) (*dto.PageDTO[*dto.PostDTO], error) {
	data := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		item, err := s.toPostDTO(post)
		if err != nil {
			return nil, err
		}
		data = append(data, item)
	}
	return &dto.PageDTO[*dto.PostDTO]{
		Data:       data,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}, nil
}
