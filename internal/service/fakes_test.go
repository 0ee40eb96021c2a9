package service

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/model"
	"Gazette/internal/pkg/media"
	"Gazette/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

var errStore = errors.New("store unavailable")

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*model.Post

	createErr error
	updateErr error
	deleteErr error

	deleted    []string
	lastOffset int
	lastLimit  int
	lastOnly   bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	return &c
}

func (r *fakePostRepo) put(p *model.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().Add(-time.Hour)
		p.UpdatedAt = p.CreatedAt
	}
	r.posts[p.ID] = clonePost(p)
}

func (r *fakePostRepo) get(id string) *model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		return clonePost(p)
	}
	return nil
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *model.Post) (*model.Post, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	post.CreatedAt, post.UpdatedAt = now, now
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *fakePostRepo) FindPost(_ context.Context, id string) (*model.Post, error) {
	return r.get(id), nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, patch *repository.PostPatch) (*model.Post, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		if *patch.Content == "" {
			p.Content = nil
		} else {
			v := *patch.Content
			p.Content = &v
		}
	}
	if patch.MediaType != nil {
		p.MediaType = *patch.MediaType
	}
	if patch.MediaURL != nil {
		p.MediaURL = *patch.MediaURL
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			p.CategoryID = nil
		} else {
			v := *patch.CategoryID
			p.CategoryID = &v
		}
	}
	if patch.IsPublished != nil {
		p.IsPublished = *patch.IsPublished
	}
	p.UpdatedAt = repository.NextUpdatedAt(p.UpdatedAt, time.Now())
	return clonePost(p), nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakePostRepo) filter(keep func(*model.Post) bool, limit, offset int) ([]*model.Post, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.Post
	for _, p := range r.posts {
		if keep(p) {
			all = append(all, clonePost(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []*model.Post{}, total
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total
}

func (r *fakePostRepo) ListPosts(_ context.Context, limit, offset int) ([]*model.Post, int64, error) {
	r.lastLimit, r.lastOffset = limit, offset
	posts, total := r.filter(func(*model.Post) bool { return true }, limit, offset)
	return posts, total, nil
}

func (r *fakePostRepo) ListPostsByMediaType(_ context.Context, mediaType model.MediaType, onlyPublished bool, limit, offset int) ([]*model.Post, int64, error) {
	r.lastLimit, r.lastOffset, r.lastOnly = limit, offset, onlyPublished
	posts, total := r.filter(func(p *model.Post) bool {
		return p.MediaType == mediaType && (!onlyPublished || p.IsPublished)
	}, limit, offset)
	return posts, total, nil
}

func (r *fakePostRepo) SetPublished(ctx context.Context, id string, isPublished bool) (*model.Post, error) {
	return r.UpdatePost(ctx, id, &repository.PostPatch{IsPublished: &isPublished})
}

func (r *fakePostRepo) ExistsByMediaURL(_ context.Context, mediaURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.MediaURL == mediaURL {
			return true, nil
		}
	}
	return false, nil
}

type fakeCategoryRepo struct {
	categories map[string]*model.Category
	createErr  error
}

func newFakeCategoryRepo(ids ...string) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[string]*model.Category)}
	for _, id := range ids {
		r.categories[id] = &model.Category{ID: id, Name: "name-" + id}
	}
	return r
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, c := range r.categories {
		if c.Name == category.Name {
			return fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)
		}
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetCategory(_ context.Context, id string) (*model.Category, error) {
	return r.categories[id], nil
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context) ([]*model.Category, error) {
	out := make([]*model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, id string, updates map[string]any) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	if name, ok := updates["name"].(string); ok {
		c.Name = name
	}
	if v, ok := updates["description"]; ok {
		if v == nil {
			c.Description = nil
		} else {
			d := v.(string)
			c.Description = &d
		}
	}
	return c, nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

type fakeGateway struct {
	mu        sync.Mutex
	seq       int
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (g *fakeGateway) Upload(_ context.Context, file *media.File, kind media.Kind) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.uploadErr != nil {
		return "", g.uploadErr
	}
	g.seq++
	ref := fmt.Sprintf("%s/new-%d.%s", kind, g.seq, file.Ext())
	g.uploads = append(g.uploads, ref)
	return ref, nil
}

func (g *fakeGateway) Delete(_ context.Context, ref string, _ media.Kind) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, ref)
	return g.deleteErr
}

func (g *fakeGateway) PublicURL(ref string, _ media.Kind) string {
	if ref == "" {
		return ""
	}
	return "https://cdn.test/" + ref
}

func (g *fakeGateway) calls() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.uploads), len(g.deletes)
}

type fakeRegistry struct {
	mu      sync.Mutex
	pending map[string]media.PendingMedia
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{pending: make(map[string]media.PendingMedia)}
}

func (r *fakeRegistry) Track(_ context.Context, ref string, kind media.Kind, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[ref] = media.PendingMedia{Ref: ref, Kind: kind, Reason: reason, CreatedAt: time.Now().Unix()}
	return nil
}

func (r *fakeRegistry) Release(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, ref)
	return nil
}

func (r *fakeRegistry) List(_ context.Context) ([]media.PendingMedia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]media.PendingMedia, 0, len(r.pending))
	for _, p := range r.pending {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRegistry) reason(ref string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[ref]
	return p.Reason, ok
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*dto.PostEvent
	err    error
}

func (p *fakePublisher) PublishPostEvent(_ context.Context, event *dto.PostEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func imageFile(name string, size int64) *media.File {
	return &media.File{Name: name, ContentType: "image/png", Size: size, Reader: strings.NewReader("png")}
}

func videoFile(name string, size int64) *media.File {
	return &media.File{Name: name, ContentType: "video/mp4", Size: size, Reader: strings.NewReader("mp4")}
}
