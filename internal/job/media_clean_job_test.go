package job

import (
	"Gazette/internal/pkg/media"
	"Gazette/internal/pkg/metrics"
	"Gazette/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPostRepo struct {
	repository.PostRepo
	referenced map[string]bool
}

func (r *stubPostRepo) ExistsByMediaURL(_ context.Context, mediaURL string) (bool, error) {
	return r.referenced[mediaURL], nil
}

type stubRegistry struct {
	items    map[string]media.PendingMedia
	released []string
}

func (r *stubRegistry) Track(_ context.Context, ref string, kind media.Kind, reason string) error {
	r.items[ref] = media.PendingMedia{Ref: ref, Kind: kind, Reason: reason}
	return nil
}

func (r *stubRegistry) Release(_ context.Context, ref string) error {
	delete(r.items, ref)
	r.released = append(r.released, ref)
	return nil
}

func (r *stubRegistry) List(_ context.Context) ([]media.PendingMedia, error) {
	out := make([]media.PendingMedia, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

type stubGateway struct {
	deleted []string
	kinds   []media.Kind
	fail    map[string]bool
}

func (g *stubGateway) Upload(context.Context, *media.File, media.Kind) (string, error) {
	return "", errors.New("not supported")
}

func (g *stubGateway) Delete(_ context.Context, ref string, kind media.Kind) error {
	if g.fail[ref] {
		return errors.New("delete failed")
	}
	g.deleted = append(g.deleted, ref)
	g.kinds = append(g.kinds, kind)
	return nil
}

func (g *stubGateway) PublicURL(ref string, _ media.Kind) string {
	return ref
}

type stubLocker struct {
	held     bool
	unlocked bool
}

func (l *stubLocker) TryLock(context.Context, string, string, time.Duration) (bool, error) {
	return !l.held, nil
}

func (l *stubLocker) UnLock(context.Context, string, string) {
	l.unlocked = true
}

func TestMediaCleanupJob_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	old := now.Add(-2 * time.Hour).Unix()

	registry := &stubRegistry{items: map[string]media.PendingMedia{
		"orphan":     {Ref: "orphan", Kind: media.KindImage, Reason: media.ReasonCompensationFailed, CreatedAt: old},
		"referenced": {Ref: "referenced", Kind: media.KindVideo, Reason: media.ReasonUncommitted, CreatedAt: old},
		"fresh":      {Ref: "fresh", Kind: media.KindImage, Reason: media.ReasonUncommitted, CreatedAt: now.Unix()},
		"stubborn":   {Ref: "stubborn", Kind: media.KindImage, Reason: media.ReasonStaleDeleteFailed, CreatedAt: old},
	}}
	gateway := &stubGateway{fail: map[string]bool{"stubborn": true}}
	locker := &stubLocker{}
	repo := &stubPostRepo{referenced: map[string]bool{"referenced": true}}

	job := NewMediaCleanupJob(registry, repo, gateway, locker, metrics.MustNewMediaMetrics(prometheus.NewRegistry()), time.Hour)
	job.now = func() time.Time { return now }

	count, err := job.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"orphan"}, gateway.deleted)
	assert.ElementsMatch(t, []string{"orphan", "referenced"}, registry.released)
	assert.Contains(t, registry.items, "fresh")
	assert.Contains(t, registry.items, "stubborn", "failed deletes stay tracked for the next sweep")
	assert.True(t, locker.unlocked)
}

func TestMediaCleanupJob_SkipsWhenLocked(t *testing.T) {
	registry := &stubRegistry{items: map[string]media.PendingMedia{
		"orphan": {Ref: "orphan", Kind: media.KindImage},
	}}
	gateway := &stubGateway{}
	job := NewMediaCleanupJob(registry, &stubPostRepo{}, gateway, &stubLocker{held: true}, nil, 0)

	count, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, gateway.deleted)
}

func TestMediaCleanupJob_UnknownKindDeletedAsEveryKind(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	registry := &stubRegistry{items: map[string]media.PendingMedia{
		"broken": {Ref: "broken", Kind: media.KindUnknown, Reason: media.ReasonUncommitted, CreatedAt: now.Add(-2 * time.Hour).Unix()},
	}}
	gateway := &stubGateway{}

	job := NewMediaCleanupJob(registry, &stubPostRepo{}, gateway, nil, nil, time.Hour)
	job.now = func() time.Time { return now }

	count, err := job.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []media.Kind{media.KindImage, media.KindVideo}, gateway.kinds)
	assert.Equal(t, []string{"broken"}, registry.released)
}

func TestMediaCleanupJob_RepairedEntryWaitsForGrace(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	repaired, ok := media.DecodePending("broken", "{not json", now)
	require.True(t, ok)

	registry := &stubRegistry{items: map[string]media.PendingMedia{"broken": repaired}}
	gateway := &stubGateway{}

	job := NewMediaCleanupJob(registry, &stubPostRepo{}, gateway, nil, nil, time.Hour)
	job.now = func() time.Time { return now.Add(10 * time.Minute) }

	count, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, gateway.deleted)
	assert.Contains(t, registry.items, "broken")
}
