package repository

import (
	"Gazette/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextUpdatedAt(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("clock ahead", func(t *testing.T) {
		now := base.Add(2 * time.Second)
		assert.Equal(t, now, NextUpdatedAt(base, now))
	})

	t.Run("same millisecond", func(t *testing.T) {
		now := base.Add(300 * time.Microsecond)
		got := NextUpdatedAt(base, now)
		assert.True(t, got.After(base))
		assert.Equal(t, base.Add(time.Millisecond), got)
	})

	t.Run("clock behind", func(t *testing.T) {
		now := base.Add(-time.Minute)
		got := NextUpdatedAt(base, now)
		assert.True(t, got.After(base))
	})
}

func TestPostPatchColumns(t *testing.T) {
	empty := ""
	title := "New title"
	text := model.MediaTypeText
	published := true

	cols := (&PostPatch{
		Title:       &title,
		Content:     &empty,
		MediaType:   &text,
		MediaURL:    &empty,
		CategoryID:  &empty,
		IsPublished: &published,
	}).columns()

	assert.Equal(t, "New title", cols["title"])
	assert.Nil(t, cols["content"])
	assert.Contains(t, cols, "content")
	assert.Equal(t, model.MediaTypeText, cols["media_type"])
	assert.Equal(t, "", cols["media_url"])
	assert.Nil(t, cols["category_id"])
	assert.Contains(t, cols, "category_id")
	assert.Equal(t, true, cols["is_published"])

	assert.Empty(t, (&PostPatch{}).columns())
	var nilPatch *PostPatch
	assert.Empty(t, nilPatch.columns())
}
