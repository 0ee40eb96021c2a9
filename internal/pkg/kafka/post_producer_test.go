package kafka

import (
	"Gazette/internal/api/dto"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPostEvent(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got dto.PostEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != dto.PostEventCreated || got.PostID != "p-1" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	producer := newPostProducer(mp, "gazette.post.events")
	err := producer.PublishPostEvent(context.Background(), &dto.PostEvent{
		Type:        dto.PostEventCreated,
		PostID:      "p-1",
		MediaType:   "TEXT",
		IsPublished: true,
		At:          time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestPublishPostEventFailure(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageAndFail(errors.New("broker down"))

	producer := newPostProducer(mp, "gazette.post.events")
	err := producer.PublishPostEvent(context.Background(), &dto.PostEvent{Type: dto.PostEventDeleted, PostID: "p-2"})
	assert.Error(t, err)
	require.NoError(t, producer.Close())
}
