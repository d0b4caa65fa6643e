package rabbitmq_test

import (
	"errors"
	"testing"
	"time"

	"lolitems/internal/models"
	"lolitems/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDelivery(t *testing.T) {
	event := models.ItemEvent{
		ID:         "0b7a2f0e-5b8c-4a55-9a51-1f0f8a7f6d11",
		Type:       models.ItemCreated,
		ItemName:   "Health Potion",
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	body, err := rabbitmq.EncodeItemEvent(event)
	require.NoError(t, err)

	var got models.ItemEvent
	err = rabbitmq.HandleDelivery(body, func(e models.ItemEvent) error {
		got = e
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestHandleDeliveryRejects(t *testing.T) {
	called := false
	handler := func(models.ItemEvent) error {
		called = true
		return nil
	}

	assert.Error(t, rabbitmq.HandleDelivery([]byte("not json"), handler))
	assert.Error(t, rabbitmq.HandleDelivery([]byte(`{"id":"x"}`), handler))
	assert.False(t, called)

	failing := errors.New("audit sink down")
	err := rabbitmq.HandleDelivery([]byte(`{"id":"x","type":"item.deleted","item_name":"Boots"}`), func(models.ItemEvent) error {
		return failing
	})
	assert.ErrorIs(t, err, failing)
}
