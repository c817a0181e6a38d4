package nats

import (
	"testing"
	"time"

	"emojiart-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := encode(events.NewBackgroundFetchFailed("https://example.com/x.png", at))
	require.NoError(t, err)

	got, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, events.BackgroundFetchFailed, got.EventType())
	assert.Equal(t, "https://example.com/x.png", got.Payload()["url"])
	assert.True(t, at.Equal(got.Timestamp()))

	_, err = decode([]byte("not json"))
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "emojiart.events.PALETTES_CHANGED", Subject(events.PalettesChanged))
	assert.Equal(t, "emojiart.events.*", Subject("*"))
}
