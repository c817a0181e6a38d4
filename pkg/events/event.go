package events

import "time"

const (
	DocumentChanged       = "DOCUMENT_CHANGED"
	BackgroundFetchFailed = "BACKGROUND_FETCH_FAILED"
	PalettesChanged       = "PALETTES_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "DOCUMENT_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewDocumentChanged(emojiCount, nextId int, backgroundKind string, at time.Time) Event {
	return BaseEvent{
		Type: DocumentChanged,
		Data: map[string]interface{}{
			"emoji_count":     emojiCount,
			"next_id":         nextId,
			"background_kind": backgroundKind,
		},
		OccurredAt: at,
	}
}

func NewBackgroundFetchFailed(url string, at time.Time) Event {
	return BaseEvent{
		Type:       BackgroundFetchFailed,
		Data:       map[string]interface{}{"url": url},
		OccurredAt: at,
	}
}

func NewPalettesChanged(store string, count int, at time.Time) Event {
	return BaseEvent{
		Type: PalettesChanged,
		Data: map[string]interface{}{
			"store": store,
			"count": count,
		},
		OccurredAt: at,
	}
}
