package service

import (
	"context"
	"sync"
	"time"

	"emojiart-be/internal/entity"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/pkg/clock"
	"emojiart-be/pkg/events"
)

const eventModule = "EVENTS"

// IEventPublisher is satisfied by the NATS publisher.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IEventService turns document and palette changes into bus events.
type IEventService interface {
	Start()
	Close()
}

type eventService struct {
	publisher IEventPublisher
	document  IDocumentService
	palettes  IPaletteService
	clock     clock.Clock
	logger    logger.ILogger

	queue  chan events.Event
	wg     sync.WaitGroup
	unsub  []func()
	mu     sync.Mutex
	closed bool

	// Owned by the document callback, which always runs on one goroutine.
	seeded     bool
	lastDoc    entity.Document
	lastStatus entity.BackgroundFetchStatus
}

func NewEventService(
	publisher IEventPublisher,
	document IDocumentService,
	palettes IPaletteService,
	clk clock.Clock,
	log logger.ILogger,
) IEventService {
	return &eventService{
		publisher: publisher,
		document:  document,
		palettes:  palettes,
		clock:     clk,
		logger:    log,
		queue:     make(chan events.Event, 256),
	}
}

func (es *eventService) Start() {
	es.wg.Add(1)
	go es.run()

	es.unsub = append(es.unsub,
		es.document.Watch(es.onDocument),
		es.palettes.Subscribe(es.onPalettes),
	)
}

// onDocument compares against the previous state. The first call only
// records the starting point.
func (es *eventService) onDocument(st DocumentState) {
	if !es.seeded {
		es.seeded = true
		es.lastDoc = st.Document
		es.lastStatus = st.FetchStatus
		return
	}

	now := es.clock.Now()
	if !st.Document.Equal(es.lastDoc) {
		es.enqueue(events.NewDocumentChanged(
			len(st.Document.Emojis),
			st.Document.NextId,
			string(st.Document.Background.Kind()),
			now,
		))
	}
	if st.FetchStatus.State == entity.FetchFailed && st.FetchStatus != es.lastStatus {
		es.enqueue(events.NewBackgroundFetchFailed(st.FetchStatus.URL, now))
	}
	es.lastDoc = st.Document
	es.lastStatus = st.FetchStatus
}

func (es *eventService) onPalettes(ps []entity.Palette) {
	es.enqueue(events.NewPalettesChanged(es.palettes.Name(), len(ps), es.clock.Now()))
}

// enqueue never blocks the publishing goroutine; a full queue drops the event.
func (es *eventService) enqueue(e events.Event) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.closed {
		return
	}
	select {
	case es.queue <- e:
	default:
		es.logger.Warn(eventModule, "Event queue full, dropping event", map[string]interface{}{
			"type": e.EventType(),
		})
	}
}

func (es *eventService) run() {
	defer es.wg.Done()
	for e := range es.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := es.publisher.Publish(ctx, e); err != nil {
			es.logger.Warn(eventModule, "Failed to publish event", map[string]interface{}{
				"type":  e.EventType(),
				"error": err,
			})
		}
		cancel()
	}
}

// Close unsubscribes and waits for queued events to be published.
func (es *eventService) Close() {
	for _, u := range es.unsub {
		u()
	}
	es.unsub = nil

	es.mu.Lock()
	es.closed = true
	close(es.queue)
	es.mu.Unlock()

	es.wg.Wait()
}
