package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"emojiart-be/internal/entity"
	"emojiart-be/internal/mapper"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/internal/repository/contract"
	"emojiart-be/pkg/clock"
	"emojiart-be/pkg/fetcher"
	"emojiart-be/pkg/imaging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const documentModule = "DOCUMENT"

var ErrDocumentClosed = errors.New("document service is closed")

// DocumentState is what observers see after every committed change.
type DocumentState struct {
	Document        entity.Document
	BackgroundImage *imaging.Image
	FetchStatus     entity.BackgroundFetchStatus
}

// ISnapshotWriter receives autosave blobs. The store itself satisfies it; the
// server puts a queue in front.
type ISnapshotWriter interface {
	Write(ctx context.Context, key string, data []byte) error
}

// IDocumentService owns the live document. Intents are applied in call order
// and return once committed. Subscribers are called on the owner goroutine and
// must not call back into the service synchronously.
type IDocumentService interface {
	State() DocumentState
	Subscribe(fn func(DocumentState)) (unsubscribe func())
	// Watch calls fn with the current state and then with every later one.
	// No commit can fall between the first call and the subscription.
	Watch(fn func(DocumentState)) (unsubscribe func())

	AddEmoji(text string, x, y, size int) (int, error)
	RemoveEmoji(id int) error
	MoveEmoji(id, dx, dy int) error
	ScaleEmoji(id int, factor float64) error
	RemoveEmojis(ids []int) error
	MoveEmojis(ids []int, dx, dy int) error
	ScaleEmojis(ids []int, factor float64) error
	SetBackground(bg entity.Background) error

	// Flush writes the latest snapshot now if an autosave is pending.
	Flush(ctx context.Context) error
	// Close flushes and stops the service. Later intents return ErrDocumentClosed.
	Close(ctx context.Context) error
}

type DocumentServiceConfig struct {
	AutosaveKey      string
	AutosaveInterval time.Duration
	FetchTimeout     time.Duration
	// SaveTimeout bounds a single autosave write. Default: 10s.
	SaveTimeout      time.Duration
}

type documentService struct {
	cfg     DocumentServiceConfig
	store   contract.SnapshotRepository
	saver   *autosaveWorker
	fetcher fetcher.Fetcher
	decoder imaging.Decoder
	clock   clock.Clock
	logger  logger.ILogger
	mapper  *mapper.DocumentMapper
	tracer  trace.Tracer

	loop *dispatcher
	subs *subscribers[DocumentState]

	// Owned by loop.
	doc         entity.Document
	image       *imaging.Image
	status      entity.BackgroundFetchStatus
	saveTimer   clock.Timer
	saveGen     int
	savePending bool

	stateMu sync.RWMutex
	state   DocumentState

	closeOnce sync.Once
	closeErr  error
}

// NewDocumentService restores the document stored under cfg.AutosaveKey, or
// starts empty. writer may be nil, in which case autosaves go to store.
func NewDocumentService(
	ctx context.Context,
	cfg DocumentServiceConfig,
	store contract.SnapshotRepository,
	writer ISnapshotWriter,
	fetch fetcher.Fetcher,
	decoder imaging.Decoder,
	clk clock.Clock,
	log logger.ILogger,
) IDocumentService {
	if cfg.AutosaveKey == "" {
		cfg.AutosaveKey = "Autosave.emojiart"
	}
	if cfg.AutosaveInterval <= 0 {
		cfg.AutosaveInterval = 5 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}
	if writer == nil {
		writer = store
	}

	s := &documentService{
		cfg:     cfg,
		store:   store,
		saver:   newAutosaveWorker(cfg.AutosaveKey, writer, cfg.SaveTimeout, log),
		fetcher: fetch,
		decoder: decoder,
		clock:   clk,
		logger:  log,
		mapper:  mapper.NewDocumentMapper(),
		tracer:  otel.Tracer("emojiart-be/document"),
		loop:    newDispatcher(),
		subs:    newSubscribers[DocumentState](),
		doc:     entity.NewDocument(),
		status:  entity.FetchStatusIdle(),
	}

	restored := s.restore(ctx)
	s.loop.do(func() {
		s.doc = restored
		if !restored.Background.IsBlank() {
			s.resolveBackground(restored.Background)
		}
		s.publish()
	})
	return s
}

func (s *documentService) restore(ctx context.Context) entity.Document {
	data, found, err := s.store.Read(ctx, s.cfg.AutosaveKey)
	if err != nil {
		s.logger.Error(documentModule, "Failed to read autosave", map[string]interface{}{
			"key":   s.cfg.AutosaveKey,
			"error": err,
		})
		return entity.NewDocument()
	}
	if !found {
		return entity.NewDocument()
	}

	doc, err := s.mapper.Decode(data)
	if err != nil {
		s.logger.Warn(documentModule, "Ignoring malformed autosave", map[string]interface{}{
			"key":   s.cfg.AutosaveKey,
			"error": err,
		})
		return entity.NewDocument()
	}

	s.logger.Info(documentModule, "Restored autosave", map[string]interface{}{
		"emojis":     len(doc.Emojis),
		"background": string(doc.Background.Kind()),
	})
	return doc
}

func (s *documentService) State() DocumentState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *documentService) Subscribe(fn func(DocumentState)) func() {
	return s.subs.add(fn)
}

func (s *documentService) Watch(fn func(DocumentState)) func() {
	var unsubscribe func()
	if s.loop.do(func() {
		unsubscribe = s.subs.add(fn)
		fn(s.State())
	}) {
		return unsubscribe
	}
	// Closed: the state is final.
	fn(s.State())
	return func() {}
}

func (s *documentService) AddEmoji(text string, x, y, size int) (int, error) {
	var id int
	err := s.apply(func(d entity.Document) entity.Document {
		next := d.AddEmoji(text, x, y, size)
		id = next.NextId
		return next
	})
	return id, err
}

func (s *documentService) RemoveEmoji(id int) error {
	return s.apply(func(d entity.Document) entity.Document { return d.RemoveEmoji(id) })
}

func (s *documentService) MoveEmoji(id, dx, dy int) error {
	return s.apply(func(d entity.Document) entity.Document { return d.MoveEmoji(id, dx, dy) })
}

func (s *documentService) ScaleEmoji(id int, factor float64) error {
	return s.apply(func(d entity.Document) entity.Document { return d.ScaleEmoji(id, factor) })
}

func (s *documentService) RemoveEmojis(ids []int) error {
	return s.apply(func(d entity.Document) entity.Document { return d.RemoveEmojis(ids) })
}

func (s *documentService) MoveEmojis(ids []int, dx, dy int) error {
	return s.apply(func(d entity.Document) entity.Document { return d.MoveEmojis(ids, dx, dy) })
}

func (s *documentService) ScaleEmojis(ids []int, factor float64) error {
	return s.apply(func(d entity.Document) entity.Document { return d.ScaleEmojis(ids, factor) })
}

func (s *documentService) SetBackground(bg entity.Background) error {
	return s.apply(func(d entity.Document) entity.Document { return d.SetBackground(bg) })
}

func (s *documentService) apply(change func(entity.Document) entity.Document) error {
	if !s.loop.do(func() { s.commit(change(s.doc)) }) {
		return ErrDocumentClosed
	}
	return nil
}

// commit runs on the loop. Unchanged documents are not republished or saved.
func (s *documentService) commit(next entity.Document) {
	if next.Equal(s.doc) {
		return
	}
	prev := s.doc
	s.doc = next

	if !next.Background.Equal(prev.Background) {
		s.resolveBackground(next.Background)
	}
	s.scheduleAutosave()
	s.publish()
}

func (s *documentService) resolveBackground(bg entity.Background) {
	switch bg.Kind() {
	case entity.BackgroundURL:
		url, _ := bg.URL()
		s.image = nil
		s.status = entity.FetchStatusFetching()
		go s.fetch(url)

	case entity.BackgroundImageData:
		data, _ := bg.ImageData()
		img, err := s.decoder.Decode(data)
		if err != nil {
			s.logger.Warn(documentModule, "Embedded background could not be decoded", map[string]interface{}{
				"bytes": len(data),
				"error": err,
			})
			img = nil
		}
		s.image = img
		s.status = entity.FetchStatusIdle()

	default:
		s.image = nil
		s.status = entity.FetchStatusIdle()
	}
}

// fetch runs off the loop. Its result is handed back to the loop, which
// drops it if the background has moved on.
func (s *documentService) fetch(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "document.fetchBackground",
		trace.WithAttributes(attribute.String("background.url", url)))

	img, err := s.download(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	s.loop.post(func() { s.finishFetch(url, img, err) })
}

func (s *documentService) download(ctx context.Context, url string) (*imaging.Image, error) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, errors.Join(entity.ErrFetchFailure, err)
	}
	img, err := s.decoder.Decode(data)
	if err != nil {
		return nil, errors.Join(entity.ErrDecodeFailure, err)
	}
	return img, nil
}

func (s *documentService) finishFetch(url string, img *imaging.Image, err error) {
	if !s.doc.Background.Equal(entity.RemoteBackground(url)) {
		s.logger.Debug(documentModule, "Discarding stale background fetch", map[string]interface{}{
			"url": url,
		})
		return
	}

	if err != nil {
		s.logger.Warn(documentModule, "Background fetch failed", map[string]interface{}{
			"url":   url,
			"error": err,
		})
		s.image = nil
		s.status = entity.FetchStatusFailed(url)
	} else {
		s.image = img
		s.status = entity.FetchStatusIdle()
	}
	s.publish()
}

func (s *documentService) scheduleAutosave() {
	s.savePending = true
	s.saveGen++
	gen := s.saveGen
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = s.clock.AfterFunc(s.cfg.AutosaveInterval, func() {
		s.loop.post(func() {
			// A newer change rearmed the timer after this one fired.
			if gen != s.saveGen || !s.savePending {
				return
			}
			s.save()
		})
	})
}

// save encodes on the loop and hands the bytes to the autosave worker; the
// write itself happens off the loop.
func (s *documentService) save() error {
	s.savePending = false
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}

	data, err := s.mapper.Encode(s.doc)
	if err != nil {
		s.logger.Error(documentModule, "Autosave failed", map[string]interface{}{
			"key":   s.cfg.AutosaveKey,
			"error": err,
		})
		return err
	}
	s.saver.submit(data)
	return nil
}

func (s *documentService) publish() {
	st := DocumentState{
		Document:        s.doc,
		BackgroundImage: s.image,
		FetchStatus:     s.status,
	}
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()

	s.subs.notify(st)
}

// Flush hands any pending snapshot to the worker, then waits outside the
// loop until it and any earlier write have finished.
func (s *documentService) Flush(ctx context.Context) error {
	var (
		err     error
		settled <-chan error
	)
	if !s.loop.do(func() {
		if s.savePending {
			s.saveGen++
			err = s.save()
		}
		settled = s.saver.settled()
	}) {
		return ErrDocumentClosed
	}
	if err != nil {
		return err
	}

	select {
	case err = <-settled:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *documentService) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		err := s.Flush(ctx)
		s.loop.stop()
		s.closeErr = errors.Join(err, s.saver.stop(ctx))
	})
	return s.closeErr
}
