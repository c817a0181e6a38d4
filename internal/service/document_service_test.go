package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"emojiart-be/internal/entity"
	"emojiart-be/internal/mapper"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/internal/repository/contract"
	"emojiart-be/internal/repository/memory"
	"emojiart-be/pkg/clock"
	"emojiart-be/pkg/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fetchResult struct {
	data []byte
	err  error
}

// stubFetcher blocks every Fetch until the test completes that url.
type stubFetcher struct {
	mu      sync.Mutex
	results map[string]chan fetchResult
	started chan string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		results: make(map[string]chan fetchResult),
		started: make(chan string, 16),
	}
}

func (f *stubFetcher) channel(url string) chan fetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.results[url]
	if !ok {
		ch = make(chan fetchResult, 1)
		f.results[url] = ch
	}
	return ch
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ch := f.channel(url)
	f.started <- url
	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *stubFetcher) complete(url string, data []byte, err error) {
	f.channel(url) <- fetchResult{data: data, err: err}
}

func (f *stubFetcher) waitStarted(t *testing.T, url string) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, url, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch of %s never started", url)
	}
}

// stubDecoder treats the bytes as the format name; "bad" fails.
type stubDecoder struct{}

func (stubDecoder) Decode(data []byte) (*imaging.Image, error) {
	if len(data) == 0 || string(data) == "bad" {
		return nil, errors.New("unrecognized image")
	}
	return &imaging.Image{Format: string(data), Width: len(data), Height: 1}, nil
}

type countingWriter struct {
	mu    sync.Mutex
	inner ISnapshotWriter
	fail  bool
	count int
}

func (w *countingWriter) Write(ctx context.Context, key string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.count++
	if w.fail {
		return entity.ErrPersistenceFailure
	}
	return w.inner.Write(ctx, key, data)
}

func (w *countingWriter) writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

type documentFixture struct {
	svc     IDocumentService
	store   contract.SnapshotRepository
	writer  *countingWriter
	fetcher *stubFetcher
	clock   *clock.Fake
	logs    *observer.ObservedLogs
}

func newDocumentFixture(t *testing.T, store contract.SnapshotRepository) *documentFixture {
	t.Helper()
	if store == nil {
		store = memory.NewSnapshotRepository()
	}
	core, logs := observer.New(zap.DebugLevel)
	f := &documentFixture{
		store:   store,
		writer:  &countingWriter{inner: store},
		fetcher: newStubFetcher(),
		clock:   clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		logs:    logs,
	}
	f.svc = NewDocumentService(
		context.Background(),
		DocumentServiceConfig{AutosaveKey: "Autosave.emojiart", AutosaveInterval: 5 * time.Second, FetchTimeout: time.Second},
		store,
		f.writer,
		f.fetcher,
		stubDecoder{},
		f.clock,
		logger.NewFromCore(core),
	)
	t.Cleanup(func() { f.svc.Close(context.Background()) })
	return f
}

// barrier waits until every task queued so far has run and every snapshot
// handed to the autosave worker has been written.
func (f *documentFixture) barrier() {
	svc := f.svc.(*documentService)
	var settled <-chan error
	svc.loop.do(func() { settled = svc.saver.settled() })
	if settled != nil {
		<-settled
	}
}

func TestDocumentServiceIntents(t *testing.T) {
	f := newDocumentFixture(t, nil)

	var published []DocumentState
	unsubscribe := f.svc.Subscribe(func(s DocumentState) { published = append(published, s) })
	defer unsubscribe()

	first, err := f.svc.AddEmoji("😀", -200, -100, 80)
	require.NoError(t, err)
	second, err := f.svc.AddEmoji("😃", 200, 100, 80)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	doc := f.svc.State().Document
	require.Len(t, doc.Emojis, 2)
	assert.Equal(t, entity.Emoji{Id: first, Text: "😀", X: -200, Y: -100, Size: 80}, doc.Emojis[0])
	assert.Equal(t, entity.Emoji{Id: second, Text: "😃", X: 200, Y: 100, Size: 80}, doc.Emojis[1])

	require.NoError(t, f.svc.MoveEmoji(first, 10, -5))
	require.NoError(t, f.svc.ScaleEmoji(second, 1.5))

	doc = f.svc.State().Document
	assert.Equal(t, entity.Emoji{Id: first, Text: "😀", X: -190, Y: -105, Size: 80}, doc.Emojis[0])
	assert.Equal(t, 120, doc.Emojis[1].Size)

	// Absent ids are no-ops and publish nothing.
	before := len(published)
	require.NoError(t, f.svc.RemoveEmoji(999))
	require.NoError(t, f.svc.MoveEmoji(999, 1, 1))
	assert.Len(t, published, before)

	require.NoError(t, f.svc.MoveEmojis([]int{first, second}, 1, 1))
	require.NoError(t, f.svc.ScaleEmojis([]int{first, second}, 0.5))
	doc = f.svc.State().Document
	assert.Equal(t, 40, doc.Emojis[0].Size)
	assert.Equal(t, 60, doc.Emojis[1].Size)
	assert.Equal(t, -189, doc.Emojis[0].X)

	require.NoError(t, f.svc.RemoveEmojis([]int{first}))
	doc = f.svc.State().Document
	require.Len(t, doc.Emojis, 1)
	assert.Equal(t, second, doc.Emojis[0].Id)

	assert.Len(t, published, before+3)
	assert.Equal(t, doc, published[len(published)-1].Document)
}

func TestDocumentServiceStaleFetchIsDiscarded(t *testing.T) {
	f := newDocumentFixture(t, nil)

	require.NoError(t, f.svc.SetBackground(entity.RemoteBackground("https://a.example/url1.png")))
	f.fetcher.waitStarted(t, "https://a.example/url1.png")
	require.NoError(t, f.svc.SetBackground(entity.RemoteBackground("https://b.example/url2.png")))
	f.fetcher.waitStarted(t, "https://b.example/url2.png")

	f.fetcher.complete("https://a.example/url1.png", []byte("first"), nil)
	require.Eventually(t, func() bool {
		return f.logs.FilterMessage("Discarding stale background fetch").Len() == 1
	}, 2*time.Second, 5*time.Millisecond)
	f.barrier()

	st := f.svc.State()
	assert.Nil(t, st.BackgroundImage)
	assert.Equal(t, entity.FetchStatusFetching(), st.FetchStatus)

	f.fetcher.complete("https://b.example/url2.png", []byte("second"), nil)
	require.Eventually(t, func() bool {
		return f.svc.State().BackgroundImage != nil
	}, 2*time.Second, 5*time.Millisecond)

	st = f.svc.State()
	assert.Equal(t, "second", st.BackgroundImage.Format)
	assert.Equal(t, entity.FetchStatusIdle(), st.FetchStatus)
}

func TestDocumentServiceFetchFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{name: "fetch error", err: errors.New("connection refused")},
		{name: "undecodable bytes", data: []byte("bad")},
		{name: "no bytes", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDocumentFixture(t, nil)
			url := "https://example.com/bg.png"

			require.NoError(t, f.svc.SetBackground(entity.RemoteBackground(url)))
			f.fetcher.waitStarted(t, url)
			f.fetcher.complete(url, tt.data, tt.err)

			require.Eventually(t, func() bool {
				return f.svc.State().FetchStatus == entity.FetchStatusFailed(url)
			}, 2*time.Second, 5*time.Millisecond)
			assert.Nil(t, f.svc.State().BackgroundImage)
		})
	}
}

func TestDocumentServiceFetchTimeout(t *testing.T) {
	f := newDocumentFixture(t, nil)
	f.svc.(*documentService).cfg.FetchTimeout = 20 * time.Millisecond
	url := "https://slow.example.com/bg.png"

	require.NoError(t, f.svc.SetBackground(entity.RemoteBackground(url)))
	f.fetcher.waitStarted(t, url)

	require.Eventually(t, func() bool {
		return f.svc.State().FetchStatus == entity.FetchStatusFailed(url)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDocumentServiceEmbeddedAndBlankBackground(t *testing.T) {
	f := newDocumentFixture(t, nil)

	require.NoError(t, f.svc.SetBackground(entity.EmbeddedBackground([]byte("png"))))
	st := f.svc.State()
	require.NotNil(t, st.BackgroundImage)
	assert.Equal(t, "png", st.BackgroundImage.Format)
	assert.Equal(t, entity.FetchStatusIdle(), st.FetchStatus)

	// Local decode failure is silent.
	require.NoError(t, f.svc.SetBackground(entity.EmbeddedBackground([]byte("bad"))))
	st = f.svc.State()
	assert.Nil(t, st.BackgroundImage)
	assert.Equal(t, entity.FetchStatusIdle(), st.FetchStatus)

	require.NoError(t, f.svc.SetBackground(entity.EmbeddedBackground([]byte("gif"))))
	require.NoError(t, f.svc.SetBackground(entity.BlankBackground()))
	st = f.svc.State()
	assert.Nil(t, st.BackgroundImage)
	assert.True(t, st.Document.Background.IsBlank())
}

func TestDocumentServiceAutosaveDebounce(t *testing.T) {
	f := newDocumentFixture(t, nil)

	for i := 0; i < 3; i++ {
		_, err := f.svc.AddEmoji("🐶", i*10, 0, 40)
		require.NoError(t, err)
		f.clock.Advance(4 * time.Second)
		f.barrier()
		assert.Equal(t, 0, f.writer.writes(), "write before the window closed")
	}

	f.clock.Advance(time.Second)
	f.barrier()
	assert.Equal(t, 1, f.writer.writes())

	data, found, err := f.store.Read(context.Background(), "Autosave.emojiart")
	require.NoError(t, err)
	require.True(t, found)
	saved, err := mapper.NewDocumentMapper().Decode(data)
	require.NoError(t, err)
	assert.True(t, saved.Equal(f.svc.State().Document))

	// Nothing pending: further time and flushes do not write.
	f.clock.Advance(time.Minute)
	f.barrier()
	require.NoError(t, f.svc.Flush(context.Background()))
	assert.Equal(t, 1, f.writer.writes())
	assert.Equal(t, 0, f.clock.Pending())
}

func TestDocumentServiceWriteFailureIsNotFatal(t *testing.T) {
	f := newDocumentFixture(t, nil)
	f.writer.fail = true

	id, err := f.svc.AddEmoji("🌵", 1, 2, 30)
	require.NoError(t, err)
	f.clock.Advance(5 * time.Second)
	f.barrier()

	assert.Equal(t, 1, f.writer.writes())
	assert.Equal(t, 1, f.logs.FilterMessage("Autosave failed").Len())
	_, ok := f.svc.State().Document.Emoji(id)
	assert.True(t, ok)

	require.NoError(t, f.svc.MoveEmoji(id, 1, 1))
	assert.Equal(t, 3, f.svc.State().Document.Emojis[0].X)
}

func TestDocumentServiceRestore(t *testing.T) {
	store := memory.NewSnapshotRepository()
	doc := entity.NewDocument().
		AddEmoji("🐱", 5, 6, 40).
		AddEmoji("🐭", -5, -6, 20).
		SetBackground(entity.RemoteBackground("https://example.com/cat.png"))
	data, err := mapper.NewDocumentMapper().Encode(doc)
	require.NoError(t, err)
	require.NoError(t, store.Write(context.Background(), "Autosave.emojiart", data))

	f := newDocumentFixture(t, store)

	st := f.svc.State()
	assert.True(t, doc.Equal(st.Document))
	assert.Equal(t, entity.FetchStatusFetching(), st.FetchStatus)

	f.fetcher.waitStarted(t, "https://example.com/cat.png")
	f.fetcher.complete("https://example.com/cat.png", []byte("jpeg"), nil)
	require.Eventually(t, func() bool {
		return f.svc.State().BackgroundImage != nil
	}, 2*time.Second, 5*time.Millisecond)

	// Ids keep counting from the restored counter.
	id, err := f.svc.AddEmoji("🐹", 0, 0, 40)
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestDocumentServiceRestoreMalformed(t *testing.T) {
	store := memory.NewSnapshotRepository()
	require.NoError(t, store.Write(context.Background(), "Autosave.emojiart", []byte("{not json")))

	f := newDocumentFixture(t, store)

	st := f.svc.State()
	assert.True(t, entity.NewDocument().Equal(st.Document))
	assert.Equal(t, entity.FetchStatusIdle(), st.FetchStatus)
	assert.Equal(t, 1, f.logs.FilterMessage("Ignoring malformed autosave").Len())
}

func TestDocumentServiceCloseFlushesPendingSave(t *testing.T) {
	f := newDocumentFixture(t, nil)

	_, err := f.svc.AddEmoji("🎈", 0, 0, 40)
	require.NoError(t, err)
	require.NoError(t, f.svc.Close(context.Background()))
	assert.Equal(t, 1, f.writer.writes())

	_, found, err := f.store.Read(context.Background(), "Autosave.emojiart")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = f.svc.AddEmoji("🎈", 0, 0, 40)
	assert.ErrorIs(t, err, ErrDocumentClosed)
	assert.ErrorIs(t, f.svc.SetBackground(entity.BlankBackground()), ErrDocumentClosed)
	assert.NoError(t, f.svc.Close(context.Background()))

	// The stopped timer never fires a second write.
	f.clock.Advance(time.Minute)
	assert.Equal(t, 1, f.writer.writes())
}

// blockingWriter holds every write until released or its context ends.
type blockingWriter struct {
	entered chan struct{}
	release chan struct{}
}

func (w *blockingWriter) Write(ctx context.Context, key string, data []byte) error {
	w.entered <- struct{}{}
	select {
	case <-w.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDocumentServiceIntentsDoNotWaitForSlowWrites(t *testing.T) {
	w := &blockingWriter{entered: make(chan struct{}, 4), release: make(chan struct{})}
	clk := clock.NewFake(time.Unix(0, 0))
	svc := NewDocumentService(
		context.Background(),
		DocumentServiceConfig{AutosaveInterval: time.Second, SaveTimeout: time.Minute},
		memory.NewSnapshotRepository(),
		w,
		newStubFetcher(),
		stubDecoder{},
		clk,
		logger.NewNopLogger(),
	)

	_, err := svc.AddEmoji("🐢", 0, 0, 40)
	require.NoError(t, err)
	clk.Advance(time.Second)

	select {
	case <-w.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("autosave write never started")
	}

	start := time.Now()
	id, err := svc.AddEmoji("🐇", 10, 10, 40)
	require.NoError(t, err)
	require.NoError(t, svc.MoveEmoji(id, 5, 5))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Len(t, svc.State().Document.Emojis, 2)

	// Close waits for the writes but gives up at its deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Close(ctx), context.DeadlineExceeded)
	close(w.release)
}

func TestDocumentServiceFlushWaitsForWrite(t *testing.T) {
	w := &blockingWriter{entered: make(chan struct{}, 4), release: make(chan struct{})}
	svc := NewDocumentService(
		context.Background(),
		DocumentServiceConfig{AutosaveInterval: time.Second},
		memory.NewSnapshotRepository(),
		w,
		newStubFetcher(),
		stubDecoder{},
		clock.NewFake(time.Unix(0, 0)),
		logger.NewNopLogger(),
	)
	_, err := svc.AddEmoji("🦊", 0, 0, 40)
	require.NoError(t, err)

	flushed := make(chan error, 1)
	go func() { flushed <- svc.Flush(context.Background()) }()

	<-w.entered
	select {
	case <-flushed:
		t.Fatal("flush returned before the write finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(w.release)
	require.NoError(t, <-flushed)
	require.NoError(t, svc.Close(context.Background()))
}

func TestDocumentServiceWatchSeesCurrentThenLaterStates(t *testing.T) {
	f := newDocumentFixture(t, nil)
	_, err := f.svc.AddEmoji("🍎", 0, 0, 40)
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		counts []int
	)
	record := func(st DocumentState) {
		mu.Lock()
		counts = append(counts, len(st.Document.Emojis))
		mu.Unlock()
	}

	const adds = 50
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			_, err := f.svc.AddEmoji("🍐", i, i, 40)
			assert.NoError(t, err)
		}
	}()
	unsubscribe := f.svc.Watch(record)
	defer unsubscribe()
	wg.Wait()
	f.barrier()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, counts)
	for i := 1; i < len(counts); i++ {
		assert.Equal(t, counts[i-1]+1, counts[i], "state %d delivered out of order", i)
	}
	assert.Equal(t, adds+1, counts[len(counts)-1])
}

func TestDocumentServiceWatchAfterClose(t *testing.T) {
	f := newDocumentFixture(t, nil)
	_, err := f.svc.AddEmoji("🍋", 0, 0, 40)
	require.NoError(t, err)
	require.NoError(t, f.svc.Close(context.Background()))

	var got []DocumentState
	unsubscribe := f.svc.Watch(func(st DocumentState) { got = append(got, st) })
	unsubscribe()

	require.Len(t, got, 1)
	assert.Len(t, got[0].Document.Emojis, 1)
}
