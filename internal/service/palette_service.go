package service

import (
	"context"
	"sync"

	"emojiart-be/internal/dto"
	"emojiart-be/internal/entity"
	"emojiart-be/internal/mapper"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/internal/repository/contract"
	"emojiart-be/pkg/emoji"
)

const paletteModule = "PALETTE"

// IPaletteService is a named, ordered, persisted list of palettes. It never
// becomes empty. Every mutation is written through to the store before the
// call returns; a failed write is logged and the in-memory list stays current.
type IPaletteService interface {
	Name() string
	Count() int
	Palettes() []entity.Palette
	PaletteAt(index int) entity.Palette
	Palette(id int) (entity.Palette, bool)

	InsertPalette(ctx context.Context, name, emojis string, index int) entity.Palette
	RemovePalette(ctx context.Context, index int) int
	UpdatePalette(ctx context.Context, id int, name string) (entity.Palette, bool)
	AddEmojis(ctx context.Context, id int, emojis string) (entity.Palette, bool)
	RemoveEmoji(ctx context.Context, id int, emoji string) (entity.Palette, bool)

	Subscribe(fn func([]entity.Palette)) (unsubscribe func())
}

type paletteService struct {
	name   string
	store  contract.SnapshotRepository
	logger logger.ILogger
	mapper *mapper.PaletteMapper
	subs   *subscribers[[]entity.Palette]

	mu       sync.Mutex
	palettes []entity.Palette

	// Taken before mu is released so subscribers see commits in order.
	notifyMu sync.Mutex
}

func PaletteStoreKey(name string) string {
	return "PaletteStore:" + name
}

// NewPaletteService restores the store called name, seeding it when nothing
// usable is stored.
func NewPaletteService(
	ctx context.Context,
	name string,
	store contract.SnapshotRepository,
	seeds []dto.PaletteSeed,
	log logger.ILogger,
) IPaletteService {
	s := &paletteService{
		name:   name,
		store:  store,
		logger: log,
		mapper: mapper.NewPaletteMapper(),
		subs:   newSubscribers[[]entity.Palette](),
	}

	s.palettes = s.restore(ctx)
	if len(s.palettes) == 0 {
		if len(seeds) == 0 {
			seeds = DefaultPaletteSeeds
		}
		for _, seed := range seeds {
			s.insert(seed.Name, seed.Emojis, 0)
		}
		s.persist(ctx)
		s.logger.Info(paletteModule, "Seeded palette store", map[string]interface{}{
			"store": name,
			"count": len(s.palettes),
		})
	}
	return s
}

func (s *paletteService) restore(ctx context.Context) []entity.Palette {
	key := PaletteStoreKey(s.name)
	data, found, err := s.store.Read(ctx, key)
	if err != nil {
		s.logger.Error(paletteModule, "Failed to read palettes", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return nil
	}
	if !found {
		return nil
	}

	palettes, err := s.mapper.Decode(data)
	if err != nil {
		s.logger.Warn(paletteModule, "Ignoring malformed palettes", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return nil
	}
	return palettes
}

// persist runs with mu held (or before the service is shared).
func (s *paletteService) persist(ctx context.Context) {
	key := PaletteStoreKey(s.name)
	data, err := s.mapper.Encode(s.palettes)
	if err == nil {
		err = s.store.Write(ctx, key, data)
	}
	if err != nil {
		s.logger.Error(paletteModule, "Failed to persist palettes", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}

func (s *paletteService) snapshot() []entity.Palette {
	out := make([]entity.Palette, len(s.palettes))
	copy(out, s.palettes)
	return out
}

// commitAndUnlock persists, releases mu and notifies subscribers. Subscribers
// must not mutate the store synchronously.
func (s *paletteService) commitAndUnlock(ctx context.Context) {
	s.persist(ctx)
	snap := s.snapshot()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.subs.notify(snap)
}

func (s *paletteService) Name() string {
	return s.name
}

func (s *paletteService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.palettes)
}

func (s *paletteService) Palettes() []entity.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *paletteService) PaletteAt(index int) entity.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palettes[clamp(index, 0, len(s.palettes)-1)]
}

func (s *paletteService) Palette(id int) (entity.Palette, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.palettes[i], true
	}
	return entity.Palette{}, false
}

func (s *paletteService) InsertPalette(ctx context.Context, name, emojis string, index int) entity.Palette {
	s.mu.Lock()
	p := s.insert(name, emojis, index)
	s.commitAndUnlock(ctx)
	return p
}

func (s *paletteService) insert(name, emojis string, index int) entity.Palette {
	maxId := 0
	for _, p := range s.palettes {
		if p.Id > maxId {
			maxId = p.Id
		}
	}
	p := entity.Palette{
		Id:     maxId + 1,
		Name:   name,
		Emojis: emoji.RemovingDuplicates(emojis),
	}

	at := clamp(index, 0, len(s.palettes))
	s.palettes = append(s.palettes, entity.Palette{})
	copy(s.palettes[at+1:], s.palettes[at:])
	s.palettes[at] = p
	return p
}

// RemovePalette removes the palette at index unless it is the last one or
// index is out of range. It returns the index to select next.
func (s *paletteService) RemovePalette(ctx context.Context, index int) int {
	s.mu.Lock()
	if len(s.palettes) <= 1 || index < 0 || index >= len(s.palettes) {
		n := len(s.palettes)
		s.mu.Unlock()
		return mod(index, n)
	}

	removed := s.palettes[index]
	s.palettes = append(s.palettes[:index], s.palettes[index+1:]...)
	next := mod(index, len(s.palettes))
	s.logger.Info(paletteModule, "Removed palette", map[string]interface{}{
		"id":   removed.Id,
		"name": removed.Name,
	})
	s.commitAndUnlock(ctx)
	return next
}

func (s *paletteService) UpdatePalette(ctx context.Context, id int, name string) (entity.Palette, bool) {
	return s.edit(ctx, id, func(p *entity.Palette) { p.Name = name })
}

// AddEmojis puts new emoji in front of the existing ones, keeping only emoji
// and only the first occurrence of each.
func (s *paletteService) AddEmojis(ctx context.Context, id int, emojis string) (entity.Palette, bool) {
	return s.edit(ctx, id, func(p *entity.Palette) {
		p.Emojis = emoji.RemovingDuplicates(emoji.Filter(emojis + p.Emojis))
	})
}

func (s *paletteService) RemoveEmoji(ctx context.Context, id int, e string) (entity.Palette, bool) {
	return s.edit(ctx, id, func(p *entity.Palette) { p.Emojis = emoji.Remove(p.Emojis, e) })
}

func (s *paletteService) edit(ctx context.Context, id int, change func(*entity.Palette)) (entity.Palette, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return entity.Palette{}, false
	}

	before := s.palettes[i]
	change(&s.palettes[i])
	after := s.palettes[i]
	if after == before {
		s.mu.Unlock()
		return after, true
	}
	s.commitAndUnlock(ctx)
	return after, true
}

func (s *paletteService) indexOf(id int) int {
	for i, p := range s.palettes {
		if p.Id == id {
			return i
		}
	}
	return -1
}

func (s *paletteService) Subscribe(fn func([]entity.Palette)) func() {
	return s.subs.add(fn)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	return ((a % n) + n) % n
}
