package mapper

import (
	"encoding/json"
	"fmt"

	"emojiart-be/internal/dto"
	"emojiart-be/internal/entity"
	"emojiart-be/pkg/imaging"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToSnapshot(doc entity.Document) dto.DocumentSnapshot {
	emojis := make([]dto.EmojiSnapshot, len(doc.Emojis))
	for i, e := range doc.Emojis {
		emojis[i] = dto.EmojiSnapshot{
			Text: e.Text,
			X:    e.X,
			Y:    e.Y,
			Size: e.Size,
			Id:   e.Id,
		}
	}
	nextId := doc.NextId

	return dto.DocumentSnapshot{
		Background: m.BackgroundToSnapshot(doc.Background),
		Emojis:     emojis,
		NextId:     &nextId,
	}
}

func (m *DocumentMapper) BackgroundToSnapshot(b entity.Background) dto.BackgroundSnapshot {
	s := dto.BackgroundSnapshot{Kind: string(b.Kind())}
	if url, ok := b.URL(); ok {
		s.URL = url
	}
	if data, ok := b.ImageData(); ok {
		s.ImageData = data
	}
	return s
}

func (m *DocumentMapper) BackgroundToEntity(s dto.BackgroundSnapshot) (entity.Background, error) {
	switch entity.BackgroundKind(s.Kind) {
	case "", entity.BackgroundBlank:
		return entity.BlankBackground(), nil
	// Empty payloads are legal variants and decode as written.
	case entity.BackgroundURL:
		return entity.RemoteBackground(s.URL), nil
	case entity.BackgroundImageData:
		return entity.EmbeddedBackground(s.ImageData), nil
	default:
		return entity.Background{}, fmt.Errorf("unknown background kind %q", s.Kind)
	}
}

// ToEntity rebuilds a Document. A missing next_id, or one behind the
// largest stored id, is raised to that id so new ids never collide.
func (m *DocumentMapper) ToEntity(s dto.DocumentSnapshot) (entity.Document, error) {
	background, err := m.BackgroundToEntity(s.Background)
	if err != nil {
		return entity.Document{}, err
	}

	doc := entity.Document{
		Background: background,
		Emojis:     make([]entity.Emoji, len(s.Emojis)),
	}
	maxId := 0
	for i, e := range s.Emojis {
		doc.Emojis[i] = entity.Emoji{
			Id:   e.Id,
			Text: e.Text,
			X:    e.X,
			Y:    e.Y,
			Size: e.Size,
		}
		if e.Id > maxId {
			maxId = e.Id
		}
	}

	doc.NextId = maxId
	if s.NextId != nil && *s.NextId > maxId {
		doc.NextId = *s.NextId
	}

	if err := doc.Validate(); err != nil {
		return entity.Document{}, err
	}
	return doc, nil
}

func (m *DocumentMapper) Encode(doc entity.Document) ([]byte, error) {
	data, err := json.Marshal(m.ToSnapshot(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func (m *DocumentMapper) Decode(data []byte) (entity.Document, error) {
	var s dto.DocumentSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return entity.Document{}, fmt.Errorf("%w: decode document: %v", entity.ErrPersistenceFailure, err)
	}
	doc, err := m.ToEntity(s)
	if err != nil {
		return entity.Document{}, fmt.Errorf("%w: malformed document: %v", entity.ErrPersistenceFailure, err)
	}
	return doc, nil
}

// ToStateResponse is the wire form of what the document service publishes.
func (m *DocumentMapper) ToStateResponse(doc entity.Document, img *imaging.Image, status entity.BackgroundFetchStatus) dto.DocumentStateResponse {
	res := dto.DocumentStateResponse{
		Document: m.ToSnapshot(doc),
		FetchStatus: dto.FetchStatusResponse{
			State: string(status.State),
			URL:   status.URL,
		},
	}
	if img != nil {
		res.BackgroundImage = &dto.BackgroundImageResponse{
			Format: img.Format,
			Width:  img.Width,
			Height: img.Height,
		}
	}
	return res
}
