package mapper

import (
	"encoding/json"
	"fmt"

	"emojiart-be/internal/dto"
	"emojiart-be/internal/entity"
)

type PaletteMapper struct{}

func NewPaletteMapper() *PaletteMapper {
	return &PaletteMapper{}
}

func (m *PaletteMapper) ToSnapshots(palettes []entity.Palette) []dto.PaletteSnapshot {
	out := make([]dto.PaletteSnapshot, len(palettes))
	for i, p := range palettes {
		out[i] = dto.PaletteSnapshot{Name: p.Name, Emojis: p.Emojis, Id: p.Id}
	}
	return out
}

func (m *PaletteMapper) ToEntities(snapshots []dto.PaletteSnapshot) []entity.Palette {
	out := make([]entity.Palette, len(snapshots))
	for i, s := range snapshots {
		out[i] = entity.Palette{Id: s.Id, Name: s.Name, Emojis: s.Emojis}
	}
	return out
}

func (m *PaletteMapper) ToResponse(p entity.Palette) dto.PaletteResponse {
	return dto.PaletteResponse{Id: p.Id, Name: p.Name, Emojis: p.Emojis}
}

func (m *PaletteMapper) ToResponses(palettes []entity.Palette) []dto.PaletteResponse {
	out := make([]dto.PaletteResponse, len(palettes))
	for i, p := range palettes {
		out[i] = m.ToResponse(p)
	}
	return out
}

func (m *PaletteMapper) Encode(palettes []entity.Palette) ([]byte, error) {
	data, err := json.Marshal(m.ToSnapshots(palettes))
	if err != nil {
		return nil, fmt.Errorf("encode palettes: %w", err)
	}
	return data, nil
}

func (m *PaletteMapper) Decode(data []byte) ([]entity.Palette, error) {
	var snapshots []dto.PaletteSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("%w: decode palettes: %v", entity.ErrPersistenceFailure, err)
	}
	return m.ToEntities(snapshots), nil
}
