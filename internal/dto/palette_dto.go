package dto

// Persisted palette format.
type PaletteSnapshot struct {
	Name   string `json:"name"`
	Emojis string `json:"emojis"`
	Id     int    `json:"id"`
}

// PaletteSeed is one entry of the default palette set, also read from YAML.
type PaletteSeed struct {
	Name   string `json:"name" yaml:"name"`
	Emojis string `json:"emojis" yaml:"emojis"`
}

type PaletteResponse struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	Emojis string `json:"emojis"`
}

type InsertPaletteRequest struct {
	Name   string `json:"name" validate:"required"`
	Emojis string `json:"emojis"`
	Index  int    `json:"index"`
}

type RemovePaletteResponse struct {
	NextIndex int `json:"next_index"`
}

type UpdatePaletteRequest struct {
	Id   int
	Name string `json:"name" validate:"required"`
}

type AddPaletteEmojisRequest struct {
	Id     int
	Emojis string `json:"emojis" validate:"required"`
}

type RemovePaletteEmojiRequest struct {
	Id    int
	Emoji string `json:"emoji" validate:"required"`
}

type PaletteStoreResponse struct {
	Name     string            `json:"name"`
	Palettes []PaletteResponse `json:"palettes"`
}
