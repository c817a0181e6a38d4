package service

import (
	"fmt"
	"os"

	"emojiart-be/internal/dto"

	"gopkg.in/yaml.v3"
)

// DefaultPaletteSeeds seed an empty store. Each is inserted at index 0, so
// the last entry ends up first.
var DefaultPaletteSeeds = []dto.PaletteSeed{
	{Name: "Vehicles", Emojis: "🚙🚗🚘🚕🚖🏎🚚🛻🚛🚐🚓🚔🚑🚒🚀✈️🛫🛬🛩🚁🛸🚲🏍🛶⛵️🚤🛥🛳⛴🚢🚂🚝🚅🚆🚊🚉🚇🛺🚜"},
	{Name: "Sports", Emojis: "🏈⚾️🏀⚽️🎾🏐🥏🏓⛳️🥅🥌🏂⛷🎳"},
	{Name: "Music", Emojis: "🎼🎤🎹🪘🥁🎺🪗🪕🎻"},
	{Name: "Animals", Emojis: "🐥🐣🐂🐄🐎🐖🐏🐑🦙🐐🐓🐁🐀🐒🦆🦅🦉🦇🐢🐍🦎🦖🦕🐅🐆🦓🦍🦧🦣🐘🦛🦏🐪🐫🦒🦘🦬🐃🦙🐐🦌🐕🐩🦮🐈🦤🦢🦩🕊🦝🦨🦡🦫🦦🦥🐿🦔"},
	{Name: "Animal Faces", Emojis: "🐵🙈🙊🙉🐶🐱🐭🐹🐰🦊🐻🐼🐻‍❄️🐨🐯🦁🐮🐷🐸🐲"},
	{Name: "Flora", Emojis: "🌲🌴🌿☘️🍀🍁🍄🌾💐🌷🌹🥀🌺🌸🌼🌻"},
	{Name: "Weather", Emojis: "☀️🌤⛅️🌥☁️🌦🌧⛈🌩🌨❄️💨☔️💧💦🌊☂️🌫🌪"},
	{Name: "COVID", Emojis: "💉🦠😷🤧🤒"},
	{Name: "Faces", Emojis: "😀😃😄😁😆😅😂🤣🥲☺️😊😇🙂🙃😉😌😍🥰😘😗😙😚😋😛😝😜🤪🤨🧐🤓😎🥸🤩🥳😏😞😔😟😕🙁☹️😣😖😫😩🥺😢😭😤😠😡🤯😳🥶😥😓🤗🤔🤭🤫🤥😬🙄😯😧🥱😴🤮😷🤧🤒🤠"},
}

type paletteSeedFile struct {
	Palettes []dto.PaletteSeed `yaml:"palettes"`
}

// LoadPaletteSeeds reads seeds from a YAML file of the form
//
//	palettes:
//	  - name: Faces
//	    emojis: "😀😃"
//
// An empty path returns DefaultPaletteSeeds.
func LoadPaletteSeeds(path string) ([]dto.PaletteSeed, error) {
	if path == "" {
		return DefaultPaletteSeeds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette seeds: %w", err)
	}

	var file paletteSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse palette seeds %s: %w", path, err)
	}
	if len(file.Palettes) == 0 {
		return nil, fmt.Errorf("palette seeds %s: no palettes", path)
	}
	for i, s := range file.Palettes {
		if s.Name == "" {
			return nil, fmt.Errorf("palette seeds %s: entry %d has no name", path, i)
		}
	}
	return file.Palettes, nil
}
