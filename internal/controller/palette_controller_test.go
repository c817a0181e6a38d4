package controller

import (
	"net/http"
	"testing"

	"emojiart-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paletteNames(ps []dto.PaletteResponse) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestPaletteList(t *testing.T) {
	f := newAPIFixture(t, "")

	code, body := f.do(t, "GET", "/api/palette/v1", nil)
	require.Equal(t, http.StatusOK, code)
	res := decodeData[dto.PaletteStoreResponse](t, body)
	assert.Equal(t, "Test", res.Name)
	assert.Equal(t, []string{"Weather", "Animals"}, paletteNames(res.Palettes))
}

func TestPaletteAtClamps(t *testing.T) {
	f := newAPIFixture(t, "")

	tests := []struct {
		path string
		want string
	}{
		{"/api/palette/v1/at/0", "Weather"},
		{"/api/palette/v1/at/1", "Animals"},
		{"/api/palette/v1/at/9", "Animals"},
		{"/api/palette/v1/at/-3", "Weather"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := f.do(t, "GET", tt.path, nil)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, decodeData[dto.PaletteResponse](t, body).Name)
		})
	}
}

func TestPaletteCreateAndDelete(t *testing.T) {
	f := newAPIFixture(t, "")

	code, body := f.do(t, "POST", "/api/palette/v1", map[string]interface{}{"name": "Food", "emojis": "🍕🍕🍔", "index": 1})
	require.Equal(t, http.StatusCreated, code)
	p := decodeData[dto.PaletteResponse](t, body)
	assert.Equal(t, 3, p.Id)
	assert.Equal(t, "🍕🍔", p.Emojis)
	assert.Equal(t, []string{"Weather", "Food", "Animals"}, paletteNames(decodeData[dto.PaletteStoreResponse](t, mustGet(t, f, "/api/palette/v1")).Palettes))

	code, _ = f.do(t, "POST", "/api/palette/v1", map[string]interface{}{"emojis": "🍕"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, "DELETE", "/api/palette/v1/at/2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, decodeData[dto.RemovePaletteResponse](t, body).NextIndex)
	assert.Equal(t, 2, f.palettes.Count())

	f.do(t, "DELETE", "/api/palette/v1/at/0", nil)
	code, _ = f.do(t, "DELETE", "/api/palette/v1/at/0", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, f.palettes.Count())
}

func TestPaletteEditing(t *testing.T) {
	f := newAPIFixture(t, "")
	animals := f.palettes.PaletteAt(1)

	code, body := f.do(t, "PUT", "/api/palette/v1/1", map[string]string{"name": "Pets"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Pets", decodeData[dto.PaletteResponse](t, body).Name)

	code, body = f.do(t, "POST", "/api/palette/v1/1/emojis", map[string]string{"emojis": "🐹x🐶"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "🐹🐶🐱", decodeData[dto.PaletteResponse](t, body).Emojis)

	code, body = f.do(t, "DELETE", "/api/palette/v1/1/emojis", map[string]string{"emoji": "🐶"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "🐹🐱", decodeData[dto.PaletteResponse](t, body).Emojis)

	code, _ = f.do(t, "PUT", "/api/palette/v1/42", map[string]string{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, code)

	p, ok := f.palettes.Palette(animals.Id)
	require.True(t, ok)
	assert.Equal(t, "Pets", p.Name)
}

func mustGet(t *testing.T, f *apiFixture, path string) []byte {
	t.Helper()
	code, body := f.do(t, "GET", path, nil)
	require.Equal(t, http.StatusOK, code)
	return body
}
