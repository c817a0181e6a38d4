package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/ok":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Write([]byte(`{"success":true,"code":200,"message":"fine","data":{"id":7}}`))
		case "/api/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"code":404,"message":"not found"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
		}
	}))
	defer srv.Close()

	c := newClient(srv.URL+"/api", "tok")

	data, err := call(c, http.MethodGet, "/ok", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(data))

	_, err = call(c, http.MethodGet, "/missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = call(c, http.MethodGet, "/other", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestBackgroundPayload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(file, []byte{1, 2, 3}, 0o644))

	tests := []struct {
		name    string
		url     string
		file    string
		blank   bool
		want    string
		wantErr bool
	}{
		{name: "url", url: "https://example.com/a.png", want: `{"kind":"url","url":"https://example.com/a.png"}`},
		{name: "file", file: file, want: `{"kind":"image_data","image_data":"AQID"}`},
		{name: "blank", blank: true, want: `{"kind":"blank"}`},
		{name: "none", wantErr: true},
		{name: "two", url: "https://example.com/a.png", blank: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := backgroundPayload(tt.url, tt.file, tt.blank)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			data, err := json.Marshal(payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestPrintPalettes(t *testing.T) {
	var buf bytes.Buffer
	err := printPalettes(&buf, json.RawMessage(`{"name":"Default","palettes":[{"id":9,"name":"Faces","emojis":"😀"}]}`))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Store Default")
	assert.Contains(t, buf.String(), "Faces")
	assert.Contains(t, buf.String(), "😀")
}
