package entity

import "bytes"

type BackgroundKind string

const (
	BackgroundBlank     BackgroundKind = "blank"
	BackgroundURL       BackgroundKind = "url"
	BackgroundImageData BackgroundKind = "image_data"
)

// Background is exactly one of blank, a remote URL or embedded image bytes.
// The zero value is blank.
type Background struct {
	kind BackgroundKind
	url  string
	data []byte
}

func BlankBackground() Background {
	return Background{kind: BackgroundBlank}
}

func RemoteBackground(url string) Background {
	return Background{kind: BackgroundURL, url: url}
}

// EmbeddedBackground copies data so later writes by the caller are not seen.
func EmbeddedBackground(data []byte) Background {
	return Background{kind: BackgroundImageData, data: append([]byte(nil), data...)}
}

func (b Background) Kind() BackgroundKind {
	if b.kind == "" {
		return BackgroundBlank
	}
	return b.kind
}

func (b Background) IsBlank() bool {
	return b.Kind() == BackgroundBlank
}

func (b Background) URL() (string, bool) {
	if b.Kind() != BackgroundURL {
		return "", false
	}
	return b.url, true
}

// ImageData returns the embedded bytes. The slice is shared and must not be
// modified.
func (b Background) ImageData() ([]byte, bool) {
	if b.Kind() != BackgroundImageData {
		return nil, false
	}
	return b.data, true
}

// Equal compares variant and payload.
func (b Background) Equal(o Background) bool {
	if b.Kind() != o.Kind() {
		return false
	}
	switch b.Kind() {
	case BackgroundURL:
		return b.url == o.url
	case BackgroundImageData:
		return bytes.Equal(b.data, o.data)
	default:
		return true
	}
}
