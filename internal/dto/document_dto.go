package dto

// Persisted document format. Field names are stable; next_id may be absent
// in older snapshots.
type DocumentSnapshot struct {
	Background BackgroundSnapshot `json:"background"`
	Emojis     []EmojiSnapshot    `json:"emojis"`
	NextId     *int               `json:"next_id,omitempty"`
}

type BackgroundSnapshot struct {
	Kind      string `json:"kind"`
	URL       string `json:"url,omitempty"`
	ImageData []byte `json:"image_data,omitempty"`
}

type EmojiSnapshot struct {
	Text string `json:"text"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Size int    `json:"size"`
	Id   int    `json:"id"`
}

// Canvas-local viewport used when the client sends screen coordinates.
type ViewportRequest struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	PanX   float64 `json:"pan_x"`
	PanY   float64 `json:"pan_y"`
	Zoom   float64 `json:"zoom" validate:"gt=0"`
}

type AddEmojiRequest struct {
	Text     string           `json:"text" validate:"required"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Size     int              `json:"size" validate:"omitempty,min=1"`
	Viewport *ViewportRequest `json:"viewport" validate:"omitempty"`
}

type AddEmojiResponse struct {
	Id int `json:"id"`
}

type MoveEmojiRequest struct {
	Id int
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

type ScaleEmojiRequest struct {
	Id     int
	Factor float64 `json:"factor" validate:"gt=0"`
}

type SelectionMoveRequest struct {
	Ids []int `json:"ids" validate:"required,min=1"`
	Dx  int   `json:"dx"`
	Dy  int   `json:"dy"`
}

type SelectionScaleRequest struct {
	Ids    []int   `json:"ids" validate:"required,min=1"`
	Factor float64 `json:"factor" validate:"gt=0"`
}

type SelectionDeleteRequest struct {
	Ids []int `json:"ids" validate:"required,min=1"`
}

type SetBackgroundRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=blank url image_data"`
	URL       string `json:"url" validate:"required_if=Kind url,omitempty,url"`
	ImageData []byte `json:"image_data" validate:"required_if=Kind image_data"`
}

type FetchStatusResponse struct {
	State string `json:"state"`
	URL   string `json:"url,omitempty"`
}

type BackgroundImageResponse struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type DocumentStateResponse struct {
	Document        DocumentSnapshot         `json:"document"`
	FetchStatus     FetchStatusResponse      `json:"fetch_status"`
	BackgroundImage *BackgroundImageResponse `json:"background_image"`
}

type ZoomToFitResponse struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}
