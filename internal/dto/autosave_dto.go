package dto

// Published on the in-process autosave queue.
type AutosaveMessage struct {
	Key  string `json:"key"`
	Data []byte `json:"data"`
}
