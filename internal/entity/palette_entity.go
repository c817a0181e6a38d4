package entity

// Palette is a named run of candidate emoji. Id is the only unique key.
type Palette struct {
	Id     int
	Name   string
	Emojis string
}
