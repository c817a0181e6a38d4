package entity

// Emoji is a glyph placed on the document. X and Y are offsets from the
// document origin. Identity is Id alone; the other fields change over time.
type Emoji struct {
	Id   int
	Text string
	X    int
	Y    int
	Size int
}
