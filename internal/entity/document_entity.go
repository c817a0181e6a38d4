package entity

import (
	"fmt"
	"math"
)

// MinEmojiSize is the smallest size scaling can produce.
const MinEmojiSize = 1

const maxEmojiSize = math.MaxInt32

// Document is the emoji art being composed. It is a value: every operation
// returns a new Document and leaves the receiver untouched, so snapshots
// handed to observers never change under them. Emojis is in paint order.
type Document struct {
	Background Background
	Emojis     []Emoji
	NextId     int
}

func NewDocument() Document {
	return Document{Background: BlankBackground()}
}

func (d Document) clone() Document {
	out := d
	out.Emojis = make([]Emoji, len(d.Emojis))
	copy(out.Emojis, d.Emojis)
	return out
}

// Index returns the position of the emoji with id, or -1.
func (d Document) Index(id int) int {
	for i, e := range d.Emojis {
		if e.Id == id {
			return i
		}
	}
	return -1
}

func (d Document) Emoji(id int) (Emoji, bool) {
	if i := d.Index(id); i >= 0 {
		return d.Emojis[i], true
	}
	return Emoji{}, false
}

// AddEmoji appends a new emoji with id NextId+1. Text is not validated.
func (d Document) AddEmoji(text string, x, y, size int) Document {
	out := d.clone()
	out.NextId++
	out.Emojis = append(out.Emojis, Emoji{
		Id:   out.NextId,
		Text: text,
		X:    x,
		Y:    y,
		Size: size,
	})
	return out
}

// RemoveEmoji drops the emoji with id. Absent ids are ignored.
func (d Document) RemoveEmoji(id int) Document {
	return d.RemoveEmojis([]int{id})
}

func (d Document) RemoveEmojis(ids []int) Document {
	drop := idSet(ids)
	out := d.clone()
	kept := out.Emojis[:0]
	for _, e := range out.Emojis {
		if _, ok := drop[e.Id]; !ok {
			kept = append(kept, e)
		}
	}
	out.Emojis = kept
	return out
}

// MoveEmoji offsets the emoji with id by (dx, dy). Absent ids are ignored.
func (d Document) MoveEmoji(id, dx, dy int) Document {
	return d.MoveEmojis([]int{id}, dx, dy)
}

func (d Document) MoveEmojis(ids []int, dx, dy int) Document {
	move := idSet(ids)
	out := d.clone()
	for i := range out.Emojis {
		if _, ok := move[out.Emojis[i].Id]; ok {
			out.Emojis[i].X += dx
			out.Emojis[i].Y += dy
		}
	}
	return out
}

// ScaleEmoji multiplies the emoji size by factor. Absent ids are ignored.
func (d Document) ScaleEmoji(id int, factor float64) Document {
	return d.ScaleEmojis([]int{id}, factor)
}

func (d Document) ScaleEmojis(ids []int, factor float64) Document {
	scale := idSet(ids)
	out := d.clone()
	for i := range out.Emojis {
		if _, ok := scale[out.Emojis[i].Id]; ok {
			out.Emojis[i].Size = ScaledSize(out.Emojis[i].Size, factor)
		}
	}
	return out
}

// SetBackground replaces the background and nothing else.
func (d Document) SetBackground(b Background) Document {
	out := d.clone()
	out.Background = b
	return out
}

// ScaledSize rounds size*factor half away from zero and clamps the result
// to [MinEmojiSize, MaxInt32]. Non-finite factors leave size unchanged.
func ScaledSize(size int, factor float64) int {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return size
	}
	scaled := math.Round(float64(size) * factor)
	if scaled < MinEmojiSize {
		return MinEmojiSize
	}
	if scaled > maxEmojiSize {
		return maxEmojiSize
	}
	return int(scaled)
}

// Equal compares every field, emojis in order.
func (d Document) Equal(o Document) bool {
	if d.NextId != o.NextId || !d.Background.Equal(o.Background) || len(d.Emojis) != len(o.Emojis) {
		return false
	}
	for i := range d.Emojis {
		if d.Emojis[i] != o.Emojis[i] {
			return false
		}
	}
	return true
}

// Validate checks that ids are pairwise distinct and none exceeds NextId.
func (d Document) Validate() error {
	seen := make(map[int]struct{}, len(d.Emojis))
	for _, e := range d.Emojis {
		if _, dup := seen[e.Id]; dup {
			return fmt.Errorf("duplicate emoji id %d", e.Id)
		}
		if e.Id > d.NextId {
			return fmt.Errorf("emoji id %d exceeds next id %d", e.Id, d.NextId)
		}
		seen[e.Id] = struct{}{}
	}
	return nil
}

func idSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
